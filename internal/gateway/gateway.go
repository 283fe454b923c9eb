package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"estate-booking/pkg/utils"

	"go.uber.org/zap"
)

// Client is the narrow contract with the external payment gateway. Checkout
// itself happens out of process; this side only creates orders and verifies
// the proof that comes back on the callback.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	SignatureRequired() bool
}

type httpClient struct {
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	http          *http.Client
	log           *zap.Logger
}

func NewClient(config utils.GatewayConfig, log *zap.Logger) Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpClient{
		baseURL:       config.BaseURL,
		keyID:         config.KeyID,
		keySecret:     config.KeySecret,
		webhookSecret: config.WebhookSecret,
		http:          &http.Client{Timeout: timeout},
		log:           log.With(zap.String("client", "gateway")),
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

func (c *httpClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Gateway order request failed",
			zap.Error(err),
			zap.String("receipt", receipt),
		)
		return "", fmt.Errorf("gateway unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error("Gateway rejected order",
			zap.Int("status", resp.StatusCode),
			zap.String("receipt", receipt),
		)
		return "", fmt.Errorf("gateway order failed with status %d", resp.StatusCode)
	}

	var orderResp createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if orderResp.ID == "" {
		return "", fmt.Errorf("gateway returned empty order id")
	}

	c.log.Info("Gateway order created",
		zap.String("gateway_order_id", orderResp.ID),
		zap.String("receipt", receipt),
		zap.Int64("amount", amountMinor),
		zap.String("currency", currency),
	)

	return orderResp.ID, nil
}

// VerifySignature checks the HMAC-SHA256 the gateway computes over
// "orderID|paymentID" with the webhook secret.
func (c *httpClient) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if c.webhookSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *httpClient) SignatureRequired() bool {
	return c.webhookSecret != ""
}
