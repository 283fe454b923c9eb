package request

// VerifyPaymentRequest is the gateway success callback. The amount is absent
// on purpose: the committed total is always the server-computed one.
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"omitempty"`
}

// PaymentOutcomeRequest resolves a pending gateway session that did not
// succeed: the user dismissed the checkout, or the gateway reported failure.
type PaymentOutcomeRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	Outcome        string `json:"outcome" validate:"required,oneof=cancelled failed"`
}
