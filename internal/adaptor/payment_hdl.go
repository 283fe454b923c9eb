package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"estate-booking/internal/dto/request"
	"estate-booking/internal/usecase"
	"estate-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// VerifyPayment handles POST /api/bookings/verify-payment, the gateway success
// callback. Safe to call repeatedly with the same payment id.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.HandlePaymentSuccess(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// PaymentOutcome handles POST /api/bookings/payment-outcome for cancelled and
// failed gateway sessions.
func (h *PaymentHandler) PaymentOutcome(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ResolvePaymentOutcome(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "resolve payment outcome")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// handleServiceError maps service errors for payment operations
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrPaymentSessionNotFound):
		h.log.Warn(operation+" failed - session not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrPaymentVerificationFailed):
		h.log.Warn(operation+" failed - verification rejected",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrLedgerWriteFailed):
		// Money moved but the booking write did not land; the durable
		// reconciliation record already exists. 500 tells the gateway to retry.
		h.log.Error(operation+" failed - ledger write escalated",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Payment received, booking confirmation is delayed")

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
