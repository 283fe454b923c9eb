package adaptor

import (
	"estate-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Payment *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Payment, service.Booking, log),
		Payment: NewPaymentHandler(service.Payment, log),
	}
}
