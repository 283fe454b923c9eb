package response

import (
	"time"

	"estate-booking/internal/data/entity"
)

type PricingResponse struct {
	BaseAmount  int64  `json:"base_amount"`
	TaxAmount   int64  `json:"tax_amount"`
	FeeAmount   int64  `json:"fee_amount"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

type PaymentAttemptResponse struct {
	Method           entity.PaymentMethod  `json:"method"`
	GatewayOrderID   *string               `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string               `json:"gateway_payment_id,omitempty"`
	Outcome          entity.PaymentOutcome `json:"outcome"`
}

type BookingResponse struct {
	ID            string                  `json:"id"`
	OrderID       string                  `json:"order_id"`
	Kind          entity.BookingKind      `json:"kind"`
	PropertyID    string                  `json:"property_id"`
	ContactName   string                  `json:"contact_name"`
	ContactEmail  string                  `json:"contact_email,omitempty"`
	ContactPhone  string                  `json:"contact_phone,omitempty"`
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	Units         int                     `json:"units"`
	OccupantCount int                     `json:"occupant_count"`
	OccupantNames []string                `json:"occupant_names,omitempty"`
	Pricing       PricingResponse         `json:"pricing"`
	Status        entity.BookingStatus    `json:"status"`
	Payment       *PaymentAttemptResponse `json:"payment,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// BookingInitResponse is the answer to POST /api/bookings. Either the booking
// was committed immediately (deferred path) or a gateway session is pending.
type BookingInitResponse struct {
	State          string           `json:"state"` // payment_pending | confirmed_pending_settlement
	OrderID        string           `json:"order_id"`
	GatewayOrderID string           `json:"gateway_order_id,omitempty"`
	Pricing        PricingResponse  `json:"pricing"`
	Booking        *BookingResponse `json:"booking,omitempty"`
}

type QuoteResponse struct {
	Kind    entity.BookingKind `json:"kind"`
	Units   int                `json:"units"`
	Pricing PricingResponse    `json:"pricing"`
}

type ReconciliationResponse struct {
	ID               string                      `json:"id"`
	GatewayOrderID   string                      `json:"gateway_order_id"`
	GatewayPaymentID string                      `json:"gateway_payment_id"`
	LastError        string                      `json:"last_error"`
	Status           entity.ReconciliationStatus `json:"status"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// Helper converters

func PricingToResponse(p entity.PricingBreakdown) PricingResponse {
	return PricingResponse{
		BaseAmount:  p.BaseAmount,
		TaxAmount:   p.TaxAmount,
		FeeAmount:   p.FeeAmount,
		TotalAmount: p.TotalAmount,
		Currency:    p.Currency,
	}
}

func BookingToResponse(booking *entity.Booking, attempt *entity.PaymentAttempt) BookingResponse {
	resp := BookingResponse{
		ID:            booking.ID.String(),
		OrderID:       booking.OrderID,
		Kind:          booking.Kind,
		PropertyID:    booking.PropertyID.String(),
		ContactName:   booking.ContactName,
		ContactEmail:  booking.ContactEmail,
		ContactPhone:  booking.ContactPhone,
		StartDate:     booking.StartDate,
		EndDate:       booking.EndDate,
		Units:         booking.Units,
		OccupantCount: booking.OccupantCount,
		OccupantNames: booking.OccupantNames,
		Pricing: PricingResponse{
			BaseAmount:  booking.BaseAmount,
			TaxAmount:   booking.TaxAmount,
			FeeAmount:   booking.FeeAmount,
			TotalAmount: booking.TotalAmount,
			Currency:    booking.Currency,
		},
		Status:    booking.Status,
		CreatedAt: booking.CreatedAt,
	}

	if attempt != nil {
		resp.Payment = &PaymentAttemptResponse{
			Method:           attempt.Method,
			GatewayOrderID:   attempt.GatewayOrderID,
			GatewayPaymentID: attempt.GatewayPaymentID,
			Outcome:          attempt.Outcome,
		}
	}

	return resp
}

func ReconciliationToResponse(rec *entity.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ID:               rec.ID.String(),
		GatewayOrderID:   rec.GatewayOrderID,
		GatewayPaymentID: rec.GatewayPaymentID,
		LastError:        rec.LastError,
		Status:           rec.Status,
		CreatedAt:        rec.CreatedAt,
	}
}
