package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingDraft is a validated, unpersisted intent to book. It is immutable once
// built by the intent service and carried as-is through payment orchestration.
type BookingDraft struct {
	Kind          BookingKind   `json:"kind"`
	PropertyID    uuid.UUID     `json:"property_id"`
	ContactName   string        `json:"contact_name"`
	ContactEmail  string        `json:"contact_email"`
	ContactPhone  string        `json:"contact_phone"`
	StartDate     string        `json:"start_date"` // YYYY-MM-DD
	EndDate       string        `json:"end_date"`
	Units         int           `json:"units"`
	OccupantCount int           `json:"occupant_count"`
	OccupantNames []string      `json:"occupant_names"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// PricingBreakdown is computed once, server-side, from a draft and a rate card.
// Total is base + tax + fee and is never re-derived elsewhere.
type PricingBreakdown struct {
	BaseAmount  int64  `json:"base_amount"`
	TaxAmount   int64  `json:"tax_amount"`
	FeeAmount   int64  `json:"fee_amount"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

// PaymentProof is the raw callback evidence forwarded to reconciliation.
// The signature is verified server-side; client-declared amounts are ignored.
type PaymentProof struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// PendingDraft is the in-flight state of a pay-now booking while the gateway
// session is open, cached under the gateway order id until a callback or the
// TTL resolves it.
type PendingDraft struct {
	Draft          BookingDraft     `json:"draft"`
	Pricing        PricingBreakdown `json:"pricing"`
	OrderID        string           `json:"order_id"` // internal receipt
	GatewayOrderID string           `json:"gateway_order_id"`
	CreatedAt      time.Time        `json:"created_at"`
}
