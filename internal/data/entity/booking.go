package entity

import (
	"github.com/google/uuid"
)

type BookingKind string

const (
	BookingKindVisit        BookingKind = "visit"
	BookingKindStay         BookingKind = "stay"
	BookingKindSubscription BookingKind = "subscription"
)

type BookingStatus string

const (
	// BookingStatusConfirmed means the gateway settled the payment.
	BookingStatusConfirmed BookingStatus = "confirmed"
	// BookingStatusConfirmedPendingSettlement is the deferred ("pay later") path:
	// the booking is durable but money changes hands at fulfillment time.
	BookingStatusConfirmedPendingSettlement BookingStatus = "confirmed_pending_settlement"
	BookingStatusCancelled                  BookingStatus = "cancelled"
)

// CanTransition enforces forward-only status movement. A settled booking never
// goes back, and cancelled is terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusConfirmedPendingSettlement:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	default:
		return false
	}
}

type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	Kind          BookingKind   `db:"kind"`
	PropertyID    uuid.UUID     `db:"property_id"`
	ContactName   string        `db:"contact_name"`
	ContactEmail  string        `db:"contact_email"`
	ContactPhone  string        `db:"contact_phone"`
	StartDate     string        `db:"start_date"` // YYYY-MM-DD
	EndDate       string        `db:"end_date"`
	Units         int           `db:"units"` // nights, months, or 1 for a visit slot
	OccupantCount int           `db:"occupant_count"`
	OccupantNames []string      `db:"occupant_names"`
	BaseAmount    int64         `db:"base_amount"` // minor currency units
	TaxAmount     int64         `db:"tax_amount"`
	FeeAmount     int64         `db:"fee_amount"`
	TotalAmount   int64         `db:"total_amount"`
	Currency      string        `db:"currency"`
	Status        BookingStatus `db:"status"`
}
