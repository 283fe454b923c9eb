package entity

import (
	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodGateway  PaymentMethod = "gateway"
	PaymentMethodDeferred PaymentMethod = "deferred"
)

type PaymentOutcome string

const (
	PaymentOutcomePending   PaymentOutcome = "pending"
	PaymentOutcomeSucceeded PaymentOutcome = "succeeded"
	PaymentOutcomeCancelled PaymentOutcome = "cancelled"
	PaymentOutcomeFailed    PaymentOutcome = "failed"
)

// PaymentAttempt records what the external gateway told us about a charge.
// GatewayPaymentID is the idempotency key: at most one booking may exist per
// successful payment id.
type PaymentAttempt struct {
	Base
	BookingID        uuid.UUID      `db:"booking_id"`
	Method           PaymentMethod  `db:"method"`
	Amount           int64          `db:"amount"`
	Currency         string         `db:"currency"`
	GatewayOrderID   *string        `db:"gateway_order_id"`
	GatewayPaymentID *string        `db:"gateway_payment_id"`
	Signature        *string        `db:"signature"`
	Outcome          PaymentOutcome `db:"outcome"`
}
