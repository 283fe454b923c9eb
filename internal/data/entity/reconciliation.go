package entity

// ReconciliationStatus tracks a payment that was collected but whose booking
// write could not be completed automatically.
type ReconciliationStatus string

const (
	ReconciliationStatusPending  ReconciliationStatus = "pending"
	ReconciliationStatusResolved ReconciliationStatus = "resolved"
)

// Reconciliation is the durable escalation record: money was charged, retries
// were exhausted, and an operator (or the background worker) must make sure a
// booking exists for the payment id.
type Reconciliation struct {
	Base
	GatewayOrderID   string               `db:"gateway_order_id"`
	GatewayPaymentID string               `db:"gateway_payment_id"`
	Payload          []byte               `db:"payload"` // serialized PendingDraft + proof
	LastError        string               `db:"last_error"`
	Status           ReconciliationStatus `db:"status"`
}
