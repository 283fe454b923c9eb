package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/gateway"
	"estate-booking/internal/queue"
	"estate-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconcileService guarantees that a successful charge always ends up with
// exactly one booking. It verifies the gateway's proof, dedups on the external
// payment id, retries the ledger write, and escalates to the durable
// reconciliation queue when retries run out. A collected payment with no
// booking record is the one outcome this service exists to prevent.
type ReconcileService interface {
	CommitOnSuccess(ctx context.Context, pending *entity.PendingDraft, proof entity.PaymentProof) (*entity.Booking, error)
	CommitDeferred(ctx context.Context, draft *entity.BookingDraft, pricing entity.PricingBreakdown, orderID string) (*entity.Booking, error)

	// ProcessEscalation is the queue-worker side: one more commit attempt for
	// an escalated payment, resolving the durable record on success.
	ProcessEscalation(ctx context.Context, payload queue.ReconcilePayload) error
}

type reconcileService struct {
	repo     *repository.Repository
	gateway  gateway.Client
	enqueuer queue.Enqueuer
	config   *utils.BookingConfig
	log      *zap.Logger
}

func NewReconcileService(repo *repository.Repository, gw gateway.Client, enqueuer queue.Enqueuer, config *utils.BookingConfig, log *zap.Logger) ReconcileService {
	return &reconcileService{
		repo:     repo,
		gateway:  gw,
		enqueuer: enqueuer,
		config:   config,
		log:      log.With(zap.String("service", "reconcile")),
	}
}

func (s *reconcileService) CommitOnSuccess(ctx context.Context, pending *entity.PendingDraft, proof entity.PaymentProof) (*entity.Booking, error) {
	if err := s.verifyProof(proof); err != nil {
		return nil, err
	}

	// The external payment id is the idempotency key: a duplicate callback
	// returns the existing booking unchanged.
	existing, err := s.repo.Booking.FindByPaymentID(ctx, proof.GatewayPaymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info("Duplicate payment callback, returning existing booking",
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
			zap.String("booking_id", existing.ID.String()),
		)
		return existing, nil
	}

	booking := buildBooking(&pending.Draft, pending.Pricing, pending.OrderID, entity.BookingStatusConfirmed)
	attempt := buildAttempt(booking, proof)

	committed, err := s.createWithRetry(ctx, booking, attempt, proof.GatewayPaymentID)
	if err == nil {
		s.log.Info("Payment reconciled",
			zap.String("booking_id", committed.ID.String()),
			zap.String("order_id", committed.OrderID),
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
			zap.Int64("total_amount", committed.TotalAmount),
		)
		return committed, nil
	}

	// Money was collected; the failure must survive a process crash, so the
	// escalation is written both as a durable row and as a queue task.
	s.escalate(ctx, pending, proof, err)
	return nil, fmt.Errorf("%w: %v", ErrLedgerWriteFailed, err)
}

func (s *reconcileService) CommitDeferred(ctx context.Context, draft *entity.BookingDraft, pricing entity.PricingBreakdown, orderID string) (*entity.Booking, error) {
	// Pay-later: no gateway involvement, no payment attempt, no proof to
	// verify. A failed write here is a plain error back to the caller since
	// no money has moved yet.
	booking := buildBooking(draft, pricing, orderID, entity.BookingStatusConfirmedPendingSettlement)

	if err := s.repo.Booking.Create(ctx, booking, nil); err != nil {
		return nil, err
	}

	s.log.Info("Deferred booking committed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.Int64("total_amount", booking.TotalAmount),
	)
	return booking, nil
}

func (s *reconcileService) ProcessEscalation(ctx context.Context, payload queue.ReconcilePayload) error {
	existing, err := s.repo.Booking.FindByPaymentID(ctx, payload.Proof.GatewayPaymentID)
	if err != nil {
		return err
	}

	if existing == nil {
		booking := buildBooking(&payload.Pending.Draft, payload.Pending.Pricing, payload.Pending.OrderID, entity.BookingStatusConfirmed)
		attempt := buildAttempt(booking, payload.Proof)

		err := s.repo.Booking.Create(ctx, booking, attempt)
		if err != nil && !errors.Is(err, repository.ErrDuplicatePayment) {
			return err
		}
		if err == nil {
			s.notifyConfirmed(ctx, booking)
		}
	}

	if err := s.repo.Reconciliation.MarkResolved(ctx, payload.ReconciliationID); err != nil {
		// The booking exists; resolution bookkeeping failing is not worth
		// re-running the commit, so log and stop here.
		s.log.Warn("Failed to mark reconciliation resolved",
			zap.Error(err),
			zap.String("reconciliation_id", payload.ReconciliationID.String()),
		)
	}
	return nil
}

// ==================== INTERNAL ====================

func (s *reconcileService) verifyProof(proof entity.PaymentProof) error {
	if proof.GatewayPaymentID == "" {
		return fmt.Errorf("%w: missing payment id", ErrPaymentVerificationFailed)
	}

	// Never confirm on the client's say-so alone: when a webhook secret is
	// configured the signature must be present and valid.
	if s.gateway.SignatureRequired() {
		if proof.Signature == "" {
			return fmt.Errorf("%w: missing signature", ErrPaymentVerificationFailed)
		}
		if !s.gateway.VerifySignature(proof.GatewayOrderID, proof.GatewayPaymentID, proof.Signature) {
			s.log.Warn("Payment signature mismatch",
				zap.String("gateway_order_id", proof.GatewayOrderID),
				zap.String("gateway_payment_id", proof.GatewayPaymentID),
			)
			return fmt.Errorf("%w: signature mismatch", ErrPaymentVerificationFailed)
		}
	}

	return nil
}

func (s *reconcileService) createWithRetry(ctx context.Context, booking *entity.Booking, attempt *entity.PaymentAttempt, gatewayPaymentID string) (*entity.Booking, error) {
	retries := s.config.CommitRetries
	if retries < 1 {
		retries = 1
	}
	backoff := time.Duration(s.config.CommitBackoffMS) * time.Millisecond

	var lastErr error
	for i := 1; i <= retries; i++ {
		err := s.repo.Booking.Create(ctx, booking, attempt)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, repository.ErrDuplicatePayment) {
			// Lost a race with a concurrent callback; the winner's row is
			// the booking for this payment.
			winner, findErr := s.repo.Booking.FindByPaymentID(ctx, gatewayPaymentID)
			if findErr == nil && winner != nil {
				return winner, nil
			}
			// A unique violation with no row under this payment id means the
			// conflict came from somewhere else (or the winner is not visible
			// yet). Keep treating it as a failed attempt so the payment
			// escalates rather than disappearing.
			if findErr != nil {
				err = findErr
			}
		}

		lastErr = err
		s.log.Warn("Ledger write failed, retrying",
			zap.Error(err),
			zap.Int("attempt", i),
			zap.String("gateway_payment_id", gatewayPaymentID),
		)

		if i < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff * time.Duration(i)):
			}
		}
	}

	return nil, lastErr
}

func (s *reconcileService) escalate(ctx context.Context, pending *entity.PendingDraft, proof entity.PaymentProof, cause error) {
	payload := queue.ReconcilePayload{
		ReconciliationID: uuid.New(),
		Pending:          *pending,
		Proof:            proof,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("Failed to serialize reconciliation payload",
			zap.Error(err),
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
		)
		raw = nil
	}

	now := time.Now()
	rec := &entity.Reconciliation{
		Base: entity.Base{
			ID:        payload.ReconciliationID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		GatewayOrderID:   proof.GatewayOrderID,
		GatewayPaymentID: proof.GatewayPaymentID,
		Payload:          raw,
		LastError:        cause.Error(),
		Status:           entity.ReconciliationStatusPending,
	}

	if err := s.repo.Reconciliation.Create(ctx, rec); err != nil {
		s.log.Error("Failed to write reconciliation record",
			zap.Error(err),
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
		)
	}

	if err := s.enqueuer.EnqueueReconcile(ctx, payload); err != nil {
		s.log.Error("Failed to enqueue reconciliation task",
			zap.Error(err),
			zap.String("gateway_payment_id", proof.GatewayPaymentID),
		)
	}
}

func (s *reconcileService) notifyConfirmed(ctx context.Context, booking *entity.Booking) {
	err := s.enqueuer.EnqueueNotify(ctx, queue.NotifyPayload{
		BookingID:    booking.ID.String(),
		OrderID:      booking.OrderID,
		ContactName:  booking.ContactName,
		ContactEmail: booking.ContactEmail,
		ContactPhone: booking.ContactPhone,
		Status:       string(booking.Status),
		TotalAmount:  booking.TotalAmount,
		Currency:     booking.Currency,
	})
	if err != nil {
		s.log.Warn("Failed to enqueue booking notification",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func buildBooking(draft *entity.BookingDraft, pricing entity.PricingBreakdown, orderID string, status entity.BookingStatus) *entity.Booking {
	now := time.Now()
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       orderID,
		Kind:          draft.Kind,
		PropertyID:    draft.PropertyID,
		ContactName:   draft.ContactName,
		ContactEmail:  draft.ContactEmail,
		ContactPhone:  draft.ContactPhone,
		StartDate:     draft.StartDate,
		EndDate:       draft.EndDate,
		Units:         draft.Units,
		OccupantCount: draft.OccupantCount,
		OccupantNames: draft.OccupantNames,
		BaseAmount:    pricing.BaseAmount,
		TaxAmount:     pricing.TaxAmount,
		FeeAmount:     pricing.FeeAmount,
		TotalAmount:   pricing.TotalAmount,
		Currency:      pricing.Currency,
		Status:        status,
	}
}

func buildAttempt(booking *entity.Booking, proof entity.PaymentProof) *entity.PaymentAttempt {
	now := time.Now()
	gatewayOrderID := proof.GatewayOrderID
	gatewayPaymentID := proof.GatewayPaymentID

	attempt := &entity.PaymentAttempt{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:        booking.ID,
		Method:           entity.PaymentMethodGateway,
		Amount:           booking.TotalAmount,
		Currency:         booking.Currency,
		GatewayOrderID:   &gatewayOrderID,
		GatewayPaymentID: &gatewayPaymentID,
		Outcome:          entity.PaymentOutcomeSucceeded,
	}
	if proof.Signature != "" {
		signature := proof.Signature
		attempt.Signature = &signature
	}
	return attempt
}
