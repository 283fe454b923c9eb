package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"estate-booking/internal/data/entity"
	"estate-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeReconcileCommit = "reconcile:commit"
	TypeBookingNotify   = "notification:booking"

	queueCritical = "critical"
	queueDefault  = "default"
)

// ReconcilePayload carries everything needed to re-attempt a ledger commit for
// a charge that was collected but not yet recorded.
type ReconcilePayload struct {
	ReconciliationID uuid.UUID           `json:"reconciliation_id"`
	Pending          entity.PendingDraft `json:"pending"`
	Proof            entity.PaymentProof `json:"proof"`
}

type NotifyPayload struct {
	BookingID    string `json:"booking_id"`
	OrderID      string `json:"order_id"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Status       string `json:"status"`
	TotalAmount  int64  `json:"total_amount"`
	Currency     string `json:"currency"`
}

type Enqueuer interface {
	EnqueueReconcile(ctx context.Context, payload ReconcilePayload) error
	EnqueueNotify(ctx context.Context, payload NotifyPayload) error
}

type client struct {
	asynq *asynq.Client
	log   *zap.Logger
}

func NewEnqueuer(config utils.RedisConfig, log *zap.Logger) Enqueuer {
	return &client{
		asynq: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.QueueDB,
		}),
		log: log.With(zap.String("queue", "enqueuer")),
	}
}

func (c *client) EnqueueReconcile(ctx context.Context, payload ReconcilePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal reconcile payload: %w", err)
	}

	task := asynq.NewTask(TypeReconcileCommit, data)
	info, err := c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(queueCritical),
		asynq.MaxRetry(20),
		asynq.TaskID("reconcile:"+payload.Proof.GatewayPaymentID), // dedup per payment
	)
	if err != nil {
		// TaskID conflict means this payment is already queued; that is the
		// desired at-most-once escalation.
		if err == asynq.ErrTaskIDConflict {
			c.log.Info("Reconcile task already queued",
				zap.String("gateway_payment_id", payload.Proof.GatewayPaymentID),
			)
			return nil
		}
		c.log.Error("Failed to enqueue reconcile task",
			zap.Error(err),
			zap.String("gateway_payment_id", payload.Proof.GatewayPaymentID),
		)
		return fmt.Errorf("enqueue reconcile task: %w", err)
	}

	c.log.Info("Reconcile task enqueued",
		zap.String("task_id", info.ID),
		zap.String("gateway_payment_id", payload.Proof.GatewayPaymentID),
	)
	return nil
}

func (c *client) EnqueueNotify(ctx context.Context, payload NotifyPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notify payload: %w", err)
	}

	task := asynq.NewTask(TypeBookingNotify, data)
	if _, err := c.asynq.EnqueueContext(ctx, task, asynq.Queue(queueDefault), asynq.MaxRetry(3)); err != nil {
		c.log.Error("Failed to enqueue notification task",
			zap.Error(err),
			zap.String("booking_id", payload.BookingID),
		)
		return fmt.Errorf("enqueue notification task: %w", err)
	}

	return nil
}
