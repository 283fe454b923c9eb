package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"estate-booking/pkg/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReconcileFunc re-attempts the ledger commit for an escalated payment.
// Returning an error makes asynq retry with its default backoff.
type ReconcileFunc func(ctx context.Context, payload ReconcilePayload) error

// NotifyFunc delivers a best-effort booking notification.
type NotifyFunc func(ctx context.Context, payload NotifyPayload) error

type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log *zap.Logger
}

func NewWorker(config utils.RedisConfig, reconcile ReconcileFunc, notify NotifyFunc, log *zap.Logger) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.QueueDB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				queueCritical: 6,
				queueDefault:  3,
			},
		},
	)

	workerLog := log.With(zap.String("queue", "worker"))

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileCommit, handleReconcileTask(reconcile, workerLog))
	mux.HandleFunc(TypeBookingNotify, handleNotifyTask(notify, workerLog))

	return &Worker{
		srv: srv,
		mux: mux,
		log: workerLog,
	}
}

// Start runs the worker in the background.
func (w *Worker) Start() {
	go func() {
		w.log.Info("Starting queue worker")
		if err := w.srv.Run(w.mux); err != nil {
			w.log.Error("Queue worker stopped", zap.Error(err))
		}
	}()
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleReconcileTask(reconcile ReconcileFunc, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error("Invalid reconcile payload", zap.Error(err))
			return fmt.Errorf("unmarshal reconcile payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := reconcile(ctx, payload); err != nil {
			log.Error("Reconcile attempt failed, will retry",
				zap.Error(err),
				zap.String("gateway_payment_id", payload.Proof.GatewayPaymentID),
			)
			return err
		}

		log.Info("Escalated payment reconciled",
			zap.String("gateway_payment_id", payload.Proof.GatewayPaymentID),
		)
		return nil
	}
}

func handleNotifyTask(notify NotifyFunc, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload NotifyPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error("Invalid notification payload", zap.Error(err))
			return fmt.Errorf("unmarshal notification payload: %v: %w", err, asynq.SkipRetry)
		}

		// Notification failures never affect booking outcome; the handler
		// logs and lets asynq retry a few times.
		return notify(ctx, payload)
	}
}
