package usecase

import (
	"estate-booking/internal/data/cache"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/gateway"
	"estate-booking/internal/queue"
	"estate-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Pricing   PricingService
	Intent    IntentService
	Reconcile ReconcileService
	Notify    NotifyService
	Payment   PaymentService
	Booking   BookingService
}

func NewService(
	repo *repository.Repository,
	drafts cache.DraftStore,
	gw gateway.Client,
	enqueuer queue.Enqueuer,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	pricing := NewPricingService()
	intent := NewIntentService(&config.Booking, log)
	reconcile := NewReconcileService(repo, gw, enqueuer, &config.Booking, log)
	notify := NewNotifyService(enqueuer, nil, log)
	payment := NewPaymentService(repo, drafts, gw, intent, pricing, reconcile, notify, &config.Booking, log)
	booking := NewBookingService(repo, pricing, log)

	return &Service{
		Pricing:   pricing,
		Intent:    intent,
		Reconcile: reconcile,
		Notify:    notify,
		Payment:   payment,
		Booking:   booking,
	}
}
