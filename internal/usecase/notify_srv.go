package usecase

import (
	"context"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/queue"

	"go.uber.org/zap"
)

// NotifyService fans booking confirmations out to the contact. Dispatch runs
// inline with the booking flow and must never fail it; Deliver runs on the
// queue worker and does the actual send.
type NotifyService interface {
	Dispatch(ctx context.Context, booking *entity.Booking)
	Deliver(ctx context.Context, payload queue.NotifyPayload) error
}

// Notifier is the delivery channel (email, SMS, webhook). The default
// implementation just logs; real channels plug in here.
type Notifier interface {
	Send(ctx context.Context, payload queue.NotifyPayload) error
}

type notifyService struct {
	enqueuer queue.Enqueuer
	notifier Notifier
	log      *zap.Logger
}

func NewNotifyService(enqueuer queue.Enqueuer, notifier Notifier, log *zap.Logger) NotifyService {
	svcLog := log.With(zap.String("service", "notify"))
	if notifier == nil {
		notifier = &logNotifier{log: svcLog}
	}
	return &notifyService{
		enqueuer: enqueuer,
		notifier: notifier,
		log:      svcLog,
	}
}

// Dispatch is fire-and-forget: a booking that cannot be announced is still a
// booking, so enqueue failures are logged and swallowed.
func (s *notifyService) Dispatch(ctx context.Context, booking *entity.Booking) {
	payload := queue.NotifyPayload{
		BookingID:    booking.ID.String(),
		OrderID:      booking.OrderID,
		ContactName:  booking.ContactName,
		ContactEmail: booking.ContactEmail,
		ContactPhone: booking.ContactPhone,
		Status:       string(booking.Status),
		TotalAmount:  booking.TotalAmount,
		Currency:     booking.Currency,
	}

	if err := s.enqueuer.EnqueueNotify(ctx, payload); err != nil {
		s.log.Warn("Failed to enqueue booking notification",
			zap.Error(err),
			zap.String("booking_id", payload.BookingID),
			zap.String("order_id", payload.OrderID),
		)
	}
}

func (s *notifyService) Deliver(ctx context.Context, payload queue.NotifyPayload) error {
	if err := s.notifier.Send(ctx, payload); err != nil {
		s.log.Warn("Notification delivery failed",
			zap.Error(err),
			zap.String("booking_id", payload.BookingID),
		)
		return err
	}
	return nil
}

type logNotifier struct {
	log *zap.Logger
}

func (n *logNotifier) Send(_ context.Context, payload queue.NotifyPayload) error {
	n.log.Info("Booking notification",
		zap.String("booking_id", payload.BookingID),
		zap.String("order_id", payload.OrderID),
		zap.String("contact_name", payload.ContactName),
		zap.String("contact_email", payload.ContactEmail),
		zap.String("status", payload.Status),
		zap.Int64("total_amount", payload.TotalAmount),
		zap.String("currency", payload.Currency),
	)
	return nil
}
