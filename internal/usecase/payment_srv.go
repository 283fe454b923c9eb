package usecase

import (
	"context"
	"fmt"
	"time"

	"estate-booking/internal/data/cache"
	"estate-booking/internal/data/entity"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/dto/request"
	"estate-booking/internal/dto/response"
	"estate-booking/internal/gateway"
	"estate-booking/pkg/utils"

	"go.uber.org/zap"
)

// PaymentService drives the payment state machine:
//
//	Draft -> PaymentPending -> PaymentSucceeded | PaymentCancelled | PaymentFailed
//	Draft -> AwaitingFulfillmentPayment (deferred, no gateway)
//
// Pending state lives in the draft store under the gateway order id; the
// asynchronous gateway callbacks resolve it. Callbacks may fire any number of
// times, so every resolution path is idempotent-safe.
type PaymentService interface {
	InitiateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingInitResponse, error)
	HandlePaymentSuccess(ctx context.Context, req *request.VerifyPaymentRequest) (*response.BookingResponse, error)
	ResolvePaymentOutcome(ctx context.Context, req *request.PaymentOutcomeRequest) error
}

type paymentService struct {
	repo      *repository.Repository
	drafts    cache.DraftStore
	gateway   gateway.Client
	intent    IntentService
	pricing   PricingService
	reconcile ReconcileService
	notify    NotifyService
	config    *utils.BookingConfig
	log       *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	drafts cache.DraftStore,
	gw gateway.Client,
	intent IntentService,
	pricing PricingService,
	reconcile ReconcileService,
	notify NotifyService,
	config *utils.BookingConfig,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:      repo,
		drafts:    drafts,
		gateway:   gw,
		intent:    intent,
		pricing:   pricing,
		reconcile: reconcile,
		notify:    notify,
		config:    config,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingInitResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		verr := NewValidationError()
		for field, msg := range errs {
			verr.Add(field, msg)
		}
		return nil, verr
	}

	draft, err := s.intent.Build(req)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, draft.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s not found", draft.PropertyID.String())
	}
	if property.Status != entity.PropertyStatusActive {
		verr := NewValidationError()
		verr.Add("property_id", "property is not available for booking")
		return nil, verr
	}

	// The authoritative price. Client-declared totals are never consulted.
	pricing, err := s.pricing.Compute(draft, property.RateCard())
	if err != nil {
		return nil, fmt.Errorf("compute pricing: %w", err)
	}

	orderID := utils.GenerateOrderID()

	if draft.PaymentMethod == entity.PaymentMethodDeferred {
		booking, err := s.reconcile.CommitDeferred(ctx, draft, pricing, orderID)
		if err != nil {
			return nil, err
		}

		s.notify.Dispatch(ctx, booking)

		bookingResp := response.BookingToResponse(booking, nil)
		return &response.BookingInitResponse{
			State:   string(entity.BookingStatusConfirmedPendingSettlement),
			OrderID: orderID,
			Pricing: response.PricingToResponse(pricing),
			Booking: &bookingResp,
		}, nil
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, pricing.TotalAmount, pricing.Currency, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	pending := &entity.PendingDraft{
		Draft:          *draft,
		Pricing:        pricing,
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		CreatedAt:      time.Now(),
	}

	if err := s.drafts.Put(ctx, pending, s.pendingTTL()); err != nil {
		return nil, err
	}

	s.log.Info("Booking moved to payment pending",
		zap.String("order_id", orderID),
		zap.String("gateway_order_id", gatewayOrderID),
		zap.String("kind", string(draft.Kind)),
		zap.Int64("total_amount", pricing.TotalAmount),
	)

	return &response.BookingInitResponse{
		State:          "payment_pending",
		OrderID:        orderID,
		GatewayOrderID: gatewayOrderID,
		Pricing:        response.PricingToResponse(pricing),
	}, nil
}

func (s *paymentService) HandlePaymentSuccess(ctx context.Context, req *request.VerifyPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		verr := NewValidationError()
		for field, msg := range errs {
			verr.Add(field, msg)
		}
		return nil, verr
	}

	pending, err := s.drafts.Claim(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	if pending == nil {
		// Either the callback already fired (draft consumed, booking exists)
		// or the session expired. Only the former is a success.
		existing, err := s.repo.Booking.FindByPaymentID(ctx, req.GatewayPaymentID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			attempt, attemptErr := s.repo.Booking.FindPaymentByBookingID(ctx, existing.ID)
			if attemptErr != nil {
				s.log.Debug("Failed to load payment attempt for response",
					zap.Error(attemptErr),
					zap.String("booking_id", existing.ID.String()),
				)
			}
			resp := response.BookingToResponse(existing, attempt)
			return &resp, nil
		}
		return nil, ErrPaymentSessionNotFound
	}

	proof := entity.PaymentProof{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	}

	booking, err := s.reconcile.CommitOnSuccess(ctx, pending, proof)
	if err != nil {
		// A proof that fails verification must not consume the session: a
		// later, correctly signed callback for the same order can still land.
		if isVerificationFailure(err) {
			if putErr := s.drafts.Put(ctx, pending, s.pendingTTL()); putErr != nil {
				s.log.Error("Failed to restore pending draft after rejected proof",
					zap.Error(putErr),
					zap.String("gateway_order_id", req.GatewayOrderID),
				)
			}
		}
		return nil, err
	}

	s.notify.Dispatch(ctx, booking)

	attempt, attemptErr := s.repo.Booking.FindPaymentByBookingID(ctx, booking.ID)
	if attemptErr != nil {
		s.log.Debug("Failed to load payment attempt for response",
			zap.Error(attemptErr),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	resp := response.BookingToResponse(booking, attempt)
	return &resp, nil
}

func (s *paymentService) ResolvePaymentOutcome(ctx context.Context, req *request.PaymentOutcomeRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		verr := NewValidationError()
		for field, msg := range errs {
			verr.Add(field, msg)
		}
		return verr
	}

	pending, err := s.drafts.Claim(ctx, req.GatewayOrderID)
	if err != nil {
		return err
	}
	if pending == nil {
		// Already resolved or expired; dismiss callbacks may repeat.
		s.log.Info("Payment outcome for unknown session ignored",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("outcome", req.Outcome),
		)
		return nil
	}

	// The draft is discarded, never retried automatically. Cancelled and
	// failed are distinct outcomes for observability only.
	switch entity.PaymentOutcome(req.Outcome) {
	case entity.PaymentOutcomeCancelled:
		s.log.Info("Payment cancelled by user, draft discarded",
			zap.String("order_id", pending.OrderID),
			zap.String("gateway_order_id", req.GatewayOrderID),
		)
	case entity.PaymentOutcomeFailed:
		s.log.Warn("Payment failed at gateway, draft discarded",
			zap.String("order_id", pending.OrderID),
			zap.String("gateway_order_id", req.GatewayOrderID),
		)
	}

	return nil
}

func (s *paymentService) pendingTTL() time.Duration {
	minutes := s.config.PendingTTLMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}
