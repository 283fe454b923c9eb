package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type paymentMocks struct {
	bookings  *MockBookingRepository
	property  *MockPropertyRepository
	drafts    *MockDraftStore
	gateway   *MockGatewayClient
	reconcile *MockReconcileService
	notify    *MockNotifyService
}

func newPaymentService() (*paymentService, *paymentMocks) {
	m := &paymentMocks{
		bookings:  &MockBookingRepository{},
		property:  &MockPropertyRepository{},
		drafts:    &MockDraftStore{},
		gateway:   &MockGatewayClient{},
		reconcile: &MockReconcileService{},
		notify:    &MockNotifyService{},
	}

	config := testBookingConfig()
	service := &paymentService{
		repo: &repository.Repository{
			Booking:  m.bookings,
			Property: m.property,
		},
		drafts:    m.drafts,
		gateway:   m.gateway,
		intent:    testIntentService(),
		pricing:   NewPricingService(),
		reconcile: m.reconcile,
		notify:    m.notify,
		config:    config,
		log:       zap.NewNop(),
	}
	return service, m
}

func testProperty() *entity.Property {
	return &entity.Property{
		Base:             entity.Base{ID: uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")},
		Name:             "Lakeside Residency",
		City:             "Pune",
		Status:           entity.PropertyStatusActive,
		Currency:         "INR",
		NightlyRate:      50000,
		VisitFee:         1000,
		MonthlyPlanPrice: 200000,
		TaxBps:           1800,
		ServiceFeeBps:    500,
	}
}

func TestPaymentService_InitiateBooking_GatewayPath(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(testProperty(), nil).Once()
	m.gateway.On("CreateOrder", ctx, int64(184500), "INR", mock.AnythingOfType("string")).Return("order_gw_777", nil).Once()
	m.drafts.On("Put", ctx, mock.AnythingOfType("*entity.PendingDraft"), 30*time.Minute).Return(nil).Once()

	resp, err := service.InitiateBooking(ctx, validStayRequest())

	assert.NoError(t, err)
	assert.Equal(t, "payment_pending", resp.State)
	assert.Equal(t, "order_gw_777", resp.GatewayOrderID)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, int64(184500), resp.Pricing.TotalAmount)
	assert.Nil(t, resp.Booking) // nothing durable yet

	m.property.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
	m.drafts.AssertExpectations(t)
	m.reconcile.AssertNotCalled(t, "CommitOnSuccess")
}

func TestPaymentService_InitiateBooking_DeferredPath(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	req := validStayRequest()
	req.PaymentMethod = "deferred"

	committed := &entity.Booking{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: time.Now()},
		OrderID:     "BOOK-20260302-103000-0009",
		Kind:        entity.BookingKindStay,
		PropertyID:  testProperty().ID,
		TotalAmount: 184500,
		Currency:    "INR",
		Status:      entity.BookingStatusConfirmedPendingSettlement,
	}

	m.property.On("FindByID", ctx, testProperty().ID).Return(testProperty(), nil).Once()
	m.reconcile.On("CommitDeferred", ctx, mock.AnythingOfType("*entity.BookingDraft"), mock.AnythingOfType("entity.PricingBreakdown"), mock.AnythingOfType("string")).Return(committed, nil).Once()
	m.notify.On("Dispatch", ctx, committed).Once()

	resp, err := service.InitiateBooking(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusConfirmedPendingSettlement), resp.State)
	assert.NotNil(t, resp.Booking)
	assert.Nil(t, resp.Booking.Payment) // no gateway attempt on pay-later

	m.reconcile.AssertExpectations(t)
	m.notify.AssertExpectations(t)
	m.gateway.AssertNotCalled(t, "CreateOrder")
	m.drafts.AssertNotCalled(t, "Put")
}

func TestPaymentService_InitiateBooking_GatewayDown(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(testProperty(), nil).Once()
	m.gateway.On("CreateOrder", ctx, int64(184500), "INR", mock.Anything).Return("", errors.New("connection refused")).Once()

	resp, err := service.InitiateBooking(ctx, validStayRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// Nothing durable may exist for a session that never opened.
	m.drafts.AssertNotCalled(t, "Put")
	m.reconcile.AssertNotCalled(t, "CommitOnSuccess")
}

func TestPaymentService_InitiateBooking_PropertyNotFound(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(nil, nil).Once()

	resp, err := service.InitiateBooking(ctx, validStayRequest())

	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPaymentService_InitiateBooking_InactiveProperty(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	property := testProperty()
	property.Status = entity.PropertyStatusInactive
	m.property.On("FindByID", ctx, property.ID).Return(property, nil).Once()

	resp, err := service.InitiateBooking(ctx, validStayRequest())

	assert.Nil(t, resp)
	verr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "property_id")
}

func TestPaymentService_HandlePaymentSuccess_CommitsClaimedDraft(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	pending := testPendingDraft()
	committed := &entity.Booking{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: time.Now()},
		OrderID:     pending.OrderID,
		TotalAmount: 184500,
		Currency:    "INR",
		Status:      entity.BookingStatusConfirmed,
	}
	attempt := &entity.PaymentAttempt{
		Base:      entity.Base{ID: uuid.New()},
		BookingID: committed.ID,
		Method:    entity.PaymentMethodGateway,
		Outcome:   entity.PaymentOutcomeSucceeded,
	}

	req := &request.VerifyPaymentRequest{
		GatewayOrderID:   "order_gw_123",
		GatewayPaymentID: "pay_abc",
		Signature:        "valid-signature",
	}

	m.drafts.On("Claim", ctx, "order_gw_123").Return(pending, nil).Once()
	m.reconcile.On("CommitOnSuccess", ctx, pending, entity.PaymentProof{
		GatewayOrderID:   "order_gw_123",
		GatewayPaymentID: "pay_abc",
		Signature:        "valid-signature",
	}).Return(committed, nil).Once()
	m.notify.On("Dispatch", ctx, committed).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, committed.ID).Return(attempt, nil).Once()

	resp, err := service.HandlePaymentSuccess(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, committed.OrderID, resp.OrderID)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.NotNil(t, resp.Payment)

	m.drafts.AssertExpectations(t)
	m.reconcile.AssertExpectations(t)
	m.notify.AssertExpectations(t)
}

func TestPaymentService_HandlePaymentSuccess_DuplicateCallback(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	// Draft already consumed by the first callback; the booking exists.
	existing := &entity.Booking{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: time.Now()},
		OrderID: "BOOK-20260302-103000-0001",
		Status:  entity.BookingStatusConfirmed,
	}

	req := &request.VerifyPaymentRequest{
		GatewayOrderID:   "order_gw_123",
		GatewayPaymentID: "pay_abc",
	}

	m.drafts.On("Claim", ctx, "order_gw_123").Return(nil, nil).Once()
	m.bookings.On("FindByPaymentID", ctx, "pay_abc").Return(existing, nil).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, existing.ID).Return(nil, nil).Once()

	resp, err := service.HandlePaymentSuccess(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, existing.OrderID, resp.OrderID)

	m.reconcile.AssertNotCalled(t, "CommitOnSuccess")
	m.notify.AssertNotCalled(t, "Dispatch")
}

func TestPaymentService_HandlePaymentSuccess_SessionExpired(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	req := &request.VerifyPaymentRequest{
		GatewayOrderID:   "order_gw_stale",
		GatewayPaymentID: "pay_stale",
	}

	m.drafts.On("Claim", ctx, "order_gw_stale").Return(nil, nil).Once()
	m.bookings.On("FindByPaymentID", ctx, "pay_stale").Return(nil, nil).Once()

	resp, err := service.HandlePaymentSuccess(ctx, req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrPaymentSessionNotFound)
}

func TestPaymentService_HandlePaymentSuccess_RejectedProofRestoresDraft(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	pending := testPendingDraft()
	req := &request.VerifyPaymentRequest{
		GatewayOrderID:   "order_gw_123",
		GatewayPaymentID: "pay_abc",
		Signature:        "forged",
	}

	m.drafts.On("Claim", ctx, "order_gw_123").Return(pending, nil).Once()
	m.reconcile.On("CommitOnSuccess", ctx, pending, mock.AnythingOfType("entity.PaymentProof")).
		Return(nil, fmt.Errorf("%w: signature mismatch", ErrPaymentVerificationFailed)).Once()
	m.drafts.On("Put", ctx, pending, 30*time.Minute).Return(nil).Once()

	resp, err := service.HandlePaymentSuccess(ctx, req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

	// The session survives so a correctly signed callback can still land.
	m.drafts.AssertExpectations(t)
	m.notify.AssertNotCalled(t, "Dispatch")
}

func TestPaymentService_ResolvePaymentOutcome_DiscardsDraft(t *testing.T) {
	testCases := []string{"cancelled", "failed"}

	for _, outcome := range testCases {
		t.Run(outcome, func(t *testing.T) {
			service, m := newPaymentService()
			ctx := context.Background()

			m.drafts.On("Claim", ctx, "order_gw_123").Return(testPendingDraft(), nil).Once()

			err := service.ResolvePaymentOutcome(ctx, &request.PaymentOutcomeRequest{
				GatewayOrderID: "order_gw_123",
				Outcome:        outcome,
			})

			assert.NoError(t, err)

			// No booking, no retry: the draft is simply gone.
			m.drafts.AssertExpectations(t)
			m.reconcile.AssertNotCalled(t, "CommitOnSuccess")
			m.reconcile.AssertNotCalled(t, "CommitDeferred")
		})
	}
}

func TestPaymentService_ResolvePaymentOutcome_UnknownSession(t *testing.T) {
	service, m := newPaymentService()
	ctx := context.Background()

	m.drafts.On("Claim", ctx, "order_gw_gone").Return(nil, nil).Once()

	err := service.ResolvePaymentOutcome(ctx, &request.PaymentOutcomeRequest{
		GatewayOrderID: "order_gw_gone",
		Outcome:        "cancelled",
	})

	// Dismiss callbacks repeat; an unknown session is not an error.
	assert.NoError(t, err)
}
