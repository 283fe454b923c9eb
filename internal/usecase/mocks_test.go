package usecase

import (
	"context"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock structures shared by the service tests.

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking, attempt *entity.PaymentAttempt) error {
	args := m.Called(ctx, booking, attempt)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByPaymentID(ctx context.Context, gatewayPaymentID string) (*entity.Booking, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByContactEmail(ctx context.Context, email string, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, email, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByContactEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}

func (m *MockBookingRepository) FindPaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentAttempt), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Property), args.Error(1)
}

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) Create(ctx context.Context, rec *entity.Reconciliation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindPending(ctx context.Context, limit, offset int) ([]*entity.Reconciliation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReconciliationRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Put(ctx context.Context, pending *entity.PendingDraft, ttl time.Duration) error {
	args := m.Called(ctx, pending, ttl)
	return args.Error(0)
}

func (m *MockDraftStore) Claim(ctx context.Context, gatewayOrderID string) (*entity.PendingDraft, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PendingDraft), args.Error(1)
}

type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockGatewayClient) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Bool(0)
}

func (m *MockGatewayClient) SignatureRequired() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueReconcile(ctx context.Context, payload queue.ReconcilePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockEnqueuer) EnqueueNotify(ctx context.Context, payload queue.NotifyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockNotifyService struct {
	mock.Mock
}

func (m *MockNotifyService) Dispatch(ctx context.Context, booking *entity.Booking) {
	m.Called(ctx, booking)
}

func (m *MockNotifyService) Deliver(ctx context.Context, payload queue.NotifyPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) CommitOnSuccess(ctx context.Context, pending *entity.PendingDraft, proof entity.PaymentProof) (*entity.Booking, error) {
	args := m.Called(ctx, pending, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockReconcileService) CommitDeferred(ctx context.Context, draft *entity.BookingDraft, pricing entity.PricingBreakdown, orderID string) (*entity.Booking, error) {
	args := m.Called(ctx, draft, pricing, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockReconcileService) ProcessEscalation(ctx context.Context, payload queue.ReconcilePayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
