package usecase

import (
	"context"
	"errors"
	"testing"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type bookingMocks struct {
	bookings *MockBookingRepository
	property *MockPropertyRepository
	recs     *MockReconciliationRepository
}

func newBookingService() (BookingService, *bookingMocks) {
	m := &bookingMocks{
		bookings: &MockBookingRepository{},
		property: &MockPropertyRepository{},
		recs:     &MockReconciliationRepository{},
	}

	repo := &repository.Repository{
		Booking:        m.bookings,
		Property:       m.property,
		Reconciliation: m.recs,
	}
	return NewBookingService(repo, NewPricingService(), zap.NewNop()), m
}

func TestBookingService_GetQuote_Stay(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(testProperty(), nil).Once()

	quote, err := service.GetQuote(ctx, testProperty().ID.String(), &request.QuoteRequest{
		Kind:          "stay",
		StartDate:     "2026-03-10",
		EndDate:       "2026-03-13",
		OccupantCount: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, quote.Units)
	assert.Equal(t, int64(184500), quote.Pricing.TotalAmount)
	assert.Equal(t, "INR", quote.Pricing.Currency)
}

func TestBookingService_GetQuote_InvalidWindow(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(testProperty(), nil).Once()

	quote, err := service.GetQuote(ctx, testProperty().ID.String(), &request.QuoteRequest{
		Kind:          "stay",
		StartDate:     "2026-03-13",
		EndDate:       "2026-03-10",
		OccupantCount: 2,
	})

	assert.Nil(t, quote)
	verr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "end_date")
}

func TestBookingService_GetQuote_PropertyNotFound(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	m.property.On("FindByID", ctx, testProperty().ID).Return(nil, nil).Once()

	quote, err := service.GetQuote(ctx, testProperty().ID.String(), &request.QuoteRequest{
		Kind:          "visit",
		StartDate:     "2026-03-06",
		OccupantCount: 1,
	})

	assert.Nil(t, quote)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBookingService_CancelBooking_Deferred(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	booking := &entity.Booking{
		Base:    entity.Base{ID: uuid.New()},
		OrderID: "BOOK-20260302-103000-0003",
		Status:  entity.BookingStatusConfirmedPendingSettlement,
	}

	m.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()
	m.bookings.On("UpdateStatus", ctx, booking.ID, entity.BookingStatusCancelled).Return(nil).Once()

	err := service.CancelBooking(ctx, booking.ID.String())

	assert.NoError(t, err)
	m.bookings.AssertExpectations(t)
}

func TestBookingService_CancelBooking_SettledBookingRejected(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	booking := &entity.Booking{
		Base:   entity.Base{ID: uuid.New()},
		Status: entity.BookingStatusConfirmed, // money already settled
	}

	m.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()

	err := service.CancelBooking(ctx, booking.ID.String())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cancel")
	m.bookings.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_GetBookingByID_ByOrderReference(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	booking := &entity.Booking{
		Base:    entity.Base{ID: uuid.New()},
		OrderID: "BOOK-20260302-103000-0001",
		Status:  entity.BookingStatusConfirmed,
	}

	m.bookings.On("FindByOrderID", ctx, booking.OrderID).Return(booking, nil).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, booking.ID).Return(nil, nil).Once()

	resp, err := service.GetBookingByID(ctx, booking.OrderID)

	assert.NoError(t, err)
	assert.Equal(t, booking.OrderID, resp.OrderID)
	m.bookings.AssertNotCalled(t, "FindByID")
}

func TestBookingService_GetBookingByID_AttemptLookupFailureIsBestEffort(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	booking := &entity.Booking{
		Base:    entity.Base{ID: uuid.New()},
		OrderID: "BOOK-20260302-103000-0001",
		Status:  entity.BookingStatusConfirmed,
	}

	m.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, booking.ID).Return(nil, errors.New("connection reset")).Once()

	resp, err := service.GetBookingByID(ctx, booking.ID.String())

	// Payment details only enrich the response; the booking still comes back.
	assert.NoError(t, err)
	assert.Equal(t, booking.OrderID, resp.OrderID)
	assert.Nil(t, resp.Payment)
}

func TestBookingService_GetBookingByID_NotFound(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	id := uuid.New()
	m.bookings.On("FindByID", ctx, id).Return(nil, nil).Once()

	booking, err := service.GetBookingByID(ctx, id.String())

	assert.Nil(t, booking)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBookingService_GetBookingsByContact(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	bookings := []*entity.Booking{
		{Base: entity.Base{ID: uuid.New()}, OrderID: "BOOK-1", Status: entity.BookingStatusConfirmed},
		{Base: entity.Base{ID: uuid.New()}, OrderID: "BOOK-2", Status: entity.BookingStatusCancelled},
	}

	m.bookings.On("FindByContactEmail", ctx, "rahul@example.com", 10, 0).Return(bookings, nil).Once()
	m.bookings.On("CountByContactEmail", ctx, "rahul@example.com").Return(int64(2), nil).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, bookings[0].ID).Return(nil, nil).Once()
	m.bookings.On("FindPaymentByBookingID", ctx, bookings[1].ID).Return(nil, nil).Once()

	resp, err := service.GetBookingsByContact(ctx, "rahul@example.com", &request.PaginatedRequest{Page: 1, PerPage: 10})

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
}

func TestBookingService_GetPendingReconciliations(t *testing.T) {
	service, m := newBookingService()
	ctx := context.Background()

	recs := []*entity.Reconciliation{
		{
			Base:             entity.Base{ID: uuid.New()},
			GatewayOrderID:   "order_gw_123",
			GatewayPaymentID: "pay_abc",
			LastError:        "database down",
			Status:           entity.ReconciliationStatusPending,
		},
	}

	m.recs.On("FindPending", ctx, 10, 0).Return(recs, nil).Once()
	m.recs.On("CountPending", ctx).Return(int64(1), nil).Once()

	resp, err := service.GetPendingReconciliations(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10})

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "pay_abc", resp.Data[0].GatewayPaymentID)
}
