package usecase

import (
	"context"
	"fmt"
	"time"

	"estate-booking/internal/data/entity"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/dto/request"
	"estate-booking/internal/dto/response"
	"estate-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService covers the read side plus admin operations. All writes to
// booking state still go through the ledger repository; this service never
// touches payment orchestration.
type BookingService interface {
	GetQuote(ctx context.Context, propertyID string, req *request.QuoteRequest) (*response.QuoteResponse, error)
	GetBookingsByContact(ctx context.Context, email string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetPendingReconciliations(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReconciliationResponse], error)
}

type bookingService struct {
	repo    *repository.Repository
	pricing PricingService
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, pricing PricingService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		pricing: pricing,
		log:     log.With(zap.String("service", "booking")),
	}
}

// GetQuote prices a prospective booking without creating anything. The same
// engine prices the real flow, so a quote can never drift from a charge.
func (s *bookingService) GetQuote(ctx context.Context, propertyID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		verr := NewValidationError()
		for field, msg := range errs {
			verr.Add(field, msg)
		}
		return nil, verr
	}

	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID format %s: %w", propertyID, err)
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s not found", propertyID)
	}

	units, err := quoteUnits(req)
	if err != nil {
		return nil, err
	}

	draft := &entity.BookingDraft{
		Kind:          entity.BookingKind(req.Kind),
		PropertyID:    id,
		Units:         units,
		OccupantCount: req.OccupantCount,
	}

	pricing, err := s.pricing.Compute(draft, property.RateCard())
	if err != nil {
		return nil, fmt.Errorf("compute pricing: %w", err)
	}

	return &response.QuoteResponse{
		Kind:    draft.Kind,
		Units:   units,
		Pricing: response.PricingToResponse(pricing),
	}, nil
}

func (s *bookingService) GetBookingsByContact(ctx context.Context, email string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if email == "" {
		verr := NewValidationError()
		verr.Add("email", "must not be empty")
		return nil, verr
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByContactEmail(ctx, email, limit, offset)
	if err != nil {
		s.log.Error("Failed to get bookings by contact",
			zap.Error(err),
			zap.String("contact_email", email),
		)
		return nil, fmt.Errorf("get bookings by contact: %w", err)
	}

	total, err := s.repo.Booking.CountByContactEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("count bookings by contact: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		attempt, attemptErr := s.repo.Booking.FindPaymentByBookingID(ctx, booking.ID)
		if attemptErr != nil {
			s.log.Debug("Failed to load payment attempt for response",
				zap.Error(attemptErr),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		bookingResponses[i] = response.BookingToResponse(booking, attempt)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

// ==================== ADMIN METHODS ====================

// GetBookingByID accepts either the booking UUID or the human-facing order
// reference (BOOK-...), since support tickets usually quote the latter.
func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	var booking *entity.Booking
	var err error

	if id, parseErr := uuid.Parse(bookingID); parseErr == nil {
		booking, err = s.repo.Booking.FindByID(ctx, id)
	} else {
		booking, err = s.repo.Booking.FindByOrderID(ctx, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

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

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	if !booking.Status.CanTransition(entity.BookingStatusCancelled) {
		return fmt.Errorf("booking status is %s, cannot cancel", booking.Status)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
	)

	return nil
}

func (s *bookingService) GetPendingReconciliations(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReconciliationResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	recs, err := s.repo.Reconciliation.FindPending(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get pending reconciliations: %w", err)
	}

	total, err := s.repo.Reconciliation.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending reconciliations: %w", err)
	}

	recResponses := make([]response.ReconciliationResponse, len(recs))
	for i, rec := range recs {
		recResponses[i] = response.ReconciliationToResponse(rec)
	}

	return response.NewPaginatedResponse(recResponses, req.Page, req.PerPage, total), nil
}

// ==================== HELPERS ====================

func quoteUnits(req *request.QuoteRequest) (int, error) {
	switch entity.BookingKind(req.Kind) {
	case entity.BookingKindStay:
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return 0, invalidQuoteField("start_date", "must be a date in YYYY-MM-DD format")
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return 0, invalidQuoteField("end_date", "must be a date in YYYY-MM-DD format")
		}
		if !end.After(start) {
			return 0, invalidQuoteField("end_date", "must be after start_date")
		}
		return int(end.Sub(start).Hours() / 24), nil

	case entity.BookingKindSubscription:
		if req.Months < 1 {
			return 0, invalidQuoteField("months", "must be at least 1")
		}
		return req.Months, nil

	default:
		return 1, nil
	}
}

func invalidQuoteField(field, message string) error {
	verr := NewValidationError()
	verr.Add(field, message)
	return verr
}
