package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"estate-booking/internal/dto/request"
	"estate-booking/internal/usecase"
	"estate-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	payment usecase.PaymentService
	booking usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(payment usecase.PaymentService, booking usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		payment: payment,
		booking: booking,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payment.InitiateBooking(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// GetBookings handles GET /api/bookings?email=...
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.booking.GetBookingsByContact(r.Context(), query.Get("email"), req)
	if err != nil {
		h.handleServiceError(w, err, "get bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetQuote handles GET /api/properties/{id}/quote
func (h *BookingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	if propertyID == "" {
		utils.ResponseBadRequest(w, "Property ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.QuoteRequest{
		Kind:          query.Get("kind"),
		StartDate:     query.Get("start_date"),
		EndDate:       query.Get("end_date"),
		Months:        utils.ParseInt(query.Get("months"), 0),
		OccupantCount: utils.ParseInt(query.Get("occupant_count"), 1),
	}

	quote, err := h.booking.GetQuote(r.Context(), propertyID, req)
	if err != nil {
		h.handleServiceError(w, err, "get quote")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// ==================== ADMIN METHODS ====================

// GetBookingByID handles GET /api/admin/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.booking.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/admin/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.booking.CancelBooking(r.Context(), bookingID); err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetReconciliations handles GET /api/admin/reconciliations
func (h *BookingHandler) GetReconciliations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	recs, err := h.booking.GetPendingReconciliations(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get reconciliations")
		return
	}

	utils.ResponseSuccess(w, "success", recs)
}

// handleServiceError maps service errors for booking operations
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrGatewayUnavailable):
		h.log.Error(operation+" failed - gateway unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusBadGateway, false, "Payment gateway unavailable", nil, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
