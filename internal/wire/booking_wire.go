package wire

import (
	"estate-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Build intent, price, start payment or commit deferred
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings?email= - Booking history for a contact
		r.Get("/", bookingHandler.GetBookings)

		// POST /api/bookings/verify-payment - Gateway success callback
		r.Post("/verify-payment", paymentHandler.VerifyPayment)

		// POST /api/bookings/payment-outcome - Cancelled/failed gateway session
		r.Post("/payment-outcome", paymentHandler.PaymentOutcome)
	})

	// GET /api/properties/{id}/quote - Price preview without booking
	r.Get("/api/properties/{id}/quote", bookingHandler.GetQuote)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		// GET /api/admin/bookings/{id} - View any booking details
		r.Get("/bookings/{id}", bookingHandler.GetBookingByID)

		// PUT /api/admin/bookings/{id}/cancel - Cancel a deferred booking
		r.Put("/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/admin/reconciliations - Payments awaiting manual reconciliation
		r.Get("/reconciliations", bookingHandler.GetReconciliations)
	})
}
