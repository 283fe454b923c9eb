package repository

import (
	"context"
	"errors"
	"fmt"

	"estate-booking/internal/data/entity"
	"estate-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicatePayment means a booking already exists for the gateway payment
// id. The unique index on payment_attempts.gateway_payment_id is the authority;
// callers should re-read via FindByPaymentID and treat the call as idempotent.
var ErrDuplicatePayment = errors.New("booking already exists for payment id")

type BookingRepository interface {
	// Create persists the booking and its payment attempt (if any) in a single
	// transaction, so a booking is never observed half-populated.
	Create(ctx context.Context, booking *entity.Booking, attempt *entity.PaymentAttempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	FindByPaymentID(ctx context.Context, gatewayPaymentID string) (*entity.Booking, error)
	FindByContactEmail(ctx context.Context, email string, limit, offset int) ([]*entity.Booking, error)
	CountByContactEmail(ctx context.Context, email string) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error

	FindPaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, order_id, kind, property_id, contact_name, contact_email, contact_phone,
	start_date, end_date, units, occupant_count, occupant_names,
	base_amount, tax_amount, fee_amount, total_amount, currency, status, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking, attempt *entity.PaymentAttempt) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin booking transaction", zap.Error(err))
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bookingQuery := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = tx.Exec(ctx, bookingQuery,
		booking.ID,
		booking.OrderID,
		booking.Kind,
		booking.PropertyID,
		booking.ContactName,
		booking.ContactEmail,
		booking.ContactPhone,
		booking.StartDate,
		booking.EndDate,
		booking.Units,
		booking.OccupantCount,
		booking.OccupantNames,
		booking.BaseAmount,
		booking.TaxAmount,
		booking.FeeAmount,
		booking.TotalAmount,
		booking.Currency,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePayment
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	if attempt != nil {
		attemptQuery := `
			INSERT INTO payment_attempts (id, booking_id, method, amount, currency,
				gateway_order_id, gateway_payment_id, signature, outcome, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err = tx.Exec(ctx, attemptQuery,
			attempt.ID,
			attempt.BookingID,
			attempt.Method,
			attempt.Amount,
			attempt.Currency,
			attempt.GatewayOrderID,
			attempt.GatewayPaymentID,
			attempt.Signature,
			attempt.Outcome,
			attempt.CreatedAt,
			attempt.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePayment
			}
			r.log.Error("Failed to create payment attempt",
				zap.Error(err),
				zap.String("booking_id", attempt.BookingID.String()),
			)
			return fmt.Errorf("create payment attempt for booking %s: %w", attempt.BookingID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePayment
		}
		r.log.Error("Failed to commit booking transaction",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
		)
		return fmt.Errorf("commit booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE order_id = $1`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		r.log.Error("Failed to find booking by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find booking by order ID %s: %w", orderID, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByPaymentID(ctx context.Context, gatewayPaymentID string) (*entity.Booking, error) {
	query := `
		SELECT b.id, b.order_id, b.kind, b.property_id, b.contact_name, b.contact_email, b.contact_phone,
			b.start_date, b.end_date, b.units, b.occupant_count, b.occupant_names,
			b.base_amount, b.tax_amount, b.fee_amount, b.total_amount, b.currency, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN payment_attempts p ON p.booking_id = b.id
		WHERE p.gateway_payment_id = $1
	`

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, gatewayPaymentID))
	if err != nil {
		r.log.Error("Failed to find booking by payment ID",
			zap.Error(err),
			zap.String("gateway_payment_id", gatewayPaymentID),
		)
		return nil, fmt.Errorf("find booking by payment ID %s: %w", gatewayPaymentID, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByContactEmail(ctx context.Context, email string, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE contact_email = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, email, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by contact email",
			zap.Error(err),
			zap.String("contact_email", email),
		)
		return nil, fmt.Errorf("find bookings by contact email: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := scanBookingRow(rows, &booking); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByContactEmail(ctx context.Context, email string) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE contact_email = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by contact email",
			zap.Error(err),
			zap.String("contact_email", email),
		)
		return 0, fmt.Errorf("count bookings by contact email: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) FindPaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error) {
	query := `
		SELECT id, booking_id, method, amount, currency, gateway_order_id, gateway_payment_id,
			signature, outcome, created_at, updated_at
		FROM payment_attempts
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var attempt entity.PaymentAttempt
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&attempt.ID,
		&attempt.BookingID,
		&attempt.Method,
		&attempt.Amount,
		&attempt.Currency,
		&attempt.GatewayOrderID,
		&attempt.GatewayPaymentID,
		&attempt.Signature,
		&attempt.Outcome,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment by booking ID %s: %w", bookingID.String(), err)
	}

	return &attempt, nil
}

// ==================== HELPERS ====================

func (r *bookingRepository) scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := scanBookingRow(row, &booking)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func scanBookingRow(row pgx.Row, booking *entity.Booking) error {
	return row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.Kind,
		&booking.PropertyID,
		&booking.ContactName,
		&booking.ContactEmail,
		&booking.ContactPhone,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Units,
		&booking.OccupantCount,
		&booking.OccupantNames,
		&booking.BaseAmount,
		&booking.TaxAmount,
		&booking.FeeAmount,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
