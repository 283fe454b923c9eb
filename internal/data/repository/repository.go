package repository

import (
	"estate-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Property       PropertyRepository
	Booking        BookingRepository
	Reconciliation ReconciliationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Property:       NewPropertyRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		Reconciliation: NewReconciliationRepository(db, log),
	}
}
