package repository

import (
	"context"
	"fmt"

	"estate-booking/internal/data/entity"
	"estate-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `id, name, city, status, currency, nightly_rate, visit_fee,
	monthly_plan_price, tax_bps, service_fee_bps, created_at, updated_at`

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	var property entity.Property
	err := r.db.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.Name,
		&property.City,
		&property.Status,
		&property.Currency,
		&property.NightlyRate,
		&property.VisitFee,
		&property.MonthlyPlanPrice,
		&property.TaxBps,
		&property.ServiceFeeBps,
		&property.CreatedAt,
		&property.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}

	return &property, nil
}

