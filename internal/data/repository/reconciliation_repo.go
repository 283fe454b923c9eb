package repository

import (
	"context"
	"fmt"

	"estate-booking/internal/data/entity"
	"estate-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReconciliationRepository interface {
	// Create is idempotent on gateway_payment_id: re-escalating the same
	// payment must not produce a second queue entry.
	Create(ctx context.Context, rec *entity.Reconciliation) error
	FindPending(ctx context.Context, limit, offset int) ([]*entity.Reconciliation, error)
	CountPending(ctx context.Context) (int64, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
}

type reconciliationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReconciliationRepository(db database.PgxIface, log *zap.Logger) ReconciliationRepository {
	return &reconciliationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reconciliation")),
	}
}

func (r *reconciliationRepository) Create(ctx context.Context, rec *entity.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (id, gateway_order_id, gateway_payment_id, payload, last_error, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (gateway_payment_id) DO UPDATE
		SET last_error = EXCLUDED.last_error, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.GatewayOrderID,
		rec.GatewayPaymentID,
		rec.Payload,
		rec.LastError,
		rec.Status,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create reconciliation record",
			zap.Error(err),
			zap.String("gateway_payment_id", rec.GatewayPaymentID),
		)
		return fmt.Errorf("create reconciliation for payment %s: %w", rec.GatewayPaymentID, err)
	}

	return nil
}

func (r *reconciliationRepository) FindPending(ctx context.Context, limit, offset int) ([]*entity.Reconciliation, error) {
	query := `
		SELECT id, gateway_order_id, gateway_payment_id, payload, last_error, status, created_at, updated_at
		FROM reconciliations
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find pending reconciliations", zap.Error(err))
		return nil, fmt.Errorf("find pending reconciliations: %w", err)
	}
	defer rows.Close()

	var recs []*entity.Reconciliation
	for rows.Next() {
		var rec entity.Reconciliation
		err := rows.Scan(
			&rec.ID,
			&rec.GatewayOrderID,
			&rec.GatewayPaymentID,
			&rec.Payload,
			&rec.LastError,
			&rec.Status,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reconciliation row", zap.Error(err))
			return nil, fmt.Errorf("scan reconciliation row: %w", err)
		}
		recs = append(recs, &rec)
	}

	return recs, nil
}

func (r *reconciliationRepository) CountPending(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM reconciliations WHERE status = 'pending'`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count pending reconciliations", zap.Error(err))
		return 0, fmt.Errorf("count pending reconciliations: %w", err)
	}

	return count, nil
}

func (r *reconciliationRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reconciliations SET status = 'resolved', updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to resolve reconciliation",
			zap.Error(err),
			zap.String("reconciliation_id", id.String()),
		)
		return fmt.Errorf("resolve reconciliation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reconciliation %s not found", id.String())
	}

	return nil
}
