package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func (s *Store) CreateAdjustment(ctx context.Context, adj *invoice.Adjustment) error {
	if adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO invoice_adjustments (id, invoice_id, type, amount, effective_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`,
		adj.ID, adj.InvoiceID, adj.Type, adj.Amount, adj.EffectiveDate, adj.Description,
	).Scan(&adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating adjustment: %w", err)
	}

	return nil
}

func (s *Store) ListAdjustments(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Adjustment, error) {
	return s.queryAdjustments(ctx, `
		SELECT id, invoice_id, type, amount, effective_date, description, created_at
		FROM invoice_adjustments
		WHERE invoice_id = $1
		ORDER BY effective_date, created_at`, invoiceID)
}

func (s *Store) AdjustmentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.Adjustment, error) {
	return s.queryAdjustments(ctx, `
		SELECT id, invoice_id, type, amount, effective_date, description, created_at
		FROM invoice_adjustments
		WHERE invoice_id = $1 AND effective_date <= $2
		ORDER BY effective_date, created_at`, invoiceID, asOf)
}

func (s *Store) queryAdjustments(ctx context.Context, query string, args ...any) ([]invoice.Adjustment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing adjustments: %w", err)
	}
	defer rows.Close()

	var adjs []invoice.Adjustment

	for rows.Next() {
		var a invoice.Adjustment

		var typeStr string

		if err := rows.Scan(&a.ID, &a.InvoiceID, &typeStr, &a.Amount, &a.EffectiveDate, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning adjustment: %w", err)
		}

		a.Type = invoice.AdjustmentType(typeStr)
		adjs = append(adjs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating adjustments: %w", err)
	}

	return adjs, nil
}
