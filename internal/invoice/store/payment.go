package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

// CreatePayment stores a payment and its applications in one transaction.
func (s *Store) CreatePayment(ctx context.Context, p *invoice.Payment) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO payments (id, status, amount, effective_date, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`,
		p.ID, p.Status, p.Amount, p.EffectiveDate, p.Reference,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO payment_applications (id, payment_id, invoice_id, amount_applied)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("preparing application insert: %w", err)
	}
	defer stmt.Close()

	for i := range p.Applications {
		a := &p.Applications[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}

		a.PaymentID = p.ID
		a.Status = p.Status
		a.EffectiveDate = p.EffectiveDate

		if _, err := stmt.ExecContext(ctx, a.ID, a.PaymentID, a.InvoiceID, a.AmountApplied); err != nil {
			return fmt.Errorf("creating application: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (*invoice.Payment, error) {
	var p invoice.Payment

	var statusStr string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, status, amount, effective_date, reference, created_at
		FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &statusStr, &p.Amount, &p.EffectiveDate, &p.Reference, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	p.Status = invoice.PaymentStatus(statusStr)

	apps, err := s.queryApplications(ctx, `
		SELECT pa.id, pa.payment_id, pa.invoice_id, pa.amount_applied, p.effective_date, p.status
		FROM payment_applications pa
		JOIN payments p ON p.id = pa.payment_id
		WHERE pa.payment_id = $1
		ORDER BY pa.id`, id)
	if err != nil {
		return nil, err
	}

	p.Applications = apps

	return &p, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status invoice.PaymentStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	return expectOne(res)
}

func (s *Store) PaymentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.PaymentApplication, error) {
	return s.applicationsFor(ctx, invoiceID, asOf, `('received', 'sent', 'confirmed')`)
}

func (s *Store) PendingPaymentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.PaymentApplication, error) {
	return s.applicationsFor(ctx, invoiceID, asOf, `('pending')`)
}

// applicationsFor lists the invoice's applications whose payment status is
// in statusList and whose payment is effective on or before asOf.
func (s *Store) applicationsFor(ctx context.Context, invoiceID uuid.UUID, asOf time.Time, statusList string) ([]invoice.PaymentApplication, error) {
	query := `
		SELECT pa.id, pa.payment_id, pa.invoice_id, pa.amount_applied, p.effective_date, p.status
		FROM payment_applications pa
		JOIN payments p ON p.id = pa.payment_id
		WHERE pa.invoice_id = $1
			AND p.effective_date <= $2
			AND p.status IN ` + statusList + `
		ORDER BY p.effective_date, pa.id`

	return s.queryApplications(ctx, query, invoiceID, asOf)
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]invoice.PaymentApplication, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []invoice.PaymentApplication

	for rows.Next() {
		var a invoice.PaymentApplication

		var statusStr string

		if err := rows.Scan(&a.ID, &a.PaymentID, &a.InvoiceID, &a.AmountApplied, &a.EffectiveDate, &statusStr); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}

		a.Status = invoice.PaymentStatus(statusStr)
		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applications: %w", err)
	}

	return apps, nil
}
