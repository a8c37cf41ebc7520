package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, type, status, currency, description, invoice_date, due_date, paid_date, posted_at,
	total, taxed_subtotal, applied, adjusted, adjusted_total, open_amount,
	pending_applied, pending_open, interest_charged, recalculated_at, created_at, updated_at
`

// scanInvoice reads an invoice row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var typeStr, statusStr string

	a := &inv.Amounts

	if err := s.Scan(
		&inv.ID, &typeStr, &statusStr, &inv.Currency, &inv.Description,
		&inv.InvoiceDate, &inv.DueDate, &inv.PaidDate, &inv.PostedAt,
		&a.Total, &a.TaxedSubtotal, &a.Applied, &a.Adjusted, &a.AdjustedTotal, &a.Open,
		&a.PendingApplied, &a.PendingOpen, &a.InterestCharged,
		&inv.RecalculatedAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Type = invoice.Type(typeStr)
	inv.Status = invoice.Status(statusStr)

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, type, status, currency, description, invoice_date, due_date,
			total, taxed_subtotal, applied, adjusted, adjusted_total, open_amount,
			pending_applied, pending_open, interest_charged, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING created_at
	`

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	a := inv.Amounts

	err := s.db.QueryRowContext(ctx, query,
		inv.ID,
		inv.Type,
		inv.Status,
		inv.Currency,
		inv.Description,
		inv.InvoiceDate,
		inv.DueDate,
		a.Total, a.TaxedSubtotal, a.Applied, a.Adjusted, a.AdjustedTotal, a.Open,
		a.PendingApplied, a.PendingOpen, a.InterestCharged,
	).Scan(&inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

// SaveAmounts overwrites the cached amount columns only.
func (s *Store) SaveAmounts(ctx context.Context, id uuid.UUID, a invoice.Amounts, at time.Time) error {
	query := `
		UPDATE invoices SET
			total = $2, taxed_subtotal = $3, applied = $4, adjusted = $5, adjusted_total = $6,
			open_amount = $7, pending_applied = $8, pending_open = $9, interest_charged = $10,
			recalculated_at = $11
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, id,
		a.Total, a.TaxedSubtotal, a.Applied, a.Adjusted, a.AdjustedTotal,
		a.Open, a.PendingApplied, a.PendingOpen, a.InterestCharged,
		at,
	)
	if err != nil {
		return fmt.Errorf("saving amounts: %w", err)
	}

	return expectOne(res)
}

func (s *Store) SaveStatus(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET status = $2, paid_date = $3, posted_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, inv.ID, inv.Status, inv.PaidDate, inv.PostedAt)
	if err != nil {
		return fmt.Errorf("saving status: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

const selectItemColumns = `
	it.id, it.invoice_id, it.seq, it.type, it.product_id, it.description,
	it.amount, it.quantity, it.parent_invoice_id, it.tags, it.created_at
`

// scanItem reads an item row in selectItemColumns order.
func scanItem(s scanner) (*invoice.LineItem, error) {
	var item invoice.LineItem

	var typeStr string

	var amount, quantity decimal.NullDecimal

	var parent *uuid.UUID

	var tags []byte

	if err := s.Scan(
		&item.ID, &item.InvoiceID, &item.Seq, &typeStr, &item.ProductID, &item.Description,
		&amount, &quantity, &parent, &tags, &item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Type = invoice.ItemType(typeStr)
	item.ParentInvoiceID = parent

	if amount.Valid {
		item.Amount = &amount.Decimal
	}

	if quantity.Valid {
		item.Quantity = &quantity.Decimal
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	}

	return &item, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func encodeTags(tags map[int]string) (string, error) {
	if tags == nil {
		return "{}", nil
	}

	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}

	return string(b), nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*invoice.LineItem, error) {
	query := `SELECT ` + selectItemColumns + ` FROM invoice_items it WHERE it.id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *invoice.LineItem) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return err
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO invoice_items (
			id, invoice_id, seq, type, product_id, description, amount, quantity,
			parent_invoice_id, tags, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, NOW())
		RETURNING created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		item.ID,
		item.InvoiceID,
		item.Seq,
		item.Type,
		item.ProductID,
		item.Description,
		nullDecimal(item.Amount),
		nullDecimal(item.Quantity),
		item.ParentInvoiceID,
		tags,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) UpdateItem(ctx context.Context, item *invoice.LineItem) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoice_items SET
			type = $2, product_id = $3, description = $4, amount = $5, quantity = $6,
			parent_invoice_id = $7, tags = $8::jsonb
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Type,
		item.ProductID,
		item.Description,
		nullDecimal(item.Amount),
		nullDecimal(item.Quantity),
		item.ParentInvoiceID,
		tags,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoice_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return expectOne(res)
}

func (s *Store) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]invoice.LineItem, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM invoice_items it
		WHERE it.invoice_id = $1
		ORDER BY it.seq, it.id`

	return s.queryItems(ctx, query, invoiceID)
}

// RelatedInterestItems returns interest items on other, still live invoices
// that reference invoiceID as their parent.
func (s *Store) RelatedInterestItems(ctx context.Context, invoiceID uuid.UUID) ([]invoice.LineItem, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE it.parent_invoice_id = $1
			AND it.type = 'interest_charge'
			AND i.status NOT IN ('cancelled', 'written_off', 'voided')
		ORDER BY it.invoice_id, it.seq`

	return s.queryItems(ctx, query, invoiceID)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]invoice.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []invoice.LineItem

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}
