package adjustment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=adjustment
type Repository interface {
	CreateAdjustment(ctx context.Context, adj *invoice.Adjustment) error
	ListAdjustments(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Adjustment, error)
}

// Invoices is the part of the invoice workflow that adjustments drive.
type Invoices interface {
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	Recalculate(ctx context.Context, id uuid.UUID) error
	CheckPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	invoices Invoices
	ledger   invoice.LedgerPoster
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithLedger(l invoice.LedgerPoster) Option {
	return func(s *Service) { s.ledger = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, invoices Invoices, opts ...Option) *Service {
	s := &Service{repo: repo, invoices: invoices, logger: slog.Default(), now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Type          invoice.AdjustmentType
	Amount        decimal.Decimal
	EffectiveDate time.Time // zero means now
	Description   string
}

// Create records an adjustment on a ready invoice. The amount is added to the
// invoice total, so discounts and write-offs are negative. Posted invoices
// get the adjustment forwarded to the ledger before the paid check runs.
func (s *Service) Create(ctx context.Context, invoiceID uuid.UUID, params CreateParams) (*invoice.Adjustment, error) {
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.IsAdjustable(inv.Status) {
		return nil, fmt.Errorf("invoice %s is %s: %w", invoiceID, inv.Status, invoice.ErrNotAdjustable)
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown adjustment type %q", invoice.ErrValidation, params.Type)
	}

	if params.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must not be zero", invoice.ErrValidation)
	}

	adj := &invoice.Adjustment{
		InvoiceID:     invoiceID,
		Type:          params.Type,
		Amount:        params.Amount,
		EffectiveDate: params.EffectiveDate,
		Description:   params.Description,
	}

	if adj.EffectiveDate.IsZero() {
		adj.EffectiveDate = s.now()
	}

	if err := s.repo.CreateAdjustment(ctx, adj); err != nil {
		return nil, fmt.Errorf("creating adjustment: %w", err)
	}

	s.logger.Info("adjustment created", "invoice_id", invoiceID, "type", adj.Type, "amount", adj.Amount)

	if err := s.invoices.Recalculate(ctx, invoiceID); err != nil {
		return nil, err
	}

	if inv.PostedAt != nil && s.ledger != nil {
		posted, err := s.invoices.Get(ctx, invoiceID)
		if err != nil {
			return nil, err
		}

		if err := s.ledger.PostAdjustment(ctx, posted, adj); err != nil {
			s.logger.Error("failed to post adjustment to ledger", "invoice_id", invoiceID, "adjustment_id", adj.ID, "error", err)
			return nil, fmt.Errorf("posting adjustment %s: %w", adj.ID, err)
		}
	}

	// Only ready invoices get here, so the paid check cannot reopen a closed one.
	if _, err := s.invoices.CheckPaid(ctx, invoiceID); err != nil {
		return nil, err
	}

	return adj, nil
}

func (s *Service) List(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Adjustment, error) {
	if _, err := s.invoices.Get(ctx, invoiceID); err != nil {
		return nil, err
	}

	return s.repo.ListAdjustments(ctx, invoiceID)
}
