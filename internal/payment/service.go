package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *invoice.Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*invoice.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status invoice.PaymentStatus) error
}

// Invoices is the part of the invoice workflow that payments drive.
type Invoices interface {
	Get(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	RecalculateFromPayment(ctx context.Context, paymentID uuid.UUID) error
	CheckPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	invoices Invoices
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(repo Repository, invoices Invoices, opts ...Option) *Service {
	s := &Service{repo: repo, invoices: invoices, logger: slog.Default()}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ApplicationParams struct {
	InvoiceID *uuid.UUID
	Amount    decimal.Decimal
}

type PostParams struct {
	Status        invoice.PaymentStatus
	Amount        decimal.Decimal
	EffectiveDate time.Time
	Reference     string
	Applications  []ApplicationParams
}

// Post records a payment and settles every invoice it is applied to.
func (s *Service) Post(ctx context.Context, params PostParams) (*invoice.Payment, error) {
	if err := s.validate(ctx, params); err != nil {
		return nil, err
	}

	p := &invoice.Payment{
		Status:        params.Status,
		Amount:        params.Amount,
		EffectiveDate: params.EffectiveDate,
		Reference:     params.Reference,
	}

	for _, a := range params.Applications {
		p.Applications = append(p.Applications, invoice.PaymentApplication{
			InvoiceID:     a.InvoiceID,
			AmountApplied: a.Amount,
		})
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	s.logger.Info("payment posted", "payment_id", p.ID, "status", p.Status, "amount", p.Amount)

	if err := s.settle(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) validate(ctx context.Context, params PostParams) error {
	if !params.Status.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", invoice.ErrValidation, params.Status)
	}

	if params.Amount.IsZero() {
		return fmt.Errorf("%w: payment amount must not be zero", invoice.ErrValidation)
	}

	if params.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: effective date is required", invoice.ErrValidation)
	}

	applied := decimal.Zero

	for i, a := range params.Applications {
		if a.Amount.IsZero() {
			return fmt.Errorf("%w: application %d has no amount", invoice.ErrValidation, i)
		}

		applied = applied.Add(a.Amount)

		if a.InvoiceID == nil {
			continue
		}

		if _, err := s.invoices.Get(ctx, *a.InvoiceID); err != nil {
			if errors.Is(err, invoice.ErrNotFound) {
				return fmt.Errorf("%w: invoice %s does not exist", invoice.ErrValidation, *a.InvoiceID)
			}

			return fmt.Errorf("loading invoice %s: %w", *a.InvoiceID, err)
		}
	}

	if applied.Abs().GreaterThan(params.Amount.Abs()) {
		return fmt.Errorf("%w: applications total %s exceeds payment amount %s", invoice.ErrValidation, applied, params.Amount)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*invoice.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// UpdateStatus moves a payment, and with it all its applications, to status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status invoice.PaymentStatus) (*invoice.Payment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", invoice.ErrValidation, status)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment status changed", "payment_id", id, "status", status)

	if err := s.settle(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// settle recalculates the invoices a payment touches and runs the paid
// check on each. invoice.CheckPaid does not guard closed invoices, so
// cancelled, written-off and voided invoices are skipped here.
func (s *Service) settle(ctx context.Context, p *invoice.Payment) error {
	if err := s.invoices.RecalculateFromPayment(ctx, p.ID); err != nil {
		return fmt.Errorf("recalculating invoices of payment %s: %w", p.ID, err)
	}

	for _, id := range p.InvoiceIDs() {
		inv, err := s.invoices.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("loading invoice %s: %w", id, err)
		}

		switch inv.Status {
		case invoice.StatusCancelled, invoice.StatusWrittenOff, invoice.StatusVoided:
			continue
		}

		if _, err := s.invoices.CheckPaid(ctx, id); err != nil {
			return fmt.Errorf("checking invoice %s: %w", id, err)
		}
	}

	return nil
}

type BatchFailure struct {
	Index     int
	Reference string
	Err       error
}

type BatchResult struct {
	Posted []*invoice.Payment
	Failed []BatchFailure
}

// PostBatch posts each payment independently. A failed payment is reported
// and does not stop the rest of the batch.
func (s *Service) PostBatch(ctx context.Context, params []PostParams) (*BatchResult, error) {
	result := &BatchResult{}

	for i, p := range params {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		posted, err := s.Post(ctx, p)
		if err != nil {
			s.logger.Warn("payment in batch failed", "index", i, "reference", p.Reference, "error", err)
			result.Failed = append(result.Failed, BatchFailure{Index: i, Reference: p.Reference, Err: err})

			continue
		}

		result.Posted = append(result.Posted, posted)
	}

	return result, nil
}
