package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Lookup interface {
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]LineItem, error)
	PaymentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]PaymentApplication, error)
	PendingPaymentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]PaymentApplication, error)
	AdjustmentsApplied(ctx context.Context, invoiceID uuid.UUID, asOf time.Time) ([]Adjustment, error)
	RelatedInterestItems(ctx context.Context, invoiceID uuid.UUID) ([]LineItem, error)
}

type Repository interface {
	Lookup

	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	SaveAmounts(ctx context.Context, id uuid.UUID, amounts Amounts, at time.Time) error
	SaveStatus(ctx context.Context, inv *Invoice) error

	GetItem(ctx context.Context, id uuid.UUID) (*LineItem, error)
	CreateItem(ctx context.Context, item *LineItem) error
	UpdateItem(ctx context.Context, item *LineItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	GetPayment(ctx context.Context, id uuid.UUID) (*Payment, error)
}

// LedgerPoster forwards posted documents to the general ledger.
type LedgerPoster interface {
	PostInvoice(ctx context.Context, inv *Invoice) error
	PostAdjustment(ctx context.Context, inv *Invoice, adj *Adjustment) error
}

// PriceLookup resolves the default unit price of a product. It returns
// ErrNotFound when the product has no price in the currency.
type PriceLookup interface {
	DefaultPrice(ctx context.Context, productID, currency string) (decimal.Decimal, error)
}

type Service struct {
	repo     Repository
	rounding money.Table
	logger   *slog.Logger
	now      func() time.Time
	ledger   LedgerPoster
	prices   PriceLookup
	tags     TagPolicy
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLedger(l LedgerPoster) Option {
	return func(s *Service) { s.ledger = l }
}

func WithPriceLookup(p PriceLookup) Option {
	return func(s *Service) { s.prices = p }
}

func WithTagPolicy(p TagPolicy) Option {
	return func(s *Service) { s.tags = p }
}

func NewService(repo Repository, rounding money.Table, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		rounding: rounding,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Rounding returns the rounding that applies to currency.
func (s *Service) Rounding(currency string) money.Rounding {
	return s.rounding.For(currency)
}

// Ledger returns the configured ledger poster, or nil.
func (s *Service) Ledger() LedgerPoster {
	return s.ledger
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

type CreateParams struct {
	Type        Type
	Currency    string
	Description string
	InvoiceDate time.Time
	DueDate     *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if !params.Type.Valid() {
		return nil, validationf("unknown invoice type %q", params.Type)
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if len(currency) != 3 {
		return nil, validationf("currency must be a three-letter code, got %q", params.Currency)
	}

	if params.InvoiceDate.IsZero() {
		return nil, validationf("invoice date is required")
	}

	if params.DueDate != nil && params.DueDate.Before(params.InvoiceDate) {
		return nil, validationf("due date is before invoice date")
	}

	inv := &Invoice{
		ID:          uuid.New(),
		Type:        params.Type,
		Status:      StatusInProcess,
		Currency:    currency,
		Description: params.Description,
		InvoiceDate: params.InvoiceDate,
		DueDate:     params.DueDate,
		Amounts:     zeroAmounts(s.rounding.For(currency)),
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	s.logger.Info("invoice created", "invoice_id", inv.ID, "type", inv.Type, "currency", inv.Currency)

	return inv, nil
}

func zeroAmounts(r money.Rounding) Amounts {
	z := r.Standard.Round(decimal.Zero)

	return Amounts{
		Total:           z,
		TaxedSubtotal:   r.Tax.Round(decimal.Zero),
		Applied:         z,
		Adjusted:        z,
		AdjustedTotal:   z,
		Open:            z,
		PendingApplied:  z,
		PendingOpen:     z,
		InterestCharged: z,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// Items returns the invoice's items ordered by sequence.
func (s *Service) Items(ctx context.Context, id uuid.UUID) ([]LineItem, error) {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.ListItems(ctx, id)
}

// Balances derives the amounts of an invoice as of asOf without persisting them.
func (s *Service) Balances(ctx context.Context, id uuid.UUID, asOf time.Time) (Amounts, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return Amounts{}, err
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return Amounts{}, &ComputationError{InvoiceID: id, Op: "list items", Err: err}
	}

	a, err := Derive(ctx, s.repo, inv, items, asOf, s.now(), s.rounding.For(inv.Currency))
	if err != nil {
		return Amounts{}, &ComputationError{InvoiceID: id, Op: "derive", Err: err}
	}

	return a, nil
}

type ItemParams struct {
	Type            ItemType
	ProductID       string
	Description     string
	Amount          *decimal.Decimal
	Quantity        *decimal.Decimal
	ParentInvoiceID *uuid.UUID
	Tags            map[int]string
}

func (s *Service) AddItem(ctx context.Context, invoiceID uuid.UUID, params ItemParams) (*LineItem, error) {
	inv, err := s.modifiable(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.validateItem(ctx, inv, params); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	seq := 1
	for _, it := range items {
		if it.Seq >= seq {
			seq = it.Seq + 1
		}
	}

	item := &LineItem{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Seq:       seq,
		CreatedAt: s.now(),
	}
	applyItemParams(item, params)

	if err := s.defaultPrice(ctx, inv, item); err != nil {
		return nil, err
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if err := s.Recalculate(ctx, invoiceID); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, invoiceID, itemID uuid.UUID, params ItemParams) (*LineItem, error) {
	inv, err := s.modifiable(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	item, err := s.ownItem(ctx, invoiceID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.validateItem(ctx, inv, params); err != nil {
		return nil, err
	}

	previousParent := item.ParentInvoiceID

	applyItemParams(item, params)

	if err := s.defaultPrice(ctx, inv, item); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	if err := s.Recalculate(ctx, invoiceID); err != nil {
		return nil, err
	}

	// The old parent no longer sees this item and must be refreshed too.
	if previousParent != nil && (item.ParentInvoiceID == nil || *item.ParentInvoiceID != *previousParent) {
		if err := s.Recalculate(ctx, *previousParent); err != nil {
			return nil, err
		}
	}

	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, invoiceID, itemID uuid.UUID) error {
	if _, err := s.modifiable(ctx, invoiceID); err != nil {
		return err
	}

	item, err := s.ownItem(ctx, invoiceID, itemID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := s.Recalculate(ctx, invoiceID); err != nil {
		return err
	}

	if item.ParentInvoiceID != nil {
		return s.Recalculate(ctx, *item.ParentInvoiceID)
	}

	return nil
}

func (s *Service) modifiable(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !IsModifiable(inv.Status) {
		return nil, fmt.Errorf("invoice %s is %s: %w", id, inv.Status, ErrNotModifiable)
	}

	return inv, nil
}

func (s *Service) ownItem(ctx context.Context, invoiceID, itemID uuid.UUID) (*LineItem, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.InvoiceID != invoiceID {
		return nil, fmt.Errorf("item %s on invoice %s: %w", itemID, invoiceID, ErrNotFound)
	}

	return item, nil
}

func (s *Service) validateItem(ctx context.Context, inv *Invoice, params ItemParams) error {
	if !params.Type.Valid() {
		return validationf("unknown item type %q", params.Type)
	}

	if params.Quantity != nil && params.Quantity.IsNegative() {
		return validationf("quantity must not be negative")
	}

	for idx := range params.Tags {
		if idx < 1 || idx > MaxTagIndex {
			return validationf("tag index %d out of range 1..%d", idx, MaxTagIndex)
		}
	}

	if params.ParentInvoiceID == nil {
		return nil
	}

	if *params.ParentInvoiceID == inv.ID {
		return validationf("an item cannot reference its own invoice as parent")
	}

	if _, err := s.repo.GetInvoice(ctx, *params.ParentInvoiceID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return validationf("parent invoice %s does not exist", *params.ParentInvoiceID)
		}

		return fmt.Errorf("loading parent invoice: %w", err)
	}

	return nil
}

func applyItemParams(item *LineItem, params ItemParams) {
	item.Type = params.Type
	item.ProductID = params.ProductID
	item.Description = params.Description
	item.Amount = params.Amount
	item.Quantity = params.Quantity
	item.ParentInvoiceID = params.ParentInvoiceID
	item.Tags = params.Tags
}

func (s *Service) defaultPrice(ctx context.Context, inv *Invoice, item *LineItem) error {
	if item.Amount != nil || item.ProductID == "" || s.prices == nil {
		return nil
	}

	price, err := s.prices.DefaultPrice(ctx, item.ProductID, inv.Currency)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("looking up price of %s: %w", item.ProductID, err)
	}

	item.Amount = &price

	return nil
}

// MarkReady finalizes an in-process invoice. Accounting tags are checked
// first, the invoice is posted to the ledger when one is configured, and a
// fully settled invoice moves straight on to paid. The ready status is only
// stored once the ledger accepted the invoice, so a failed post leaves it in
// process and the call can be retried.
func (s *Service) MarkReady(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(inv.Status, StatusReady) {
		return nil, fmt.Errorf("%s to %s: %w", inv.Status, StatusReady, ErrInvalidTransition)
	}

	if !s.tags.IsZero() {
		items, err := s.repo.ListItems(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("listing items: %w", err)
		}

		if err := ValidateAccountingTags(inv, items, s.tags); err != nil {
			return nil, err
		}
	}

	if err := s.Recalculate(ctx, id); err != nil {
		return nil, err
	}

	inv, err = s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	from := inv.Status
	inv.Status = StatusReady

	if s.ledger != nil {
		if err := s.ledger.PostInvoice(ctx, inv); err != nil {
			s.logger.Error("failed to post invoice to ledger", "invoice_id", id, "error", err)
			return nil, fmt.Errorf("posting invoice %s: %w", id, err)
		}

		inv.PostedAt = new(s.now())
	}

	inv.UpdatedAt = new(s.now())

	if err := s.repo.SaveStatus(ctx, inv); err != nil {
		return nil, fmt.Errorf("saving status: %w", err)
	}

	s.logger.Info("invoice status changed", "invoice_id", id, "from", from, "to", StatusReady, "posted", inv.PostedAt != nil)

	if _, err := s.checkPaid(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, id, StatusCancelled, nil)
}

// Void reverses a ready invoice that has not received any money.
func (s *Service) Void(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, id, StatusVoided, func(inv *Invoice) error {
		apps, err := s.repo.PaymentsApplied(ctx, inv.ID, s.now())
		if err != nil {
			return &ComputationError{InvoiceID: inv.ID, Op: "list applied payments", Err: err}
		}

		applied := ComputeApplied(apps, s.now(), s.rounding.For(inv.Currency).Standard)
		if !applied.IsZero() {
			return fmt.Errorf("invoice %s has %s applied: %w", inv.ID, applied, ErrInvalidTransition)
		}

		return nil
	})
}

func (s *Service) WriteOff(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, id, StatusWrittenOff, nil)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, guard func(*Invoice) error) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(inv.Status, to) {
		return nil, fmt.Errorf("%s to %s: %w", inv.Status, to, ErrInvalidTransition)
	}

	if guard != nil {
		if err := guard(inv); err != nil {
			return nil, err
		}
	}

	if _, err := s.setStatus(ctx, id, to); err != nil {
		return nil, err
	}

	if err := s.Recalculate(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, to Status) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	from := inv.Status
	inv.Status = to
	inv.UpdatedAt = new(s.now())

	if err := s.repo.SaveStatus(ctx, inv); err != nil {
		return nil, fmt.Errorf("saving status: %w", err)
	}

	s.logger.Info("invoice status changed", "invoice_id", id, "from", from, "to", to)

	return inv, nil
}

// CheckPaid runs the paid transition on a stored invoice and persists the
// result when it changed. It reports whether the invoice was changed, so an
// invoice that was already paid reports false.
func (s *Service) CheckPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return false, err
	}

	return s.checkPaid(ctx, inv)
}

func (s *Service) checkPaid(ctx context.Context, inv *Invoice) (bool, error) {
	from := inv.Status

	changed, err := CheckPaid(ctx, s.repo, inv, s.now(), s.rounding.For(inv.Currency))
	if err != nil {
		return false, err
	}

	if changed {
		inv.UpdatedAt = new(s.now())

		if err := s.repo.SaveStatus(ctx, inv); err != nil {
			return false, fmt.Errorf("saving status: %w", err)
		}

		s.logger.Info("invoice paid", "invoice_id", inv.ID, "from", from, "paid_date", inv.PaidDate)
	}

	return changed, nil
}

// ValidateTags checks the stored items of an invoice against the tag policy.
func (s *Service) ValidateTags(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	return ValidateAccountingTags(inv, items, s.tags)
}
