// Package memory is an in-process store used by tests and by the API when
// STORE_DRIVER=memory.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type priceKey struct {
	productID string
	currency  string
}

type Store struct {
	mu sync.RWMutex

	invoices    map[uuid.UUID]invoice.Invoice
	items       map[uuid.UUID]invoice.LineItem
	payments    map[uuid.UUID]invoice.Payment
	adjustments map[uuid.UUID]invoice.Adjustment
	prices      map[priceKey]decimal.Decimal
}

func New() *Store {
	return &Store{
		invoices:    make(map[uuid.UUID]invoice.Invoice),
		items:       make(map[uuid.UUID]invoice.LineItem),
		payments:    make(map[uuid.UUID]invoice.Payment),
		adjustments: make(map[uuid.UUID]invoice.Adjustment),
		prices:      make(map[priceKey]decimal.Decimal),
	}
}

// Invoices

func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	s.invoices[inv.ID] = *inv

	return nil
}

func (s *Store) GetInvoice(_ context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	return &inv, nil
}

func (s *Store) SaveAmounts(_ context.Context, id uuid.UUID, amounts invoice.Amounts, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return invoice.ErrNotFound
	}

	inv.Amounts = amounts
	inv.RecalculatedAt = new(at)
	s.invoices[id] = inv

	return nil
}

func (s *Store) SaveStatus(_ context.Context, in *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[in.ID]
	if !ok {
		return invoice.ErrNotFound
	}

	inv.Status = in.Status
	inv.PaidDate = in.PaidDate
	inv.PostedAt = in.PostedAt
	inv.UpdatedAt = in.UpdatedAt
	s.invoices[in.ID] = inv

	return nil
}

// Items

func (s *Store) GetItem(_ context.Context, id uuid.UUID) (*invoice.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	item.Tags = maps.Clone(item.Tags)

	return &item, nil
}

func (s *Store) CreateItem(_ context.Context, item *invoice.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[item.InvoiceID]; !ok {
		return invoice.ErrNotFound
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	stored := *item
	stored.Tags = maps.Clone(item.Tags)
	s.items[item.ID] = stored

	return nil
}

func (s *Store) UpdateItem(_ context.Context, item *invoice.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return invoice.ErrNotFound
	}

	stored := *item
	stored.Tags = maps.Clone(item.Tags)
	s.items[item.ID] = stored

	return nil
}

func (s *Store) DeleteItem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return invoice.ErrNotFound
	}

	delete(s.items, id)

	return nil
}

func (s *Store) ListItems(_ context.Context, invoiceID uuid.UUID) ([]invoice.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []invoice.LineItem

	for _, item := range s.items {
		if item.InvoiceID == invoiceID {
			item.Tags = maps.Clone(item.Tags)
			items = append(items, item)
		}
	}

	slices.SortFunc(items, func(a, b invoice.LineItem) int {
		return cmp.Or(cmp.Compare(a.Seq, b.Seq), strings.Compare(a.ID.String(), b.ID.String()))
	})

	return items, nil
}

// RelatedInterestItems returns interest items on live invoices that name
// invoiceID as their parent.
func (s *Store) RelatedInterestItems(_ context.Context, invoiceID uuid.UUID) ([]invoice.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []invoice.LineItem

	for _, item := range s.items {
		if item.Type != invoice.ItemInterestCharge || item.ParentInvoiceID == nil || *item.ParentInvoiceID != invoiceID {
			continue
		}

		owner, ok := s.invoices[item.InvoiceID]
		if !ok {
			continue
		}

		switch owner.Status {
		case invoice.StatusCancelled, invoice.StatusWrittenOff, invoice.StatusVoided:
			continue
		}

		item.Tags = maps.Clone(item.Tags)
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b invoice.LineItem) int {
		return cmp.Or(strings.Compare(a.InvoiceID.String(), b.InvoiceID.String()), cmp.Compare(a.Seq, b.Seq))
	})

	return items, nil
}

// Payments

func (s *Store) CreatePayment(_ context.Context, p *invoice.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	for i := range p.Applications {
		a := &p.Applications[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}

		a.PaymentID = p.ID
		a.Status = p.Status
		a.EffectiveDate = p.EffectiveDate
	}

	stored := *p
	stored.Applications = slices.Clone(p.Applications)
	s.payments[p.ID] = stored

	return nil
}

func (s *Store) GetPayment(_ context.Context, id uuid.UUID) (*invoice.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	p.Applications = slices.Clone(p.Applications)

	return &p, nil
}

func (s *Store) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status invoice.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return invoice.ErrNotFound
	}

	p.Status = status
	p.Applications = slices.Clone(p.Applications)

	for i := range p.Applications {
		p.Applications[i].Status = status
	}

	s.payments[id] = p

	return nil
}

func (s *Store) PaymentsApplied(_ context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.PaymentApplication, error) {
	return s.applications(invoiceID, asOf, invoice.PaymentStatus.IsFinalized), nil
}

func (s *Store) PendingPaymentsApplied(_ context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.PaymentApplication, error) {
	return s.applications(invoiceID, asOf, invoice.PaymentStatus.IsPending), nil
}

func (s *Store) applications(invoiceID uuid.UUID, asOf time.Time, keep func(invoice.PaymentStatus) bool) []invoice.PaymentApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var apps []invoice.PaymentApplication

	for _, p := range s.payments {
		if !keep(p.Status) || p.EffectiveDate.After(asOf) {
			continue
		}

		for _, a := range p.Applications {
			if a.InvoiceID == nil || *a.InvoiceID != invoiceID {
				continue
			}

			a.Status = p.Status
			a.EffectiveDate = p.EffectiveDate
			apps = append(apps, a)
		}
	}

	slices.SortFunc(apps, func(a, b invoice.PaymentApplication) int {
		return cmp.Or(a.EffectiveDate.Compare(b.EffectiveDate), strings.Compare(a.ID.String(), b.ID.String()))
	})

	return apps
}

// Adjustments

func (s *Store) CreateAdjustment(_ context.Context, adj *invoice.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[adj.InvoiceID]; !ok {
		return invoice.ErrNotFound
	}

	if adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}

	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = time.Now()
	}

	s.adjustments[adj.ID] = *adj

	return nil
}

func (s *Store) ListAdjustments(_ context.Context, invoiceID uuid.UUID) ([]invoice.Adjustment, error) {
	return s.adjustmentsFor(invoiceID, nil), nil
}

func (s *Store) AdjustmentsApplied(_ context.Context, invoiceID uuid.UUID, asOf time.Time) ([]invoice.Adjustment, error) {
	return s.adjustmentsFor(invoiceID, &asOf), nil
}

func (s *Store) adjustmentsFor(invoiceID uuid.UUID, asOf *time.Time) []invoice.Adjustment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var adjs []invoice.Adjustment

	for _, a := range s.adjustments {
		if a.InvoiceID != invoiceID {
			continue
		}

		if asOf != nil && a.EffectiveDate.After(*asOf) {
			continue
		}

		adjs = append(adjs, a)
	}

	slices.SortFunc(adjs, func(a, b invoice.Adjustment) int {
		return cmp.Or(a.EffectiveDate.Compare(b.EffectiveDate), a.CreatedAt.Compare(b.CreatedAt))
	})

	return adjs
}

// Prices

// SetPrice registers the default unit price of a product in a currency.
func (s *Store) SetPrice(_ context.Context, productID, currency string, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[priceKey{productID: productID, currency: strings.ToUpper(currency)}] = price

	return nil
}

func (s *Store) DefaultPrice(_ context.Context, productID, currency string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[priceKey{productID: productID, currency: strings.ToUpper(currency)}]
	if !ok {
		return decimal.Zero, invoice.ErrNotFound
	}

	return price, nil
}
