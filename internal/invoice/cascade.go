package invoice

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Recalculate derives and persists the cached amounts of an invoice, then
// walks the parent references of its items and does the same for each
// parent, depth first. Each invoice is recomputed at most once per call, so
// reference cycles terminate.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetInvoice(ctx, id); err != nil {
		return fmt.Errorf("loading invoice %s: %w", id, err)
	}

	now := s.now()
	visited := make(map[uuid.UUID]struct{})
	stack := []uuid.UUID{id}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}

		visited[current] = struct{}{}

		parents, err := s.recalculateOne(ctx, current, now)
		if err != nil {
			return err
		}

		for _, p := range slices.Backward(parents) {
			if _, ok := visited[p]; !ok {
				stack = append(stack, p)
			}
		}
	}

	return nil
}

func (s *Service) recalculateOne(ctx context.Context, id uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, &ComputationError{InvoiceID: id, Op: "load invoice", Err: err}
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, &ComputationError{InvoiceID: id, Op: "list items", Err: err}
	}

	amounts, err := Derive(ctx, s.repo, inv, items, now, now, s.rounding.For(inv.Currency))
	if err != nil {
		return nil, &ComputationError{InvoiceID: id, Op: "derive", Err: err}
	}

	if err := s.repo.SaveAmounts(ctx, id, amounts, now); err != nil {
		return nil, &ComputationError{InvoiceID: id, Op: "save amounts", Err: err}
	}

	s.logger.Debug("invoice recalculated",
		"invoice_id", id,
		"total", amounts.Total,
		"open", amounts.Open,
	)

	return parentIDs(items, id), nil
}

// parentIDs returns the distinct parents referenced by items, in item order,
// leaving out self.
func parentIDs(items []LineItem, self uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID

	for _, it := range items {
		if it.ParentInvoiceID == nil {
			continue
		}

		p := *it.ParentInvoiceID
		if p == self || p == uuid.Nil || slices.Contains(ids, p) {
			continue
		}

		ids = append(ids, p)
	}

	return ids
}

// RecalculateFromPayment recalculates every invoice the payment is applied to.
func (s *Service) RecalculateFromPayment(ctx context.Context, paymentID uuid.UUID) error {
	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("loading payment %s: %w", paymentID, err)
	}

	for _, id := range p.InvoiceIDs() {
		if err := s.Recalculate(ctx, id); err != nil {
			return err
		}
	}

	return nil
}
