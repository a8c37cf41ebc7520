package invoice

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// IsReceivable reports whether invoices of type t are owed to us.
func (t Type) IsReceivable() bool {
	switch t {
	case TypeSales, TypeInterest, TypePartner:
		return true
	}

	return false
}

// IsPayable reports whether invoices of type t are owed by us.
func (t Type) IsPayable() bool {
	switch t {
	case TypePurchase, TypeCommission, TypeReturn:
		return true
	}

	return false
}

// Valid reports whether t is a known invoice type.
func (t Type) Valid() bool {
	return t.IsReceivable() || t.IsPayable()
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// IsModifiable reports whether items may still be added, changed or removed.
func IsModifiable(s Status) bool {
	return s == StatusInProcess
}

// IsAdjustable reports whether adjustments may be recorded.
func IsAdjustable(s Status) bool {
	return s == StatusReady
}

// transitions lists the legal manual moves. Paid is reached only through CheckPaid.
var transitions = map[Status][]Status{
	StatusInProcess: {StatusReady, StatusCancelled},
	StatusReady:     {StatusVoided, StatusWrittenOff},
}

func canTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// CheckPaid moves inv to Paid when its open amount at now is exactly zero,
// stamping PaidDate with the latest finalized application date. It reports
// whether inv was changed. Modifiable invoices are never touched.
//
// Written-off and voided invoices are not special-cased here; callers that
// must leave them alone filter them out before calling.
func CheckPaid(ctx context.Context, src Lookup, inv *Invoice, now time.Time, r money.Rounding) (bool, error) {
	if IsModifiable(inv.Status) {
		return false, nil
	}

	items, err := src.ListItems(ctx, inv.ID)
	if err != nil {
		return false, &ComputationError{InvoiceID: inv.ID, Op: "list items", Err: err}
	}

	open, err := OpenAmount(ctx, src, inv, items, now, r)
	if err != nil {
		return false, &ComputationError{InvoiceID: inv.ID, Op: "open amount", Err: err}
	}

	if !open.IsZero() {
		return false, nil
	}

	apps, err := src.PaymentsApplied(ctx, inv.ID, now)
	if err != nil {
		return false, &ComputationError{InvoiceID: inv.ID, Op: "list applied payments", Err: err}
	}

	changed := inv.Status != StatusPaid
	inv.Status = StatusPaid

	var last *time.Time

	for _, a := range apps {
		if last == nil || a.EffectiveDate.After(*last) {
			last = new(a.EffectiveDate)
		}
	}

	if last != nil {
		if inv.PaidDate == nil || !inv.PaidDate.Equal(*last) {
			changed = true
		}

		inv.PaidDate = last
	}

	return changed, nil
}
