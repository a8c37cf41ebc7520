package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// ComputeTotal sums item contributions. Ordinary items are rounded to one
// extra digit before the final pass. Tax items are rounded at the tax scale
// directly and accumulated into taxedSubtotal, which is counted once in total.
func ComputeTotal(items []LineItem, r money.Rounding) (total, taxedSubtotal decimal.Decimal) {
	standardItem := r.Standard.Extra()

	untaxed := decimal.Zero
	taxed := decimal.Zero

	for _, item := range items {
		c := item.Contribution()

		if item.Type.IsTax() {
			taxed = taxed.Add(r.Tax.Round(c))
			continue
		}

		untaxed = untaxed.Add(standardItem.Round(c))
	}

	taxedSubtotal = r.Tax.Round(taxed)
	total = r.Standard.Round(untaxed.Add(taxedSubtotal))

	return total, taxedSubtotal
}

// ComputeApplied sums finalized applications effective on or before asOf.
func ComputeApplied(apps []PaymentApplication, asOf time.Time, p money.Policy) decimal.Decimal {
	return sumApplications(apps, asOf, p, PaymentStatus.IsFinalized)
}

// ComputePendingApplied sums pending applications effective on or before asOf.
func ComputePendingApplied(apps []PaymentApplication, asOf time.Time, p money.Policy) decimal.Decimal {
	return sumApplications(apps, asOf, p, PaymentStatus.IsPending)
}

func sumApplications(apps []PaymentApplication, asOf time.Time, p money.Policy, keep func(PaymentStatus) bool) decimal.Decimal {
	sum := decimal.Zero

	for _, a := range apps {
		if !keep(a.Status) || a.EffectiveDate.After(asOf) {
			continue
		}

		sum = sum.Add(a.AmountApplied)
	}

	return p.Round(sum)
}

// ComputeAdjusted sums adjustments effective on or before asOf.
func ComputeAdjusted(adjs []Adjustment, asOf time.Time, p money.Policy) decimal.Decimal {
	sum := decimal.Zero

	for _, a := range adjs {
		if a.EffectiveDate.After(asOf) {
			continue
		}

		sum = sum.Add(a.Amount)
	}

	return p.Round(sum)
}

// ParseAsOf reads a YYYY-MM-DD balance date. The result is the last instant of
// that day, so entries stamped later on the same day are included.
func ParseAsOf(s string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}

	return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

// ComputeInterestCharged sums interest items found on other invoices.
func ComputeInterestCharged(related []LineItem, p money.Policy) decimal.Decimal {
	sum := decimal.Zero

	for _, item := range related {
		if item.Type != ItemInterestCharge {
			continue
		}

		sum = sum.Add(item.Contribution())
	}

	return p.Round(sum)
}

// OpenAmount returns open(at) = total + adjusted(at) - applied(at).
func OpenAmount(ctx context.Context, src Lookup, inv *Invoice, items []LineItem, at time.Time, r money.Rounding) (decimal.Decimal, error) {
	total, _ := ComputeTotal(items, r)

	applied, adjusted, err := settled(ctx, src, inv, at, r.Standard)
	if err != nil {
		return decimal.Zero, err
	}

	return r.Standard.Round(total.Add(adjusted).Sub(applied)), nil
}

func settled(ctx context.Context, src Lookup, inv *Invoice, at time.Time, p money.Policy) (applied, adjusted decimal.Decimal, err error) {
	apps, err := src.PaymentsApplied(ctx, inv.ID, at)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("listing applied payments: %w", err)
	}

	adjs, err := src.AdjustmentsApplied(ctx, inv.ID, at)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("listing adjustments: %w", err)
	}

	return ComputeApplied(apps, at, p), ComputeAdjusted(adjs, at, p), nil
}

// Derive computes every cached amount of inv as of asOf. now is the
// evaluation instant of the open amount that pendingOpen is based on.
func Derive(ctx context.Context, src Lookup, inv *Invoice, items []LineItem, asOf, now time.Time, r money.Rounding) (Amounts, error) {
	var a Amounts

	a.Total, a.TaxedSubtotal = ComputeTotal(items, r)

	applied, adjusted, err := settled(ctx, src, inv, asOf, r.Standard)
	if err != nil {
		return Amounts{}, err
	}

	a.Applied = applied
	a.Adjusted = adjusted
	a.AdjustedTotal = r.Standard.Round(a.Total.Add(a.Adjusted))
	a.Open = r.Standard.Round(a.AdjustedTotal.Sub(a.Applied))

	pending, err := src.PendingPaymentsApplied(ctx, inv.ID, asOf)
	if err != nil {
		return Amounts{}, fmt.Errorf("listing pending payments: %w", err)
	}

	a.PendingApplied = ComputePendingApplied(pending, asOf, r.Standard)

	openNow := a.Open
	if !now.Equal(asOf) {
		openNow, err = OpenAmount(ctx, src, inv, items, now, r)
		if err != nil {
			return Amounts{}, err
		}
	}

	a.PendingOpen = r.Standard.Round(openNow.Sub(a.PendingApplied))

	related, err := src.RelatedInterestItems(ctx, inv.ID)
	if err != nil {
		return Amounts{}, fmt.Errorf("listing related interest items: %w", err)
	}

	a.InterestCharged = ComputeInterestCharged(related, r.Standard)

	return a, nil
}
