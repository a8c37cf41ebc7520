// Package money holds the rounding policies applied to monetary amounts.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode is a rounding mode.
type Mode string

const (
	Up       Mode = "up"        // away from zero
	Down     Mode = "down"      // towards zero
	Ceiling  Mode = "ceiling"   // towards positive infinity
	Floor    Mode = "floor"     // towards negative infinity
	HalfUp   Mode = "half_up"   // nearest, ties away from zero
	HalfDown Mode = "half_down" // nearest, ties towards zero
	HalfEven Mode = "half_even" // nearest, ties to the even neighbour
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))

	switch m {
	case Up, Down, Ceiling, Floor, HalfUp, HalfDown, HalfEven:
		return m, nil
	}

	return "", fmt.Errorf("unknown rounding mode %q", s)
}

// Policy is a scale and rounding mode pair.
type Policy struct {
	Scale int32
	Mode  Mode
}

// Extra returns the policy with one extra digit of precision, used for
// intermediate per-item contributions.
func (p Policy) Extra() Policy {
	return Policy{Scale: p.Scale + 1, Mode: p.Mode}
}

// Round rounds d to the policy scale. The result always carries exactly
// Scale fractional digits so equal inputs produce identical representations.
func (p Policy) Round(d decimal.Decimal) decimal.Decimal {
	var r decimal.Decimal

	switch p.Mode {
	case Up:
		r = awayFromZero(d, p.Scale)
	case Down:
		r = d.Truncate(p.Scale)
	case Ceiling:
		if d.Sign() > 0 {
			r = awayFromZero(d, p.Scale)
		} else {
			r = d.Truncate(p.Scale)
		}
	case Floor:
		if d.Sign() < 0 {
			r = awayFromZero(d, p.Scale)
		} else {
			r = d.Truncate(p.Scale)
		}
	case HalfDown:
		r = halfDown(d, p.Scale)
	case HalfEven:
		r = d.RoundBank(p.Scale)
	default:
		r = d.Round(p.Scale)
	}

	return r.Round(p.Scale)
}

func awayFromZero(d decimal.Decimal, scale int32) decimal.Decimal {
	t := d.Truncate(scale)
	if t.Equal(d) {
		return t
	}

	step := decimal.New(1, -scale)
	if d.Sign() < 0 {
		return t.Sub(step)
	}

	return t.Add(step)
}

func halfDown(d decimal.Decimal, scale int32) decimal.Decimal {
	t := d.Truncate(scale)
	half := decimal.New(5, -(scale + 1))

	if d.Sub(t).Abs().GreaterThan(half) {
		return awayFromZero(d, scale)
	}

	return t
}

// Rounding groups the policy for ordinary amounts with the one for tax amounts.
type Rounding struct {
	Standard Policy
	Tax      Policy
}

// Table resolves the rounding for a currency.
type Table struct {
	Default Rounding
	// Scales overrides the scale of both policies for a currency (upper-case ISO code).
	Scales map[string]int32
}

// For returns the rounding that applies to amounts in currency.
func (t Table) For(currency string) Rounding {
	r := t.Default

	if scale, ok := t.Scales[strings.ToUpper(currency)]; ok {
		r.Standard.Scale = scale
		r.Tax.Scale = scale
	}

	return r
}

// DefaultTable is two decimals, half-up, for every currency.
func DefaultTable() Table {
	p := Policy{Scale: 2, Mode: HalfUp}
	return Table{Default: Rounding{Standard: p, Tax: p}}
}
