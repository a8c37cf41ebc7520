package invoice

import (
	"cmp"
	"slices"
	"strings"
)

// MaxTagIndex is the highest accounting tag slot on an item.
const MaxTagIndex = 10

// TagRule requires the tag at Index to be filled in.
type TagRule struct {
	Index int
	Name  string
}

// TagPolicy lists the required accounting tags per invoice category.
type TagPolicy struct {
	Receivable []TagRule
	Payable    []TagRule
}

func (p TagPolicy) IsZero() bool {
	return len(p.Receivable) == 0 && len(p.Payable) == 0
}

// Rules returns the rules for invoices of type t, by ascending index.
func (p TagPolicy) Rules(t Type) []TagRule {
	var rules []TagRule

	switch {
	case t.IsReceivable():
		rules = slices.Clone(p.Receivable)
	case t.IsPayable():
		rules = slices.Clone(p.Payable)
	}

	slices.SortStableFunc(rules, func(a, b TagRule) int { return cmp.Compare(a.Index, b.Index) })

	return rules
}

// ValidateAccountingTags checks items in sequence order and stops at the
// first missing tag, which is returned as a *TagError.
func ValidateAccountingTags(inv *Invoice, items []LineItem, p TagPolicy) error {
	rules := p.Rules(inv.Type)
	if len(rules) == 0 {
		return nil
	}

	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, func(a, b LineItem) int { return cmp.Compare(a.Seq, b.Seq) })

	for _, item := range ordered {
		for _, rule := range rules {
			if strings.TrimSpace(item.Tags[rule.Index]) == "" {
				return &TagError{ItemID: item.ID, Index: rule.Index, Name: rule.Name}
			}
		}
	}

	return nil
}
