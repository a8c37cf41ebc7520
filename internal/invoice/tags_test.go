package invoice_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func TestValidateAccountingTags(t *testing.T) {
	policy := invoice.TagPolicy{
		Receivable: []invoice.TagRule{{Index: 2, Name: "department"}, {Index: 1, Name: "division"}},
	}

	first := invoice.LineItem{ID: uuid.New(), Seq: 1, Tags: map[int]string{1: "retail"}}
	second := invoice.LineItem{ID: uuid.New(), Seq: 2}

	t.Run("ReportsFirstMissingOnly", func(t *testing.T) {
		inv := &invoice.Invoice{Type: invoice.TypeSales}

		// second is listed first but has the higher sequence.
		err := invoice.ValidateAccountingTags(inv, []invoice.LineItem{second, first}, policy)

		var tagErr *invoice.TagError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, first.ID, tagErr.ItemID)
		assert.Equal(t, 2, tagErr.Index)
		assert.Equal(t, "department", tagErr.Name)
		assert.ErrorIs(t, err, invoice.ErrValidation)
	})

	t.Run("BlankCountsAsMissing", func(t *testing.T) {
		inv := &invoice.Invoice{Type: invoice.TypeInterest}
		item := invoice.LineItem{ID: uuid.New(), Seq: 1, Tags: map[int]string{1: "retail", 2: "  "}}

		err := invoice.ValidateAccountingTags(inv, []invoice.LineItem{item}, policy)

		var tagErr *invoice.TagError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, 2, tagErr.Index)
	})

	t.Run("AllPresent", func(t *testing.T) {
		inv := &invoice.Invoice{Type: invoice.TypeSales}
		item := invoice.LineItem{ID: uuid.New(), Seq: 1, Tags: map[int]string{1: "retail", 2: "north"}}

		assert.NoError(t, invoice.ValidateAccountingTags(inv, []invoice.LineItem{item}, policy))
	})

	t.Run("NoRulesForCategory", func(t *testing.T) {
		inv := &invoice.Invoice{Type: invoice.TypePurchase}

		assert.NoError(t, invoice.ValidateAccountingTags(inv, []invoice.LineItem{second}, policy))
	})
}

func TestTagPolicy_Rules(t *testing.T) {
	policy := invoice.TagPolicy{
		Payable: []invoice.TagRule{{Index: 3, Name: "project"}, {Index: 1, Name: "division"}},
	}

	rules := policy.Rules(invoice.TypeCommission)

	require.Len(t, rules, 2)
	assert.Equal(t, 1, rules[0].Index)
	assert.Equal(t, 3, rules[1].Index)
	assert.Equal(t, 3, policy.Payable[0].Index)
	assert.False(t, policy.IsZero())
	assert.True(t, invoice.TagPolicy{}.IsZero())
}
