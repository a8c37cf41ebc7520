package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/memory"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params invoice.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: invoice.CreateParams{
					Type:        invoice.TypeSales,
					Currency:    "eur",
					Description: "Consulting, March",
					InvoiceDate: day(1),
				},
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						assert.Equal(t, invoice.StatusInProcess, inv.Status)
						assert.Equal(t, "EUR", inv.Currency)
						assert.Equal(t, "0.00", inv.Amounts.Open.StringFixed(2))
						assert.NotEqual(t, uuid.Nil, inv.ID)
						return nil
					})
			},
		},
		{
			name: "UnknownType",
			args: args{
				params: invoice.CreateParams{Type: "quote", Currency: "EUR", InvoiceDate: day(1)},
			},
			wantErr: invoice.ErrValidation,
		},
		{
			name: "BadCurrency",
			args: args{
				params: invoice.CreateParams{Type: invoice.TypeSales, Currency: "EURO", InvoiceDate: day(1)},
			},
			wantErr: invoice.ErrValidation,
		},
		{
			name: "DueBeforeIssue",
			args: args{
				params: invoice.CreateParams{Type: invoice.TypeSales, Currency: "EUR", InvoiceDate: day(10), DueDate: new(day(1))},
			},
			wantErr: invoice.ErrValidation,
		},
		{
			name: "RepoError",
			args: args{
				params: invoice.CreateParams{Type: invoice.TypePurchase, Currency: "EUR", InvoiceDate: day(1)},
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo, money.DefaultTable())
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, invoice.ErrValidation) {
					assert.ErrorIs(t, err, invoice.ErrValidation)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, invoice.TypeSales, got.Type)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	id := uuid.New()

	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)

	_, err := invoice.NewService(repo, money.DefaultTable()).Get(context.Background(), id)

	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_AddItem_Guards(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		params    invoice.ItemParams
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "NotModifiable",
			params: invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("1")},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).
					Return(&invoice.Invoice{ID: id, Status: invoice.StatusReady, Currency: "EUR"}, nil)
			},
			wantErr: invoice.ErrNotModifiable,
		},
		{
			name:   "SelfParent",
			params: invoice.ItemParams{Type: invoice.ItemInterestCharge, Amount: dec("1"), ParentInvoiceID: &id},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).
					Return(&invoice.Invoice{ID: id, Status: invoice.StatusInProcess, Currency: "EUR"}, nil)
			},
			wantErr: invoice.ErrValidation,
		},
		{
			name:   "TagIndexOutOfRange",
			params: invoice.ItemParams{Type: invoice.ItemProduct, Tags: map[int]string{11: "x"}},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).
					Return(&invoice.Invoice{ID: id, Status: invoice.StatusInProcess, Currency: "EUR"}, nil)
			},
			wantErr: invoice.ErrValidation,
		},
		{
			name:   "MissingInvoice",
			params: invoice.ItemParams{Type: invoice.ItemProduct},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)
			},
			wantErr: invoice.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			_, err := invoice.NewService(repo, money.DefaultTable()).AddItem(context.Background(), id, tt.params)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func newMemoryService(t *testing.T, opts ...invoice.Option) (*invoice.Service, *memory.Store) {
	t.Helper()

	store := memory.New()
	opts = append([]invoice.Option{invoice.WithClock(func() time.Time { return fixedNow })}, opts...)

	return invoice.NewService(store, money.DefaultTable(), opts...), store
}

func createSales(t *testing.T, svc *invoice.Service) *invoice.Invoice {
	t.Helper()

	inv, err := svc.Create(context.Background(), invoice.CreateParams{
		Type:        invoice.TypeSales,
		Currency:    "EUR",
		InvoiceDate: day(1),
	})
	require.NoError(t, err)

	return inv
}

func TestService_ItemWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)
	inv := createSales(t, svc)

	first, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Seq)

	tax, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemSalesTax, Amount: dec("50.555")})
	require.NoError(t, err)
	assert.Equal(t, 2, tax.Seq)

	got, err := store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.56", got.Amounts.Total.StringFixed(2))
	assert.Equal(t, "50.56", got.Amounts.TaxedSubtotal.StringFixed(2))

	_, err = svc.UpdateItem(ctx, inv.ID, first.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("10"), Quantity: dec("3")})
	require.NoError(t, err)

	got, err = store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "80.56", got.Amounts.Total.StringFixed(2))

	require.NoError(t, svc.RemoveItem(ctx, inv.ID, tax.ID))

	got, err = store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.Amounts.Total.StringFixed(2))
	assert.Equal(t, "0.00", got.Amounts.TaxedSubtotal.StringFixed(2))

	other := createSales(t, svc)
	err = svc.RemoveItem(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_InterestItemUpdatesParent(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)

	original := createSales(t, svc)
	_, err := svc.AddItem(ctx, original.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("200")})
	require.NoError(t, err)

	interest, err := svc.Create(ctx, invoice.CreateParams{Type: invoice.TypeInterest, Currency: "EUR", InvoiceDate: day(20)})
	require.NoError(t, err)

	charge, err := svc.AddItem(ctx, interest.ID, invoice.ItemParams{
		Type:            invoice.ItemInterestCharge,
		Amount:          dec("4.5"),
		ParentInvoiceID: &original.ID,
	})
	require.NoError(t, err)

	got, err := store.GetInvoice(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.50", got.Amounts.InterestCharged.StringFixed(2))

	require.NoError(t, svc.RemoveItem(ctx, interest.ID, charge.ID))

	got, err = store.GetInvoice(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.Amounts.InterestCharged.StringFixed(2))
}

func TestService_AddItem_DefaultPrice(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prices := invoice.NewMockPriceLookup(ctrl)
	svc, store := newMemoryService(t, invoice.WithPriceLookup(prices))
	inv := createSales(t, svc)

	prices.EXPECT().DefaultPrice(gomock.Any(), "SKU-1", "EUR").Return(decimal.RequireFromString("19.99"), nil)
	prices.EXPECT().DefaultPrice(gomock.Any(), "SKU-2", "EUR").Return(decimal.Zero, invoice.ErrNotFound)

	priced, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, ProductID: "SKU-1", Quantity: dec("2")})
	require.NoError(t, err)
	require.NotNil(t, priced.Amount)
	assert.Equal(t, "19.99", priced.Amount.String())

	unpriced, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, ProductID: "SKU-2"})
	require.NoError(t, err)
	assert.Nil(t, unpriced.Amount)

	// An explicit amount skips the lookup.
	_, err = svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, ProductID: "SKU-3", Amount: dec("1")})
	require.NoError(t, err)

	got, err := store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.98", got.Amounts.Total.StringFixed(2))
}

func TestService_MarkReady(t *testing.T) {
	ctx := context.Background()

	t.Run("PostsToLedger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger := invoice.NewMockLedgerPoster(ctrl)
		svc, store := newMemoryService(t, invoice.WithLedger(ledger))
		inv := createSales(t, svc)

		_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("10")})
		require.NoError(t, err)

		ledger.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, posted *invoice.Invoice) error {
				assert.Equal(t, invoice.StatusReady, posted.Status)
				assert.Equal(t, "10.00", posted.Amounts.Total.StringFixed(2))
				return nil
			})

		ready, err := svc.MarkReady(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusReady, ready.Status)

		stored, err := store.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.PostedAt)
		assert.Equal(t, fixedNow, *stored.PostedAt)
	})

	t.Run("LedgerFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger := invoice.NewMockLedgerPoster(ctrl)
		svc, store := newMemoryService(t, invoice.WithLedger(ledger))
		inv := createSales(t, svc)

		_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("10")})
		require.NoError(t, err)

		gomock.InOrder(
			ledger.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(errors.New("ledger down")),
			ledger.EXPECT().PostInvoice(gomock.Any(), gomock.Any()).Return(nil),
		)

		_, err = svc.MarkReady(ctx, inv.ID)
		require.Error(t, err)

		stored, err := store.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusInProcess, stored.Status)
		assert.Nil(t, stored.PostedAt)

		ready, err := svc.MarkReady(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusReady, ready.Status)

		stored, err = store.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusReady, stored.Status)
		require.NotNil(t, stored.PostedAt)
		assert.Equal(t, fixedNow, *stored.PostedAt)
	})

	t.Run("MissingTags", func(t *testing.T) {
		policy := invoice.TagPolicy{Receivable: []invoice.TagRule{{Index: 1, Name: "division"}}}
		svc, store := newMemoryService(t, invoice.WithTagPolicy(policy))
		inv := createSales(t, svc)

		_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("10")})
		require.NoError(t, err)

		_, err = svc.MarkReady(ctx, inv.ID)

		var tagErr *invoice.TagError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, "division", tagErr.Name)

		stored, err := store.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusInProcess, stored.Status)
	})

	t.Run("ZeroTotalPaidImmediately", func(t *testing.T) {
		svc, _ := newMemoryService(t)
		inv := createSales(t, svc)

		ready, err := svc.MarkReady(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, ready.Status)
		assert.Nil(t, ready.PaidDate)
	})

	t.Run("NotInProcess", func(t *testing.T) {
		svc, _ := newMemoryService(t)
		inv := createSales(t, svc)

		_, err := svc.Cancel(ctx, inv.ID)
		require.NoError(t, err)

		_, err = svc.MarkReady(ctx, inv.ID)
		assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
	})
}

func TestService_Transitions(t *testing.T) {
	ctx := context.Background()

	ready := func(t *testing.T, svc *invoice.Service) *invoice.Invoice {
		t.Helper()

		inv := createSales(t, svc)
		_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("50")})
		require.NoError(t, err)

		inv, err = svc.MarkReady(ctx, inv.ID)
		require.NoError(t, err)

		return inv
	}

	t.Run("CancelOnlyInProcess", func(t *testing.T) {
		svc, _ := newMemoryService(t)
		inv := ready(t, svc)

		_, err := svc.Cancel(ctx, inv.ID)
		assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
	})

	t.Run("WriteOff", func(t *testing.T) {
		svc, _ := newMemoryService(t)
		inv := ready(t, svc)

		got, err := svc.WriteOff(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusWrittenOff, got.Status)
		assert.Equal(t, "50.00", got.Amounts.Open.StringFixed(2))
	})

	t.Run("VoidWithoutPayments", func(t *testing.T) {
		svc, _ := newMemoryService(t)
		inv := ready(t, svc)

		got, err := svc.Void(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusVoided, got.Status)
	})

	t.Run("VoidRejectedAfterPayment", func(t *testing.T) {
		svc, store := newMemoryService(t)
		inv := ready(t, svc)

		require.NoError(t, store.CreatePayment(ctx, &invoice.Payment{
			Status:        invoice.PaymentReceived,
			Amount:        decimal.RequireFromString("10"),
			EffectiveDate: day(5),
			Applications:  []invoice.PaymentApplication{{InvoiceID: &inv.ID, AmountApplied: decimal.RequireFromString("10")}},
		}))

		_, err := svc.Void(ctx, inv.ID)
		assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
	})
}

func TestService_CheckPaidPersists(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)
	inv := createSales(t, svc)

	_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("25")})
	require.NoError(t, err)

	_, err = svc.MarkReady(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, store.CreatePayment(ctx, &invoice.Payment{
		Status:        invoice.PaymentConfirmed,
		Amount:        decimal.RequireFromString("25"),
		EffectiveDate: day(15),
		Applications:  []invoice.PaymentApplication{{InvoiceID: &inv.ID, AmountApplied: decimal.RequireFromString("25")}},
	}))

	changed, err := svc.CheckPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := store.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, stored.Status)
	require.NotNil(t, stored.PaidDate)
	assert.Equal(t, day(15), *stored.PaidDate)

	changed, err = svc.CheckPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestService_Balances(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryService(t)
	inv := createSales(t, svc)

	_, err := svc.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: dec("80")})
	require.NoError(t, err)

	require.NoError(t, store.CreatePayment(ctx, &invoice.Payment{
		Status:        invoice.PaymentReceived,
		Amount:        decimal.RequireFromString("30"),
		EffectiveDate: day(15),
		Applications:  []invoice.PaymentApplication{{InvoiceID: &inv.ID, AmountApplied: decimal.RequireFromString("30")}},
	}))

	before, err := svc.Balances(ctx, inv.ID, day(14))
	require.NoError(t, err)
	assert.Equal(t, "80.00", before.Open.StringFixed(2))

	after, err := svc.Balances(ctx, inv.ID, day(15))
	require.NoError(t, err)
	assert.Equal(t, "50.00", after.Open.StringFixed(2))

	_, err = svc.Balances(ctx, uuid.New(), day(15))
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}
