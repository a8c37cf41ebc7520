package payment_test

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
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Post_Validation(t *testing.T) {
	known := uuid.New()
	missing := uuid.New()

	type args struct {
		params payment.PostParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(inv *payment.MockInvoices)
	}

	tests := []testCase{
		{
			name: "UnknownStatus",
			args: args{params: payment.PostParams{Status: "bounced", Amount: amount("10"), EffectiveDate: now}},
		},
		{
			name: "ZeroAmount",
			args: args{params: payment.PostParams{Status: invoice.PaymentReceived, Amount: decimal.Zero, EffectiveDate: now}},
		},
		{
			name: "MissingDate",
			args: args{params: payment.PostParams{Status: invoice.PaymentReceived, Amount: amount("10")}},
		},
		{
			name: "OverApplied",
			args: args{params: payment.PostParams{
				Status:        invoice.PaymentReceived,
				Amount:        amount("10"),
				EffectiveDate: now,
				Applications:  []payment.ApplicationParams{{InvoiceID: &known, Amount: amount("10.01")}},
			}},
			setupMock: func(inv *payment.MockInvoices) {
				inv.EXPECT().Get(gomock.Any(), known).Return(&invoice.Invoice{ID: known}, nil)
			},
		},
		{
			name: "UnknownInvoice",
			args: args{params: payment.PostParams{
				Status:        invoice.PaymentReceived,
				Amount:        amount("10"),
				EffectiveDate: now,
				Applications:  []payment.ApplicationParams{{InvoiceID: &missing, Amount: amount("5")}},
			}},
			setupMock: func(inv *payment.MockInvoices) {
				inv.EXPECT().Get(gomock.Any(), missing).Return(nil, invoice.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payment.NewMockRepository(ctrl)
			invoices := payment.NewMockInvoices(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(invoices)
			}

			_, err := payment.NewService(repo, invoices).Post(context.Background(), tt.args.params)

			assert.ErrorIs(t, err, invoice.ErrValidation)
		})
	}
}

func TestService_Post_SkipsClosedInvoices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoices(ctrl)

	open := uuid.New()
	voided := uuid.New()
	paymentID := uuid.New()

	invoices.EXPECT().Get(gomock.Any(), open).Return(&invoice.Invoice{ID: open, Status: invoice.StatusReady}, nil).Times(2)
	invoices.EXPECT().Get(gomock.Any(), voided).Return(&invoice.Invoice{ID: voided, Status: invoice.StatusVoided}, nil).Times(2)

	repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *invoice.Payment) error {
			p.ID = paymentID
			return nil
		})

	gomock.InOrder(
		invoices.EXPECT().RecalculateFromPayment(gomock.Any(), paymentID).Return(nil),
		invoices.EXPECT().CheckPaid(gomock.Any(), open).Return(true, nil),
	)

	p, err := payment.NewService(repo, invoices).Post(context.Background(), payment.PostParams{
		Status:        invoice.PaymentReceived,
		Amount:        amount("30"),
		EffectiveDate: now,
		Applications: []payment.ApplicationParams{
			{InvoiceID: &open, Amount: amount("20")},
			{InvoiceID: &voided, Amount: amount("10")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, paymentID, p.ID)
}

func TestService_Post_RecalculateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	invoices := payment.NewMockInvoices(ctrl)

	repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil)
	invoices.EXPECT().RecalculateFromPayment(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	_, err := payment.NewService(repo, invoices).Post(context.Background(), payment.PostParams{
		Status:        invoice.PaymentReceived,
		Amount:        amount("30"),
		EffectiveDate: now,
	})

	assert.Error(t, err)
}

type env struct {
	store    *memory.Store
	invoices *invoice.Service
	payments *payment.Service
}

func newEnv(t *testing.T) env {
	t.Helper()

	store := memory.New()
	invoices := invoice.NewService(store, money.DefaultTable(), invoice.WithClock(func() time.Time { return now }))

	return env{store: store, invoices: invoices, payments: payment.NewService(store, invoices)}
}

func (e env) readyInvoice(t *testing.T, total string) uuid.UUID {
	t.Helper()

	ctx := context.Background()

	inv, err := e.invoices.Create(ctx, invoice.CreateParams{Type: invoice.TypeSales, Currency: "EUR", InvoiceDate: now.AddDate(0, -1, 0)})
	require.NoError(t, err)

	_, err = e.invoices.AddItem(ctx, inv.ID, invoice.ItemParams{Type: invoice.ItemProduct, Amount: new(amount(total))})
	require.NoError(t, err)

	_, err = e.invoices.MarkReady(ctx, inv.ID)
	require.NoError(t, err)

	return inv.ID
}

func TestService_PostSettlesInvoices(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a := e.readyInvoice(t, "40")
	b := e.readyInvoice(t, "100")

	effective := now.AddDate(0, 0, -3)

	_, err := e.payments.Post(ctx, payment.PostParams{
		Status:        invoice.PaymentReceived,
		Amount:        amount("90"),
		EffectiveDate: effective,
		Reference:     "TRF-001",
		Applications: []payment.ApplicationParams{
			{InvoiceID: &a, Amount: amount("40")},
			{InvoiceID: &b, Amount: amount("50")},
		},
	})
	require.NoError(t, err)

	paid, err := e.store.GetInvoice(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, effective, *paid.PaidDate)
	assert.Equal(t, "0.00", paid.Amounts.Open.StringFixed(2))

	partial, err := e.store.GetInvoice(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusReady, partial.Status)
	assert.Equal(t, "50.00", partial.Amounts.Open.StringFixed(2))
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a := e.readyInvoice(t, "25")

	p, err := e.payments.Post(ctx, payment.PostParams{
		Status:        invoice.PaymentPending,
		Amount:        amount("25"),
		EffectiveDate: now.AddDate(0, 0, -1),
		Applications:  []payment.ApplicationParams{{InvoiceID: &a, Amount: amount("25")}},
	})
	require.NoError(t, err)

	pending, err := e.store.GetInvoice(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusReady, pending.Status)
	assert.Equal(t, "25.00", pending.Amounts.PendingApplied.StringFixed(2))
	assert.Equal(t, "0.00", pending.Amounts.PendingOpen.StringFixed(2))

	updated, err := e.payments.UpdateStatus(ctx, p.ID, invoice.PaymentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, invoice.PaymentConfirmed, updated.Status)

	settled, err := e.store.GetInvoice(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, settled.Status)

	_, err = e.payments.UpdateStatus(ctx, uuid.New(), invoice.PaymentConfirmed)
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_WrittenOffStaysWrittenOff(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a := e.readyInvoice(t, "10")

	_, err := e.invoices.WriteOff(ctx, a)
	require.NoError(t, err)

	_, err = e.payments.Post(ctx, payment.PostParams{
		Status:        invoice.PaymentReceived,
		Amount:        amount("10"),
		EffectiveDate: now.AddDate(0, 0, -1),
		Applications:  []payment.ApplicationParams{{InvoiceID: &a, Amount: amount("10")}},
	})
	require.NoError(t, err)

	got, err := e.store.GetInvoice(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusWrittenOff, got.Status)
	assert.Equal(t, "0.00", got.Amounts.Open.StringFixed(2))
}

func TestService_PostBatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a := e.readyInvoice(t, "10")
	missing := uuid.New()

	result, err := e.payments.PostBatch(ctx, []payment.PostParams{
		{
			Status:        invoice.PaymentReceived,
			Amount:        amount("10"),
			EffectiveDate: now.AddDate(0, 0, -1),
			Reference:     "OK-1",
			Applications:  []payment.ApplicationParams{{InvoiceID: &a, Amount: amount("10")}},
		},
		{
			Status:        invoice.PaymentReceived,
			Amount:        amount("5"),
			EffectiveDate: now.AddDate(0, 0, -1),
			Reference:     "BAD-1",
			Applications:  []payment.ApplicationParams{{InvoiceID: &missing, Amount: amount("5")}},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Posted, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.Equal(t, "BAD-1", result.Failed[0].Reference)
	assert.ErrorIs(t, result.Failed[0].Err, invoice.ErrValidation)
}
