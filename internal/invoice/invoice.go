package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of invoice.
type Type string

const (
	TypeSales      Type = "sales"
	TypeInterest   Type = "interest"
	TypePartner    Type = "partner"
	TypePurchase   Type = "purchase"
	TypeCommission Type = "commission"
	TypeReturn     Type = "return"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusInProcess         Status = "in_process"
	StatusReady             Status = "ready"
	StatusReceived          Status = "received"
	StatusPaid              Status = "paid"
	StatusCancelled         Status = "cancelled"
	StatusWrittenOff        Status = "written_off"
	StatusVoided            Status = "voided"
	StatusInvoicedToPartner Status = "invoiced_to_partner"
)

// Statuses lists every status the engine recognizes.
var Statuses = []Status{
	StatusInProcess,
	StatusReady,
	StatusReceived,
	StatusPaid,
	StatusCancelled,
	StatusWrittenOff,
	StatusVoided,
	StatusInvoicedToPartner,
}

// Amounts are the derived figures cached on an invoice. They are a
// materialized view of the item, payment and adjustment rows.
type Amounts struct {
	Total           decimal.Decimal
	TaxedSubtotal   decimal.Decimal
	Applied         decimal.Decimal
	Adjusted        decimal.Decimal
	AdjustedTotal   decimal.Decimal
	Open            decimal.Decimal
	PendingApplied  decimal.Decimal
	PendingOpen     decimal.Decimal
	InterestCharged decimal.Decimal
}

// Equal reports whether every field of a equals the one in b, digit for digit.
func (a Amounts) Equal(b Amounts) bool {
	pairs := [][2]decimal.Decimal{
		{a.Total, b.Total},
		{a.TaxedSubtotal, b.TaxedSubtotal},
		{a.Applied, b.Applied},
		{a.Adjusted, b.Adjusted},
		{a.AdjustedTotal, b.AdjustedTotal},
		{a.Open, b.Open},
		{a.PendingApplied, b.PendingApplied},
		{a.PendingOpen, b.PendingOpen},
		{a.InterestCharged, b.InterestCharged},
	}

	for _, p := range pairs {
		if p[0].String() != p[1].String() || p[0].Exponent() != p[1].Exponent() {
			return false
		}
	}

	return true
}

// Invoice is a receivable or payable document.
type Invoice struct {
	ID             uuid.UUID
	Type           Type
	Status         Status
	Currency       string
	Description    string
	InvoiceDate    time.Time
	DueDate        *time.Time
	PaidDate       *time.Time
	PostedAt       *time.Time
	Amounts        Amounts
	RecalculatedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ItemType classifies a line item.
type ItemType string

const (
	ItemProduct        ItemType = "product"
	ItemService        ItemType = "service"
	ItemShipping       ItemType = "shipping"
	ItemDiscount       ItemType = "discount"
	ItemSalesTax       ItemType = "sales_tax"
	ItemVAT            ItemType = "vat"
	ItemWithholdingTax ItemType = "withholding_tax"
	ItemInterestCharge ItemType = "interest_charge"
)

// IsTax reports whether the item type belongs to the tax set.
func (t ItemType) IsTax() bool {
	switch t {
	case ItemSalesTax, ItemVAT, ItemWithholdingTax:
		return true
	}

	return false
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemProduct, ItemService, ItemShipping, ItemDiscount,
		ItemSalesTax, ItemVAT, ItemWithholdingTax, ItemInterestCharge:
		return true
	}

	return false
}

// LineItem belongs to exactly one invoice. ParentInvoiceID, when set, names a
// different invoice the item logically belongs to (an interest charge on an
// original invoice, for example).
type LineItem struct {
	ID              uuid.UUID
	InvoiceID       uuid.UUID
	Seq             int
	Type            ItemType
	ProductID       string
	Description     string
	Amount          *decimal.Decimal // nil counts as zero
	Quantity        *decimal.Decimal // nil counts as one
	ParentInvoiceID *uuid.UUID
	Tags            map[int]string
	CreatedAt       time.Time
}

// Contribution returns amount × quantity with the documented defaults.
func (li LineItem) Contribution() decimal.Decimal {
	amount := decimal.Zero
	if li.Amount != nil {
		amount = *li.Amount
	}

	quantity := decimal.NewFromInt(1)
	if li.Quantity != nil {
		quantity = *li.Quantity
	}

	return amount.Mul(quantity)
}

// PaymentStatus is the state of a payment and of its applications.
type PaymentStatus string

const (
	PaymentReceived  PaymentStatus = "received"
	PaymentSent      PaymentStatus = "sent"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentPending   PaymentStatus = "pending"
	PaymentNotPaid   PaymentStatus = "not_paid"
)

// IsFinalized reports whether the payment counts as settled.
func (s PaymentStatus) IsFinalized() bool {
	return s == PaymentReceived || s == PaymentSent || s == PaymentConfirmed
}

// IsPending reports whether the payment is recorded but not yet settled.
func (s PaymentStatus) IsPending() bool {
	return s == PaymentPending
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	return s.IsFinalized() || s.IsPending() || s == PaymentNotPaid
}

// Payment is money received or sent, split across invoices by its applications.
type Payment struct {
	ID            uuid.UUID
	Status        PaymentStatus
	Amount        decimal.Decimal
	EffectiveDate time.Time
	Reference     string
	Applications  []PaymentApplication
	CreatedAt     time.Time
}

// InvoiceIDs returns the distinct invoices the payment is applied to, in
// application order. Applications without an invoice are skipped.
func (p *Payment) InvoiceIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.Applications))

	var ids []uuid.UUID

	for _, a := range p.Applications {
		if a.InvoiceID == nil || *a.InvoiceID == uuid.Nil {
			continue
		}

		if _, ok := seen[*a.InvoiceID]; ok {
			continue
		}

		seen[*a.InvoiceID] = struct{}{}
		ids = append(ids, *a.InvoiceID)
	}

	return ids
}

// PaymentApplication is the part of a payment counted against one invoice.
// EffectiveDate and Status come from the owning payment.
type PaymentApplication struct {
	ID            uuid.UUID
	PaymentID     uuid.UUID
	InvoiceID     *uuid.UUID
	AmountApplied decimal.Decimal
	EffectiveDate time.Time
	Status        PaymentStatus
}

// AdjustmentType classifies an adjustment.
type AdjustmentType string

const (
	AdjustmentEarlyPayDiscount AdjustmentType = "early_pay_discount"
	AdjustmentCashDiscount     AdjustmentType = "cash_discount"
	AdjustmentWriteOff         AdjustmentType = "write_off"
	AdjustmentPenalty          AdjustmentType = "penalty"
	AdjustmentOther            AdjustmentType = "adjustment"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentEarlyPayDiscount, AdjustmentCashDiscount, AdjustmentWriteOff,
		AdjustmentPenalty, AdjustmentOther:
		return true
	}

	return false
}

// Adjustment is a signed amount layered on top of the invoice total.
// The amount is added to the total, so discounts are negative.
type Adjustment struct {
	ID            uuid.UUID
	InvoiceID     uuid.UUID
	Type          AdjustmentType
	Amount        decimal.Decimal
	EffectiveDate time.Time
	Description   string
	CreatedAt     time.Time
}
