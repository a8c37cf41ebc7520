package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type amountsResponse struct {
	Total           decimal.Decimal `json:"total"`
	TaxedSubtotal   decimal.Decimal `json:"taxed_subtotal"`
	Applied         decimal.Decimal `json:"applied"`
	Adjusted        decimal.Decimal `json:"adjusted"`
	AdjustedTotal   decimal.Decimal `json:"adjusted_total"`
	Open            decimal.Decimal `json:"open"`
	PendingApplied  decimal.Decimal `json:"pending_applied"`
	PendingOpen     decimal.Decimal `json:"pending_open"`
	InterestCharged decimal.Decimal `json:"interest_charged"`
}

type itemResponse struct {
	ID              uuid.UUID        `json:"id"`
	Seq             int              `json:"seq"`
	Type            invoice.ItemType `json:"type"`
	ProductID       string           `json:"product_id,omitempty"`
	Description     string           `json:"description"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	ParentInvoiceID *uuid.UUID       `json:"parent_invoice_id,omitempty"`
	Tags            map[int]string   `json:"tags,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type invoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           invoice.Type    `json:"type"`
	Status         invoice.Status  `json:"status"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	PostedAt       *time.Time      `json:"posted_at,omitempty"`
	Amounts        amountsResponse `json:"amounts"`
	RecalculatedAt *time.Time      `json:"recalculated_at,omitempty"`
	Items          []itemResponse  `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

type balancesResponse struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	AsOf      time.Time       `json:"as_of"`
	Amounts   amountsResponse `json:"amounts"`
}

func toAmountsResponse(a invoice.Amounts) amountsResponse {
	return amountsResponse{
		Total:           a.Total,
		TaxedSubtotal:   a.TaxedSubtotal,
		Applied:         a.Applied,
		Adjusted:        a.Adjusted,
		AdjustedTotal:   a.AdjustedTotal,
		Open:            a.Open,
		PendingApplied:  a.PendingApplied,
		PendingOpen:     a.PendingOpen,
		InterestCharged: a.InterestCharged,
	}
}

func toItemResponse(item *invoice.LineItem) itemResponse {
	return itemResponse{
		ID:              item.ID,
		Seq:             item.Seq,
		Type:            item.Type,
		ProductID:       item.ProductID,
		Description:     item.Description,
		Amount:          item.Amount,
		Quantity:        item.Quantity,
		ParentInvoiceID: item.ParentInvoiceID,
		Tags:            item.Tags,
		CreatedAt:       item.CreatedAt,
	}
}

func toResponse(inv *invoice.Invoice, items []invoice.LineItem) invoiceResponse {
	resp := invoiceResponse{
		ID:             inv.ID,
		Type:           inv.Type,
		Status:         inv.Status,
		Currency:       inv.Currency,
		Description:    inv.Description,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		PaidDate:       inv.PaidDate,
		PostedAt:       inv.PostedAt,
		Amounts:        toAmountsResponse(inv.Amounts),
		RecalculatedAt: inv.RecalculatedAt,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}

	for i := range items {
		resp.Items = append(resp.Items, toItemResponse(&items[i]))
	}

	return resp
}
