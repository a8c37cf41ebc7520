package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

type applicationResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

type paymentResponse struct {
	ID            uuid.UUID             `json:"id"`
	Status        invoice.PaymentStatus `json:"status"`
	Amount        decimal.Decimal       `json:"amount"`
	EffectiveDate time.Time             `json:"effective_date"`
	Reference     string                `json:"reference,omitempty"`
	Applications  []applicationResponse `json:"applications"`
	CreatedAt     time.Time             `json:"created_at"`
}

type failureResponse struct {
	Index     int    `json:"index"`
	Reference string `json:"reference,omitempty"`
	Error     string `json:"error"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Payments []paymentResponse `json:"payments"`
	Failed   []failureResponse `json:"failed"`
}

func toResponse(p *invoice.Payment) paymentResponse {
	resp := paymentResponse{
		ID:            p.ID,
		Status:        p.Status,
		Amount:        p.Amount,
		EffectiveDate: p.EffectiveDate,
		Reference:     p.Reference,
		Applications:  make([]applicationResponse, 0, len(p.Applications)),
		CreatedAt:     p.CreatedAt,
	}

	for _, a := range p.Applications {
		resp.Applications = append(resp.Applications, applicationResponse{
			ID:        a.ID,
			InvoiceID: a.InvoiceID,
			Amount:    a.AmountApplied,
		})
	}

	return resp
}

func toImportResponse(result *payment.BatchResult) importResponse {
	resp := importResponse{
		Imported: len(result.Posted),
		Payments: make([]paymentResponse, 0, len(result.Posted)),
		Failed:   make([]failureResponse, 0, len(result.Failed)),
	}

	for _, p := range result.Posted {
		resp.Payments = append(resp.Payments, toResponse(p))
	}

	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, failureResponse{
			Index:     f.Index,
			Reference: f.Reference,
			Error:     f.Err.Error(),
		})
	}

	return resp
}
