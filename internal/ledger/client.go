// Package ledger forwards posted invoices and adjustments to the external
// general ledger service.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

// Client implements invoice.LedgerPoster over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a ledger client. A zero timeout defaults to 30 seconds.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type invoicePosting struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Type          invoice.Type    `json:"type"`
	Side          string          `json:"side"`
	Currency      string          `json:"currency"`
	InvoiceDate   string          `json:"invoice_date"`
	Total         decimal.Decimal `json:"total"`
	TaxedSubtotal decimal.Decimal `json:"taxed_subtotal"`
}

type adjustmentPosting struct {
	InvoiceID     uuid.UUID              `json:"invoice_id"`
	AdjustmentID  uuid.UUID              `json:"adjustment_id"`
	Type          invoice.AdjustmentType `json:"type"`
	Side          string                 `json:"side"`
	Currency      string                 `json:"currency"`
	Amount        decimal.Decimal        `json:"amount"`
	EffectiveDate string                 `json:"effective_date"`
}

func side(t invoice.Type) string {
	if t.IsPayable() {
		return "payable"
	}

	return "receivable"
}

func (c *Client) PostInvoice(ctx context.Context, inv *invoice.Invoice) error {
	return c.post(ctx, "/v1/postings/invoices", invoicePosting{
		InvoiceID:     inv.ID,
		Type:          inv.Type,
		Side:          side(inv.Type),
		Currency:      inv.Currency,
		InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
		Total:         inv.Amounts.Total,
		TaxedSubtotal: inv.Amounts.TaxedSubtotal,
	})
}

func (c *Client) PostAdjustment(ctx context.Context, inv *invoice.Invoice, adj *invoice.Adjustment) error {
	return c.post(ctx, "/v1/postings/adjustments", adjustmentPosting{
		InvoiceID:     inv.ID,
		AdjustmentID:  adj.ID,
		Type:          adj.Type,
		Side:          side(inv.Type),
		Currency:      inv.Currency,
		Amount:        adj.Amount,
		EffectiveDate: adj.EffectiveDate.Format(time.DateOnly),
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding posting: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(msg)))
	}

	return nil
}
