package adjustment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/adjustment"
	"github.com/MrJamesThe3rd/tally/internal/http/response"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

// Handler serves the adjustments of one invoice. It is mounted under
// /invoices/{id}/adjustments.
type Handler struct {
	svc *adjustment.Service
}

func NewHandler(svc *adjustment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createAdjustmentRequest struct {
	Type          invoice.AdjustmentType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	EffectiveDate *time.Time             `json:"effective_date,omitempty"`
	Description   string                 `json:"description"`
}

type adjustmentResponse struct {
	ID            uuid.UUID              `json:"id"`
	InvoiceID     uuid.UUID              `json:"invoice_id"`
	Type          invoice.AdjustmentType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	EffectiveDate time.Time              `json:"effective_date"`
	Description   string                 `json:"description,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

func toResponse(a *invoice.Adjustment) adjustmentResponse {
	return adjustmentResponse{
		ID:            a.ID,
		InvoiceID:     a.InvoiceID,
		Type:          a.Type,
		Amount:        a.Amount,
		EffectiveDate: a.EffectiveDate,
		Description:   a.Description,
		CreatedAt:     a.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	var req createAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	params := adjustment.CreateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.EffectiveDate != nil {
		params.EffectiveDate = *req.EffectiveDate
	}

	adj, err := h.svc.Create(r.Context(), invoiceID, params)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(adj))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	adjs, err := h.svc.List(r.Context(), invoiceID)
	if err != nil {
		response.Error(w, err)
		return
	}

	resp := make([]adjustmentResponse, len(adjs))
	for i := range adjs {
		resp[i] = toResponse(&adjs[i])
	}

	response.JSON(w, http.StatusOK, resp)
}
