package invoice

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/response"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Get("/{id}/balances", h.balances)

	r.Post("/{id}/items", h.addItem)
	r.Patch("/{id}/items/{itemID}", h.updateItem)
	r.Delete("/{id}/items/{itemID}", h.removeItem)

	r.Post("/{id}/ready", h.action(h.svc.MarkReady))
	r.Post("/{id}/cancel", h.action(h.svc.Cancel))
	r.Post("/{id}/void", h.action(h.svc.Void))
	r.Post("/{id}/write-off", h.action(h.svc.WriteOff))
	r.Post("/{id}/recalculate", h.recalculate)
	r.Post("/{id}/check-paid", h.checkPaid)
}

type createInvoiceRequest struct {
	Type        invoice.Type `json:"type"`
	Currency    string       `json:"currency"`
	Description string       `json:"description"`
	InvoiceDate time.Time    `json:"invoice_date"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		Type:        req.Type,
		Currency:    req.Currency,
		Description: req.Description,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(inv, nil))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	items, err := h.svc.Items(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(inv, items))
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	asOf := h.svc.Now()

	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := invoice.ParseAsOf(s)
		if err != nil {
			response.BadRequest(w, "invalid as_of, expected YYYY-MM-DD")
			return
		}

		asOf = t
	}

	amounts, err := h.svc.Balances(r.Context(), id, asOf)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, balancesResponse{
		InvoiceID: id,
		AsOf:      asOf,
		Amounts:   toAmountsResponse(amounts),
	})
}

type itemRequest struct {
	Type            invoice.ItemType `json:"type"`
	ProductID       string           `json:"product_id,omitempty"`
	Description     string           `json:"description"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	ParentInvoiceID *uuid.UUID       `json:"parent_invoice_id,omitempty"`
	Tags            map[int]string   `json:"tags,omitempty"`
}

func (req itemRequest) params() invoice.ItemParams {
	return invoice.ItemParams{
		Type:            req.Type,
		ProductID:       req.ProductID,
		Description:     req.Description,
		Amount:          req.Amount,
		Quantity:        req.Quantity,
		ParentInvoiceID: req.ParentInvoiceID,
		Tags:            req.Tags,
	}
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	item, err := h.svc.AddItem(r.Context(), id, req.params())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), id, itemID, req.params())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	itemID, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.svc.RemoveItem(r.Context(), id, itemID); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) action(fn func(context.Context, uuid.UUID) (*invoice.Invoice, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}

		inv, err := fn(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.JSON(w, http.StatusOK, toResponse(inv, nil))
	}
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Recalculate(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	h.respondInvoice(w, r, id)
}

type checkPaidResponse struct {
	Changed bool            `json:"changed"`
	Invoice invoiceResponse `json:"invoice"`
}

func (h *Handler) checkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	changed, err := h.svc.CheckPaid(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, checkPaidResponse{Changed: changed, Invoice: toResponse(inv, nil)})
}

func (h *Handler) respondInvoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(inv, nil))
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.BadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}
