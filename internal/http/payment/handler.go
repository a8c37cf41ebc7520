package payment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/response"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc       *payment.Service
	importSvc *importer.Service
}

func NewHandler(svc *payment.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.post)
	r.Post("/import", h.importFile)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
}

type applicationRequest struct {
	InvoiceID *uuid.UUID      `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type postPaymentRequest struct {
	Status        invoice.PaymentStatus `json:"status"`
	Amount        decimal.Decimal       `json:"amount"`
	EffectiveDate time.Time             `json:"effective_date"`
	Reference     string                `json:"reference"`
	Applications  []applicationRequest  `json:"applications"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	var req postPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	params := payment.PostParams{
		Status:        req.Status,
		Amount:        req.Amount,
		EffectiveDate: req.EffectiveDate,
		Reference:     req.Reference,
	}

	for _, a := range req.Applications {
		params.Applications = append(params.Applications, payment.ApplicationParams{
			InvoiceID: a.InvoiceID,
			Amount:    a.Amount,
		})
	}

	p, err := h.svc.Post(r.Context(), params)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(p))
}

type updateStatusRequest struct {
	Status invoice.PaymentStatus `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatRemittance
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toImportResponse(result))
}
