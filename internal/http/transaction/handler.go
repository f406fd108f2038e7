package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/pdf"
	"github.com/hskhan/scrapledger/internal/share"
)

type Handler struct {
	svc      *ledger.Service
	renderer *pdf.Renderer
}

func NewHandler(svc *ledger.Service, renderer *pdf.Renderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/pending", h.listPending)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/payments", h.recordPayment)
	r.Get("/{id}/invoice.pdf", h.invoicePDF)
	r.Get("/{id}/whatsapp", h.whatsappLink)
}

type itemRequest struct {
	Description string  `json:"description"`
	QuantityKg  float64 `json:"quantity_kg"`
	UnitRate    float64 `json:"unit_rate"`
	CostRate    float64 `json:"cost_rate"`
}

type createTransactionRequest struct {
	Kind         ledger.Kind   `json:"kind"`
	PartyName    string        `json:"party_name"`
	PartyContact string        `json:"party_contact"`
	Address      string        `json:"address"`
	Items        []itemRequest `json:"items"`
	PaidAmount   float64       `json:"paid_amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := ledger.CreateParams{
		Kind:         ledger.NormalizeKind(string(req.Kind)),
		PartyName:    req.PartyName,
		PartyContact: req.PartyContact,
		Address:      req.Address,
		PaidAmount:   req.PaidAmount,
	}

	for _, it := range req.Items {
		params.Items = append(params.Items, ledger.ItemParams{
			Description: it.Description,
			QuantityKg:  it.QuantityKg,
			UnitRate:    it.UnitRate,
			CostRate:    it.CostRate,
		})
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context(), filterFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListPending(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	PartyName    string        `json:"party_name"`
	PartyContact string        `json:"party_contact"`
	Address      string        `json:"address"`
	Items        []itemRequest `json:"items"`
	PaidAmount   float64       `json:"paid_amount"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	edit := ledger.EditParams{
		PartyName:    req.PartyName,
		PartyContact: req.PartyContact,
		Address:      req.Address,
		PaidAmount:   req.PaidAmount,
	}

	for _, it := range req.Items {
		edit.Items = append(edit.Items, ledger.Item{
			Description: it.Description,
			QuantityKg:  it.QuantityKg,
			UnitRate:    it.UnitRate,
			CostRate:    it.CostRate,
		})
	}

	tx, err := h.svc.Edit(r.Context(), id, edit)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type recordPaymentRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.RecordPayment(r.Context(), id, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", tx.InvoiceNumber+".pdf"))

	if err := h.renderer.Invoice(w, tx); err != nil {
		slog.Error("failed to render invoice", "invoice", tx.InvoiceNumber, "error", err)
	}
}

type whatsappResponse struct {
	Link    string `json:"link"`
	Message string `json:"message"`
}

func (h *Handler) whatsappLink(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.lookup(w, r)
	if !ok {
		return
	}

	resp := whatsappResponse{
		Link:    share.InvoiceLink(tx),
		Message: share.InvoiceMessage(tx),
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// lookup resolves the {id} route param, writing the error response
// itself when the transaction cannot be served.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (ledger.Transaction, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return ledger.Transaction{}, false
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return ledger.Transaction{}, false
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return ledger.Transaction{}, false
	}

	return tx, true
}

func filterFromQuery(r *http.Request) ledger.ListFilter {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("kind"); s != "" {
		filter.Kind = new(ledger.NormalizeKind(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	return filter
}

// writeLedgerError maps domain errors onto HTTP statuses: validation
// and payment rejections are the caller's problem (422), an exhausted
// invoice allocation is a conflict (409).
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrExceedsBalance),
		errors.Is(err, ledger.ErrMissingParty),
		errors.Is(err, ledger.ErrNoItems):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ledger.ErrInvoiceConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
