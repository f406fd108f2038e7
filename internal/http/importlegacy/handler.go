// Package importlegacy accepts the old bookkeeping CSV exports and
// loads them into the ledger.
package importlegacy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/legacyimport"
)

type Handler struct {
	parser *legacyimport.Parser
	svc    *ledger.Service
}

func NewHandler(parser *legacyimport.Parser, svc *ledger.Service) *Handler {
	return &Handler{parser: parser, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/legacy", h.importLegacy)
}

type skipResponse struct {
	InvoiceNumber string `json:"invoice_number,omitempty"`
	PartyName     string `json:"party_name,omitempty"`
	Reason        string `json:"reason"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Invoices []string       `json:"invoices"`
	Skipped  []skipResponse `json:"skipped"`
}

func (h *Handler) importLegacy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raws, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(r.Context(), raws)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := importResponse{
		Imported: len(result.Imported),
		Invoices: make([]string, 0, len(result.Imported)),
		Skipped:  make([]skipResponse, 0, len(result.Skipped)),
	}

	for _, tx := range result.Imported {
		resp.Invoices = append(resp.Invoices, tx.InvoiceNumber)
	}

	for _, s := range result.Skipped {
		resp.Skipped = append(resp.Skipped, skipResponse{
			InvoiceNumber: s.InvoiceNumber,
			PartyName:     s.PartyName,
			Reason:        s.Reason,
		})
	}

	slog.Info("legacy import finished",
		"imported", resp.Imported, "skipped", len(resp.Skipped))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
