// Package reports serves the aggregate endpoints: summary totals,
// period profit metrics and the month-wise profit report.
package reports

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/pdf"
	"github.com/hskhan/scrapledger/internal/report"
)

type Handler struct {
	svc      *ledger.Service
	renderer *pdf.Renderer
}

func NewHandler(svc *ledger.Service, renderer *pdf.Renderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/metrics", h.metrics)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/monthly", h.monthly)
		r.Get("/monthly.pdf", h.monthlyPDF)
	})
}

type summaryResponse struct {
	TotalSells     float64 `json:"total_sells"`
	TotalPurchases float64 `json:"total_purchases"`
	TotalProfit    float64 `json:"total_profit"`
	TotalDue       float64 `json:"total_due"`
	NetProfit      float64 `json:"net_profit"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), filterFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		TotalSells:     summary.TotalSells,
		TotalPurchases: summary.TotalPurchases,
		TotalProfit:    summary.TotalProfit,
		TotalDue:       summary.TotalDue,
		NetProfit:      summary.NetProfit,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type metricsResponse struct {
	DailyProfit   float64 `json:"daily_profit"`
	MonthlyProfit float64 `json:"monthly_profit"`
	YearlyProfit  float64 `json:"yearly_profit"`
}

// metrics reports profit for the calendar day, month and year around
// the reference time, ?at=YYYY-MM-DD, defaulting to now.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	at := time.Now()
	if s := r.URL.Query().Get("at"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			http.Error(w, "invalid at date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		at = t
	}

	metrics, err := h.svc.Metrics(r.Context(), at)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := metricsResponse{
		DailyProfit:   metrics.DailyProfit,
		MonthlyProfit: metrics.MonthlyProfit,
		YearlyProfit:  metrics.YearlyProfit,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type monthlyRowResponse struct {
	Date          time.Time   `json:"date"`
	InvoiceNumber string      `json:"invoice_number"`
	Kind          ledger.Kind `json:"kind"`
	PartyName     string      `json:"party_name"`
	Total         float64     `json:"total"`
	Paid          float64     `json:"paid"`
	Due           float64     `json:"due"`
	Profit        float64     `json:"profit"`
}

type monthlyResponse struct {
	Month          string               `json:"month"`
	TotalSells     float64              `json:"total_sells"`
	TotalPurchases float64              `json:"total_purchases"`
	Profit         float64              `json:"profit"`
	Due            float64              `json:"due"`
	Net            float64              `json:"net"`
	Rows           []monthlyRowResponse `json:"rows"`
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	monthly, ok := h.buildMonthly(w, r)
	if !ok {
		return
	}

	resp := monthlyResponse{
		Month:          monthly.Month.Label(),
		TotalSells:     monthly.Totals.TotalSells,
		TotalPurchases: monthly.Totals.TotalPurchases,
		Profit:         monthly.Totals.Profit,
		Due:            monthly.Totals.Due,
		Net:            monthly.Totals.Net,
		Rows:           make([]monthlyRowResponse, 0, len(monthly.Rows)),
	}

	for _, tx := range monthly.Rows {
		resp.Rows = append(resp.Rows, monthlyRowResponse{
			Date:          tx.CreatedAt,
			InvoiceNumber: tx.InvoiceNumber,
			Kind:          tx.Kind,
			PartyName:     tx.PartyName,
			Total:         tx.TotalAmount,
			Paid:          tx.PaidAmount,
			Due:           tx.RemainingAmount,
			Profit:        tx.Profit,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) monthlyPDF(w http.ResponseWriter, r *http.Request) {
	monthly, ok := h.buildMonthly(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`attachment; filename="profit-report-`+monthly.Month.Label()+`.pdf"`)

	if err := h.renderer.MonthlyReport(w, monthly); err != nil {
		slog.Error("failed to render monthly report", "month", monthly.Month.Label(), "error", err)
	}
}

// buildMonthly parses ?month=YYYY-MM (default: current month), loads
// the month's transactions and computes the report. On failure it has
// already written the error response.
func (h *Handler) buildMonthly(w http.ResponseWriter, r *http.Request) (report.Monthly, bool) {
	month := report.MonthOf(time.Now())
	if s := r.URL.Query().Get("month"); s != "" {
		t, err := time.ParseInLocation("2006-01", s, time.Local)
		if err != nil {
			http.Error(w, "invalid month, want YYYY-MM", http.StatusBadRequest)
			return report.Monthly{}, false
		}
		month = report.MonthOf(t)
	}

	start, end := month.Range()
	txs, err := h.svc.List(r.Context(), ledger.ListFilter{StartDate: new(start), EndDate: new(end)})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return report.Monthly{}, false
	}

	return report.Build(month, txs), true
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
