// Package pdf renders printable invoices and the monthly profit report.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/report"
	"github.com/hskhan/scrapledger/internal/share"
)

// DefaultCurrency labels amounts when no currency is configured.
const DefaultCurrency = "PKR"

// Renderer carries the letterhead details stamped on every document.
type Renderer struct {
	businessName  string
	businessPhone string
	currency      string
}

func NewRenderer(businessName, businessPhone, currency string) *Renderer {
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Renderer{businessName: businessName, businessPhone: businessPhone, currency: currency}
}

func (r *Renderer) money(v float64) string {
	return share.FormatMoney(v) + " " + r.currency
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("02 Jan 2006")
}

// Invoice writes the printable invoice for tx to w. Sell invoices carry
// the weight summary; both kinds end with total, paid and balance.
func (r *Renderer) Invoice(w io.Writer, tx ledger.Transaction) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(tx.InvoiceNumber, false)
	doc.AddPage()

	r.letterhead(doc)

	title := "Purchase Invoice"
	partyLabel := "Supplier"
	paidLabel := "Paid"
	if tx.Kind == ledger.KindSell {
		title = "Sell Invoice"
		partyLabel = "Buyer"
		paidLabel = "Received"
	}

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, strings.ToUpper(title), "", 1, "C", false, 0, "")
	doc.Ln(4)

	// Party block on the left, invoice meta on the right.
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(95, 5, partyLabel+": "+tx.PartyDisplay(), "", 0, "L", false, 0, "")
	doc.CellFormat(0, 5, "Invoice: "+tx.InvoiceNumber, "", 1, "R", false, 0, "")
	doc.CellFormat(95, 5, "Phone: "+orNA(tx.PartyContact), "", 0, "L", false, 0, "")
	doc.CellFormat(0, 5, "Date: "+formatDate(tx.CreatedAt), "", 1, "R", false, 0, "")

	if addr := strings.TrimSpace(tx.Address); addr != "" {
		doc.CellFormat(0, 5, "Address: "+addr, "", 1, "L", false, 0, "")
	}

	doc.Ln(6)

	r.itemTable(doc, tx)
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 10)
	if tx.Kind == ledger.KindSell {
		r.summaryRow(doc, "Total KG", share.FormatMoney(tx.TotalKg())+" KG", false)
		r.summaryRow(doc, "Overall Rate", r.money(tx.OverallRate())+" / KG", false)
	}
	r.summaryRow(doc, "Total", r.money(tx.TotalAmount), false)
	r.summaryRow(doc, paidLabel, r.money(tx.PaidAmount), false)
	r.summaryRow(doc, "Balance", r.money(tx.RemainingAmount), true)

	return doc.Output(w)
}

// MonthlyReport writes the month-wise profit report to w: headline
// totals, then one row per transaction, newest first.
func (r *Renderer) MonthlyReport(w io.Writer, m report.Monthly) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Profit Report "+m.Month.Label(), false)
	doc.AddPage()

	r.letterhead(doc)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "PROFIT REPORT", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Month: "+m.Month.Label(), "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 9)
	summary := fmt.Sprintf("Sales: %s   Purchases: %s   Profit: %s   Due: %s",
		r.money(m.Totals.TotalSells), r.money(m.Totals.TotalPurchases),
		r.money(m.Totals.Profit), r.money(m.Totals.Due))
	doc.CellFormat(0, 5, summary, "", 1, "C", false, 0, "")
	doc.Ln(4)

	widths := []float64{24, 24, 20, 42, 25, 25, 25, 25}
	headers := []string{"Date", "Invoice", "Type", "Party", "Total", "Paid", "Due", "Profit"}

	doc.SetFont("Helvetica", "B", 8)
	doc.SetFillColor(15, 23, 42)
	doc.SetTextColor(255, 255, 255)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(0, 0, 0)
	for _, tx := range m.Rows {
		profit := "-"
		if tx.Kind == ledger.KindSell {
			profit = r.money(tx.Profit)
		}

		cells := []string{
			formatDate(tx.CreatedAt),
			orNA(tx.InvoiceNumber),
			strings.ToUpper(string(tx.Kind)),
			tx.PartyDisplay(),
			r.money(tx.TotalAmount),
			r.money(tx.PaidAmount),
			r.money(tx.RemainingAmount),
			profit,
		}

		for i, c := range cells {
			align := "L"
			if i >= 4 {
				align = "R"
			}
			doc.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	return doc.Output(w)
}

func (r *Renderer) letterhead(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, strings.ToUpper(r.businessName), "", 1, "C", false, 0, "")

	if r.businessPhone != "" {
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(0, 5, r.businessPhone, "", 1, "C", false, 0, "")
	}

	doc.Ln(4)
}

func (r *Renderer) itemTable(doc *fpdf.Fpdf, tx ledger.Transaction) {
	widths := []float64{90, 30, 35, 35}
	headers := []string{"Item Description", "Qty (KG)", "Unit Rate", "Sub Total"}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		doc.CellFormat(widths[i], 7, h, "1", 0, align, true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, item := range tx.Items {
		doc.CellFormat(widths[0], 6, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, share.FormatMoney(item.QuantityKg), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, r.money(item.UnitRate), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, r.money(item.LineTotal), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
}

func (r *Renderer) summaryRow(doc *fpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}

	doc.SetFont("Helvetica", style, 10)
	doc.CellFormat(155, 6, label, "", 0, "R", false, 0, "")
	doc.CellFormat(35, 6, value, "", 1, "R", false, 0, "")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}
