// Package report builds the month-wise profit report: the transactions
// of one calendar month plus their totals, ready for display or PDF
// rendering.
package report

import (
	"sort"
	"time"

	"github.com/hskhan/scrapledger/internal/ledger"
)

// Month identifies one calendar month in a given location.
type Month struct {
	Year  int
	Month time.Month
	loc   *time.Location
}

func NewMonth(year int, month time.Month, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}

	return Month{Year: year, Month: month, loc: loc}
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month(), t.Location())
}

// Range returns the half-open interval [start, end) covering the month.
func (m Month) Range() (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.loc)

	return start, start.AddDate(0, 1, 0)
}

// Label formats the month for report headings, e.g. "March 2026".
func (m Month) Label() string {
	start, _ := m.Range()

	return start.Format("January 2006")
}

// Totals are the headline figures of a monthly report. Due counts
// outstanding balances of both kinds: receivable on sells, payable on
// purchases.
type Totals struct {
	TotalSells     float64
	TotalPurchases float64
	Profit         float64
	Due            float64
	Net            float64
}

// Monthly is the computed report for one month.
type Monthly struct {
	Month  Month
	Rows   []ledger.Transaction
	Totals Totals
}

// Build selects the month's transactions from txs and computes totals.
// Rows come back newest first. Transactions without a creation time
// cannot be placed in any month and are left out.
func Build(m Month, txs []ledger.Transaction) Monthly {
	start, end := m.Range()

	var rows []ledger.Transaction
	for _, tx := range txs {
		if tx.CreatedAt.IsZero() {
			continue
		}

		if tx.CreatedAt.Before(start) || !tx.CreatedAt.Before(end) {
			continue
		}

		rows = append(rows, tx)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	var totals Totals
	for _, tx := range rows {
		switch tx.Kind {
		case ledger.KindSell:
			totals.TotalSells += tx.TotalAmount
			totals.Profit += tx.Profit
		case ledger.KindPurchase:
			totals.TotalPurchases += tx.TotalAmount
		}

		if tx.RemainingAmount > 0 {
			totals.Due += tx.RemainingAmount
		}
	}

	totals.Net = totals.TotalSells - totals.TotalPurchases

	return Monthly{Month: m, Rows: rows, Totals: totals}
}
