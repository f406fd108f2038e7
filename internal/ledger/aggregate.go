package ledger

import (
	"sort"
	"time"
)

// Summary holds the dashboard totals over a set of transactions.
type Summary struct {
	TotalSells     float64
	TotalPurchases float64
	TotalProfit    float64 // sells only
	TotalDue       float64 // outstanding balances, both kinds
	NetProfit      float64 // TotalSells - TotalPurchases
}

// PeriodMetrics are the profit figures for the calendar day, month and
// year containing a reference instant.
type PeriodMetrics struct {
	DailyProfit   float64
	MonthlyProfit float64
	YearlyProfit  float64
}

// Summarize folds transactions into dashboard totals in one pass.
// Records of an unrecognized kind contribute to neither the sell nor
// the purchase side but still count toward the outstanding due.
func Summarize(txs []Transaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch tx.Kind {
		case KindSell:
			s.TotalSells += tx.TotalAmount
			s.TotalProfit += tx.Profit
		case KindPurchase:
			s.TotalPurchases += tx.TotalAmount
		}

		if tx.RemainingAmount > 0 {
			s.TotalDue += tx.RemainingAmount
		}
	}

	s.NetProfit = s.TotalSells - s.TotalPurchases

	return s
}

// MetricsForPeriod sums sell profit over the calendar day, month and
// year containing ref, interpreted in ref's location. Transactions
// without a usable creation time are skipped.
func MetricsForPeriod(txs []Transaction, ref time.Time) PeriodMetrics {
	var m PeriodMetrics

	loc := ref.Location()

	for _, tx := range txs {
		if tx.Kind != KindSell || tx.CreatedAt.IsZero() {
			continue
		}

		at := tx.CreatedAt.In(loc)

		if at.Year() != ref.Year() {
			continue
		}

		m.YearlyProfit += tx.Profit

		if at.Month() != ref.Month() {
			continue
		}

		m.MonthlyProfit += tx.Profit

		if at.Day() == ref.Day() {
			m.DailyProfit += tx.Profit
		}
	}

	return m
}

// FilterPending returns the transactions with an unpaid balance, newest
// first. Records without a usable creation time sort last; the order is
// stable across equal timestamps.
func FilterPending(txs []Transaction) []Transaction {
	var pending []Transaction

	for _, tx := range txs {
		if tx.RemainingAmount > 0 {
			pending = append(pending, tx)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].CreatedAt, pending[j].CreatedAt

		if a.IsZero() {
			return false
		}

		if b.IsZero() {
			return true
		}

		return a.After(b)
	})

	return pending
}
