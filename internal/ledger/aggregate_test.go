package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hskhan/scrapledger/internal/ledger"
)

func TestSummarize(t *testing.T) {
	txs := []ledger.Transaction{
		{Kind: ledger.KindSell, TotalAmount: 1000, Profit: 200, RemainingAmount: 0},
		{Kind: ledger.KindSell, TotalAmount: 500, Profit: 100, RemainingAmount: 500},
		{Kind: ledger.KindPurchase, TotalAmount: 800, RemainingAmount: 300},
	}

	got := ledger.Summarize(txs)

	assert.Equal(t, ledger.Summary{
		TotalSells:     1500,
		TotalPurchases: 800,
		TotalProfit:    300,
		TotalDue:       800,
		NetProfit:      700,
	}, got)
}

func TestSummarize_UnknownKindOnlyCountsTowardDue(t *testing.T) {
	txs := []ledger.Transaction{
		{Kind: ledger.Kind("adjustment"), TotalAmount: 900, Profit: 50, RemainingAmount: 120},
	}

	got := ledger.Summarize(txs)

	assert.Zero(t, got.TotalSells)
	assert.Zero(t, got.TotalPurchases)
	assert.Zero(t, got.TotalProfit)
	assert.Equal(t, 120.0, got.TotalDue)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, ledger.Summary{}, ledger.Summarize(nil))
}

func TestMetricsForPeriod(t *testing.T) {
	ref := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	txs := []ledger.Transaction{
		// Same day.
		{Kind: ledger.KindSell, Profit: 100, CreatedAt: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)},
		// Same month, different day.
		{Kind: ledger.KindSell, Profit: 40, CreatedAt: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)},
		// Same year, different month.
		{Kind: ledger.KindSell, Profit: 7, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		// Previous year.
		{Kind: ledger.KindSell, Profit: 1000, CreatedAt: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)},
		// Purchases never contribute.
		{Kind: ledger.KindPurchase, Profit: 0, TotalAmount: 500, CreatedAt: ref},
		// Unusable timestamp is skipped.
		{Kind: ledger.KindSell, Profit: 9999},
	}

	got := ledger.MetricsForPeriod(txs, ref)

	assert.Equal(t, 100.0, got.DailyProfit)
	assert.Equal(t, 140.0, got.MonthlyProfit)
	assert.Equal(t, 147.0, got.YearlyProfit)
}

func TestMetricsForPeriod_UsesReferenceLocation(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*3600)

	// 2026-08-15 21:00 UTC is already 2026-08-16 in Karachi.
	sale := ledger.Transaction{
		Kind:      ledger.KindSell,
		Profit:    50,
		CreatedAt: time.Date(2026, 8, 15, 21, 0, 0, 0, time.UTC),
	}

	ref := time.Date(2026, 8, 16, 9, 0, 0, 0, karachi)

	got := ledger.MetricsForPeriod([]ledger.Transaction{sale}, ref)
	assert.Equal(t, 50.0, got.DailyProfit)
}

func TestMetricsForPeriod_Empty(t *testing.T) {
	assert.Equal(t, ledger.PeriodMetrics{}, ledger.MetricsForPeriod(nil, time.Now()))
}

func TestFilterPending_NewestFirst(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 0, 1)
	t3 := t1.AddDate(0, 0, 2)

	txs := []ledger.Transaction{
		{InvoiceNumber: "SSK-0001", RemainingAmount: 10, CreatedAt: t1},
		{InvoiceNumber: "SSK-0002", RemainingAmount: 10, CreatedAt: t2},
		{InvoiceNumber: "SSK-0003", RemainingAmount: 10, CreatedAt: t3},
		{InvoiceNumber: "SSK-0004", RemainingAmount: 0, CreatedAt: t3},
	}

	got := ledger.FilterPending(txs)

	require.Len(t, got, 3)
	assert.Equal(t, "SSK-0003", got[0].InvoiceNumber)
	assert.Equal(t, "SSK-0002", got[1].InvoiceNumber)
	assert.Equal(t, "SSK-0001", got[2].InvoiceNumber)
}

func TestFilterPending_UnknownCreatedAtSortsLast(t *testing.T) {
	known := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	txs := []ledger.Transaction{
		{InvoiceNumber: "PSK-0001", RemainingAmount: 5},
		{InvoiceNumber: "PSK-0002", RemainingAmount: 5, CreatedAt: known},
	}

	got := ledger.FilterPending(txs)

	require.Len(t, got, 2)
	assert.Equal(t, "PSK-0002", got[0].InvoiceNumber)
	assert.Equal(t, "PSK-0001", got[1].InvoiceNumber)
}
