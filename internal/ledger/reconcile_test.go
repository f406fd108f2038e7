package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hskhan/scrapledger/internal/ledger"
)

func TestApplyPayment_Rejections(t *testing.T) {
	tx := ledger.Transaction{TotalAmount: 1000, PaidAmount: 800, RemainingAmount: 200}

	tests := []struct {
		name    string
		amount  float64
		wantErr error
	}{
		{"zero", 0, ledger.ErrInvalidAmount},
		{"negative", -50, ledger.ErrInvalidAmount},
		{"nan", math.NaN(), ledger.ErrInvalidAmount},
		{"positive infinity", math.Inf(1), ledger.ErrInvalidAmount},
		{"overpayment", 250, ledger.ErrExceedsBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.ApplyPayment(tx, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tx, got, "input must be returned unchanged on rejection")
		})
	}
}

func TestApplyPayment_PartialAndFull(t *testing.T) {
	tx := ledger.Transaction{TotalAmount: 1000, RemainingAmount: 1000}

	tx, err := ledger.ApplyPayment(tx, 800)
	require.NoError(t, err)
	assert.Equal(t, 800.0, tx.PaidAmount)
	assert.Equal(t, 200.0, tx.RemainingAmount)
	assert.False(t, tx.UpdatedAt.IsZero())

	tx, err = ledger.ApplyPayment(tx, 200)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, tx.PaidAmount)
	assert.Zero(t, tx.RemainingAmount)
	assert.False(t, tx.Pending())
}

func TestApplyPayment_BalanceInvariant(t *testing.T) {
	tx := ledger.Normalize(ledger.RawRecord{
		"type":  "purchase",
		"items": []any{map[string]any{"description": "Scrap", "quantityKg": 10, "ratePerKg": 100}},
	})

	tx, err := ledger.ApplyPayment(tx, 350)
	require.NoError(t, err)
	assert.Equal(t, math.Max(tx.TotalAmount-tx.PaidAmount, 0), tx.RemainingAmount)
}

func TestLedgerScenario_PurchaseToSettled(t *testing.T) {
	tx := ledger.Normalize(ledger.RawRecord{
		"type":         "purchase",
		"supplierName": "Bilal Metals",
		"items": []any{
			map[string]any{"description": "Iron scrap", "quantityKg": 10, "ratePerKg": 100},
		},
	})

	assert.Equal(t, 1000.0, tx.TotalAmount)
	assert.Zero(t, tx.PaidAmount)
	assert.Equal(t, 1000.0, tx.RemainingAmount)

	tx, err := ledger.ApplyPayment(tx, 800)
	require.NoError(t, err)
	assert.Equal(t, 800.0, tx.PaidAmount)
	assert.Equal(t, 200.0, tx.RemainingAmount)
	assert.NotEmpty(t, ledger.FilterPending([]ledger.Transaction{tx}))

	tx, err = ledger.ApplyPayment(tx, 200)
	require.NoError(t, err)
	assert.Zero(t, tx.RemainingAmount)
	assert.Empty(t, ledger.FilterPending([]ledger.Transaction{tx}))
}

func TestApplyFullEdit(t *testing.T) {
	original := ledger.Normalize(ledger.RawRecord{
		"type":       "sell",
		"buyerName":  "Old Buyer",
		"invoiceNo":  "SSK-0012",
		"items":      []any{map[string]any{"description": "Copper", "quantityKg": 5, "unitRate": 100, "costRate": 70}},
		"paidAmount": 100,
		"createdAt":  "2026-04-01T10:00:00Z",
	})

	edited := ledger.ApplyFullEdit(original, ledger.EditParams{
		PartyName:    "New Buyer",
		PartyContact: "0345-9999999",
		Items: []ledger.Item{
			{Description: "Copper", QuantityKg: 8, UnitRate: 110, CostRate: 70},
		},
		PaidAmount: 500,
	})

	// Identity survives the edit.
	assert.Equal(t, original.ID, edited.ID)
	assert.Equal(t, original.Kind, edited.Kind)
	assert.Equal(t, "SSK-0012", edited.InvoiceNumber)
	assert.True(t, edited.CreatedAt.Equal(original.CreatedAt))

	// Everything derived is recomputed from the replacement items.
	assert.Equal(t, "New Buyer", edited.PartyName)
	assert.Equal(t, 880.0, edited.TotalAmount)
	assert.Equal(t, 320.0, edited.Profit)
	assert.Equal(t, 500.0, edited.PaidAmount)
	assert.Equal(t, 380.0, edited.RemainingAmount)
}

func TestApplyFullEdit_CanCorrectPaidDownward(t *testing.T) {
	original := ledger.Normalize(ledger.RawRecord{
		"type":       "purchase",
		"name":       "Supplier",
		"items":      []any{map[string]any{"description": "Scrap", "quantityKg": 2, "rate": 500}},
		"paidAmount": 900,
	})

	edited := ledger.ApplyFullEdit(original, ledger.EditParams{
		PartyName:  "Supplier",
		Items:      original.Items,
		PaidAmount: 100,
	})

	assert.Equal(t, 100.0, edited.PaidAmount)
	assert.Equal(t, 900.0, edited.RemainingAmount)
}
