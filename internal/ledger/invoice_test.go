package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hskhan/scrapledger/internal/ledger"
)

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		kind     ledger.Kind
		existing []string
		want     string
	}{
		{
			name:     "first purchase",
			kind:     ledger.KindPurchase,
			existing: nil,
			want:     "PSK-0001",
		},
		{
			name:     "first sell",
			kind:     ledger.KindSell,
			existing: []string{},
			want:     "SSK-0001",
		},
		{
			name:     "gaps are not refilled",
			kind:     ledger.KindPurchase,
			existing: []string{"PSK-0001", "PSK-0003"},
			want:     "PSK-0004",
		},
		{
			name:     "other namespace ignored",
			kind:     ledger.KindSell,
			existing: []string{"PSK-0042", "SSK-0002", "PSK-0050"},
			want:     "SSK-0003",
		},
		{
			name:     "malformed suffixes skipped",
			kind:     ledger.KindSell,
			existing: []string{"SSK-", "SSK-abc", "SSK-0005", "SSK0007", "garbage"},
			want:     "SSK-0006",
		},
		{
			name:     "pad overflows past four digits",
			kind:     ledger.KindSell,
			existing: []string{"SSK-9999"},
			want:     "SSK-10000",
		},
		{
			name:     "five-digit numbers keep advancing",
			kind:     ledger.KindSell,
			existing: []string{"SSK-10000", "SSK-9999"},
			want:     "SSK-10001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.NextInvoiceNumber(tt.kind, tt.existing))
		})
	}
}

func TestSequencer_CustomPrefixes(t *testing.T) {
	seq := ledger.NewSequencer("BUY-", "SLD-")

	assert.Equal(t, "BUY-", seq.Prefix(ledger.KindPurchase))
	assert.Equal(t, "SLD-", seq.Prefix(ledger.KindSell))
	assert.Equal(t, "SLD-0001", seq.Next(ledger.KindSell, []string{"SSK-0009"}))
	assert.Equal(t, "BUY-0013", seq.Next(ledger.KindPurchase, []string{"BUY-0012", "SLD-0044"}))
}

func TestSequencer_EmptyPrefixesFallBackToDefaults(t *testing.T) {
	seq := ledger.NewSequencer("", "")

	assert.Equal(t, ledger.DefaultPurchasePrefix, seq.Prefix(ledger.KindPurchase))
	assert.Equal(t, ledger.DefaultSellPrefix, seq.Prefix(ledger.KindSell))
}
