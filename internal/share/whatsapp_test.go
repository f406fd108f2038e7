package share_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/share"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{800, "800"},
		{1500, "1,500"},
		{115000, "115,000"},
		{1234567.89, "1,234,567.89"},
		{-50000, "-50,000"},
		{120.5, "120.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, share.FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func sellInvoice() ledger.Transaction {
	return ledger.Transaction{
		Kind:          ledger.KindSell,
		InvoiceNumber: "SSK-0042",
		PartyName:     "Akbar Traders",
		PartyContact:  "0300-1234567",
		Address:       "Main Bazaar, Lahore",
		Items: []ledger.Item{
			{Description: "Copper Wire", QuantityKg: 100, UnitRate: 1150, LineTotal: 115000},
			{Description: "Brass Fittings", QuantityKg: 40, UnitRate: 780, LineTotal: 31200},
		},
		TotalAmount:     146200,
		PaidAmount:      50000,
		RemainingAmount: 96200,
	}
}

func TestInvoiceMessageSell(t *testing.T) {
	msg := share.InvoiceMessage(sellInvoice())
	lines := strings.Split(msg, "\n")

	assert.Equal(t, "Sell Invoice", lines[0])
	assert.Equal(t, "Invoice: SSK-0042", lines[1])
	assert.Equal(t, "Buyer: Akbar Traders", lines[2])
	assert.Equal(t, "Phone: 0300-1234567", lines[3])
	assert.Equal(t, "Address: Main Bazaar, Lahore", lines[4])

	assert.Contains(t, msg, "1) Copper Wire — 100kg x 1,150 = 115,000 PKR")
	assert.Contains(t, msg, "2) Brass Fittings — 40kg x 780 = 31,200 PKR")
	assert.Contains(t, msg, "Total KG: 140 KG")
	assert.Contains(t, msg, "Subtotal: 146,200 PKR")
	assert.Contains(t, msg, "Received: 50,000 PKR")
	assert.Contains(t, msg, "Balance: 96,200 PKR")
}

func TestInvoiceMessagePurchase(t *testing.T) {
	tx := ledger.Transaction{
		Kind:          ledger.KindPurchase,
		InvoiceNumber: "PSK-0007",
		PartyName:     "Hamza Scrap Depot",
		Items: []ledger.Item{
			{Description: "Iron Sheets", QuantityKg: 800, UnitRate: 92, LineTotal: 73600},
		},
		TotalAmount:     73600,
		PaidAmount:      10000,
		RemainingAmount: 63600,
	}

	msg := share.InvoiceMessage(tx)

	assert.True(t, strings.HasPrefix(msg, "Purchase Invoice\n"))
	assert.Contains(t, msg, "Supplier: Hamza Scrap Depot")
	assert.Contains(t, msg, "Phone: -")
	assert.NotContains(t, msg, "Address:")
	assert.NotContains(t, msg, "Overall Rate")
	assert.Contains(t, msg, "Total: 73,600 PKR")
	assert.Contains(t, msg, "Paid: 10,000 PKR")
	assert.Contains(t, msg, "Balance: 63,600 PKR")
}

func TestInvoiceLink(t *testing.T) {
	link := share.InvoiceLink(sellInvoice())

	u, err := url.Parse(link)
	require.NoError(t, err)

	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/03001234567", u.Path)
	assert.Equal(t, share.InvoiceMessage(sellInvoice()), u.Query().Get("text"))
}

func TestLinkWithoutPhone(t *testing.T) {
	u, err := url.Parse(share.Link("", "hello"))
	require.NoError(t, err)

	assert.Equal(t, "/", u.Path)
	assert.Equal(t, "hello", u.Query().Get("text"))
}
