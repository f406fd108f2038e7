// Package share composes WhatsApp messages for invoices and builds
// wa.me links for them. The message layout mirrors the paper invoice:
// header, party block, numbered item lines, then the money summary.
package share

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hskhan/scrapledger/internal/ledger"
)

const waBaseURL = "https://wa.me/"

// FormatMoney renders an amount with comma thousands grouping, e.g.
// 115000.5 -> "115,000.5". No currency symbol; callers add "Rs" or
// "PKR" as the line dictates.
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}

	return out
}

// InvoiceMessage composes the shareable text for a transaction. Sell
// invoices address the buyer and show received/balance plus the weight
// summary; purchase invoices address the supplier and show paid/balance.
func InvoiceMessage(tx ledger.Transaction) string {
	var lines []string

	partyLabel := "Supplier"
	if tx.Kind == ledger.KindSell {
		partyLabel = "Buyer"
	}

	lines = append(lines,
		titleFor(tx.Kind),
		"Invoice: "+orDash(tx.InvoiceNumber),
		partyLabel+": "+orDash(tx.PartyName),
		"Phone: "+orDash(tx.PartyContact),
	)

	if addr := strings.TrimSpace(tx.Address); addr != "" {
		lines = append(lines, "Address: "+addr)
	}

	lines = append(lines, "", "Items:")
	for i, item := range tx.Items {
		lines = append(lines, fmt.Sprintf("%d) %s — %skg x %s = %s PKR",
			i+1,
			orDash(item.Description),
			FormatMoney(item.QuantityKg),
			FormatMoney(item.UnitRate),
			FormatMoney(item.LineTotal),
		))
	}

	lines = append(lines, "")

	if tx.Kind == ledger.KindSell {
		lines = append(lines,
			"Total KG: "+FormatMoney(tx.TotalKg())+" KG",
			"Overall Rate: Rs "+FormatMoney(tx.OverallRate())+" / KG",
			"Subtotal: "+FormatMoney(tx.TotalAmount)+" PKR",
			"Received: "+FormatMoney(tx.PaidAmount)+" PKR",
			"Balance: "+FormatMoney(tx.RemainingAmount)+" PKR",
		)
	} else {
		lines = append(lines,
			"Total: "+FormatMoney(tx.TotalAmount)+" PKR",
			"Paid: "+FormatMoney(tx.PaidAmount)+" PKR",
			"Balance: "+FormatMoney(tx.RemainingAmount)+" PKR",
		)
	}

	return strings.Join(lines, "\n")
}

// Link builds a wa.me URL that opens a chat prefilled with message.
// When phone contains digits the chat targets that number, otherwise
// WhatsApp asks the sender to pick a contact.
func Link(phone, message string) string {
	q := url.Values{"text": {message}}

	return waBaseURL + digitsOnly(phone) + "?" + q.Encode()
}

// InvoiceLink is the one-call form: compose the message for tx and link
// it to the transaction's party contact.
func InvoiceLink(tx ledger.Transaction) string {
	return Link(tx.PartyContact, InvoiceMessage(tx))
}

func titleFor(kind ledger.Kind) string {
	switch kind {
	case ledger.KindSell:
		return "Sell Invoice"
	case ledger.KindPurchase:
		return "Purchase Invoice"
	default:
		return strings.ToUpper(string(kind)) + " Invoice"
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}

// digitsOnly strips formatting from phone numbers ("0300-1234567" ->
// "03001234567") so the number slots into the wa.me path.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
