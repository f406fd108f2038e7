package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two sides of the scrap trade.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindSell     Kind = "sell"
)

var (
	ErrNotFound        = errors.New("transaction not found")
	ErrInvoiceConflict = errors.New("invoice number already taken")
	ErrInvalidAmount   = errors.New("payment amount must be a positive finite number")
	ErrExceedsBalance  = errors.New("payment exceeds remaining balance")
	ErrMissingParty    = errors.New("party name is required")
	ErrNoItems         = errors.New("at least one item with a description and quantity or rate is required")
)

// Item is a single weighed line on an invoice.
type Item struct {
	Description string
	QuantityKg  float64
	UnitRate    float64 // selling rate for sells, purchase rate for purchases
	CostRate    float64 // trader's own acquisition cost, sells only
	LineTotal   float64
	LineProfit  float64 // sells only, zero otherwise
}

// Transaction is a single purchase or sell ledger entry. All derived
// fields (LineTotal, LineProfit, TotalAmount, RemainingAmount, Profit)
// are maintained by Normalize and the reconciliation operations; code
// outside this package should never compute them by hand.
type Transaction struct {
	ID              uuid.UUID
	Kind            Kind
	InvoiceNumber   string
	PartyName       string
	PartyContact    string
	Address         string
	Items           []Item
	TotalAmount     float64
	PaidAmount      float64
	RemainingAmount float64
	Profit          float64 // sells only
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Pending reports whether the transaction still has an unpaid balance.
func (t Transaction) Pending() bool {
	return t.RemainingAmount > 0
}

// PartyDisplay returns the party name with the placeholder used across
// invoices and lists when the stored name is blank.
func (t Transaction) PartyDisplay() string {
	if t.PartyName == "" {
		return "—"
	}

	return t.PartyName
}

// TotalKg is the summed weight over all items.
func (t Transaction) TotalKg() float64 {
	var kg float64
	for _, it := range t.Items {
		kg += it.QuantityKg
	}

	return kg
}

// OverallRate is the blended per-kg rate, zero when nothing was weighed.
func (t Transaction) OverallRate() float64 {
	kg := t.TotalKg()
	if kg <= 0 {
		return 0
	}

	return t.TotalAmount / kg
}

// Raw converts the transaction back into the loose document shape used
// at the persistence boundary. Normalize(t.Raw()) reproduces t minus
// sub-second timestamp precision lost in transit.
func (t Transaction) Raw() RawRecord {
	items := make([]any, len(t.Items))
	for i, it := range t.Items {
		items[i] = map[string]any{
			"description": it.Description,
			"quantityKg":  it.QuantityKg,
			"unitRate":    it.UnitRate,
			"costRate":    it.CostRate,
			"lineTotal":   it.LineTotal,
			"lineProfit":  it.LineProfit,
		}
	}

	raw := RawRecord{
		"id":              t.ID.String(),
		"kind":            string(t.Kind),
		"invoiceNumber":   t.InvoiceNumber,
		"partyName":       t.PartyName,
		"partyContact":    t.PartyContact,
		"address":         t.Address,
		"items":           items,
		"totalAmount":     t.TotalAmount,
		"paidAmount":      t.PaidAmount,
		"remainingAmount": t.RemainingAmount,
		"profit":          t.Profit,
	}

	if !t.CreatedAt.IsZero() {
		raw["createdAt"] = t.CreatedAt
	}

	if !t.UpdatedAt.IsZero() {
		raw["updatedAt"] = t.UpdatedAt
	}

	return raw
}
