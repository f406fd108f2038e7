package ledger

import (
	"math"
	"time"
)

// ApplyPayment settles part or all of a transaction's remaining
// balance. It is all-or-nothing: on error the input is returned
// unchanged. It does not persist; callers commit the delta through the
// store's atomic increment so concurrent payments cannot lose updates.
func ApplyPayment(tx Transaction, amount float64) (Transaction, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return tx, ErrInvalidAmount
	}

	if amount > tx.RemainingAmount {
		return tx, ErrExceedsBalance
	}

	tx.PaidAmount += amount
	tx.RemainingAmount = math.Max(tx.TotalAmount-tx.PaidAmount, 0)
	tx.UpdatedAt = time.Now()

	return tx, nil
}

// EditParams replace a transaction's mutable fields wholesale. Unlike
// ApplyPayment, PaidAmount is an absolute value here and may correct
// the figure downward.
type EditParams struct {
	PartyName    string
	PartyContact string
	Address      string
	Items        []Item
	PaidAmount   float64
}

// ApplyFullEdit replaces party details, items and the paid amount and
// re-derives every computed field through the normalization path. The
// identity fields (id, kind, invoice number, creation time) survive the
// edit untouched.
func ApplyFullEdit(tx Transaction, edit EditParams) Transaction {
	raw := RawRecord{
		"kind":         string(tx.Kind),
		"partyName":    edit.PartyName,
		"partyContact": edit.PartyContact,
		"address":      edit.Address,
		"items":        edit.Items,
		"paidAmount":   edit.PaidAmount,
	}

	edited := Normalize(raw)

	edited.ID = tx.ID
	edited.InvoiceNumber = tx.InvoiceNumber
	edited.CreatedAt = tx.CreatedAt
	edited.UpdatedAt = time.Now()

	return edited
}
