package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawRecord is an arbitrarily-shaped document as read from (or written
// by) the persistence layer. Years of schema drift left several names
// for the same field in stored records; Normalize resolves them all.
type RawRecord map[string]any

// Alias sets, oldest spelling last. Lookup order matters: the canonical
// name always wins over legacy ones.
var (
	partyNameAliases    = []string{"partyName", "customerName", "sellerName", "buyerName", "supplierName", "name"}
	partyContactAliases = []string{"partyContact", "customerContact", "buyerContact", "supplierPhone", "contact", "sellerContact", "phone"}
	addressAliases      = []string{"address", "destination"}
	invoiceAliases      = []string{"invoiceNumber", "invoiceNo"}
	createdAtAliases    = []string{"createdAt", "timestamp", "date"}
	itemDescAliases     = []string{"description", "itemDescription"}
	quantityAliases     = []string{"quantityKg", "quantity"}
	unitRateAliases     = []string{"unitRate", "ratePerKg", "rate"}
	costRateAliases     = []string{"costRate", "purchaseRate"}
)

// Normalize canonicalizes a raw transaction record into the strict
// internal shape. It is total: missing, malformed or non-numeric fields
// degrade to zero values instead of failing, and all derived monetary
// fields are recomputed so the balance invariant holds on the result.
// Normalizing an already-canonical record is a no-op.
func Normalize(raw RawRecord) Transaction {
	tx := Transaction{
		Kind:          NormalizeKind(firstString(raw, "kind", "type")),
		InvoiceNumber: firstString(raw, invoiceAliases...),
		PartyName:     firstString(raw, partyNameAliases...),
		PartyContact:  firstString(raw, partyContactAliases...),
		Address:       firstString(raw, addressAliases...),
		CreatedAt:     coerceTime(firstFound(raw, createdAtAliases...)),
		UpdatedAt:     coerceTime(raw["updatedAt"]),
	}

	if s := firstString(raw, "id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			tx.ID = id
		}
	}

	sell := tx.Kind == KindSell
	tx.Items = normalizeItems(raw["items"], sell)

	for _, it := range tx.Items {
		tx.TotalAmount += it.LineTotal
		tx.Profit += it.LineProfit
	}

	// Legacy documents may carry totals without line items; trust the
	// stored figures only in that case.
	if len(tx.Items) == 0 {
		tx.TotalAmount = math.Max(coerceNumber(raw["totalAmount"]), 0)
		if sell {
			tx.Profit = coerceNumber(raw["profit"])
		}
	}

	if !sell {
		tx.Profit = 0
	}

	paid, ok := firstPresent(raw, "paidAmount", "receivedAmount")
	if ok {
		tx.PaidAmount = math.Max(coerceNumber(paid), 0)
	}

	if provided, ok := raw["remainingAmount"]; ok && provided != nil {
		tx.RemainingAmount = math.Max(coerceNumber(provided), 0)
	} else {
		tx.RemainingAmount = math.Max(tx.TotalAmount-tx.PaidAmount, 0)
	}

	return tx
}

// NormalizeKind folds the legacy "type" spellings into the two-value
// enumeration. Unrecognized values pass through lowercased; they count
// as neither purchase nor sell downstream.
func NormalizeKind(s string) Kind {
	t := strings.ToLower(strings.TrimSpace(s))

	switch t {
	case "sell", "sale", "sales", "selling":
		return KindSell
	case "purchase", "purchases", "buy":
		return KindPurchase
	}

	return Kind(t)
}

func normalizeItems(v any, sell bool) []Item {
	rows := itemRows(v)

	items := make([]Item, 0, len(rows))

	for _, row := range rows {
		it := Item{
			Description: strings.TrimSpace(firstString(row, itemDescAliases...)),
			QuantityKg:  math.Max(coerceNumber(firstFound(row, quantityAliases...)), 0),
			UnitRate:    math.Max(coerceNumber(firstFound(row, unitRateAliases...)), 0),
		}

		it.LineTotal = it.QuantityKg * it.UnitRate

		if sell {
			it.CostRate = math.Max(coerceNumber(firstFound(row, costRateAliases...)), 0)
			it.LineProfit = (it.UnitRate - it.CostRate) * it.QuantityKg
		}

		items = append(items, it)
	}

	return items
}

// itemRows flattens the shapes the items field shows up in: decoded
// JSON ([]any of maps), already-typed []Item, or nothing at all.
func itemRows(v any) []map[string]any {
	switch list := v.(type) {
	case nil:
		return nil
	case []map[string]any:
		return list
	case []any:
		rows := make([]map[string]any, 0, len(list))

		for _, el := range list {
			if m, ok := el.(map[string]any); ok {
				rows = append(rows, m)
			}
		}

		return rows
	case []Item:
		rows := make([]map[string]any, len(list))
		for i, it := range list {
			rows[i] = map[string]any{
				"description": it.Description,
				"quantityKg":  it.QuantityKg,
				"unitRate":    it.UnitRate,
				"costRate":    it.CostRate,
			}
		}

		return rows
	}

	return nil
}

// coerceNumber is the total numeric coercion: anything that is not a
// finite number becomes 0. It never panics.
func coerceNumber(v any) float64 {
	var n float64

	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint64:
		n = float64(x)
	case json.Number:
		n, _ = x.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}

		n = parsed
	case bool, nil:
		return 0
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}

	return n
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// coerceTime accepts the timestamp shapes found in stored documents:
// time.Time, RFC3339-ish strings, or epoch milliseconds. The zero time
// marks an unusable value; aggregation skips such records.
func coerceTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x != nil {
			return *x
		}
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	case float64, int, int64, json.Number:
		ms := coerceNumber(x)
		if ms > 0 {
			return time.UnixMilli(int64(ms))
		}
	}

	return time.Time{}
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	return ""
}

// firstPresent returns the first key that exists with a non-nil value,
// regardless of its type.
func firstPresent(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}

func firstFound(raw map[string]any, keys ...string) any {
	v, _ := firstPresent(raw, keys...)
	return v
}
