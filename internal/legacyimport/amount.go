package legacyimport

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses the spreadsheet number format ("1,234.5", "800")
// into a float. Thousands separators are commas, the decimal point is a
// dot. Unparseable values become 0 — the Normalizer treats everything
// numeric as best-effort anyway.
func parseAmount(s string) float64 {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	return d.InexactFloat64()
}
