package view

import (
	"context"
	"time"

	"github.com/hskhan/scrapledger/internal/share"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a rupee amount for table cells, e.g. "Rs. 1,500".
func FormatAmount(v float64) string {
	return "Rs. " + share.FormatMoney(v)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
