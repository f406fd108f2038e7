package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Default invoice prefixes. Deployments can override them through the
// Sequencer, but the prefix is always a pure function of the kind.
const (
	DefaultPurchasePrefix = "PSK-"
	DefaultSellPrefix     = "SSK-"
)

// Sequencer derives sequential human-readable invoice numbers of the
// form <PREFIX><4-digit zero-padded sequence>. Next is pure and may be
// called speculatively; uniqueness is only guaranteed by the store's
// constraint on (kind, invoice number), with the caller retrying on
// conflict.
type Sequencer struct {
	purchasePrefix string
	sellPrefix     string
}

func NewSequencer(purchasePrefix, sellPrefix string) Sequencer {
	if purchasePrefix == "" {
		purchasePrefix = DefaultPurchasePrefix
	}

	if sellPrefix == "" {
		sellPrefix = DefaultSellPrefix
	}

	return Sequencer{purchasePrefix: purchasePrefix, sellPrefix: sellPrefix}
}

// Prefix maps a kind to its invoice namespace. Unrecognized kinds share
// the purchase namespace rather than minting one of their own.
func (s Sequencer) Prefix(kind Kind) string {
	if kind == KindSell {
		return s.sellPrefix
	}

	return s.purchasePrefix
}

// Next returns the successor of the highest sequence found among the
// existing numbers carrying the kind's prefix. Malformed entries (wrong
// prefix, non-numeric suffix) are skipped, never fatal. No matching
// numbers yields <PREFIX>0001.
func (s Sequencer) Next(kind Kind, existing []string) string {
	prefix := s.Prefix(kind)

	var last uint64

	for _, number := range existing {
		suffix, ok := strings.CutPrefix(number, prefix)
		if !ok {
			continue
		}

		n, err := strconv.ParseUint(suffix, 10, 64)
		if err != nil {
			continue
		}

		if n > last {
			last = n
		}
	}

	return fmt.Sprintf("%s%04d", prefix, last+1)
}

// NextInvoiceNumber is Next with the default prefixes.
func NextInvoiceNumber(kind Kind, existing []string) string {
	return NewSequencer("", "").Next(kind, existing)
}
