// Package legacyimport reads the semicolon-separated ledger exports
// produced by the shop's previous bookkeeping spreadsheets. One CSV row
// is one line item; rows sharing an invoice number form one
// transaction. Field names in the output records keep their legacy
// spellings — canonicalization is the Normalizer's job, not ours.
package legacyimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/hskhan/scrapledger/internal/encoding"
	"github.com/hskhan/scrapledger/internal/ledger"
)

// Column headers as the old spreadsheets exported them.
const (
	colType    = "Type"
	colInvoice = "Invoice"
	colDate    = "Date"
	colParty   = "Party"
	colContact = "Contact"
	colItem    = "Item"
	colQty     = "Qty (kg)"
	colRate    = "Rate"
	colCost    = "Cost Rate"
	colPaid    = "Paid"
)

var requiredCols = []string{colType, colInvoice, colParty, colItem, colQty, colRate}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// colIndex maps column names to their position in the header row.
type colIndex map[string]int

// Parse reads a legacy export and returns one raw record per invoice,
// in file order. Rows before the header row (report titles, shop name)
// are skipped; rows with no invoice number are skipped as footer noise.
func (p *Parser) Parse(r io.Reader) ([]ledger.RawRecord, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := findHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no ledger header found: expected columns %s", strings.Join(requiredCols, ", "))
	}

	return groupRows(cols, rows[headerIdx+1:]), nil
}

// findHeader scans for the first row containing every required column.
func findHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		if matchesHeader(cols) {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func matchesHeader(cols colIndex) bool {
	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// groupRows folds item rows into one record per invoice number.
// Transaction-level fields (type, party, date, paid) are taken from the
// first row of each group; later rows only contribute items.
func groupRows(cols colIndex, rows [][]string) []ledger.RawRecord {
	var (
		records []ledger.RawRecord
		byInv   = map[string]ledger.RawRecord{}
	)

	for _, row := range rows {
		invoice := cellValue(row, cols[colInvoice])
		if invoice == "" {
			continue
		}

		rec, seen := byInv[invoice]
		if !seen {
			rec = ledger.RawRecord{
				"type":      cellValue(row, cols[colType]),
				"invoiceNo": invoice,
				"partyName": cellValue(row, cols[colParty]),
				"contact":   lookupValue(row, cols, colContact),
				"date":      lookupValue(row, cols, colDate),
				"items":     []any{},
			}

			if paid := lookupValue(row, cols, colPaid); paid != "" {
				rec["paidAmount"] = parseAmount(paid)
			}

			byInv[invoice] = rec
			records = append(records, rec)
		}

		item := map[string]any{
			"itemDescription": cellValue(row, cols[colItem]),
			"quantity":        parseAmount(cellValue(row, cols[colQty])),
			"ratePerKg":       parseAmount(cellValue(row, cols[colRate])),
		}

		if cost := lookupValue(row, cols, colCost); cost != "" {
			item["purchaseRate"] = parseAmount(cost)
		}

		rec["items"] = append(rec["items"].([]any), any(item))
	}

	return records
}

// lookupValue reads an optional column, empty when the export predates it.
func lookupValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok {
		return ""
	}

	return cellValue(row, idx)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
