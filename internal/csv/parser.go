// Package csv turns uploaded bank statements into provisional
// transaction rows for client preview. Nothing here is persisted.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
)

// PreviewRow is one provisional transaction derived from a CSV line.
// Amount is signed: negative for debits, positive for credits.
type PreviewRow struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

// Common bank-export column names mapped onto our canonical fields.
// Header names are compared after normalization (lowercase, spaces to
// underscores).
var columnAliases = map[string]string{
	"amount":           "amount",
	"debit":            "debit",
	"credit":           "credit",
	"description":      "description",
	"memo":             "description",
	"payee":            "description",
	"date":             "date",
	"transaction_date": "date",
	"posting_date":     "date",
	"category":         "category",
	"type":             "category",
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// ParseStatement reads a CSV statement and returns the provisional rows.
// Rows whose cells cannot be interpreted are returned as-is where
// possible; the client corrects them before import.
func ParseStatement(r io.Reader) ([]PreviewRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// column index -> canonical field
	fields := make(map[int]string, len(header))
	for i, name := range header {
		if canonical, ok := columnAliases[normalizeHeader(name)]; ok {
			fields[i] = canonical
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognized columns in header")
	}

	var rows []PreviewRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := PreviewRow{}
		for i, cell := range record {
			field, ok := fields[i]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			switch field {
			case "amount":
				if m, err := core.ParseSignedAmount(cell); err == nil {
					row.Amount = m.Float64()
				}
			case "debit":
				// Debit columns list outflows as positive numbers.
				if m, err := core.ParseSignedAmount(cell); err == nil {
					row.Amount = -m.Abs().Float64()
				}
			case "credit":
				if m, err := core.ParseSignedAmount(cell); err == nil {
					row.Amount = m.Abs().Float64()
				}
			case "description":
				row.Description = cell
			case "date":
				row.Date = normalizeDate(cell)
			case "category":
				row.Category = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// normalizeDate converts recognized layouts to YYYY-MM-DD and passes
// unrecognized values through for the client to fix.
func normalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
