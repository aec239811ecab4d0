// Package export renders transaction lists and reports into files: CSV,
// JSON backups, XLSX workbooks and PDF documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"moneymate/internal/core"
)

// ErrImportFormat marks a payload that is not a list of transaction-shaped
// records. Concrete causes are wrapped.
var ErrImportFormat = errors.New("invalid data format")

var csvHeader = []string{"Date", "Type", "Category", "Description", "Amount"}

// WriteCSV writes one row per transaction in list order.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		row := []string{t.Date.String(), string(t.Type()), t.Category.Slug(), t.Note, t.Amount.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV back into drafts. Columns are
// matched by header name, so reordered exports are accepted.
func ReadCSV(r io.Reader) ([]core.Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", ErrImportFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, h := range csvHeader {
		if _, ok := col[strings.ToLower(h)]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrImportFormat, h)
		}
	}
	cell := func(rec []string, name string) string {
		i := col[name]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var drafts []core.Draft
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrImportFormat, line, err)
		}
		amount, _ := json.Marshal(strings.TrimSpace(cell(rec, "amount")))
		drafts = append(drafts, core.Draft{
			Date:     strings.TrimSpace(cell(rec, "date")),
			Type:     strings.TrimSpace(cell(rec, "type")),
			Category: strings.TrimSpace(cell(rec, "category")),
			Note:     cell(rec, "description"),
			Amount:   amount,
		})
	}
	return drafts, nil
}
