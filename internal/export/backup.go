package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"moneymate/internal/core"
	"moneymate/internal/report"
)

// BackupVersion is written into every backup document.
const BackupVersion = "1.0"

// Backup is the full-data JSON document. Import reads it back.
type Backup struct {
	ExportDate   time.Time          `json:"exportDate"`
	Version      string             `json:"version"`
	Summary      report.Summary     `json:"summary"`
	Transactions []core.Transaction `json:"transactions"`
}

// WriteBackup writes txs and their summary as indented JSON.
func WriteBackup(w io.Writer, txs []core.Transaction, exportedAt time.Time) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	doc := Backup{
		ExportDate:   exportedAt.UTC(),
		Version:      BackupVersion,
		Summary:      report.Summarize(txs),
		Transactions: txs,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup accepts any JSON object with a "transactions" array and
// returns the records as drafts. Stored ids and timestamps are ignored;
// import always assigns fresh ones.
func ReadBackup(r io.Reader) ([]core.Draft, error) {
	var doc struct {
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	raw := bytes.TrimSpace(doc.Transactions)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: expected transactions array", ErrImportFormat)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	drafts := make([]core.Draft, 0, len(records))
	for i, rec := range records {
		var d core.Draft
		if err := json.Unmarshal(rec, &d); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrImportFormat, i, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// BuildEntries validates every draft. The first invalid record fails the
// whole batch with ErrImportFormat wrapping its validation error.
func BuildEntries(drafts []core.Draft) ([]core.Entry, error) {
	entries := make([]core.Entry, 0, len(drafts))
	for i, d := range drafts {
		e, err := d.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrImportFormat, i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
