package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError describes one invalid field of a transaction payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError aggregates every field problem of a payload.
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Add(field, message string, err error) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message, Err: err})
}

// Err returns v as an error, or nil when no field failed.
func (v *ValidationError) Err() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid transaction data: " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel of each field so errors.Is works.
func (v *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Draft is an unvalidated transaction payload as it arrives from a client,
// a CSV row or a backup file.
type Draft struct {
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

// Build validates d and returns the resulting Entry. All field problems are
// reported together in a *ValidationError.
func (d Draft) Build() (Entry, error) {
	var (
		v     ValidationError
		entry Entry
	)

	typ, err := ParseType(strings.TrimSpace(d.Type))
	if err != nil {
		v.Add("type", "Type must be income or expense", err)
	}

	slug := strings.TrimSpace(d.Category)
	switch {
	case slug == "":
		v.Add("category", "Category is required", ErrInvalidCategory)
	case typ != "":
		c, err := LookupCategory(typ, slug)
		if err != nil {
			v.Add("category", fmt.Sprintf("Category %q is not a valid %s category", slug, typ), err)
		}
		entry.Category = c
	}

	if m, err := parseRawAmount(d.Amount); err != nil {
		v.Add("amount", "Amount must be a positive number", err)
	} else {
		entry.Amount = m
	}

	if date, err := ParseDate(d.Date); err != nil {
		v.Add("date", "Date must be in YYYY-MM-DD format", err)
	} else {
		entry.Date = date
	}

	note := normalizeNewlines(d.Note)
	if len([]rune(note)) > MaxNoteLength {
		v.Add("note", fmt.Sprintf("Note must be at most %d characters", MaxNoteLength), ErrNoteTooLong)
	}
	entry.Note = note

	if err := v.Err(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// normalizeNewlines turns CRLF and lone CR into LF. CSV readers do the
// same inside quoted fields, so stored notes survive a CSV round trip.
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// Patch is a partial update. Nil fields are left untouched; id and
// createdAt are never part of it.
type Patch struct {
	Type     *string         `json:"type,omitempty"`
	Category *string         `json:"category,omitempty"`
	Amount   json.RawMessage `json:"amount,omitempty"`
	Date     *string         `json:"date,omitempty"`
	Note     *string         `json:"note,omitempty"`
}

func (p Patch) hasAmount() bool {
	a := bytes.TrimSpace(p.Amount)
	return len(a) > 0 && !bytes.Equal(a, []byte("null"))
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.Category == nil && !p.hasAmount() && p.Date == nil && p.Note == nil
}

// Apply merges p over e and revalidates the result. Changing the type
// without a category of the new type fails validation.
func (p Patch) Apply(e Entry) (Entry, error) {
	d := e.Draft()
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.hasAmount() {
		d.Amount = p.Amount
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Note != nil {
		d.Note = *p.Note
	}
	return d.Build()
}
