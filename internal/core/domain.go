package core

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted textual form of a Date.
const DateLayout = "2006-01-02"

// MaxNoteLength bounds the free-text note of a transaction.
const MaxNoteLength = 500

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type (
	// Type distinguishes money coming in from money going out.
	Type string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is the validated, user-controlled part of a transaction.
	Entry struct {
		Category Category
		Amount   Money
		Date     Date
		Note     string
	}

	// Transaction is an Entry that has been stored.
	Transaction struct {
		ID string
		Entry
		CreatedAt time.Time
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNoteTooLong     = errors.New("note too long")
	ErrNotFound        = errors.New("transaction not found")
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseType accepts "income" or "expense".
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// Label is the display name used in reports.
func (t Type) Label() string {
	switch t {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	}
	return string(t)
}

// Sign returns +1 for income and -1 for expense.
func (t Type) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if !isoDate.MatchString(s) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the "YYYY-MM" bucket of d.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Compare returns -1, 0 or +1 ordering d against o.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Type is the category's type; an entry cannot disagree with it.
func (e Entry) Type() Type { return e.Category.Type() }

// Signed returns the amount with the sign of the entry's type.
func (e Entry) Signed() Money {
	return Money{Cents: e.Amount.Cents * e.Type().Sign()}
}

func (e Entry) Validate() error {
	var v ValidationError
	if e.Category.IsZero() {
		v.Add("category", "Category is required", ErrInvalidCategory)
	}
	if err := e.Amount.Validate(); err != nil {
		v.Add("amount", "Amount must be positive", err)
	}
	if err := e.Date.Validate(); err != nil {
		v.Add("date", "Date must be in YYYY-MM-DD format", err)
	}
	if len([]rune(e.Note)) > MaxNoteLength {
		v.Add("note", "Note must be at most 500 characters", ErrNoteTooLong)
	}
	return v.Err()
}

// Draft returns e as unvalidated input, the starting point for a Patch.
func (e Entry) Draft() Draft {
	return Draft{
		Type:     string(e.Type()),
		Category: e.Category.Slug(),
		Amount:   json.RawMessage(e.Amount.String()),
		Date:     e.Date.String(),
		Note:     e.Note,
	}
}

type transactionJSON struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Category  string    `json:"category"`
	Amount    Money     `json:"amount"`
	Date      Date      `json:"date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:        t.ID,
		Type:      t.Type(),
		Category:  t.Category.Slug(),
		Amount:    t.Amount,
		Date:      t.Date,
		Note:      t.Note,
		CreatedAt: t.CreatedAt.UTC(),
	})
}

// UnmarshalJSON decodes a stored transaction and revalidates its fields.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        string          `json:"id"`
		CreatedAt time.Time       `json:"createdAt"`
		Type      string          `json:"type"`
		Category  string          `json:"category"`
		Amount    json.RawMessage `json:"amount"`
		Date      string          `json:"date"`
		Note      string          `json:"note"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	entry, err := Draft{
		Type:     raw.Type,
		Category: raw.Category,
		Amount:   raw.Amount,
		Date:     raw.Date,
		Note:     raw.Note,
	}.Build()
	if err != nil {
		return err
	}
	*t = Transaction{ID: raw.ID, Entry: entry, CreatedAt: raw.CreatedAt}
	return nil
}
