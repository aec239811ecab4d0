// Package query filters transaction lists. Criteria are applied by the
// stores at field level; free-text search runs afterwards in memory.
package query

import (
	"strings"

	"moneymate/internal/core"
)

// Criteria is a conjunctive field filter. The zero value of each field
// leaves that field unconstrained.
type Criteria struct {
	Type      core.Type
	Category  string
	StartDate core.Date
	EndDate   core.Date
}

// IsZero reports whether c constrains nothing.
func (c Criteria) IsZero() bool {
	return c.Type == "" && c.Category == "" && c.StartDate.IsZero() && c.EndDate.IsZero()
}

// Empty reports whether c can match nothing at all, which is the case for
// an inverted date range.
func (c Criteria) Empty() bool {
	return !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate.Time)
}

// Matches applies exact type, exact category and the inclusive date range.
func (c Criteria) Matches(t core.Transaction) bool {
	if c.Type != "" && t.Type() != c.Type {
		return false
	}
	if c.Category != "" && t.Category.Slug() != c.Category {
		return false
	}
	if !c.StartDate.IsZero() && t.Date.Before(c.StartDate.Time) {
		return false
	}
	if !c.EndDate.IsZero() && t.Date.After(c.EndDate.Time) {
		return false
	}
	return true
}

// Apply returns the transactions matching c, preserving order.
func Apply(txs []core.Transaction, c Criteria) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Search keeps the transactions whose note, category label, type or
// amount contains q, ignoring case. A blank q returns txs unchanged.
func Search(txs []core.Transaction, q string) []core.Transaction {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if searchable(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func searchable(t core.Transaction, q string) bool {
	for _, field := range []string{t.Note, t.Category.Label(), string(t.Type()), t.Amount.String()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
