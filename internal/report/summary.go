// Package report computes aggregates over a list of transactions. Every
// function is pure; nothing here is cached between calls.
package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"moneymate/internal/core"
)

// CategoryTotal is the aggregate of one category.
type CategoryTotal struct {
	Amount core.Money `json:"amount"`
	Count  int        `json:"count"`
	Type   core.Type  `json:"type"`
}

// MonthTotal is the aggregate of one calendar month.
type MonthTotal struct {
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
}

// Net is income minus expenses for the month.
func (m MonthTotal) Net() core.Money { return m.Income.Sub(m.Expenses) }

// SavingsRate is net over income. ok is false when the month has no income.
func (m MonthTotal) SavingsRate() (rate decimal.Decimal, ok bool) {
	if m.Income.IsZero() {
		return decimal.Zero, false
	}
	return m.Net().Decimal().Div(m.Income.Decimal()).Mul(hundred), true
}

// Summary is the aggregate view of a transaction list.
type Summary struct {
	TotalIncome      core.Money               `json:"totalIncome"`
	TotalExpenses    core.Money               `json:"totalExpenses"`
	NetBalance       core.Money               `json:"netBalance"`
	TransactionCount int                      `json:"transactionCount"`
	PerCategory      map[string]CategoryTotal `json:"perCategory"`
	PerMonth         map[string]MonthTotal    `json:"perMonth"`
}

// Summarize aggregates txs in a single pass. Sums are exact integer cents,
// so NetBalance always equals TotalIncome minus TotalExpenses.
func Summarize(txs []core.Transaction) Summary {
	s := Summary{
		PerCategory: make(map[string]CategoryTotal),
		PerMonth:    make(map[string]MonthTotal),
	}
	for _, t := range txs {
		slug := t.Category.Slug()
		ct := s.PerCategory[slug]
		ct.Amount = ct.Amount.Add(t.Amount)
		ct.Count++
		ct.Type = t.Type()
		s.PerCategory[slug] = ct

		key := t.Date.MonthKey()
		mt := s.PerMonth[key]
		switch t.Type() {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			mt.Income = mt.Income.Add(t.Amount)
		case core.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			mt.Expenses = mt.Expenses.Add(t.Amount)
		}
		s.PerMonth[key] = mt
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	s.TransactionCount = len(txs)
	return s
}

var hundred = decimal.NewFromInt(100)

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// CategoryRow is one line of a category breakdown.
type CategoryRow struct {
	Slug  string
	Label string
	CategoryTotal
	// Percentage of the sum of all category amounts, 0 when that sum is 0.
	Percentage decimal.Decimal
}

// CategoryRows returns the categories sorted by amount descending, ties by
// slug ascending.
func (s Summary) CategoryRows() []CategoryRow {
	var grand core.Money
	for _, ct := range s.PerCategory {
		grand = grand.Add(ct.Amount)
	}
	rows := make([]CategoryRow, 0, len(s.PerCategory))
	for slug, ct := range s.PerCategory {
		row := CategoryRow{Slug: slug, Label: core.CategoryLabel(slug), CategoryTotal: ct}
		if !grand.IsZero() {
			row.Percentage = ct.Amount.Decimal().Div(grand.Decimal()).Mul(hundred)
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b CategoryRow) int {
		if a.Amount.Cents != b.Amount.Cents {
			if a.Amount.Cents > b.Amount.Cents {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return rows
}

// MonthRow is one line of the monthly trend.
type MonthRow struct {
	Month string
	MonthTotal
}

// MonthRows returns the months in ascending order.
func (s Summary) MonthRows() []MonthRow {
	rows := make([]MonthRow, 0, len(s.PerMonth))
	for k, mt := range s.PerMonth {
		rows = append(rows, MonthRow{Month: k, MonthTotal: mt})
	}
	slices.SortFunc(rows, func(a, b MonthRow) int { return strings.Compare(a.Month, b.Month) })
	return rows
}

// TypeTotal summarizes the categories of one type.
type TypeTotal struct {
	Type       core.Type
	Categories int
	Amount     core.Money
}

// TypeTotals returns income then expense totals over the categories present.
func (s Summary) TypeTotals() []TypeTotal {
	out := []TypeTotal{{Type: core.Income}, {Type: core.Expense}}
	for _, ct := range s.PerCategory {
		i := 0
		if ct.Type == core.Expense {
			i = 1
		}
		out[i].Categories++
		out[i].Amount = out[i].Amount.Add(ct.Amount)
	}
	return out
}

// FormatPercent renders p with one decimal and a percent sign, e.g. "45.5%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
