package http

import (
	"time"

	"moneymate/internal/core"
	"moneymate/internal/report"
)

// Wire shapes of the report endpoints. Money fields encode as JSON numbers
// with two decimals through core.Money.

type categoryDTO struct {
	Category   string     `json:"category"`
	Label      string     `json:"label"`
	Type       core.Type  `json:"type"`
	Amount     core.Money `json:"amount"`
	Count      int        `json:"count"`
	Percentage string     `json:"percentage"`
}

type monthDTO struct {
	Month       string     `json:"month"`
	Income      core.Money `json:"income"`
	Expenses    core.Money `json:"expenses"`
	Net         core.Money `json:"net"`
	SavingsRate *string    `json:"savingsRate"`
}

type typeTotalDTO struct {
	Type       core.Type  `json:"type"`
	Categories int        `json:"categories"`
	Amount     core.Money `json:"amount"`
}

type ledgerDTO struct {
	ID           string     `json:"id"`
	Date         core.Date  `json:"date"`
	Type         core.Type  `json:"type"`
	Category     string     `json:"category"`
	Note         string     `json:"note"`
	SignedAmount core.Money `json:"signedAmount"`
	Balance      core.Money `json:"balance"`
}

type periodDTO struct {
	Start *core.Date `json:"startDate"`
	End   *core.Date `json:"endDate"`
	Label string     `json:"label"`
}

type reportDTO struct {
	Title       string         `json:"title"`
	Period      periodDTO      `json:"period"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Summary     report.Summary `json:"summary"`
	Categories  []categoryDTO  `json:"categories"`
	Months      []monthDTO     `json:"months"`
	TypeTotals  []typeTotalDTO `json:"typeTotals"`
	Stats       report.Stats   `json:"stats"`
	Ledger      []ledgerDTO    `json:"ledger"`
}

func categoryDTOs(s report.Summary) []categoryDTO {
	rows := s.CategoryRows()
	out := make([]categoryDTO, len(rows))
	for i, row := range rows {
		out[i] = categoryDTO{
			Category:   row.Slug,
			Label:      row.Label,
			Type:       row.Type,
			Amount:     row.Amount,
			Count:      row.Count,
			Percentage: report.FormatPercent(row.Percentage),
		}
	}
	return out
}

func monthDTOs(s report.Summary) []monthDTO {
	rows := s.MonthRows()
	out := make([]monthDTO, len(rows))
	for i, row := range rows {
		m := monthDTO{Month: row.Month, Income: row.Income, Expenses: row.Expenses, Net: row.Net()}
		if rate, ok := row.SavingsRate(); ok {
			p := report.FormatPercent(rate)
			m.SavingsRate = &p
		}
		out[i] = m
	}
	return out
}

func datePtr(d core.Date) *core.Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

func newReportDTO(r *report.Report) reportDTO {
	totals := r.Summary.TypeTotals()
	tt := make([]typeTotalDTO, len(totals))
	for i, t := range totals {
		tt[i] = typeTotalDTO{Type: t.Type, Categories: t.Categories, Amount: t.Amount}
	}
	ledger := make([]ledgerDTO, len(r.Ledger))
	for i, l := range r.Ledger {
		ledger[i] = ledgerDTO{
			ID:           l.ID,
			Date:         l.Date,
			Type:         l.Type(),
			Category:     l.Category.Slug(),
			Note:         l.Note,
			SignedAmount: l.SignedAmount,
			Balance:      l.Balance,
		}
	}
	return reportDTO{
		Title:       r.Title,
		Period:      periodDTO{Start: datePtr(r.Start), End: datePtr(r.End), Label: r.Period()},
		GeneratedAt: r.GeneratedAt.UTC(),
		Summary:     r.Summary,
		Categories:  categoryDTOs(r.Summary),
		Months:      monthDTOs(r.Summary),
		TypeTotals:  tt,
		Stats:       r.Stats,
		Ledger:      ledger,
	}
}
