package export

import (
	"strconv"
	"strings"
	"time"

	"moneymate/internal/core"
	"moneymate/internal/report"
)

// MoneyFormat is the number format applied to money cells.
const MoneyFormat = "$#,##0.00"

// CellKind selects how a cell is written by a workbook renderer.
type CellKind int

const (
	KindText CellKind = iota
	KindInt
	KindMoney
)

// Cell is a single workbook value.
type Cell struct {
	Kind  CellKind
	Text  string
	Int   int
	Money core.Money
	Bold  bool
}

func text(s string) Cell      { return Cell{Kind: KindText, Text: s} }
func title(s string) Cell     { return Cell{Kind: KindText, Text: s, Bold: true} }
func integer(n int) Cell      { return Cell{Kind: KindInt, Int: n} }
func money(m core.Money) Cell { return Cell{Kind: KindMoney, Money: m} }
func blank() Cell             { return Cell{} }

func heading(cols ...string) []Cell {
	row := make([]Cell, len(cols))
	for i, c := range cols {
		row[i] = title(c)
	}
	return row
}

// String renders the cell the way a plain-text sink shows it.
func (c Cell) String() string {
	switch c.Kind {
	case KindInt:
		return strconv.Itoa(c.Int)
	case KindMoney:
		return c.Money.String()
	}
	return c.Text
}

// Sheet is one tab of a workbook. Rows may be ragged; an empty row is a
// spacer.
type Sheet struct {
	Name      string
	ColWidths []float64
	Rows      [][]Cell
}

func (s *Sheet) add(cells ...Cell) { s.Rows = append(s.Rows, cells) }

// Workbook is a renderer-neutral spreadsheet shared by the XLSX writer and
// the Google Sheets publisher.
type Workbook struct {
	Title       string
	GeneratedAt time.Time
	Sheets      []Sheet
}

// BuildWorkbook lays out the report as Summary, Transactions, Categories
// and Monthly Trends sheets. The last two are omitted when empty.
func BuildWorkbook(r *report.Report) *Workbook {
	wb := &Workbook{Title: r.Title, GeneratedAt: r.GeneratedAt}
	wb.Sheets = append(wb.Sheets, summarySheet(r), transactionsSheet(r))
	if len(r.Summary.PerCategory) > 0 {
		wb.Sheets = append(wb.Sheets, categoriesSheet(r))
	}
	if len(r.Summary.PerMonth) > 0 {
		wb.Sheets = append(wb.Sheets, trendsSheet(r))
	}
	return wb
}

func status(m core.Money) string {
	if m.Cents >= 0 {
		return "Positive"
	}
	return "Negative"
}

func typeUpper(t core.Type) string {
	if t == core.Income {
		return "INCOME"
	}
	return "EXPENSE"
}

func summarySheet(r *report.Report) Sheet {
	s := r.Summary
	sh := Sheet{Name: "Summary", ColWidths: []float64{3, 25, 35, 15}}
	sh.add()
	sh.add(blank(), title(strings.ToUpper(r.Title)+" FINANCIAL REPORT"))
	sh.add()
	sh.add(blank(), title("Report Information"))
	sh.add(blank(), text("Report Period:"), text(r.Period()))
	sh.add(blank(), text("Generated On:"), text(r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	sh.add(blank(), text("Total Transactions:"), integer(s.TransactionCount))
	sh.add()
	sh.add(blank(), title("FINANCIAL SUMMARY"))
	sh.add()
	sh.add(append([]Cell{blank()}, heading("Metric", "Amount", "Status")...)...)
	sh.add(blank(), text("Total Income"), money(s.TotalIncome), text("Positive"))
	sh.add(blank(), text("Total Expenses"), money(s.TotalExpenses), text("Negative"))
	sh.add(blank(), text("Net Balance"), money(s.NetBalance), text(status(s.NetBalance)))
	sh.add()
	sh.add(blank(), title("QUICK STATS"))
	sh.add(blank(), text("Average Transaction:"), money(r.Stats.Average))
	sh.add(blank(), text("Largest Income:"), money(r.Stats.LargestIncome))
	sh.add(blank(), text("Largest Expense:"), money(r.Stats.LargestExpense))
	sh.add()
	sh.add(blank(), text("Report generated by "+r.Title+" - Your Personal Finance Companion"))
	return sh
}

func transactionsSheet(r *report.Report) Sheet {
	maxNote := 15
	for _, t := range r.Transactions {
		maxNote = max(maxNote, len([]rune(t.Note)))
	}
	desc := float64(min(max(maxNote, 20), 60))

	sh := Sheet{Name: "Transactions", ColWidths: []float64{5, 12, 10, 20, desc, 15, 15}}
	sh.add(title("TRANSACTION DETAILS"))
	sh.add()
	sh.add(heading("#", "Date", "Type", "Category", "Description", "Amount", "Running Balance")...)
	for i, l := range r.Ledger {
		note := l.Note
		if note == "" {
			note = "-"
		}
		sh.add(integer(i+1), text(l.Date.String()), text(typeUpper(l.Type())), text(l.Category.Label()),
			text(note), money(l.SignedAmount), money(l.Balance))
	}
	s := r.Summary
	sh.add()
	sh.add(blank(), blank(), blank(), blank(), title("TOTALS:"))
	sh.add(blank(), blank(), text("Income:"), blank(), blank(), money(s.TotalIncome))
	sh.add(blank(), blank(), text("Expenses:"), blank(), blank(), money(s.TotalExpenses.Neg()))
	sh.add(blank(), blank(), text("Net:"), blank(), blank(), money(s.NetBalance))
	return sh
}

func categoriesSheet(r *report.Report) Sheet {
	rows := r.Summary.CategoryRows()
	maxLabel := 10
	for _, row := range rows {
		maxLabel = max(maxLabel, len(row.Label))
	}
	sh := Sheet{Name: "Categories", ColWidths: []float64{float64(min(maxLabel+5, 30)), 12, 18, 15, 18}}
	sh.add(title("CATEGORY BREAKDOWN"))
	sh.add()
	sh.add(heading("Category", "Type", "Transaction Count", "Total Amount", "Percentage of Total")...)
	for _, row := range rows {
		pct := "0%"
		if !row.Percentage.IsZero() {
			pct = report.FormatPercent(row.Percentage)
		}
		sh.add(text(row.Label), text(typeUpper(row.Type)), integer(row.Count), money(row.Amount), text(pct))
	}
	sh.add()
	sh.add(title("SUMMARY BY TYPE"))
	sh.add()
	sh.add(heading("Type", "Categories", "Total Amount")...)
	for _, tt := range r.Summary.TypeTotals() {
		label := "Income"
		if tt.Type == core.Expense {
			label = "Expenses"
		}
		sh.add(text(label), integer(tt.Categories), money(tt.Amount))
	}
	return sh
}

func trendsSheet(r *report.Report) Sheet {
	sh := Sheet{Name: "Monthly Trends", ColWidths: []float64{12, 15, 15, 15, 15}}
	sh.add(title("MONTHLY TRENDS"))
	sh.add()
	sh.add(heading("Month", "Income", "Expenses", "Net", "Savings Rate")...)
	for _, m := range r.Summary.MonthRows() {
		rate := "N/A"
		if v, ok := m.SavingsRate(); ok {
			rate = report.FormatPercent(v)
		}
		sh.add(text(m.Month), money(m.Income), money(m.Expenses), money(m.Net()), text(rate))
	}
	return sh
}
