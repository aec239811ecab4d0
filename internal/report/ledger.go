package report

import (
	"slices"

	"moneymate/internal/core"
)

// LedgerLine is a transaction with its signed amount and the balance after it.
type LedgerLine struct {
	core.Transaction
	SignedAmount core.Money
	Balance      core.Money
}

// Ledger orders txs chronologically (stable, so same-day transactions keep
// their input order) and accumulates a running balance.
func Ledger(txs []core.Transaction) []LedgerLine {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b core.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	lines := make([]LedgerLine, len(sorted))
	var balance core.Money
	for i, t := range sorted {
		signed := t.Signed()
		balance = balance.Add(signed)
		lines[i] = LedgerLine{Transaction: t, SignedAmount: signed, Balance: balance}
	}
	return lines
}

// Stats are the quick figures shown next to a summary.
type Stats struct {
	Average        core.Money `json:"averageTransaction"`
	LargestIncome  core.Money `json:"largestIncome"`
	LargestExpense core.Money `json:"largestExpense"`
}

// QuickStats computes the mean of all amounts, rounded half-up to cents,
// and the largest single income and expense. Absent values are zero.
func QuickStats(txs []core.Transaction) Stats {
	var (
		st    Stats
		total core.Money
	)
	for _, t := range txs {
		total = total.Add(t.Amount)
		switch t.Type() {
		case core.Income:
			if t.Amount.Cents > st.LargestIncome.Cents {
				st.LargestIncome = t.Amount
			}
		case core.Expense:
			if t.Amount.Cents > st.LargestExpense.Cents {
				st.LargestExpense = t.Amount
			}
		}
	}
	if len(txs) > 0 {
		avg := total.Decimal().Div(decimalInt(len(txs))).Round(2)
		st.Average = core.Money{Cents: avg.Shift(2).IntPart()}
	}
	return st
}
