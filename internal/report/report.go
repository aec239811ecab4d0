package report

import (
	"time"

	"moneymate/internal/core"
)

// Report bundles everything the renderers draw from. All numbers derive
// from Transactions, so each format agrees with the others.
type Report struct {
	Title       string
	Start       core.Date
	End         core.Date
	GeneratedAt time.Time

	// Transactions in list order (date descending).
	Transactions []core.Transaction
	Summary      Summary
	Ledger       []LedgerLine
	Stats        Stats
}

// New computes a Report over txs. start and end describe the period the
// list was filtered to and may be zero.
func New(title string, start, end core.Date, generatedAt time.Time, txs []core.Transaction) *Report {
	return &Report{
		Title:        title,
		Start:        start,
		End:          end,
		GeneratedAt:  generatedAt,
		Transactions: txs,
		Summary:      Summarize(txs),
		Ledger:       Ledger(txs),
		Stats:        QuickStats(txs),
	}
}

// Period renders the date range for headings.
func (r *Report) Period() string {
	switch {
	case !r.Start.IsZero() && !r.End.IsZero():
		return r.Start.String() + " to " + r.End.String()
	case !r.Start.IsZero():
		return "from " + r.Start.String()
	case !r.End.IsZero():
		return "until " + r.End.String()
	}
	return "All time"
}
