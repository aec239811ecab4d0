package export

import (
	"strings"
	"time"

	"moneymate/internal/core"
	"moneymate/internal/report"
)

// FormatUSD renders m as "$1,234.56", with a leading minus when negative.
func FormatUSD(m core.Money) string {
	sign := ""
	if m.Cents < 0 {
		sign = "-"
		m = m.Neg()
	}
	s := m.String()
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// displayDate renders d as "Jan 2, 2006".
func displayDate(d core.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

func displayPeriod(r *report.Report) string {
	if r.Start.IsZero() && r.End.IsZero() {
		return "All time"
	}
	return displayDate(r.Start) + " - " + displayDate(r.End)
}

func dateOrAll(d core.Date) string {
	if d.IsZero() {
		return "all"
	}
	return d.String()
}

// CSVFilename is the download name of a CSV export made on day.
func CSVFilename(day time.Time) string {
	return "moneymate-transactions-" + day.UTC().Format(core.DateLayout) + ".csv"
}

// BackupFilename is the download name of a JSON backup made on day.
func BackupFilename(day time.Time) string {
	return "moneymate-backup-" + day.UTC().Format(core.DateLayout) + ".json"
}

// ReportFilename names a rendered report; ext is "xlsx" or "pdf".
func ReportFilename(r *report.Report, ext string) string {
	return "MoneyMate-Report-" + dateOrAll(r.Start) + "-to-" + dateOrAll(r.End) + "." + ext
}
