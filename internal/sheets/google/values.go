package google

import (
	"strings"

	"moneymate/internal/export"
)

// valuesFor converts a sheet to the row values sent with USER_ENTERED.
// Money goes out as a number so the spreadsheet can sum it.
func valuesFor(sh export.Sheet) [][]any {
	rows := make([][]any, len(sh.Rows))
	for i, row := range sh.Rows {
		vals := make([]any, len(row))
		for j, c := range row {
			switch c.Kind {
			case export.KindInt:
				vals[j] = c.Int
			case export.KindMoney:
				vals[j] = c.Money.Float64()
			default:
				vals[j] = literal(c.Text)
			}
		}
		rows[i] = vals
	}
	return rows
}

// literal keeps user text from being parsed as a formula, number or date.
func literal(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsAny(s[:1], "=+-@'0123456789") {
		return "'" + s
	}
	return s
}
