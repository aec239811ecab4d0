package query

import (
	"encoding/json"
	"testing"

	"moneymate/internal/core"
)

func mustTx(t *testing.T, id, typ, cat, amount, date, note string) core.Transaction {
	t.Helper()
	e, err := core.Draft{Type: typ, Category: cat, Amount: json.RawMessage(amount), Date: date, Note: note}.Build()
	if err != nil {
		t.Fatalf("build %s: %v", id, err)
	}
	return core.Transaction{ID: id, Entry: e}
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func fixture(t *testing.T) []core.Transaction {
	return []core.Transaction{
		mustTx(t, "1", "income", "salary", "1000", "2024-01-01", "January pay"),
		mustTx(t, "2", "expense", "food", "50.25", "2024-01-02", "Groceries, weekly"),
		mustTx(t, "3", "expense", "housing", "500", "2024-01-15", ""),
		mustTx(t, "4", "income", "freelance", "320", "2024-02-03", "Logo design"),
		mustTx(t, "5", "expense", "food", "12.80", "2024-02-10", "Pizza"),
	}
}

func ids(txs []core.Transaction) string {
	s := ""
	for _, t := range txs {
		s += t.ID
	}
	return s
}

func TestApply(t *testing.T) {
	txs := fixture(t)
	tests := []struct {
		name string
		c    Criteria
		want string
	}{
		{"no filter", Criteria{}, "12345"},
		{"type", Criteria{Type: core.Expense}, "235"},
		{"category", Criteria{Category: "food"}, "25"},
		{"inclusive range", Criteria{StartDate: mustDate(t, "2024-01-02"), EndDate: mustDate(t, "2024-01-15")}, "23"},
		{"start only", Criteria{StartDate: mustDate(t, "2024-02-01")}, "45"},
		{"end only", Criteria{EndDate: mustDate(t, "2024-01-01")}, "1"},
		{"inverted range", Criteria{StartDate: mustDate(t, "2024-02-01"), EndDate: mustDate(t, "2024-01-01")}, ""},
		{"combined", Criteria{Type: core.Expense, Category: "food", StartDate: mustDate(t, "2024-02-01")}, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(Apply(txs, tt.c)); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	c := Criteria{StartDate: mustDate(t, "2024-02-01"), EndDate: mustDate(t, "2024-01-01")}
	if !c.Empty() {
		t.Fatal("inverted range should be empty")
	}
	if (Criteria{StartDate: mustDate(t, "2024-01-01"), EndDate: mustDate(t, "2024-01-01")}).Empty() {
		t.Fatal("single day range should not be empty")
	}
}

func TestSearch(t *testing.T) {
	txs := fixture(t)
	tests := []struct {
		q    string
		want string
	}{
		{"", "12345"},
		{"   ", "12345"},
		{"pizza", "5"},
		{"GROCERIES", "2"},
		{"dining", "25"},
		{"income", "14"},
		{"50.25", "2"},
		{"500", "3"},
		{"nothing here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			if got := ids(Search(txs, tt.q)); got != tt.want {
				t.Fatalf("Search(%q) = %q, want %q", tt.q, got, tt.want)
			}
		})
	}
}

func TestRangeBounds(t *testing.T) {
	today := mustDate(t, "2024-03-15")
	tests := []struct {
		r          Range
		start, end string
	}{
		{Last7Days, "2024-03-08", "2024-03-15"},
		{Last30Days, "2024-02-14", "2024-03-15"},
		{Last90Days, "2023-12-16", "2024-03-15"},
		{ThisMonth, "2024-03-01", "2024-03-31"},
		{ThisYear, "2024-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			s, e, err := tt.r.Bounds(today)
			if err != nil {
				t.Fatal(err)
			}
			if s.String() != tt.start || e.String() != tt.end {
				t.Fatalf("got [%s, %s], want [%s, %s]", s, e, tt.start, tt.end)
			}
		})
	}
	if _, _, err := Range("fortnight").Bounds(today); err != ErrUnknownRange {
		t.Fatalf("expected ErrUnknownRange, got %v", err)
	}
}
