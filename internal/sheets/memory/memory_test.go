package memory

import (
	"context"
	"slices"
	"testing"
	"time"

	"moneymate/internal/core"
	"moneymate/internal/export"
)

func workbook(sheets ...export.Sheet) *export.Workbook {
	return &export.Workbook{Title: "MoneyMate", GeneratedAt: time.Unix(0, 0).UTC(), Sheets: sheets}
}

func TestPublishWorkbook(t *testing.T) {
	p := New()
	wb := workbook(
		export.Sheet{Name: "Summary", Rows: [][]export.Cell{
			{{Kind: export.KindText, Text: "Total"}, {Kind: export.KindMoney, Money: core.Money{Cents: 123456}}},
			nil,
			{{Kind: export.KindInt, Int: 3}},
		}},
		export.Sheet{Name: "Categories"},
	)
	if err := p.PublishWorkbook(context.Background(), wb); err != nil {
		t.Fatal(err)
	}

	if got := p.Tabs(); !slices.Equal(got, []string{"Categories", "Summary"}) {
		t.Errorf("tabs = %v", got)
	}
	rows := p.Values("Summary")
	if len(rows) != 3 || rows[0][0] != "Total" || rows[0][1] != "1234.56" || len(rows[1]) != 0 || rows[2][0] != "3" {
		t.Errorf("rows = %q", rows)
	}
	if p.Values("Missing") != nil {
		t.Error("missing tab should be nil")
	}

	// republishing replaces only the named tabs
	wb = workbook(export.Sheet{Name: "Summary"})
	if err := p.PublishWorkbook(context.Background(), wb); err != nil {
		t.Fatal(err)
	}
	if len(p.Values("Summary")) != 0 || len(p.Tabs()) != 2 || p.Published() != 2 {
		t.Errorf("after republish: tabs %v, published %d", p.Tabs(), p.Published())
	}
}

func TestPublishWorkbookValuesAreCopies(t *testing.T) {
	p := New()
	wb := workbook(export.Sheet{Name: "S", Rows: [][]export.Cell{{{Kind: export.KindText, Text: "a"}}}})
	_ = p.PublishWorkbook(context.Background(), wb)
	rows := p.Values("S")
	rows[0][0] = "changed"
	if p.Values("S")[0][0] != "a" {
		t.Error("Values exposed internal state")
	}
}

func TestPublishWorkbookCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New()
	if err := p.PublishWorkbook(ctx, workbook(export.Sheet{Name: "S"})); err == nil {
		t.Fatal("expected context error")
	}
	if p.Published() != 0 {
		t.Error("cancelled publish was recorded")
	}
}
