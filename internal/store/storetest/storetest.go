// Package storetest is a behavioural suite every store.Repository
// implementation runs in its own tests.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"moneymate/internal/core"
	"moneymate/internal/query"
	"moneymate/internal/store"
)

// Entry builds a valid entry or fails the test.
func Entry(t *testing.T, typ, cat, amount, date, note string) core.Entry {
	t.Helper()
	e, err := core.Draft{Type: typ, Category: cat, Amount: json.RawMessage(amount), Date: date, Note: note}.Build()
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	return e
}

func date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func notes(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Note
	}
	return out
}

func equal(a, b []string) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func sp(s string) *string { return &s }

// Run exercises the Repository contract against fresh stores from newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) store.Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, Entry(t, "expense", "food", "50.25", "2024-01-02", "Lunch"))
		if err != nil {
			t.Fatal(err)
		}
		if created.ID == "" || created.CreatedAt.IsZero() {
			t.Fatalf("store must assign id and createdAt: %+v", created)
		}
		got, ok, err := r.Get(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("get: ok=%v err=%v", ok, err)
		}
		if got.Amount.Cents != 5025 || got.Category.Slug() != "food" || got.Note != "Lunch" || got.Date.String() != "2024-01-02" {
			t.Fatalf("unexpected transaction %+v", got)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		r := newRepo(t)
		if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, Entry(t, "expense", "food", "50.25", "2024-01-02", "Lunch"))
		if err != nil {
			t.Fatal(err)
		}
		updated, ok, err := r.Update(ctx, created.ID, core.Patch{Amount: json.RawMessage(`12.00`)})
		if err != nil || !ok {
			t.Fatalf("update: ok=%v err=%v", ok, err)
		}
		if updated.Amount.Cents != 1200 || updated.Note != "Lunch" || updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("unexpected merge %+v", updated)
		}

		_, ok, err = r.Update(ctx, created.ID, core.Patch{Type: sp("income")})
		var verr *core.ValidationError
		if !ok || !errors.As(err, &verr) {
			t.Fatalf("type change without category should fail validation, ok=%v err=%v", ok, err)
		}
		got, _, _ := r.Get(ctx, created.ID)
		if got.Type() != core.Expense || got.Amount.Cents != 1200 {
			t.Fatalf("failed update must not write: %+v", got)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		r := newRepo(t)
		if _, ok, err := r.Update(ctx, "missing", core.Patch{Note: sp("x")}); ok || err != nil {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		a, _ := r.Create(ctx, Entry(t, "income", "salary", "1000", "2024-01-01", "a"))
		if _, err := r.Create(ctx, Entry(t, "expense", "food", "5", "2024-01-01", "b")); err != nil {
			t.Fatal(err)
		}

		ok, err := r.Delete(ctx, "missing")
		if ok || err != nil {
			t.Fatalf("delete missing: ok=%v err=%v", ok, err)
		}
		if all, _ := r.List(ctx, query.Criteria{}); len(all) != 2 {
			t.Fatalf("size changed after deleting a missing id: %d", len(all))
		}

		if ok, err := r.Delete(ctx, a.ID); !ok || err != nil {
			t.Fatalf("delete: ok=%v err=%v", ok, err)
		}
		if _, ok, _ := r.Get(ctx, a.ID); ok {
			t.Fatal("deleted transaction still found")
		}
		all, _ := r.List(ctx, query.Criteria{})
		if !equal(notes(all), []string{"b"}) {
			t.Fatalf("remaining = %v", notes(all))
		}
	})

	t.Run("list order", func(t *testing.T) {
		r := newRepo(t)
		for _, e := range []core.Entry{
			Entry(t, "expense", "food", "1", "2024-01-02", "first same day"),
			Entry(t, "income", "salary", "1", "2024-01-05", "latest"),
			Entry(t, "expense", "food", "1", "2023-12-31", "oldest"),
			Entry(t, "expense", "housing", "1", "2024-01-02", "second same day"),
		} {
			if _, err := r.Create(ctx, e); err != nil {
				t.Fatal(err)
			}
		}
		all, err := r.List(ctx, query.Criteria{})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"latest", "first same day", "second same day", "oldest"}
		if !equal(notes(all), want) {
			t.Fatalf("order = %v, want %v", notes(all), want)
		}
	})

	t.Run("list filter", func(t *testing.T) {
		r := newRepo(t)
		for _, e := range []core.Entry{
			Entry(t, "income", "salary", "1000", "2024-01-01", "a"),
			Entry(t, "expense", "food", "50.25", "2024-01-02", "b"),
			Entry(t, "expense", "housing", "500", "2024-01-15", "c"),
			Entry(t, "expense", "food", "7", "2024-02-01", "d"),
		} {
			if _, err := r.Create(ctx, e); err != nil {
				t.Fatal(err)
			}
		}
		tests := []struct {
			name string
			c    query.Criteria
			want []string
		}{
			{"type", query.Criteria{Type: core.Income}, []string{"a"}},
			{"category", query.Criteria{Category: "food"}, []string{"d", "b"}},
			{"inclusive range", query.Criteria{StartDate: date(t, "2024-01-02"), EndDate: date(t, "2024-01-15")}, []string{"c", "b"}},
			{"inverted range", query.Criteria{StartDate: date(t, "2024-01-15"), EndDate: date(t, "2024-01-02")}, []string{}},
			{"combined", query.Criteria{Type: core.Expense, Category: "food", EndDate: date(t, "2024-01-31")}, []string{"b"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := r.List(ctx, tt.c)
				if err != nil {
					t.Fatal(err)
				}
				if !equal(notes(got), tt.want) {
					t.Fatalf("got %v, want %v", notes(got), tt.want)
				}
			})
		}
	})

	t.Run("import is additive", func(t *testing.T) {
		r := newRepo(t)
		existing := map[string]bool{}
		for i := 0; i < 3; i++ {
			tx, err := r.Create(ctx, Entry(t, "expense", "food", "1", "2024-01-01", fmt.Sprint("existing ", i)))
			if err != nil {
				t.Fatal(err)
			}
			existing[tx.ID] = true
		}
		entries := []core.Entry{
			Entry(t, "income", "freelance", "300", "2024-03-01", "imported 0"),
			Entry(t, "expense", "utilities", "80", "2024-03-02", "imported 1"),
		}
		added, err := r.Import(ctx, entries)
		if err != nil {
			t.Fatal(err)
		}
		if len(added) != len(entries) {
			t.Fatalf("added %d, want %d", len(added), len(entries))
		}
		for _, a := range added {
			if existing[a.ID] {
				t.Fatalf("imported id %s collides with an existing one", a.ID)
			}
			if a.CreatedAt.IsZero() {
				t.Fatal("imported transaction without createdAt")
			}
		}
		if added[0].ID == added[1].ID {
			t.Fatal("imported ids must be distinct")
		}
		all, _ := r.List(ctx, query.Criteria{})
		if len(all) != 5 {
			t.Fatalf("size = %d, want 5", len(all))
		}

		none, err := r.Import(ctx, nil)
		if err != nil || len(none) != 0 {
			t.Fatalf("empty import: %v %v", none, err)
		}
	})
}
