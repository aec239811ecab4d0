package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"moneymate/internal/core"
	"moneymate/internal/query"
	"moneymate/internal/store"
	"moneymate/internal/store/storetest"
)

func TestRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		s, err := Open(filepath.Join(t.TempDir(), "data", "transactions.json"))
		if err != nil {
			t.Fatal(err)
		}
		return s
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "transactions.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Create(ctx, storetest.Entry(t, "income", "salary", "1000", "2024-01-01", "pay"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Create(ctx, storetest.Entry(t, "expense", "food", "50.25", "2024-01-01", "lunch"))
	if _, err := s.Delete(ctx, "missing"); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	all, err := reopened.List(ctx, query.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("reopened = %+v", all)
	}
	if !all[1].CreatedAt.Equal(b.CreatedAt) || all[1].Amount != (core.Money{Cents: 5025}) {
		t.Fatalf("fields lost on reload: %+v", all[1])
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestFailedPersistLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "transactions.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	kept, err := s.Create(ctx, storetest.Entry(t, "income", "salary", "1000", "2024-01-01", "pay"))
	if err != nil {
		t.Fatal(err)
	}

	// a non-empty directory at the data path makes the final rename fail
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(path, "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	note := "changed"
	tests := []struct {
		name string
		op   func() error
	}{
		{"create", func() error {
			_, err := s.Create(ctx, storetest.Entry(t, "expense", "food", "5", "2024-01-02", ""))
			return err
		}},
		{"update", func() error {
			_, _, err := s.Update(ctx, kept.ID, core.Patch{Note: &note})
			return err
		}},
		{"delete", func() error {
			_, err := s.Delete(ctx, kept.ID)
			return err
		}},
		{"import", func() error {
			_, err := s.Import(ctx, []core.Entry{storetest.Entry(t, "expense", "food", "5", "2024-01-02", "")})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err == nil {
				t.Fatal("expected persist error")
			}
			all, err := s.List(ctx, query.Criteria{})
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 1 || all[0].ID != kept.ID || all[0].Note != "pay" {
				t.Fatalf("store after failed %s = %+v", tt.name, all)
			}
			if s.Len() != 1 {
				t.Fatalf("len = %d, want 1", s.Len())
			}
		})
	}

	t.Run("unknown id does not touch disk", func(t *testing.T) {
		ok, err := s.Delete(ctx, "missing")
		if err != nil || ok {
			t.Fatalf("delete missing = %v, %v", ok, err)
		}
	})
}
