package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"moneymate/internal/query"
	"moneymate/internal/store"
	"moneymate/internal/store/storetest"
)

func newSQLite(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "moneymate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository { return newSQLite(t) })
}

func TestPostgresRepositoryContract(t *testing.T) {
	dsn := os.Getenv("MONEYMATE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MONEYMATE_TEST_POSTGRES_DSN not set")
	}
	storetest.Run(t, func(t *testing.T) store.Repository {
		repo, err := NewPostgresRepository(dsn)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		if _, err := repo.db.Exec("TRUNCATE transactions"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		return repo
	})
}

func TestSQLiteReopenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moneymate.db")
	ctx := context.Background()

	first, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	created, err := first.Create(ctx, storetest.Entry(t, "income", "salary", "1000", "2024-01-01", "pay"))
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	all, err := second.List(ctx, query.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != created.ID || !all[0].CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("reopened = %+v", all)
	}
	if err := second.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	if got := SQLite.rebind(q); got != q {
		t.Fatalf("sqlite rebind changed query: %s", got)
	}
	if got := Postgres.rebind(q); got != "UPDATE t SET a = $1, b = $2 WHERE id = $3" {
		t.Fatalf("postgres rebind = %s", got)
	}
}
