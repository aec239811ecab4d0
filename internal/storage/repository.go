// Package storage implements the transaction repository on database/sql,
// for SQLite (modernc) and PostgreSQL (lib/pq).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"moneymate/internal/core"
	"moneymate/internal/query"
	"moneymate/internal/store"
)

const columns = "id, type, category, amount_cents, date, note, created_at"

type Repository struct {
	db      *sql.DB
	dialect Dialect
	newID   store.IDFunc
	now     store.Clock
}

var (
	_ store.Repository = (*Repository)(nil)
	_ store.Pinger     = (*Repository)(nil)
)

// NewSQLiteRepository opens (creating if needed) the database file at
// dbPath and migrates it.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(SQLite, dbPath)
}

// NewPostgresRepository connects to dsn and migrates the schema.
func NewPostgresRepository(dsn string) (*Repository, error) {
	return open(Postgres, dsn)
}

func open(dialect Dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == SQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, dialect: dialect, newID: store.NewID, now: store.SystemClock}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		id, typ, slug, date, note, created string
		cents                              int64
	)
	if err := s.Scan(&id, &typ, &slug, &cents, &date, &note, &created); err != nil {
		return core.Transaction{}, err
	}
	t, err := core.ParseType(typ)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", id, err)
	}
	cat, err := core.LookupCategory(t, slug)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", id, err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", id, err)
	}
	at, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: created_at: %w", id, err)
	}
	return core.Transaction{
		ID:        id,
		Entry:     core.Entry{Category: cat, Amount: core.Money{Cents: cents}, Date: d, Note: note},
		CreatedAt: at,
	}, nil
}

func (r *Repository) exec(ctx context.Context, q execer, stmt string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, r.dialect.rebind(stmt), args...)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) insert(ctx context.Context, q execer, e core.Entry) (core.Transaction, error) {
	t := core.Transaction{ID: r.newID(), Entry: e, CreatedAt: r.now()}
	_, err := r.exec(ctx, q,
		"INSERT INTO transactions ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, string(t.Type()), t.Category.Slug(), t.Amount.Cents, t.Date.String(), t.Note,
		t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

// Create implements store.Repository
func (r *Repository) Create(ctx context.Context, e core.Entry) (core.Transaction, error) {
	if err := e.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return r.insert(ctx, r.db, e)
}

// Get implements store.Repository
func (r *Repository) Get(ctx context.Context, id string) (core.Transaction, bool, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.rebind("SELECT "+columns+" FROM transactions WHERE id = ?"), id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction: %w", err)
	}
	return t, true, nil
}

// Update implements store.Repository. Read, merge and write happen in one
// database transaction.
func (r *Repository) Update(ctx context.Context, id string, p core.Patch) (core.Transaction, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, r.dialect.rebind("SELECT "+columns+" FROM transactions WHERE id = ?"), id)
	current, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("load transaction: %w", err)
	}

	merged, err := p.Apply(current.Entry)
	if err != nil {
		return core.Transaction{}, true, err
	}
	_, err = r.exec(ctx, tx,
		"UPDATE transactions SET type = ?, category = ?, amount_cents = ?, date = ?, note = ? WHERE id = ?",
		string(merged.Type()), merged.Category.Slug(), merged.Amount.Cents, merged.Date.String(), merged.Note, id)
	if err != nil {
		return core.Transaction{}, true, fmt.Errorf("update transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, true, fmt.Errorf("commit update: %w", err)
	}
	current.Entry = merged
	return current, true, nil
}

// Delete implements store.Repository
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.exec(ctx, r.db, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return n > 0, nil
}

// List implements store.Repository. Dates are stored as ISO text, so text
// comparison is date comparison.
func (r *Repository) List(ctx context.Context, c query.Criteria) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if c.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(c.Type))
	}
	if c.Category != "" {
		where = append(where, "category = ?")
		args = append(args, c.Category)
	}
	if !c.StartDate.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, c.StartDate.String())
	}
	if !c.EndDate.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, c.EndDate.String())
	}
	q := "SELECT " + columns + " FROM transactions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date DESC, seq ASC"

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// Import implements store.Repository inside a single database transaction.
func (r *Repository) Import(ctx context.Context, entries []core.Entry) ([]core.Transaction, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	added := make([]core.Transaction, 0, len(entries))
	for _, e := range entries {
		t, err := r.insert(ctx, tx, e)
		if err != nil {
			return nil, err
		}
		added = append(added, t)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return added, nil
}
