// Package store defines the transaction storage port and the pieces its
// implementations share.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moneymate/internal/core"
	"moneymate/internal/query"
)

// Ports for storage adapters.
type (
	// Repository holds the transaction collection. List returns transactions
	// by date descending; transactions sharing a date keep insertion order.
	Repository interface {
		Create(ctx context.Context, e core.Entry) (core.Transaction, error)
		// Get reports false when no transaction has the id.
		Get(ctx context.Context, id string) (core.Transaction, bool, error)
		// Update merges p into the stored entry and revalidates it.
		Update(ctx context.Context, id string, p core.Patch) (core.Transaction, bool, error)
		Delete(ctx context.Context, id string) (bool, error)
		List(ctx context.Context, c query.Criteria) ([]core.Transaction, error)
		// Import appends every entry with a fresh id and creation time. It
		// writes all entries or none.
		Import(ctx context.Context, entries []core.Entry) ([]core.Transaction, error)
	}

	// Pinger is implemented by repositories backed by a remote resource.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// IDFunc generates transaction ids.
type IDFunc func() string

// Clock returns the current time.
type Clock func() time.Time

// NewID returns a random UUID string.
func NewID() string { return uuid.NewString() }

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }
