// Package backend selects and opens the transaction repository named by
// configuration.
package backend

import (
	"context"

	"moneymate/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the repository and an optional cleanup function
type Result struct {
	Repository store.Repository
	Cleanup    CleanupFunc
}

// Close runs Cleanup when there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates repositories based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// File backend
	DataFilePath string

	// SQLite backend
	SQLiteDBPath string

	// PostgreSQL backend
	PostgresDSN string
}

// Type represents the kind of repository
type Type string

const (
	MemoryBackend   Type = "memory"
	FileBackend     Type = "file"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
