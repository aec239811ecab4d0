package backend

import (
	"context"
	"fmt"

	"moneymate/internal/log"
	"moneymate/internal/storage"
	"moneymate/internal/store/file"
	"moneymate/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Repository: memory.New()}, nil
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLBackend(ctx, config.Type, func() (*storage.Repository, error) {
			return storage.NewSQLiteRepository(config.SQLiteDBPath)
		}, "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		return f.createSQLBackend(ctx, config.Type, func() (*storage.Repository, error) {
			return storage.NewPostgresRepository(config.PostgresDSN)
		})
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*Result, error) {
	f.logger.Debug("Opening data file", "path", config.DataFilePath)
	s, err := file.Open(config.DataFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	f.logger.Info("Initialized file backend", "path", config.DataFilePath, log.FieldCount, s.Len())
	return &Result{Repository: s}, nil
}

func (f *DefaultFactory) createSQLBackend(ctx context.Context, t Type, open func() (*storage.Repository, error), attrs ...any) (*Result, error) {
	repo, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s repository: %w", t, err)
	}
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", t, err)
	}

	f.logger.Info("Initialized SQL backend", append([]any{log.FieldBackend, t.String()}, attrs...)...)

	return &Result{Repository: repo, Cleanup: repo.Close}, nil
}
