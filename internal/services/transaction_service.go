package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"moneymate/internal/amqp"
	"moneymate/internal/core"
	"moneymate/internal/export"
	"moneymate/internal/log"
	"moneymate/internal/query"
	"moneymate/internal/report"
	"moneymate/internal/store"
)

const publishTimeout = 5 * time.Second

// ErrSheetsDisabled is returned by PublishSheets when no spreadsheet is
// configured.
var ErrSheetsDisabled = errors.New("google sheets export is not configured")

// EventPublisher sends change events. *amqp.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev amqp.TransactionEvent) error
}

// WorkbookPublisher pushes a workbook to an external spreadsheet.
type WorkbookPublisher interface {
	PublishWorkbook(ctx context.Context, wb *export.Workbook) error
}

// Filter selects the transactions a report covers.
type Filter struct {
	Criteria query.Criteria
	// Query is the free-text search applied after Criteria.
	Query string
}

// TransactionService orchestrates the repository, change events and
// report building for the HTTP layer.
type TransactionService struct {
	repo   store.Repository
	events EventPublisher
	sheets WorkbookPublisher
	logger *log.Logger
	now    store.Clock
	title  string
}

type Option func(*TransactionService)

// WithEvents enables change events. A nil publisher disables them.
func WithEvents(p EventPublisher) Option { return func(s *TransactionService) { s.events = p } }

func WithSheets(p WorkbookPublisher) Option { return func(s *TransactionService) { s.sheets = p } }

func WithLogger(l *log.Logger) Option { return func(s *TransactionService) { s.logger = l } }

func WithClock(c store.Clock) Option { return func(s *TransactionService) { s.now = c } }

// WithReportTitle sets the title printed on generated reports.
func WithReportTitle(title string) Option { return func(s *TransactionService) { s.title = title } }

func NewTransactionService(repo store.Repository, opts ...Option) *TransactionService {
	s := &TransactionService{
		repo:   repo,
		logger: log.Discard(),
		now:    store.SystemClock,
		title:  "MoneyMate",
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentTransactions)
	return s
}

// Now is the service clock, used for report timestamps and file names.
func (s *TransactionService) Now() time.Time { return s.now() }

// Today is the calendar date of Now.
func (s *TransactionService) Today() core.Date { return core.DateOf(s.now()) }

// SheetsEnabled reports whether PublishSheets can succeed.
func (s *TransactionService) SheetsEnabled() bool { return s.sheets != nil }

// Create validates d and stores it.
func (s *TransactionService) Create(ctx context.Context, d core.Draft) (core.Transaction, error) {
	entry, err := d.Build()
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.repo.Create(ctx, entry)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.NewFields().
			WithTransaction(tx.ID, string(tx.Type()), tx.Category.Slug(), tx.Amount.Cents).
			WithOperation(log.OpCreate).
			ToSlice()...)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionCreated, tx.ID, s.now()))

	return tx, nil
}

// Get returns core.ErrNotFound when id is unknown.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	tx, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

// Update applies a partial update. Validation errors are returned as is.
func (s *TransactionService) Update(ctx context.Context, id string, p core.Patch) (core.Transaction, error) {
	tx, ok, err := s.repo.Update(ctx, id, p)
	if !ok {
		if err != nil {
			return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
		}
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction updated", log.FieldTransactionID, tx.ID, log.FieldOperation, log.OpUpdate)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionUpdated, tx.ID, s.now()))

	return tx, nil
}

// Delete returns core.ErrNotFound when id is unknown.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !ok {
		return core.ErrNotFound
	}

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id, log.FieldOperation, log.OpDelete)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionDeleted, id, s.now()))

	return nil
}

// List applies the field filter only.
func (s *TransactionService) List(ctx context.Context, c query.Criteria) ([]core.Transaction, error) {
	txs, err := s.repo.List(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Select applies the field filter and then the free-text search.
func (s *TransactionService) Select(ctx context.Context, f Filter) ([]core.Transaction, error) {
	txs, err := s.List(ctx, f.Criteria)
	if err != nil {
		return nil, err
	}
	return query.Search(txs, f.Query), nil
}

// Summary aggregates the whole store.
func (s *TransactionService) Summary(ctx context.Context) (report.Summary, error) {
	txs, err := s.List(ctx, query.Criteria{})
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(txs), nil
}

// Report builds the report over the selected transactions, stamped with
// the service clock.
func (s *TransactionService) Report(ctx context.Context, f Filter) (*report.Report, error) {
	txs, err := s.Select(ctx, f)
	if err != nil {
		return nil, err
	}
	return report.New(s.title, f.Criteria.StartDate, f.Criteria.EndDate, s.now(), txs), nil
}

// Import validates every draft and appends them all, or none when any
// record is invalid.
func (s *TransactionService) Import(ctx context.Context, drafts []core.Draft) ([]core.Transaction, error) {
	entries, err := export.BuildEntries(drafts)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.Import(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("import transactions: %w", err)
	}

	s.logger.InfoContext(ctx, "Transactions imported", log.NewFields().WithCount(len(txs)).WithOperation(log.OpImport).ToSlice()...)
	if len(txs) > 0 {
		s.publish(ctx, amqp.NewImportEvent(len(txs), s.now()))
	}

	return txs, nil
}

// PublishSheets writes the report workbook of f to Google Sheets.
func (s *TransactionService) PublishSheets(ctx context.Context, f Filter) (*report.Report, error) {
	if s.sheets == nil {
		return nil, ErrSheetsDisabled
	}
	r, err := s.Report(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.sheets.PublishWorkbook(ctx, export.BuildWorkbook(r)); err != nil {
		return nil, fmt.Errorf("publish workbook: %w", err)
	}
	s.logger.InfoContext(ctx, "Workbook published to Google Sheets", log.NewFields().WithCount(len(r.Transactions)).WithOperation(log.OpExport).ToSlice()...)
	return r, nil
}

// publish sends ev without failing the caller; the write already happened.
func (s *TransactionService) publish(ctx context.Context, ev amqp.TransactionEvent) {
	if s.events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			"action", ev.Action,
			log.FieldTransactionID, ev.ID,
			log.FieldError, err)
	}
}

// Close releases the event publisher when it holds a connection.
func (s *TransactionService) Close() error {
	if c, ok := s.events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close event publisher: %w", err)
		}
	}
	return nil
}
