// Package google publishes report workbooks to a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneymate/internal/export"
	"moneymate/internal/log"
)

// Credentials locate a service account key. JSON wins over File.
type Credentials struct {
	JSON string
	File string
}

// Publisher writes workbooks into one spreadsheet, one tab per sheet.
type Publisher struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// New creates a Publisher authenticated with a service account.
func New(ctx context.Context, spreadsheetID string, creds Credentials, logger *log.Logger) (*Publisher, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, creds, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Publisher{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

func credentialsJSON(creds Credentials) ([]byte, error) {
	inline := strings.TrimSpace(creds.JSON)
	file := strings.TrimSpace(creds.File)
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

func newSheetsService(ctx context.Context, creds Credentials, logger *log.Logger) (*gsheet.Service, error) {
	b, err := credentialsJSON(creds)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(b),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(b),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// PublishWorkbook creates the tabs wb needs, clears them and writes every
// sheet from A1. Tabs not in wb are left alone.
func (p *Publisher) PublishWorkbook(ctx context.Context, wb *export.Workbook) error {
	if p.svc == nil {
		return errors.New("sheets service not initialized")
	}

	existing, err := p.sheetTitles(ctx)
	if err != nil {
		return err
	}
	if reqs := addSheetRequests(wb, existing); len(reqs) > 0 {
		_, err := p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("add sheets: %w", err)
		}
	}

	for _, sh := range wb.Sheets {
		rng := quoteSheet(sh.Name)
		if _, err := p.svc.Spreadsheets.Values.Clear(p.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear sheet %s: %w", sh.Name, err)
		}

		vr := &gsheet.ValueRange{Values: valuesFor(sh)}
		_, err := p.svc.Spreadsheets.Values.Update(p.spreadsheetID, rng+"!A1", vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update sheet %s: %w", sh.Name, err)
		}
		p.logger.DebugContext(ctx, "Sheet written", "sheet", sh.Name, "rows", len(sh.Rows))
	}

	p.logger.InfoContext(ctx, "Workbook published", "spreadsheet_id", p.spreadsheetID, "sheets", len(wb.Sheets))
	return nil
}

func (p *Publisher) sheetTitles(ctx context.Context) (map[string]bool, error) {
	ss, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make(map[string]bool, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	return titles, nil
}

func addSheetRequests(wb *export.Workbook, existing map[string]bool) []*gsheet.Request {
	var reqs []*gsheet.Request
	for _, sh := range wb.Sheets {
		if existing[sh.Name] {
			continue
		}
		reqs = append(reqs, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: sh.Name}},
		})
	}
	return reqs
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
