// Command moneymate-report renders a report from a JSON backup file
// without running the server.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"moneymate/internal/cli"
	"moneymate/internal/core"
	"moneymate/internal/export"
	apphttp "moneymate/internal/http"
	"moneymate/internal/log"
	"moneymate/internal/services"
	"moneymate/internal/store"
	"moneymate/internal/store/memory"
)

type options struct {
	in, out, format, title string
	filter                 url.Values
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("moneymate-report", flag.ContinueOnError)
	var (
		o                                   options
		typ, category, start, end, rng, q string
	)
	fs.StringVar(&o.in, "in", "", "JSON backup file to read (required)")
	fs.StringVar(&o.out, "out", "", "output file; defaults to the export file name in the current directory")
	fs.StringVar(&o.format, "format", "pdf", "output format: csv, json, xlsx or pdf")
	fs.StringVar(&o.title, "title", "MoneyMate", "report title")
	fs.StringVar(&typ, "type", "", "income or expense")
	fs.StringVar(&category, "category", "", "category slug")
	fs.StringVar(&start, "start", "", "start date, YYYY-MM-DD")
	fs.StringVar(&end, "end", "", "end date, YYYY-MM-DD")
	fs.StringVar(&rng, "range", "", "date range preset: 7d, 30d, 90d, month or year")
	fs.StringVar(&q, "q", "", "free-text search")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		return o, fmt.Errorf("-in is required")
	}
	switch o.format {
	case "csv", "json", "xlsx", "pdf":
	default:
		return o, fmt.Errorf("unknown format %q", o.format)
	}
	o.filter = url.Values{}
	for k, v := range map[string]string{
		"type": typ, "category": category, "startDate": start, "endDate": end, "range": rng, "q": q,
	} {
		if v != "" {
			o.filter.Set(k, v)
		}
	}
	return o, nil
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		cli.Fatal(logger, "Invalid arguments", err)
	}
	path, n, err := run(context.Background(), o, store.SystemClock, logger)
	if err != nil {
		cli.Fatal(logger, "Report generation failed", err, "input", o.in)
	}
	logger.Info("Report written", "path", path, log.FieldFormat, o.format, log.FieldCount, n)
}

// run loads the backup into a memory store and renders the filtered report.
// It returns the written path and the number of reported transactions.
func run(ctx context.Context, o options, now store.Clock, logger *log.Logger) (string, int, error) {
	f, err := os.Open(o.in)
	if err != nil {
		return "", 0, fmt.Errorf("open backup: %w", err)
	}
	drafts, err := export.ReadBackup(f)
	f.Close()
	if err != nil {
		return "", 0, err
	}

	svc := services.NewTransactionService(memory.New(memory.WithClock(now)),
		services.WithClock(now),
		services.WithReportTitle(o.title),
		services.WithLogger(logger.WithComponent(log.ComponentExport)))
	if _, err := svc.Import(ctx, drafts); err != nil {
		return "", 0, err
	}

	filter, err := apphttp.ParseFilter(o.filter, core.DateOf(now()))
	if err != nil {
		return "", 0, err
	}
	rep, err := svc.Report(ctx, filter)
	if err != nil {
		return "", 0, err
	}

	var (
		buf  bytes.Buffer
		name string
	)
	switch o.format {
	case "csv":
		name, err = export.CSVFilename(rep.GeneratedAt), export.WriteCSV(&buf, rep.Transactions)
	case "json":
		name, err = export.BackupFilename(rep.GeneratedAt), export.WriteBackup(&buf, rep.Transactions, rep.GeneratedAt)
	case "xlsx":
		name, err = export.ReportFilename(rep, "xlsx"), export.WriteXLSX(&buf, rep)
	case "pdf":
		name, err = export.ReportFilename(rep, "pdf"), export.WritePDF(&buf, rep)
	}
	if err != nil {
		return "", 0, fmt.Errorf("render %s: %w", o.format, err)
	}

	out := o.out
	if out == "" {
		out = name
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", 0, fmt.Errorf("write report: %w", err)
	}
	return out, len(rep.Transactions), nil
}
