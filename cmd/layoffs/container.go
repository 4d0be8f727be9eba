// This file wires the cleaning run end-to-end: source, parser, cleaning
// chain, storage, report. It keeps the CLI layer thin: it depends only on
// storage-agnostic interfaces and never imports database drivers or
// backend-specific packages directly.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"layoffs/internal/config"
	"layoffs/internal/datasource/file"
	"layoffs/internal/datasource/httpds"
	"layoffs/internal/metrics"
	csvparser "layoffs/internal/parser/csv"
	"layoffs/internal/report"
	"layoffs/internal/storage"
	"layoffs/internal/transformer"
	"layoffs/pkg/records"
)

// showFirst caps how many individual row errors each aggregate prints.
const showFirst = 3

// counters holds per-run row statistics.
type counters struct {
	parsed      int // rows leaving the parser as records
	parseErrors int // lines the CSV reader could not use
	dropped     int // rows removed by the cleaning chain
	cleaned     int // rows leaving the cleaning chain
	loaded      int // rows the storage backend reported inserted
}

// Function variables used to introduce test seams. In production these point
// to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource

	reportOut io.Writer = os.Stdout
)

// run executes one cleaning run: open the source, parse it into records,
// apply the cleaning chain, load the survivors into storage, and build the
// reports.
//
// Bad rows are dropped before the database (fail-soft semantics) and their
// errors aggregated; only configuration or I/O problems fail the run. The
// one exception is a coerce step configured with on_bad_date=fail, whose
// error propagates out of the chain.
func run(ctx context.Context, spec config.Pipeline, verbose bool) error {
	job := spec.Job
	if job == "" {
		job = "layoffs_clean"
	}

	var stats counters
	parseAgg := newErrAgg(showFirst)
	dropAgg := newErrAgg(showFirst)

	// 1) Fetch and parse.
	parseStart := time.Now()
	recs, err := parseSource(ctx, spec, parseAgg, &stats)
	metrics.RecordStep(job, "parse", err, time.Since(parseStart))
	if err != nil {
		return err
	}
	metrics.CountRows(job, "parse", "parsed", stats.parsed)
	metrics.CountRows(job, "parse", "parse_error", stats.parseErrors)

	// 2) Clean.
	onDrop := func(stage string, line int, reason string) {
		stats.dropped++
		if line > 0 {
			dropAgg.add(fmt.Sprintf("%s: row %d: %s", stage, line, reason))
			return
		}
		dropAgg.add(fmt.Sprintf("%s: %s", stage, reason))
	}
	chain, err := transformer.FromPipeline(spec.Transform, onDrop)
	if err != nil {
		return fmt.Errorf("build chain: %w", err)
	}

	cleanStart := time.Now()
	cleaned, err := chain.Apply(recs)
	metrics.RecordStep(job, "clean", err, time.Since(cleanStart))
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	stats.cleaned = len(cleaned)
	metrics.CountRows(job, "clean", "dropped", stats.dropped)
	metrics.CountRows(job, "clean", "cleaned", stats.cleaned)

	// 3) Load.
	if spec.Storage.Kind != "" && spec.Storage.Kind != "none" {
		loadStart := time.Now()
		n, err := loadCleaned(ctx, spec, cleaned)
		metrics.RecordStep(job, "load", err, time.Since(loadStart))
		if err != nil {
			return err
		}
		stats.loaded = int(n)
		metrics.CountRows(job, "load", "loaded", stats.loaded)
	} else if verbose {
		log.Printf("storage: disabled (kind=%q)", spec.Storage.Kind)
	}

	// 4) Report.
	if spec.Report.Enabled {
		reportStart := time.Now()
		err := buildReport(ctx, spec, cleaned)
		metrics.RecordStep(job, "report", err, time.Since(reportStart))
		if err != nil {
			return err
		}
	}

	logErrSummaries(parseAgg, dropAgg)
	logGlobalSummary(&stats)
	return nil
}

// parseSource opens the configured source and parses it into records.
func parseSource(ctx context.Context, spec config.Pipeline, parseAgg *errAgg, stats *counters) ([]records.Record, error) {
	rc, err := openSourceFn(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	p, err := buildParser(spec.Parser)
	if err != nil {
		return nil, err
	}

	onParseErr := func(line int, err error) {
		if err == nil {
			return
		}
		stats.parseErrors++
		parseAgg.add(fmt.Sprintf("line %d: %v", line, err))
	}

	recs, err := p.Parse(ctx, rc, onParseErr)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	stats.parsed = len(recs)
	return recs, nil
}

// openSource maps source configuration onto a datasource implementation.
func openSource(ctx context.Context, spec config.Pipeline) (io.ReadCloser, error) {
	switch spec.Source.Kind {
	case "file":
		return file.NewLocal(spec.Source.File.Path).Open(ctx)
	case "http":
		h := spec.Source.HTTP
		cfg := httpds.Config{
			URL:                h.URL,
			InsecureSkipVerify: h.InsecureSkipVerify,
		}
		if h.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(h.TimeoutSeconds) * time.Second
		}
		if h.MaxRetries > 0 {
			cfg.MaxRetries = h.MaxRetries
		}
		return httpds.NewRemote(cfg).Open(ctx)
	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", spec.Source.Kind)
	}
}

// buildParser maps parser configuration into a concrete parser implementation.
func buildParser(p config.Parser) (*csvparser.Parser, error) {
	switch p.Kind {
	case "csv":
		opt := csvparser.Options{
			HasHeader: p.Options.Bool("has_header", true),
			Comma:     p.Options.Rune("comma", ','),
			TrimSpace: p.Options.Bool("trim_space", true),
			HeaderMap: p.Options.StringMap("header_map"),
			Columns:   p.Options.StringSlice("columns"),
			ScrubFrom: p.Options.String("scrub_from", ""),
			ScrubTo:   p.Options.String("scrub_to", ""),
		}
		return csvparser.NewParser(opt), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}

// loadCleaned opens the repository, applies DDL when configured, and batch
// inserts the cleaned records.
func loadCleaned(ctx context.Context, spec config.Pipeline, recs []records.Record) (int64, error) {
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    spec.Storage.Kind,
		DSN:     spec.Storage.DB.DSN,
		Table:   spec.Storage.DB.Table,
		Columns: spec.Storage.DB.Columns,
	})
	if err != nil {
		return 0, fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	if spec.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTableFromPipeline(ctx, spec, repo); err != nil {
			return 0, fmt.Errorf("apply DDL: %w", err)
		}
	}

	n, err := storage.LoadRecords(ctx, repo, spec.Storage.DB.Columns, recs, spec.Storage.DB.BatchSize)
	if err != nil {
		return n, fmt.Errorf("load: %w", err)
	}
	return n, nil
}

// buildReport computes the aggregate sections, renders them as text, and
// optionally writes the Excel workbook.
func buildReport(ctx context.Context, spec config.Pipeline, recs []records.Record) error {
	s, err := report.Build(ctx, recs, spec.Report.TopN)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := report.Render(reportOut, s); err != nil {
		return fmt.Errorf("report render: %w", err)
	}
	if spec.Report.XLSXPath != "" {
		if err := report.WriteXLSX(spec.Report.XLSXPath, s); err != nil {
			return fmt.Errorf("report xlsx: %w", err)
		}
		log.Printf("report: workbook written to %s", spec.Report.XLSXPath)
	}
	return nil
}

// logErrSummaries prints aggregated parse and drop errors. Only the first N
// unique messages (per errAgg) are shown.
func logErrSummaries(parseAgg, dropAgg *errAgg) {
	if parseAgg.count > 0 {
		log.Printf("parse errors: %d (showing first %d)", parseAgg.count, len(parseAgg.first))
		for i, s := range parseAgg.first {
			log.Printf("  #%03d: %s", i+1, s)
		}
	}
	if dropAgg.count > 0 {
		log.Printf("dropped rows: %d (showing first %d)", dropAgg.count, len(dropAgg.first))
		for i, s := range dropAgg.first {
			log.Printf("  #%03d: %s", i+1, s)
		}
	}
}

// logGlobalSummary prints final aggregated statistics for the run.
//
// Invariant for data rows (excluding the header):
//
//	parsed == cleaned + dropped
func logGlobalSummary(c *counters) {
	log.Printf(
		"summary: parsed=%d parse_errors=%d dropped=%d cleaned=%d loaded=%d",
		c.parsed, c.parseErrors, c.dropped, c.cleaned, c.loaded,
	)

	if c.parsed != c.cleaned+c.dropped {
		log.Printf(
			"WARNING: row accounting mismatch: parsed=%d accounted=%d (delta=%d)",
			c.parsed, c.cleaned+c.dropped, c.parsed-c.cleaned-c.dropped,
		)
	}
}

// errAgg aggregates row errors, keeping a total count plus the first few
// unique messages for the end-of-run summary.
type errAgg struct {
	mu      sync.Mutex
	limit   int
	count   int
	first   []string
	buckets map[string]int
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit, buckets: make(map[string]int)}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	a.buckets[msg]++
	if a.count < a.limit {
		a.first = append(a.first, msg)
	}
	a.count++
	a.mu.Unlock()
}
