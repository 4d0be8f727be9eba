// Package config provides configuration models and helpers for cleaning
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "transform[1].options.fields"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownTransforms lists the builtin cleaning step kinds.
var knownTransforms = map[string]struct{}{
	"dedup":         {},
	"normalize":     {},
	"collapse":      {},
	"strip_suffix":  {},
	"coerce":        {},
	"blank_to_null": {},
	"backfill":      {},
	"require_any":   {},
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. It returns a slice of Issue values;
// callers decide whether to treat warnings as fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and identifies runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateReport(p.Report)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}

	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		if strings.TrimSpace(s.HTTP.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.http.url",
				Message:  "http source requires a non-empty url",
			})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.http.insecure_skip_verify",
				Message:  "TLS verification is disabled; only use against trusted internal endpoints",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", s.Kind),
		})
	}

	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  "parser.kind must not be empty",
		})
	}
	if p.Kind != "csv" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q; ensure a matching implementation exists", p.Kind),
		})
	}

	// scrub_from / scrub_to must come in pairs.
	from := p.Options.String("scrub_from", "")
	to := p.Options.String("scrub_to", "")
	if (from == "") != (to == "") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.scrub_from",
			Message:  "scrub_from and scrub_to must both be set or both be empty",
		})
	}

	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)

		if strings.TrimSpace(t.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  "transform kind must not be empty",
			})
			continue
		}
		if _, ok := knownTransforms[t.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
			continue
		}

		switch t.Kind {
		case "normalize", "blank_to_null", "require_any":
			if len(t.Options.StringSlice("fields")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options.fields",
					Message:  t.Kind + " requires a non-empty fields list",
				})
			}
		case "collapse":
			if t.Options.String("field", "") == "" || t.Options.String("prefix", "") == "" || t.Options.String("to", "") == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options",
					Message:  "collapse requires field, prefix, and to",
				})
			}
		case "strip_suffix":
			if t.Options.String("field", "") == "" || t.Options.String("suffix", "") == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options",
					Message:  "strip_suffix requires field and suffix",
				})
			}
		case "coerce":
			if len(t.Options.StringMap("types")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path + ".options.types",
					Message:  "coerce has no type hints; step is a no-op",
				})
			}
			switch pol := t.Options.String("on_bad_date", "drop"); pol {
			case "drop", "fail":
			default:
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options.on_bad_date",
					Message:  fmt.Sprintf("on_bad_date must be \"drop\" or \"fail\", got %q", pol),
				})
			}
		case "backfill":
			if t.Options.String("field", "") == "" || t.Options.String("key", "") == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path + ".options",
					Message:  "backfill requires field and key",
				})
			}
		}
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	kind := strings.TrimSpace(s.Kind)
	if kind == "" || kind == "none" {
		// Report-only run; nothing to check.
		return issues
	}

	switch kind {
	case "sqlite", "postgres", "mysql":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage requires a non-empty dsn",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage requires a non-empty table",
		})
	}
	if len(s.DB.Columns) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.columns",
			Message:  "storage requires at least one column",
		})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	return issues
}

func validateReport(r ReportConfig) []Issue {
	var issues []Issue

	if r.TopN < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.top_n",
			Message:  "top_n must not be negative",
		})
	}
	if !r.Enabled && r.XLSXPath != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "report.xlsx_path",
			Message:  "xlsx_path is set but report.enabled is false; no workbook will be written",
		})
	}

	return issues
}
