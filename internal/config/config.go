// Package config defines the JSON-serializable pipeline model for the
// layoffs cleaning run. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk and passed
// through the program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":    "layoffs_clean",
//	  "source": { "kind": "file", "file": { "path": "data/layoffs.csv" } },
//	  "parser": { "kind": "csv", "options": { "has_header": true } },
//	  "transform": [
//	    { "kind": "dedup" },
//	    { "kind": "normalize", "options": { "fields": ["company"] } }
//	  ],
//	  "storage": { "kind": "sqlite", "db": { "dsn": "layoffs.db", "table": "layoffs" } },
//	  "report":  { "enabled": true, "top_n": 5 }
//	}
package config

import "encoding/json"

// Pipeline describes one full cleaning run decoded from a pipeline file
// (e.g., configs/pipelines/layoffs.json).
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source describes where the raw CSV comes from (local file or HTTP).
	Source Source `json:"source"`

	// Parser configures how raw bytes become records.
	Parser Parser `json:"parser"`

	// Transform lists the ordered cleaning steps. Each step has a kind and
	// an options bag whose shape is defined by the step implementation.
	Transform []Transform `json:"transform"`

	// Storage describes where cleaned records are written.
	Storage Storage `json:"storage"`

	// Report configures the read-only aggregate reports built after the
	// cleaned records are loaded.
	Report ReportConfig `json:"report"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`

	// HTTP carries options for the "http" source kind.
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	// URL is the location of the input CSV.
	URL string `json:"url"`

	// TimeoutSeconds is the per-request timeout; 0 means the client default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `json:"max_retries"`

	// InsecureSkipVerify disables TLS certificate verification. Use only
	// for internal endpoints with self-signed certificates.
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

// Parser selects how to parse the raw source into records.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser. For CSV,
	// typical keys include: has_header (bool), comma (string),
	// trim_space (bool), header_map (object), scrub_from / scrub_to
	// (strings, streaming byte replacement).
	Options Options `json:"options"`
}

// Transform defines a single cleaning step. The sequence of steps forms the
// cleaning chain executed over the parsed records.
type Transform struct {
	// Kind selects the step implementation: "dedup", "normalize",
	// "collapse", "strip_suffix", "coerce", "blank_to_null", "backfill",
	// "require_any".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected step.
	Options Options `json:"options"`
}

// Storage selects the sink used to persist cleaned records.
type Storage struct {
	// Kind selects the storage backend: "sqlite", "postgres", "mysql",
	// or "none" (report-only runs).
	Kind string `json:"kind"`

	// DB configures the selected SQL backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures a SQL storage backend.
type DBConfig struct {
	// DSN is the backend connection string (pgx DSN, sqlite path, mysql DSN).
	DSN string `json:"dsn"`

	// Table is the destination table name (may be schema-qualified).
	Table string `json:"table"`

	// Columns enumerates the destination columns in insert order. Do not
	// include auto-generated identity columns.
	Columns []string `json:"columns"`

	// BatchSize is the number of rows per insert batch; 0 uses the default.
	BatchSize int `json:"batch_size"`

	// AutoCreateTable creates the destination table when it does not exist,
	// using the coerce type hints to pick column types.
	AutoCreateTable bool `json:"auto_create_table"`
}

// ReportConfig controls the aggregate reports.
type ReportConfig struct {
	// Enabled turns report building on.
	Enabled bool `json:"enabled"`

	// TopN is the per-year company ranking cutoff; 0 means 5. Ties at the
	// cutoff are kept, so sections may contain more than TopN rows.
	TopN int `json:"top_n"`

	// XLSXPath, when non-empty, writes the report workbook to this path.
	XLSXPath string `json:"xlsx_path"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character parser settings such as the
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings (or interface values containing strings). Returns nil when the
// key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes
// nil-checks at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
