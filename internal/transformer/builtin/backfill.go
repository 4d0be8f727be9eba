package builtin

import (
	"layoffs/pkg/records"
)

// Backfill fills a nil field from another record sharing the same key
// field. The layoffs feed lists some companies several times with the
// industry present on only one row; the self-join equivalent here copies
// that value onto the rows missing it.
//
// When a company has several distinct donor values, the lexicographically
// smallest non-empty one wins. The source data leaves that case undefined;
// a fixed tie-break keeps reruns byte-identical.
type Backfill struct {
	// Field is the nullable field to fill (industry).
	Field string

	// Key is the field records must share for donation (company).
	Key string
}

// Apply fills in place and returns the same slice. Records whose key is
// nil or empty never donate and never receive.
func (b Backfill) Apply(in []records.Record) ([]records.Record, error) {
	// First pass: collect the winning donor value per key.
	donors := make(map[string]string)
	for _, r := range in {
		key, ok := r.String(b.Key)
		if !ok || key == "" {
			continue
		}
		v, ok := r.String(b.Field)
		if !ok || v == "" {
			continue
		}
		if best, seen := donors[key]; !seen || v < best {
			donors[key] = v
		}
	}

	// Second pass: fill holes. A hole is nil or an empty string; any other
	// value (including already-coerced types) is left alone.
	for _, r := range in {
		switch v := r[b.Field].(type) {
		case nil:
		case string:
			if v != "" {
				continue
			}
		default:
			continue
		}
		key, ok := r.String(b.Key)
		if !ok || key == "" {
			continue
		}
		if v, seen := donors[key]; seen {
			r[b.Field] = v
		}
	}
	return in, nil
}
