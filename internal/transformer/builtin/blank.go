package builtin

import (
	"strings"

	"layoffs/pkg/records"
)

// BlankToNull rewrites empty-string sentinels to nil for the configured
// fields, so downstream steps only ever test for nil. Whitespace-only
// values count as blank. "NULL" spelled out as text, a common artifact of
// spreadsheet exports, is treated the same way.
type BlankToNull struct {
	Fields []string
}

// Apply rewrites in place and returns the same slice.
func (b BlankToNull) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for _, f := range b.Fields {
			s, ok := r.String(f)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "null") {
				r[f] = nil
			}
		}
	}
	return in, nil
}
