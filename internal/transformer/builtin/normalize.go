package builtin

import (
	"strings"

	"layoffs/pkg/records"
)

// Normalize trims leading/trailing whitespace from the configured string
// fields. Values that are not strings (already coerced, or nil) pass
// through untouched.
type Normalize struct {
	Fields []string
}

// Apply trims in place and returns the same slice.
func (n Normalize) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for _, f := range n.Fields {
			if s, ok := r.String(f); ok {
				r[f] = strings.TrimSpace(s)
			}
		}
	}
	return in, nil
}
