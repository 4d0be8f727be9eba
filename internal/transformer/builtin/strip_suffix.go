package builtin

import (
	"strings"

	"layoffs/pkg/records"
)

// StripSuffix removes a trailing suffix from a field, optionally only when
// the value starts with WhenPrefix. Repeated trailing occurrences are all
// removed, so "United States.." and "United States." both normalize to
// "United States".
type StripSuffix struct {
	// Field is the record key to rewrite.
	Field string

	// Suffix is the trailing string to strip.
	Suffix string

	// WhenPrefix, when non-empty, restricts the rewrite to values with this
	// prefix.
	WhenPrefix string
}

// Apply rewrites matching values in place and returns the same slice.
func (s StripSuffix) Apply(in []records.Record) ([]records.Record, error) {
	if s.Suffix == "" {
		return in, nil
	}
	for _, r := range in {
		v, ok := r.String(s.Field)
		if !ok {
			continue
		}
		if s.WhenPrefix != "" && !strings.HasPrefix(v, s.WhenPrefix) {
			continue
		}
		for strings.HasSuffix(v, s.Suffix) {
			v = strings.TrimSuffix(v, s.Suffix)
		}
		r[s.Field] = v
	}
	return in, nil
}
