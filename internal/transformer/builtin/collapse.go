package builtin

import (
	"strings"

	"layoffs/pkg/records"
)

// Collapse rewrites category variants sharing a prefix to one canonical
// value. The layoffs feed spells the crypto industry half a dozen ways
// ("Crypto", "Crypto Currency", "CryptoCurrency"); collapsing on the
// case-sensitive prefix "Crypto" folds them into a single group key.
type Collapse struct {
	// Field is the record key to rewrite.
	Field string

	// Prefix is matched case-sensitively against the field value.
	Prefix string

	// To is the canonical replacement value.
	To string
}

// Apply rewrites matching values in place and returns the same slice.
func (c Collapse) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		if s, ok := r.String(c.Field); ok && strings.HasPrefix(s, c.Prefix) {
			r[c.Field] = c.To
		}
	}
	return in, nil
}
