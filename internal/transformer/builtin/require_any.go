package builtin

import (
	"strings"

	"layoffs/pkg/records"
)

// RequireAny drops records where every one of the configured fields is
// missing, nil, or blank. A layoff row with neither a headcount nor a
// percentage carries no usable measure.
type RequireAny struct {
	Fields []string

	// OnDrop receives each pruned row's source line.
	OnDrop func(line int, reason string)
}

// Apply returns the filtered slice, reusing the input's backing array.
func (ra RequireAny) Apply(in []records.Record) ([]records.Record, error) {
	out := in[:0]
	for _, r := range in {
		keep := false
		for _, f := range ra.Fields {
			v, ok := r[f]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			keep = true
			break
		}
		if keep {
			out = append(out, r)
			continue
		}
		if ra.OnDrop != nil {
			ra.OnDrop(r.Line(), "no usable measure: "+strings.Join(ra.Fields, ", "))
		}
	}
	return out, nil
}
