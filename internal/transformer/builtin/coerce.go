package builtin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"layoffs/pkg/records"
)

// Coerce parses string fields into typed values per the configured type
// hints. Supported types: "int", "real", "date", "text" (pass-through).
//
// Empty strings and nils are left alone; BlankToNull decides what empty
// means. Unparseable ints and reals also pass through as text, matching
// how a loose relational import would behave. Dates are different: a date
// column that keeps textual values cannot be retyped, so a bad date is
// either dropped with the row (OnBadDate="drop", the default) or aborts
// the run (OnBadDate="fail").
type Coerce struct {
	// Types maps field name to target type.
	Types map[string]string

	// DateLayout is the time.Parse layout for "date" fields. The layoffs
	// feed uses m/d/y without zero padding: "1/2/2006".
	DateLayout string

	// OnBadDate selects the date-parse failure policy: "drop" or "fail".
	OnBadDate string

	// OnDrop receives rows dropped under the "drop" policy.
	OnDrop func(line int, reason string)
}

// Apply coerces fields in place. Under the "drop" policy the returned slice
// excludes rows with unparseable dates; under "fail" the first bad date
// aborts with an error naming the line and value.
func (c Coerce) Apply(in []records.Record) ([]records.Record, error) {
	if len(c.Types) == 0 {
		return in, nil
	}
	layout := c.DateLayout
	if layout == "" {
		layout = "1/2/2006"
	}

	out := in[:0]
	for _, r := range in {
		bad := ""
		for field, typ := range c.Types {
			s, ok := r.String(field)
			if !ok || s == "" {
				continue
			}
			switch typ {
			case "int":
				if i, err := strconv.Atoi(s); err == nil {
					r[field] = i
				}
			case "real":
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					r[field] = f
				}
			case "date":
				t, err := time.Parse(layout, strings.TrimSpace(s))
				if err != nil {
					bad = fmt.Sprintf("%s: unparseable date %q", field, s)
					break
				}
				r[field] = t
			case "text":
				// already string
			}
		}

		if bad == "" {
			out = append(out, r)
			continue
		}
		if c.OnBadDate == "fail" {
			return nil, fmt.Errorf("coerce: line %d: %s", r.Line(), bad)
		}
		if c.OnDrop != nil {
			c.OnDrop(r.Line(), bad)
		}
	}
	return out, nil
}
