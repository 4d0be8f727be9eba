// Package transformer defines the cleaning chain executed over parsed
// records. Each step is a Transformer; the pipeline config lists steps by
// kind and the builder in this package instantiates them.
//
// The chain is a pure function over its input: steps return a new or
// filtered slice rather than mutating shared state, so re-running a step
// over its own output is safe (deduplication in particular is idempotent).
package transformer

import (
	"fmt"

	"layoffs/internal/config"
	"layoffs/internal/transformer/builtin"
	"layoffs/pkg/records"
)

// Transformer is one cleaning step.
type Transformer interface {
	Apply(in []records.Record) ([]records.Record, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every step in order, feeding each step the previous step's
// output. It stops at the first step error.
func (c Chain) Apply(in []records.Record) ([]records.Record, error) {
	out := in
	var err error
	for _, t := range c {
		out, err = t.Apply(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DropFunc receives row-level drops from fail-soft steps: the step kind,
// the source line (0 when unknown), and a short reason.
type DropFunc func(stage string, line int, reason string)

// FromPipeline builds the cleaning chain from the pipeline's transform
// list. onDrop may be nil; steps that drop rows then do so silently.
func FromPipeline(ts []config.Transform, onDrop DropFunc) (Chain, error) {
	drop := func(stage string) func(line int, reason string) {
		if onDrop == nil {
			return nil
		}
		return func(line int, reason string) { onDrop(stage, line, reason) }
	}

	chain := make(Chain, 0, len(ts))
	for i, t := range ts {
		switch t.Kind {
		case "dedup":
			chain = append(chain, builtin.DeDup{
				IgnoreFields: append([]string{records.LineField}, t.Options.StringSlice("ignore_fields")...),
				OnDrop:       drop("dedup"),
			})
		case "normalize":
			chain = append(chain, builtin.Normalize{
				Fields: t.Options.StringSlice("fields"),
			})
		case "collapse":
			chain = append(chain, builtin.Collapse{
				Field:  t.Options.String("field", ""),
				Prefix: t.Options.String("prefix", ""),
				To:     t.Options.String("to", ""),
			})
		case "strip_suffix":
			chain = append(chain, builtin.StripSuffix{
				Field:      t.Options.String("field", ""),
				Suffix:     t.Options.String("suffix", ""),
				WhenPrefix: t.Options.String("when_prefix", ""),
			})
		case "coerce":
			chain = append(chain, builtin.Coerce{
				Types:      t.Options.StringMap("types"),
				DateLayout: t.Options.String("date_layout", "1/2/2006"),
				OnBadDate:  t.Options.String("on_bad_date", "drop"),
				OnDrop:     drop("coerce"),
			})
		case "blank_to_null":
			chain = append(chain, builtin.BlankToNull{
				Fields: t.Options.StringSlice("fields"),
			})
		case "backfill":
			chain = append(chain, builtin.Backfill{
				Field: t.Options.String("field", ""),
				Key:   t.Options.String("key", ""),
			})
		case "require_any":
			chain = append(chain, builtin.RequireAny{
				Fields: t.Options.StringSlice("fields"),
				OnDrop: drop("require_any"),
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, t.Kind)
		}
	}
	return chain, nil
}
