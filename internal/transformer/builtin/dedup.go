// Package builtin contains the reusable cleaning steps.
//
// DeDup collapses records that are identical across every descriptive
// field. The layoffs feed has no stable row identity, so "duplicate" means
// full-row equality; rows that differ in any single field are distinct even
// when they plainly describe the same real-world event. That fragility is
// part of the contract, not something to paper over here.
//
// Winner selection is keep-first in load order, which the parser makes
// stable via source line numbers. Running DeDup over its own output yields
// the same output.
package builtin

import (
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"layoffs/pkg/records"
)

// DeDup removes later occurrences of full-row duplicates.
type DeDup struct {
	// IgnoreFields lists record keys excluded from the equality tuple
	// (bookkeeping fields such as the parser's line marker).
	IgnoreFields []string

	// OnDrop, when non-nil, receives each dropped duplicate's source line.
	OnDrop func(line int, reason string)
}

// Apply returns the subset of in that is unique under full-row equality,
// keeping the earliest occurrence of each group and preserving input order.
func (d DeDup) Apply(in []records.Record) ([]records.Record, error) {
	if len(in) == 0 {
		return in, nil
	}

	ignore := make(map[string]struct{}, len(d.IgnoreFields))
	for _, f := range d.IgnoreFields {
		ignore[f] = struct{}{}
	}

	seen := make(map[uint64]struct{}, len(in))
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		key := rowKey(r, ignore)
		if _, dup := seen[key]; dup {
			if d.OnDrop != nil {
				d.OnDrop(r.Line(), "duplicate row")
			}
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// rowKey hashes the record's descriptive fields into a 64-bit key. Field
// names are visited in sorted order so the hash does not depend on map
// iteration; names and values are separated by bytes that cannot occur in
// the data.
func rowKey(r records.Record, ignore map[string]struct{}) uint64 {
	names := make([]string, 0, len(r))
	for k := range r {
		if _, skip := ignore[k]; skip {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	h := xxh3.New()
	for _, k := range names {
		h.WriteString(k)
		h.Write([]byte{0x1f})
		switch v := r[k].(type) {
		case nil:
			h.Write([]byte{0x00})
		case string:
			h.WriteString(v)
		default:
			h.WriteString(fmt.Sprint(v))
		}
		h.Write([]byte{0x1e})
	}
	return h.Sum64()
}
