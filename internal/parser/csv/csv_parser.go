// Package csv implements a streaming CSV parser with optional, targeted
// on-the-fly scrubbing for known bad byte sequences in real-world exports.
// It avoids whole-file buffering and handles large inputs safely.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"layoffs/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	// When false, Columns must be provided for positional mapping.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys (e.g.,
	// "Funds_Raised" -> "funds_raised_millions"). Only applies when
	// HasHeader is true.
	HeaderMap map[string]string

	// Columns is the positional column list used when HasHeader is false.
	Columns []string

	// ScrubFrom / ScrubTo enable a streaming byte replacement applied
	// before the bytes reach encoding/csv. Both must be set together.
	ScrubFrom string
	ScrubTo   string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads src to EOF and returns one records.Record per usable data row,
// in source order. Each record carries its 1-based source line under
// records.LineField; slice order is load order.
//
// Row handling is fail-soft: rows the csv reader cannot parse and rows whose
// field count differs from the header are reported via onErr (if non-nil)
// and skipped. Parse fails outright only on unreadable input or a missing
// header.
//
// The caller retains ownership of src; Parse does not close it.
func (p *Parser) Parse(ctx context.Context, src io.Reader, onErr func(line int, err error)) ([]records.Record, error) {
	if p.opt.ScrubFrom != "" {
		src = newStreamingRewriter(src, []byte(p.opt.ScrubFrom), []byte(p.opt.ScrubTo))
	}

	comma := p.opt.Comma
	if comma == 0 {
		comma = ','
	}

	r := csv.NewReader(src)
	r.Comma = comma
	r.FieldsPerRecord = -1 // enforce width ourselves to soft-skip bad rows
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	// Resolve the canonical column list: from the header (via HeaderMap) or
	// positionally from Options.Columns.
	line := 0
	var cols []string
	if p.opt.HasHeader {
		hdr, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		line++
		hdr = stripBOM(hdr)
		cols = make([]string, len(hdr))
		for i, raw := range hdr {
			name := strings.TrimSpace(raw)
			if mapped, ok := p.opt.HeaderMap[name]; ok && mapped != "" {
				name = mapped
			}
			cols[i] = name
		}
	} else {
		if len(p.opt.Columns) == 0 {
			return nil, fmt.Errorf("csv: has_header=false requires a columns list")
		}
		cols = p.opt.Columns
	}

	var out []records.Record
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		line++
		if err != nil {
			if onErr != nil {
				onErr(line, err)
			}
			continue
		}
		if len(rec) != len(cols) {
			if onErr != nil {
				onErr(line, fmt.Errorf("field count %d != header %d", len(rec), len(cols)))
			}
			continue
		}

		row := make(records.Record, len(cols)+1)
		for i, name := range cols {
			v := rec[i]
			if p.opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			row[name] = v
		}
		row[records.LineField] = line
		out = append(out, row)
	}
}
