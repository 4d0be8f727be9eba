// Package probe samples the first N bytes of a CSV export and infers a
// cleaning pipeline from it: header names, normalized column identifiers,
// and per-column types.
//
// It prefers HTTP Range requests but also defensively limits reads
// client-side, so it works even when Range is ignored. Local files are
// sampled the same way through a file:// URL or an explicit path.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options control the sampling and output behavior.
type Options struct {
	// URL to fetch. Supports http://, https://, and file:// schemes; a bare
	// path is treated as a local file.
	URL string
	// MaxBytes to sample from the start of the file. Defaults to 20000.
	MaxBytes int
	// Delimiter (single rune). If zero, ',' is used.
	Delimiter rune
	// Name used for table and file names (normalized later).
	Name string
	// OutputJSON toggles pipeline-config output; otherwise a CSV summary
	// of header,normalized,type lines is returned.
	OutputJSON bool
	// SaveSample, when true, writes the sampled bytes to [name].csv.
	SaveSample bool
}

// Result carries the rendered output plus the headers for callers that want
// to post-process them.
type Result struct {
	// Rendered textual output (CSV summary lines or JSON config).
	Body []byte
	// Original header row (not normalized).
	Headers []string
	// Normalized header names (aligned with Headers).
	Normalized []string
	// Inferred type per header (aligned with Headers).
	Types []string
}

// peekFn is a small overridable seam used to fetch the first N bytes. In
// production it reads local files directly and uses an HTTP Range request
// for remote URLs; tests can replace it to avoid real I/O.
var peekFn = func(ctx context.Context, url string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("peek: n must be > 0")
	}
	if strings.HasPrefix(url, "file://") {
		return readFirstBytes(strings.TrimPrefix(url, "file://"), n)
	}
	if !strings.Contains(url, "://") {
		return readFirstBytes(url, n)
	}
	return fetchFirstBytes(ctx, url, n)
}

// readFirstBytes reads up to n bytes from a local file.
func readFirstBytes(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lr := &io.LimitedReader{R: f, N: int64(n)}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fetchFirstBytes retrieves up to n bytes from url using HTTP GET. It sets a
// "Range: bytes=0-(n-1)" header, but also applies a client-side read limit so
// it succeeds even when the server ignores Range and returns 200 OK.
//
// Returned slice length is <= n.
func fetchFirstBytes(ctx context.Context, url string, n int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Regardless of 206 or 200, only read up to n bytes.
	lr := &io.LimitedReader{R: resp.Body, N: int64(n)}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Probe runs the sample+infer pipeline and produces the chosen output.
//
// It mirrors the CLI flow:
//   - peek first N bytes, cut to the last newline boundary
//   - readCSVSample: headers+rows (best-effort, skip misaligned rows)
//   - inferTypes: per-column types
//   - render either a summary table or a starter pipeline config
func Probe(ctx context.Context, opt Options) (Result, error) {
	res := Result{}

	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 20000
	}

	data, err := peekFn(ctx, opt.URL, opt.MaxBytes)
	if err != nil {
		return res, err
	}
	// Cut to last newline boundary to avoid a half-line record at the end.
	if i := bytes.LastIndexByte(data, '\n'); i > 0 {
		data = data[:i+1]
	}

	if opt.SaveSample {
		fname := normalizeFieldName(opt.Name) + ".csv"
		if err := os.WriteFile(fname, data, 0o644); err != nil {
			return Result{}, err
		}
	}

	headers, rows, err := readCSVSample(data, delim)
	if err != nil {
		return res, err
	}
	res.Headers = headers
	res.Types = inferTypes(headers, rows)

	res.Normalized = make([]string, len(headers))
	for i, h := range headers {
		res.Normalized[i] = normalizeFieldName(h)
	}

	if opt.OutputJSON {
		body, err := renderPipelineJSON(opt, headers, rows, res.Normalized, res.Types)
		if err != nil {
			return res, err
		}
		res.Body = body
		return res, nil
	}

	// CSV-like text (header,normalized,type per line).
	var buf bytes.Buffer
	for i, h := range headers {
		fmt.Fprintf(&buf, "%s,%s,%s\n", h, res.Normalized[i], res.Types[i])
	}
	res.Body = buf.Bytes()
	return res, nil
}

// readCSVSample parses CSV data using delim and returns headers and up to a
// capped number of data rows. It is tolerant of trimmed samples and
// malformed lines: parse errors, empty lines, and rows whose field count
// differs from the header are skipped so type inference stays accurate.
func readCSVSample(data []byte, delim rune) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	// Read header: skip malformed/empty lines until a usable one or EOF.
	var headers []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return []string{}, [][]string{}, nil
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		headers = stripHeaderBOM(rec)
		break
	}

	const maxRows = 10000
	rows := make([][]string, 0, 64)
	want := len(headers)

	for len(rows) < maxRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		if len(rec) != want {
			continue
		}
		rows = append(rows, rec)
	}

	return headers, rows, nil
}

// stripHeaderBOM removes a UTF-8 BOM from the first header field if present.
func stripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	return headers
}

// inferTypes returns one inferred type per header based on the sampled rows.
func inferTypes(headers []string, rows [][]string) []string {
	n := len(headers)
	cols := make([][]string, n)
	for _, row := range rows {
		for i := 0; i < n && i < len(row); i++ {
			cols[i] = append(cols[i], row[i])
		}
	}
	types := make([]string, n)
	for i := 0; i < n; i++ {
		types[i] = inferTypeForColumn(cols[i])
	}
	return types
}

// inferTypeForColumn guesses a type among: int, real, date, text.
// Heuristic: require all non-empty values to satisfy the narrower type.
// Literal "NULL" placeholders count as empty, matching how the cleaning
// chain treats them.
func inferTypeForColumn(values []string) string {
	nonEmpty := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "null") {
			continue
		}
		nonEmpty = append(nonEmpty, v)
	}
	if len(nonEmpty) == 0 {
		return "text"
	}
	if allMatch(nonEmpty, isInt) {
		return "int"
	}
	if allMatch(nonEmpty, isFloat) {
		return "real"
	}
	if allMatch(nonEmpty, isDate) {
		return "date"
	}
	return "text"
}

// allMatch reports whether every value satisfies fn.
func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

// isInt requires a signed base-10 integer that fits in int64.
func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation floats. Ints already
// matched earlier, so this only widens.
func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// dateLayouts are the date formats the sampler recognizes. US-style
// month-first layouts come first because the layoffs exports write dates
// that way; time.Parse with non-padded layouts also accepts padded values.
var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"2006/01/02",
	"01.02.2006",
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// detectDateLayout picks the layout that parses the most samples in a
// column. Ties keep the earlier layout, which biases toward month-first.
func detectDateLayout(samples []string) string {
	bestIdx := -1
	bestScore := 0
	for i, layout := range dateLayouts {
		score := 0
		for _, s := range samples {
			if _, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				score++
			}
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return ""
	}
	return dateLayouts[bestIdx]
}

// normalizeFieldName converts arbitrary header text into a lowercase ASCII
// identifier suitable for SQL schemas:
//  1. lowercase
//  2. strip accents (NFD, remove Mn, NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fallback to "col" if empty
func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	// Stay under PostgreSQL's 63-byte identifier limit.
	if len(name) > 63 {
		name = name[:10] + name[len(name)-53:]
	}
	return name
}

// DecodeDelimiter converts a user-supplied string into a single rune
// delimiter, defaulting to ','.
func DecodeDelimiter(s string) rune {
	if s == "" {
		return ','
	}
	r := []rune(s)[0]
	if r == unicode.ReplacementChar {
		return ','
	}
	return r
}
