package probe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"layoffs/internal/config"
)

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Company", "company"},
		{"Total Laid Off", "total_laid_off"},
		{"Funds_Raised.Millions", "funds_raised_millions"},
		{"  Percentage-Laid-Off  ", "percentage_laid_off"},
		{"Významová Čárka", "vyznamova_carka"},
		{"%%%", "col"},
		{"", "col"},
	}
	for _, tc := range tests {
		if got := normalizeFieldName(tc.in); got != tc.want {
			t.Errorf("normalizeFieldName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInferTypeForColumn(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"ints", []string{"78", "70", "NULL"}, "int"},
		{"reals", []string{"0.25", "1", ""}, "real"},
		{"dates", []string{"9/14/2021", "3/3/2023"}, "date"},
		{"iso dates", []string{"2021-09-14"}, "date"},
		{"mixed", []string{"78", "Travel"}, "text"},
		{"all empty", []string{"", "NULL"}, "text"},
	}
	for _, tc := range tests {
		if got := inferTypeForColumn(tc.values); got != tc.want {
			t.Errorf("%s: inferTypeForColumn = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDetectDateLayoutPrefersMonthFirst(t *testing.T) {
	// 9/14/2021 only parses month-first; the layout must follow.
	if got := detectDateLayout([]string{"9/14/2021", "12/1/2022"}); got != "1/2/2006" {
		t.Fatalf("layout = %q, want 1/2/2006", got)
	}
	if got := detectDateLayout([]string{"2021-09-14"}); got != "2006-01-02" {
		t.Fatalf("layout = %q, want 2006-01-02", got)
	}
}

func TestReadCSVSampleSkipsMisaligned(t *testing.T) {
	data := []byte("company,total\nCasper,78\nbad,row,here\nOda,70\n")
	headers, rows, err := readCSVSample(data, ',')
	if err != nil {
		t.Fatalf("readCSVSample: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"company", "total"}) {
		t.Fatalf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
}

func TestProbeSummaryOutput(t *testing.T) {
	orig := peekFn
	defer func() { peekFn = orig }()
	peekFn = func(context.Context, string, int) ([]byte, error) {
		return []byte("Company,Total Laid Off,Date\nCasper,78,9/14/2021\nOda,70,9/14/2021\n"), nil
	}

	res, err := Probe(context.Background(), Options{URL: "file://ignored.csv", Name: "layoffs"})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	want := []string{"company", "total_laid_off", "date"}
	if !reflect.DeepEqual(res.Normalized, want) {
		t.Fatalf("normalized = %v, want %v", res.Normalized, want)
	}
	if !reflect.DeepEqual(res.Types, []string{"text", "int", "date"}) {
		t.Fatalf("types = %v", res.Types)
	}
	if !strings.Contains(string(res.Body), "Total Laid Off,total_laid_off,int") {
		t.Fatalf("body = %q", res.Body)
	}
}

func TestProbeJSONOutputIsAValidPipeline(t *testing.T) {
	orig := peekFn
	defer func() { peekFn = orig }()
	peekFn = func(context.Context, string, int) ([]byte, error) {
		return []byte("Company,Total Laid Off,Date\nCasper,78,9/14/2021\n"), nil
	}

	res, err := Probe(context.Background(), Options{
		URL:        "https://example.com/layoffs.csv",
		Name:       "layoffs",
		OutputJSON: true,
	})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	var p config.Pipeline
	if err := json.Unmarshal(res.Body, &p); err != nil {
		t.Fatalf("generated config does not decode: %v", err)
	}
	if p.Source.Kind != "http" || p.Source.HTTP.URL != "https://example.com/layoffs.csv" {
		t.Errorf("source = %+v", p.Source)
	}
	if p.Parser.Kind != "csv" {
		t.Errorf("parser kind = %q", p.Parser.Kind)
	}
	hm := p.Parser.Options.StringMap("header_map")
	if hm["Total Laid Off"] != "total_laid_off" {
		t.Errorf("header_map = %v", hm)
	}

	// The coerce step must carry the inferred types and the detected layout.
	var coerce *config.Transform
	for i := range p.Transform {
		if p.Transform[i].Kind == "coerce" {
			coerce = &p.Transform[i]
		}
	}
	if coerce == nil {
		t.Fatal("generated pipeline has no coerce step")
	}
	types := coerce.Options.StringMap("types")
	if types["total_laid_off"] != "int" || types["date"] != "date" {
		t.Errorf("coerce types = %v", types)
	}
	if lay := coerce.Options.String("date_layout", ""); lay != "1/2/2006" {
		t.Errorf("date_layout = %q", lay)
	}

	if issues := config.ValidatePipeline(p); func() bool {
		for _, iss := range issues {
			if iss.Severity == config.SeverityError {
				return true
			}
		}
		return false
	}() {
		t.Errorf("generated pipeline fails validation: %v", issues)
	}
}

func TestFetchFirstBytesUsesRangeAndLimit(t *testing.T) {
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		// Ignore Range, return more than requested.
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	b, err := fetchFirstBytes(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("fetchFirstBytes: %v", err)
	}
	if len(b) != 10 {
		t.Fatalf("len = %d, want client-side limit 10", len(b))
	}
	if gotRange != "bytes=0-9" {
		t.Fatalf("Range = %q", gotRange)
	}
}

func TestDecodeDelimiter(t *testing.T) {
	if got := DecodeDelimiter(""); got != ',' {
		t.Errorf("empty = %q", got)
	}
	if got := DecodeDelimiter(";"); got != ';' {
		t.Errorf("semicolon = %q", got)
	}
	if got := DecodeDelimiter("\t"); got != '\t' {
		t.Errorf("tab = %q", got)
	}
}
