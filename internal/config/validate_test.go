package config

import (
	"encoding/json"
	"testing"
)

func validPipeline() Pipeline {
	return Pipeline{
		Job:    "layoffs_clean",
		Source: Source{Kind: "file", File: SourceFile{Path: "data/layoffs.csv"}},
		Parser: Parser{Kind: "csv", Options: Options{"has_header": true}},
		Transform: []Transform{
			{Kind: "dedup", Options: Options{}},
			{Kind: "normalize", Options: Options{"fields": []any{"company"}}},
			{Kind: "coerce", Options: Options{"types": map[string]any{"event_date": "date"}}},
		},
		Storage: Storage{
			Kind: "sqlite",
			DB: DBConfig{
				DSN:     "file:layoffs.db",
				Table:   "layoffs_clean",
				Columns: []string{"company", "industry"},
			},
		},
		Report: ReportConfig{Enabled: true, TopN: 5},
	}
}

func errorPaths(issues []Issue) []string {
	var out []string
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			out = append(out, iss.Path)
		}
	}
	return out
}

func TestValidatePipelineCleanConfig(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	if paths := errorPaths(issues); len(paths) != 0 {
		t.Fatalf("unexpected errors: %v", paths)
	}
}

func TestValidatePipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Pipeline)
		wantPath string
	}{
		{"empty job", func(p *Pipeline) { p.Job = " " }, "job"},
		{"file source without path", func(p *Pipeline) { p.Source.File.Path = "" }, "source.file.path"},
		{"http source without url", func(p *Pipeline) {
			p.Source = Source{Kind: "http"}
		}, "source.http.url"},
		{"scrub_from without scrub_to", func(p *Pipeline) {
			p.Parser.Options["scrub_from"] = "\";"
		}, "parser.options.scrub_from"},
		{"normalize without fields", func(p *Pipeline) {
			p.Transform[1].Options = Options{}
		}, "transform[1].options.fields"},
		{"bad on_bad_date", func(p *Pipeline) {
			p.Transform[2].Options["on_bad_date"] = "explode"
		}, "transform[2].options.on_bad_date"},
		{"storage without dsn", func(p *Pipeline) { p.Storage.DB.DSN = "" }, "storage.db.dsn"},
		{"storage without table", func(p *Pipeline) { p.Storage.DB.Table = "" }, "storage.db.table"},
		{"storage without columns", func(p *Pipeline) { p.Storage.DB.Columns = nil }, "storage.db.columns"},
		{"negative top_n", func(p *Pipeline) { p.Report.TopN = -1 }, "report.top_n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPipeline()
			tc.mutate(&p)
			paths := errorPaths(ValidatePipeline(p))
			for _, got := range paths {
				if got == tc.wantPath {
					return
				}
			}
			t.Fatalf("error paths %v do not include %q", paths, tc.wantPath)
		})
	}
}

func TestValidatePipelineNoneStorageSkipsDBChecks(t *testing.T) {
	p := validPipeline()
	p.Storage = Storage{Kind: "none"}
	if paths := errorPaths(ValidatePipeline(p)); len(paths) != 0 {
		t.Fatalf("unexpected errors for report-only run: %v", paths)
	}
}

func TestValidatePipelineWarnsOnUnknownTransform(t *testing.T) {
	p := validPipeline()
	p.Transform = append(p.Transform, Transform{Kind: "mangle"})
	issues := ValidatePipeline(p)

	found := false
	for _, iss := range issues {
		if iss.Severity == SeverityWarning && iss.Path == "transform[3].kind" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no warning for unknown transform kind: %v", issues)
	}
}

func TestOptionsTypedAccess(t *testing.T) {
	raw := []byte(`{
		"has_header": true,
		"comma": ";",
		"batch": 250,
		"header_map": {"date": "event_date", "junk": 3},
		"fields": ["company", "industry"]
	}`)
	var o Options
	if err := json.Unmarshal(raw, &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !o.Bool("has_header", false) {
		t.Error("Bool(has_header) = false")
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune(comma) = %q", got)
	}
	if got := o.Int("batch", 0); got != 250 {
		t.Errorf("Int(batch) = %d", got)
	}
	if got := o.String("missing", "dflt"); got != "dflt" {
		t.Errorf("String(missing) = %q", got)
	}
	hm := o.StringMap("header_map")
	if hm["date"] != "event_date" {
		t.Errorf("StringMap = %v", hm)
	}
	if _, ok := hm["junk"]; ok {
		t.Error("StringMap kept non-string value")
	}
	fields := o.StringSlice("fields")
	if len(fields) != 2 || fields[0] != "company" {
		t.Errorf("StringSlice = %v", fields)
	}
}

func TestOptionsNullDecodesToEmptyMap(t *testing.T) {
	var o Options
	if err := json.Unmarshal([]byte("null"), &o); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if o == nil {
		t.Fatal("Options is nil after decoding null")
	}
}
