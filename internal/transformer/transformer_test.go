package transformer

import (
	"strings"
	"testing"
	"time"

	"layoffs/internal/config"
	"layoffs/pkg/records"
)

func TestFromPipelineUnknownKind(t *testing.T) {
	_, err := FromPipeline([]config.Transform{{Kind: "mangle"}}, nil)
	if err == nil {
		t.Fatal("want error for unknown transform kind")
	}
	if !strings.Contains(err.Error(), "mangle") {
		t.Fatalf("error %q should name the kind", err)
	}
}

// layoffsChain mirrors configs/pipelines/layoffs.json.
func layoffsChain(t *testing.T, onDrop DropFunc) Chain {
	t.Helper()
	ts := []config.Transform{
		{Kind: "dedup", Options: config.Options{}},
		{Kind: "normalize", Options: config.Options{"fields": []any{"company"}}},
		{Kind: "collapse", Options: config.Options{"field": "industry", "prefix": "Crypto", "to": "Crypto"}},
		{Kind: "strip_suffix", Options: config.Options{"field": "country", "suffix": ".", "when_prefix": "United States"}},
		{Kind: "coerce", Options: config.Options{"types": map[string]any{
			"total_laid_off":      "int",
			"percentage_laid_off": "real",
			"event_date":          "date",
		}}},
		{Kind: "blank_to_null", Options: config.Options{"fields": []any{"industry"}}},
		{Kind: "backfill", Options: config.Options{"field": "industry", "key": "company"}},
		{Kind: "require_any", Options: config.Options{"fields": []any{"total_laid_off", "percentage_laid_off"}}},
	}
	chain, err := FromPipeline(ts, onDrop)
	if err != nil {
		t.Fatalf("FromPipeline: %v", err)
	}
	return chain
}

func row(line int, company, industry, total, pct, date, country string) records.Record {
	return records.Record{
		records.LineField:     line,
		"company":             company,
		"industry":            industry,
		"total_laid_off":      total,
		"percentage_laid_off": pct,
		"event_date":          date,
		"country":             country,
	}
}

func TestChainEndToEnd(t *testing.T) {
	in := []records.Record{
		row(2, "Casper", "Retail", "78", "", "9/14/2021", "United States."),
		row(3, "Casper", "Retail", "78", "", "9/14/2021", "United States."), // exact duplicate
		row(4, " Airbnb", "", "1900", "0.25", "5/5/2020", "United States"),
		row(5, "Airbnb", "Travel", "30", "", "3/3/2023", "United States"),
		row(6, "FTX", "CryptoCurrency", "", "", "11/11/2022", "Bahamas"), // no measures
	}

	type dropEvent struct {
		stage string
		line  int
	}
	var drops []dropEvent
	chain := layoffsChain(t, func(stage string, line int, _ string) {
		drops = append(drops, dropEvent{stage, line})
	})

	got, err := chain.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %#v", len(got), got)
	}

	// Duplicate Casper row went in dedup, measure-free FTX row in require_any.
	wantDrops := []dropEvent{{"dedup", 3}, {"require_any", 6}}
	if len(drops) != len(wantDrops) {
		t.Fatalf("drops = %v, want %v", drops, wantDrops)
	}
	for i := range drops {
		if drops[i] != wantDrops[i] {
			t.Fatalf("drops[%d] = %v, want %v", i, drops[i], wantDrops[i])
		}
	}

	// Casper survivor: country period stripped, total coerced.
	casper := got[0]
	if c, _ := casper.String("country"); c != "United States" {
		t.Errorf("country = %q, want United States", c)
	}
	if n, _ := casper.Int("total_laid_off"); n != 78 {
		t.Errorf("total_laid_off = %v, want 78", casper["total_laid_off"])
	}

	// Airbnb row 4: company trimmed, blank industry backfilled from row 5.
	airbnb := got[1]
	if c, _ := airbnb.String("company"); c != "Airbnb" {
		t.Errorf("company = %q, want trimmed Airbnb", c)
	}
	if ind, _ := airbnb.String("industry"); ind != "Travel" {
		t.Errorf("industry = %v, want backfilled Travel", airbnb["industry"])
	}
	wantDate := time.Date(2020, 5, 5, 0, 0, 0, 0, time.UTC)
	if d, _ := airbnb.Time("event_date"); !d.Equal(wantDate) {
		t.Errorf("event_date = %v, want %v", airbnb["event_date"], wantDate)
	}
}

func TestChainStopsOnCoerceFailure(t *testing.T) {
	ts := []config.Transform{
		{Kind: "coerce", Options: config.Options{
			"types":       map[string]any{"event_date": "date"},
			"on_bad_date": "fail",
		}},
	}
	chain, err := FromPipeline(ts, nil)
	if err != nil {
		t.Fatalf("FromPipeline: %v", err)
	}

	_, err = chain.Apply([]records.Record{
		{records.LineField: 7, "event_date": "garbage"},
	})
	if err == nil {
		t.Fatal("want error under on_bad_date=fail")
	}
}
