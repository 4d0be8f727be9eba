package builtin

import (
	"testing"

	"layoffs/pkg/records"
)

func TestBackfillFillsFromSameCompany(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": "Airbnb", "industry": nil}),
		mkRow(3, map[string]any{"company": "Airbnb", "industry": "Travel"}),
		mkRow(4, map[string]any{"company": "Bytedance", "industry": "Consumer"}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s, _ := got[0].String("industry"); s != "Travel" {
		t.Fatalf("industry = %v, want Travel", got[0]["industry"])
	}
}

func TestBackfillEmptyStringIsAHole(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": "Airbnb", "industry": ""}),
		mkRow(3, map[string]any{"company": "Airbnb", "industry": "Travel"}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s, _ := got[0].String("industry"); s != "Travel" {
		t.Fatalf("industry = %v, want Travel", got[0]["industry"])
	}
}

func TestBackfillNoDonorLeavesHole(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": "Solo", "industry": nil}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0]["industry"] != nil {
		t.Fatalf("industry = %v, want nil", got[0]["industry"])
	}
}

func TestBackfillSmallestDonorWins(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": "X", "industry": nil}),
		mkRow(3, map[string]any{"company": "X", "industry": "Retail"}),
		mkRow(4, map[string]any{"company": "X", "industry": "Consumer"}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s, _ := got[0].String("industry"); s != "Consumer" {
		t.Fatalf("industry = %v, want Consumer (lexicographically smallest donor)", got[0]["industry"])
	}
}

func TestBackfillMissingKeyNeverFills(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": nil, "industry": nil}),
		mkRow(3, map[string]any{"company": "", "industry": "Travel"}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0]["industry"] != nil {
		t.Fatalf("keyless record was filled: %v", got[0]["industry"])
	}
}

func TestBackfillLeavesTypedValuesAlone(t *testing.T) {
	in := []records.Record{
		mkRow(2, map[string]any{"company": "X", "industry": 7}),
		mkRow(3, map[string]any{"company": "X", "industry": "Retail"}),
	}
	b := Backfill{Field: "industry", Key: "company"}

	got, err := b.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0]["industry"] != 7 {
		t.Fatalf("typed value overwritten: %v", got[0]["industry"])
	}
}
