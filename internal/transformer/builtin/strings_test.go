package builtin

import (
	"testing"

	"layoffs/pkg/records"
)

func TestNormalizeTrimsConfiguredFields(t *testing.T) {
	in := []records.Record{mkRow(2, map[string]any{
		"company":  "  Included Health ",
		"location": " SF Bay Area ",
	})}
	n := Normalize{Fields: []string{"company"}}

	got, err := n.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s, _ := got[0].String("company"); s != "Included Health" {
		t.Errorf("company = %q, want trimmed", s)
	}
	if s, _ := got[0].String("location"); s != " SF Bay Area " {
		t.Errorf("location = %q, want untouched (not configured)", s)
	}
}

func TestNormalizeSkipsNonStrings(t *testing.T) {
	in := []records.Record{mkRow(2, map[string]any{"company": 42})}
	n := Normalize{Fields: []string{"company"}}

	got, err := n.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0]["company"] != 42 {
		t.Fatalf("company = %v, want 42", got[0]["company"])
	}
}

func TestCollapseRewritesPrefixVariants(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Crypto", "Crypto"},
		{"Crypto Currency", "Crypto"},
		{"CryptoCurrency", "Crypto"},
		{"Fintech", "Fintech"},
		{"crypto", "crypto"}, // prefix match is case-sensitive
	}
	c := Collapse{Field: "industry", Prefix: "Crypto", To: "Crypto"}

	for _, tc := range tests {
		in := []records.Record{mkRow(2, map[string]any{"industry": tc.in})}
		got, err := c.Apply(in)
		if err != nil {
			t.Fatalf("Apply(%q): %v", tc.in, err)
		}
		if s, _ := got[0].String("industry"); s != tc.want {
			t.Errorf("industry %q -> %q, want %q", tc.in, s, tc.want)
		}
	}
}

func TestStripSuffixTrailingPeriod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"United States.", "United States"},
		{"United States..", "United States"},
		{"United States", "United States"},
		{"United Kingdom.", "United Kingdom."}, // outside when_prefix
	}
	s := StripSuffix{Field: "country", Suffix: ".", WhenPrefix: "United States"}

	for _, tc := range tests {
		in := []records.Record{mkRow(2, map[string]any{"country": tc.in})}
		got, err := s.Apply(in)
		if err != nil {
			t.Fatalf("Apply(%q): %v", tc.in, err)
		}
		if v, _ := got[0].String("country"); v != tc.want {
			t.Errorf("country %q -> %q, want %q", tc.in, v, tc.want)
		}
	}
}

func TestBlankToNull(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{"", nil},
		{"   ", nil},
		{"NULL", nil},
		{"null", nil},
		{"Travel", "Travel"},
		{nil, nil},
	}
	b := BlankToNull{Fields: []string{"industry"}}

	for _, tc := range tests {
		in := []records.Record{mkRow(2, map[string]any{"industry": tc.in})}
		got, err := b.Apply(in)
		if err != nil {
			t.Fatalf("Apply(%v): %v", tc.in, err)
		}
		if got[0]["industry"] != tc.want {
			t.Errorf("industry %#v -> %#v, want %#v", tc.in, got[0]["industry"], tc.want)
		}
	}
}
