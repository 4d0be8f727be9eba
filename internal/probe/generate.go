package probe

import (
	"encoding/json"
	"strings"

	"layoffs/internal/config"
)

// renderPipelineJSON builds a starter config.Pipeline from the sampled
// headers and inferred types and pretty-prints it. The generated pipeline is
// intentionally conservative: it wires the parser with a header map, a dedup
// step, and a coerce step with the detected date layout. Domain-specific
// steps (backfill, collapse, require_any) need knowledge of the data that a
// byte sample cannot supply, so they are left for the operator to add.
func renderPipelineJSON(opt Options, headers []string, rows [][]string, normalized, types []string) ([]byte, error) {
	p := buildPipeline(opt, headers, rows, normalized, types)
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func buildPipeline(opt Options, headers []string, rows [][]string, normalized, types []string) config.Pipeline {
	name := normalizeFieldName(opt.Name)

	headerMap := make(map[string]any, len(headers))
	for i, h := range headers {
		headerMap[h] = normalized[i]
	}

	coerceTypes := make(map[string]any)
	for i, t := range types {
		if t != "text" {
			coerceTypes[normalized[i]] = t
		}
	}

	// Detect the date layout from the first date column's samples.
	layout := ""
	for i, t := range types {
		if t != "date" {
			continue
		}
		samples := make([]string, 0, len(rows))
		for _, row := range rows {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				samples = append(samples, row[i])
			}
		}
		layout = detectDateLayout(samples)
		break
	}

	var p config.Pipeline
	p.Job = name + "_clean"

	if strings.HasPrefix(opt.URL, "http://") || strings.HasPrefix(opt.URL, "https://") {
		p.Source.Kind = "http"
		p.Source.HTTP.URL = opt.URL
	} else {
		p.Source.Kind = "file"
		p.Source.File.Path = strings.TrimPrefix(opt.URL, "file://")
	}

	p.Parser.Kind = "csv"
	p.Parser.Options = config.Options{
		"has_header": true,
		"comma":      string(opt.Delimiter),
		"trim_space": true,
		"header_map": headerMap,
	}
	if opt.Delimiter == 0 {
		p.Parser.Options["comma"] = ","
	}

	coerceOpts := config.Options{"types": coerceTypes}
	if layout != "" {
		coerceOpts["date_layout"] = layout
	}
	p.Transform = []config.Transform{
		{Kind: "dedup", Options: config.Options{}},
		{Kind: "coerce", Options: coerceOpts},
	}

	p.Storage.Kind = "sqlite"
	p.Storage.DB = config.DBConfig{
		DSN:             "file:" + name + ".db?cache=shared",
		Table:           name,
		Columns:         normalized,
		AutoCreateTable: true,
	}

	p.Report.Enabled = true
	p.Report.TopN = 5

	return p
}
