package ddl

import (
	"reflect"
	"testing"

	"layoffs/internal/config"
)

func specWithCoerce() config.Pipeline {
	var p config.Pipeline
	p.Storage.DB.Table = "layoffs_clean"
	p.Storage.DB.Columns = []string{"company", "total_laid_off", "percentage_laid_off", "event_date"}
	p.Transform = []config.Transform{
		{Kind: "coerce", Options: config.Options{"types": map[string]any{
			"total_laid_off":      "int",
			"percentage_laid_off": "real",
			"event_date":          "date",
		}}},
	}
	return p
}

func identity(kind string) string {
	if kind == "" {
		return "text"
	}
	return kind
}

func TestFromPipelineTypesFromCoerceHints(t *testing.T) {
	def, err := FromPipeline(specWithCoerce(), identity)
	if err != nil {
		t.Fatalf("FromPipeline: %v", err)
	}
	if def.FQN != "layoffs_clean" {
		t.Errorf("FQN = %q", def.FQN)
	}

	want := []ColumnDef{
		{Name: "company", SQLType: "text", Nullable: true},
		{Name: "total_laid_off", SQLType: "int", Nullable: true},
		{Name: "percentage_laid_off", SQLType: "real", Nullable: true},
		{Name: "event_date", SQLType: "date", Nullable: true},
	}
	if !reflect.DeepEqual(def.Columns, want) {
		t.Fatalf("columns = %#v, want %#v", def.Columns, want)
	}
}

func TestFromPipelineValidation(t *testing.T) {
	p := specWithCoerce()
	p.Storage.DB.Table = ""
	if _, err := FromPipeline(p, identity); err == nil {
		t.Error("want error for missing table")
	}

	p = specWithCoerce()
	p.Storage.DB.Columns = nil
	if _, err := FromPipeline(p, identity); err == nil {
		t.Error("want error for missing columns")
	}
}
