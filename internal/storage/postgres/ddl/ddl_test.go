package ddl

import (
	"strings"
	"testing"

	gddl "layoffs/internal/storage/ddl"
)

func TestMapType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"int", "integer"},
		{"real", "double precision"},
		{"date", "date"},
		{"anything-else", "text"},
	}
	for _, tc := range tests {
		if got := MapType(tc.in); got != tc.want {
			t.Errorf("MapType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildCreateTableSQLSchemaQualified(t *testing.T) {
	def := gddl.TableDef{
		FQN: "public.layoffs_clean",
		Columns: []gddl.ColumnDef{
			{Name: "event_date", SQLType: "date", Nullable: true},
		},
	}
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.Contains(sql, `"public"."layoffs_clean"`) {
		t.Errorf("sql = %q", sql)
	}
	if !strings.Contains(sql, `"event_date" date`) {
		t.Errorf("sql = %q", sql)
	}
}
