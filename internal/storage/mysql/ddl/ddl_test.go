package ddl

import (
	"strings"
	"testing"

	gddl "layoffs/internal/storage/ddl"
)

func TestMapType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"int", "INT"},
		{"real", "DOUBLE"},
		{"date", "DATE"},
		{"text", "TEXT"},
	}
	for _, tc := range tests {
		if got := MapType(tc.in); got != tc.want {
			t.Errorf("MapType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildCreateTableSQLBacktickQuoting(t *testing.T) {
	def := gddl.TableDef{
		FQN: "layoffs_clean",
		Columns: []gddl.ColumnDef{
			{Name: "company", SQLType: "TEXT", Nullable: true},
		},
	}
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.Contains(sql, "`layoffs_clean`") || !strings.Contains(sql, "`company` TEXT") {
		t.Errorf("sql = %q", sql)
	}
}
