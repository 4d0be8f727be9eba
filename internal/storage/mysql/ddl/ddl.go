// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"context"
	"fmt"
	"strings"

	"layoffs/internal/config"
	"layoffs/internal/storage"
	gddl "layoffs/internal/storage/ddl"
)

// MapType maps a logical type ("int", "real", "date", "text") into a MySQL
// column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "real", "float", "double":
		return "DOUBLE"
	case "date":
		return "DATE"
	case "datetime", "timestamp":
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// FromPipeline derives a MySQL-oriented TableDef from a pipeline spec.
func FromPipeline(p config.Pipeline) (gddl.TableDef, error) {
	return gddl.FromPipeline(p, MapType)
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with
// backtick-quoted identifiers.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mysql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mysql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mysql ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("mysql ddl: column %s missing SQLType", name)
		}
		def := quoteIdent(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteIdent(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

// EnsureTable renders and applies the CREATE TABLE statement via repo.Exec.
func EnsureTable(ctx context.Context, repo storage.Repository, t gddl.TableDef) error {
	stmt, err := BuildCreateTableSQL(t)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
