// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"context"
	"fmt"
	"strings"

	"layoffs/internal/config"
	"layoffs/internal/storage"
	gddl "layoffs/internal/storage/ddl"
)

// MapType maps a logical type ("int", "real", "date", "text") into a
// Postgres column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer":
		return "integer"
	case "bigint":
		return "bigint"
	case "real", "float", "double":
		return "double precision"
	case "date":
		return "date"
	case "datetime", "timestamp":
		return "timestamp"
	default:
		return "text"
	}
}

// FromPipeline derives a Postgres-oriented TableDef from a pipeline spec.
func FromPipeline(p config.Pipeline) (gddl.TableDef, error) {
	return gddl.FromPipeline(p, MapType)
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with
// double-quoted identifiers; schema-qualified FQNs are quoted per segment.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("postgres ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("postgres ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("postgres ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("postgres ddl: column %s missing SQLType", name)
		}
		def := quoteIdent(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
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
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}
