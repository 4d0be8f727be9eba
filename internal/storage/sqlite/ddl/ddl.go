// Package ddl contains SQLite-specific helpers for generating DDL.
//
// SQLite is dynamically typed, so the mapping prefers canonical affinities:
// integer-ish types -> INTEGER, reals -> REAL, dates -> TEXT (ISO-8601),
// everything else -> TEXT.
package ddl

import (
	"context"
	"fmt"
	"strings"

	"layoffs/internal/config"
	"layoffs/internal/storage"
	gddl "layoffs/internal/storage/ddl"
)

// MapType maps a logical type ("int", "real", "date", "text") into a SQLite
// column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "real", "float", "double":
		return "REAL"
	case "date", "datetime", "timestamp":
		return "TEXT" // ISO-8601 strings sort chronologically
	default:
		return "TEXT"
	}
}

// FromPipeline derives a SQLite-oriented TableDef from a pipeline spec.
func FromPipeline(p config.Pipeline) (gddl.TableDef, error) {
	return gddl.FromPipeline(p, MapType)
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for the
// given table definition, with double-quoted identifiers. Dotted FQNs such
// as "main.layoffs" have each segment individually quoted.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("sqlite ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("sqlite ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("sqlite ddl: column %s missing SQLType", name)
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
