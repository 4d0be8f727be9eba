// Package ddl holds the backend-neutral table definition model and the
// shared inference from a pipeline spec. Backend packages map logical types
// to their own column types and render the CREATE TABLE statement.
package ddl

import (
	"fmt"

	"layoffs/internal/config"
)

// ColumnDef describes one column of a destination table.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef describes a destination table.
type TableDef struct {
	// FQN is the table name, optionally schema-qualified ("public.layoffs").
	FQN     string
	Columns []ColumnDef
}

// FromPipeline derives a TableDef from a pipeline spec.
//
// Rules:
//   - Table name comes from p.Storage.DB.Table.
//   - Columns come from p.Storage.DB.Columns, in order.
//   - Logical types come from the coerce transforms' "types" hints; columns
//     without a hint default to text. mapType converts a logical type
//     ("int", "real", "date", "text") into the backend's column type.
//   - Every column is nullable: the cleaning chain, not the schema, is what
//     enforces this dataset's invariants.
func FromPipeline(p config.Pipeline, mapType func(string) string) (TableDef, error) {
	table := p.Storage.DB.Table
	cols := p.Storage.DB.Columns
	if table == "" {
		return TableDef{}, fmt.Errorf("ddl: missing table")
	}
	if len(cols) == 0 {
		return TableDef{}, fmt.Errorf("ddl: missing columns")
	}

	types := map[string]string{}
	for _, t := range p.Transform {
		if t.Kind != "coerce" {
			continue
		}
		for k, v := range t.Options.StringMap("types") {
			types[k] = v
		}
	}

	defs := make([]ColumnDef, 0, len(cols))
	for _, name := range cols {
		defs = append(defs, ColumnDef{
			Name:     name,
			SQLType:  mapType(types[name]),
			Nullable: true,
		})
	}

	return TableDef{FQN: table, Columns: defs}, nil
}
