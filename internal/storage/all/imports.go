// Package all wires every built-in storage backend into the storage
// factory.
//
// It exists purely for side effects: importing it (even blank) runs the init
// functions of each concrete backend, which register their factories and DDL
// bootstrappers with the storage package. A binary that wants only a subset
// of backends can blank-import the individual backend packages instead.
package all

import (
	_ "layoffs/internal/storage/mysql"
	_ "layoffs/internal/storage/postgres"
	_ "layoffs/internal/storage/sqlite"
)
