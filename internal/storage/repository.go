// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface, a registry/factory keyed by backend kind, and a
// batched record loader.
//
// Concrete backends (sqlite, postgres, mysql) live in subpackages and
// register themselves at init time; importing storage/all enables every
// built-in backend. Callers stay backend-agnostic throughout.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config carries everything a backend needs to open a Repository.
type Config struct {
	// Kind selects the registered backend ("sqlite", "postgres", "mysql",
	// "none").
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name (may be schema-qualified).
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}

// Repository is the minimal storage surface the pipeline needs: bulk insert,
// raw DDL execution, and cleanup.
type Repository interface {
	// CopyFrom inserts rows (aligned to the columns order) and returns the
	// number of rows inserted. Implementations use their most efficient
	// bulk primitive (Postgres COPY, transactional prepared INSERTs).
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs an arbitrary SQL statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connections.
	Close()
}

// Factory opens a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// typically called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// nopRepository discards everything; it backs report-only runs.
type nopRepository struct{}

func (nopRepository) CopyFrom(_ context.Context, _ []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (nopRepository) Exec(context.Context, string) error { return nil }
func (nopRepository) Close()                             {}

func init() {
	Register("none", func(context.Context, Config) (Repository, error) {
		return nopRepository{}, nil
	})
}
