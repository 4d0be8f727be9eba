// This file wires the MySQL backend into the storage factory.
package mysql

import (
	"context"
	"fmt"

	"layoffs/internal/config"
	"layoffs/internal/storage"
	myddl "layoffs/internal/storage/mysql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mysql",
		func(ctx context.Context, repo storage.Repository, spec config.Pipeline) error {
			td, err := myddl.FromPipeline(spec)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			return myddl.EnsureTable(ctx, repo, td)
		})
}
