// Package datasource defines the minimal contract for raw data sources.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of one input dataset. Implementations live in
// subpackages (file, httpds).
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
