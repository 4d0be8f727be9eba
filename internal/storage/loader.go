package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"layoffs/pkg/records"
)

// DefaultBatchSize is used when the pipeline does not set one. The cleaned
// layoffs dataset is a few thousand rows, so most runs are a single batch.
const DefaultBatchSize = 1000

// LoadRecords writes recs into repo in batches, aligning values to the
// columns order. Missing fields insert as NULL. It returns the total number
// of rows the backend reported inserted.
//
// Progress is logged per flush with running totals and instantaneous
// rows/sec. Cancellation returns (total, ctx.Err()).
func LoadRecords(
	ctx context.Context,
	repo Repository,
	columns []string,
	recs []records.Record,
	batchSize int,
) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("loader: columns must not be empty")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := repo.CopyFrom(ctx, columns, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			log.Printf("loader: insert failed after=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			batches, rps, n, total, now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total
		return nil
	}

	for _, rec := range recs {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
