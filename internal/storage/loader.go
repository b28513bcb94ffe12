package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn inserts one batch of rows aligned to columns and returns the number
// of rows the backend reports as written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// BatchStats summarizes a LoadBatches run.
type BatchStats struct {
	Batches int64
	Rows    int64
	Elapsed time.Duration
}

// LoadBatches drains rows from in, groups them into batches of batchSize and
// hands each non-empty batch to copyFn. It stops at the first copy error or
// when ctx is done; Rows always reflects what copyFn reported so far.
//
// A progress line with the instantaneous rows/sec is logged per batch.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (BatchStats, error) {
	var st BatchStats
	if batchSize <= 0 {
		return st, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return st, fmt.Errorf("copyFn must not be nil")
	}

	start := time.Now()
	last := start
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		st.Rows += n
		size := len(batch)
		// fresh slice so copyFn may keep the one it was given
		batch = make([][]any, 0, batchSize)
		if err != nil {
			log.Printf("loader: copy failed batch=%d size=%d total=%d err=%v", st.Batches+1, size, st.Rows, err)
			return err
		}
		st.Batches++
		now := time.Now()
		rps := 0.0
		if d := now.Sub(last); d > 0 {
			rps = float64(n) / d.Seconds()
		}
		log.Printf("loader: batch #%d rows=%d total=%d rps=%.0f elapsed=%s",
			st.Batches, n, st.Rows, rps, now.Sub(start).Truncate(time.Millisecond))
		last = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			st.Elapsed = time.Since(start)
			return st, ctx.Err()
		case row, ok := <-in:
			if !ok {
				err := flush()
				st.Elapsed = time.Since(start)
				return st, err
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					st.Elapsed = time.Since(start)
					return st, err
				}
			}
		}
	}
}
