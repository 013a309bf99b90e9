// Package batch runs per-item operations in fixed-size concurrent groups with
// a pause between groups. It is the throughput-control primitive for calling
// rate-limited upstream services.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Op processes one work item.
type Op[T, R any] func(ctx context.Context, item T) (R, error)

// Run partitions items into contiguous groups of batchSize (the last group may
// be smaller) and invokes op on every item of a group concurrently. It waits
// for the whole group to settle before sleeping delay and admitting the next
// group, so at most batchSize operations are in flight at any instant.
//
// An item whose op fails is logged and dropped from the results; a failure
// never aborts the group or the run, and there are no retries. Results are
// concatenated in group order, but within a group they arrive in settlement
// order; callers needing input correspondence must carry an identifier
// through the item into the result.
//
// A cancelled context stops before the next group and returns the results
// settled so far together with the context error.
func Run[T, R any](ctx context.Context, log zerolog.Logger, items []T, op Op[T, R], batchSize int, delay time.Duration) ([]R, error) {
	if batchSize <= 0 {
		batchSize = 1
	}

	results := make([]R, 0, len(items))

	for start := 0; start < len(items); start += batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := min(start+batchSize, len(items))
		group := items[start:end]

		log.Debug().
			Int("group_start", start).
			Int("group_size", len(group)).
			Int("total", len(items)).
			Msg("batch group starting")

		settled := make(chan R, len(group))
		var wg sync.WaitGroup
		wg.Add(len(group))
		for i := range group {
			go func(item T) {
				defer wg.Done()
				r, err := op(ctx, item)
				if err != nil {
					log.Warn().Err(err).Msg("batch item failed, dropping result")
					return
				}
				settled <- r
			}(group[i])
		}
		wg.Wait()
		close(settled)

		// Append only from the coordinating goroutine.
		for r := range settled {
			results = append(results, r)
		}

		if end < len(items) && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return results, ctx.Err()
			}
		}
	}

	return results, nil
}
