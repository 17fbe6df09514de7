package trackctl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/trackboard/internal/app"
	"github.com/okian/trackboard/internal/domain/schema"
	"github.com/okian/trackboard/pkg/logger"
)

// SeedOptions configures Seed.
type SeedOptions struct {
	Sport    string // used when the table does not exist yet
	Athletes int
	Workers  int
}

type editJob struct {
	row, column int
	value       string
}

// Seed fills the table with generated athletes. The table is created or
// grown by duplicating its last row until it holds opts.Athletes rows, then
// every cell is edited by a pool of workers.
func Seed(ctx context.Context, c *Client, opts SeedOptions) (SeedStats, error) {
	start := time.Now()
	log := logger.Named("trackctl")
	if opts.Athletes < 1 {
		return SeedStats{}, fmt.Errorf("%w: athletes must be positive", ErrUsage)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	view, err := c.Session(ctx)
	if err != nil {
		return SeedStats{}, err
	}
	if !view.Initialized {
		if view, err = c.Setup(ctx, opts.Sport, fmt.Sprint(opts.Athletes)); err != nil {
			return SeedStats{}, err
		}
	}
	for n := len(view.Rows); n < opts.Athletes; n++ {
		res, err := c.Apply(ctx, string(service.ActionDuplicate), n-1, 0, "")
		if err != nil {
			return SeedStats{}, err
		}
		view = res.View
	}
	log.Info(ctx, "seeding table",
		logger.String("caption", view.Caption),
		logger.Int("rows", opts.Athletes),
		logger.Int("workers", opts.Workers),
	)

	var (
		submitted int64
		failed    int64
		coerced   int64
		errMu     sync.Mutex
		firstErr  error
	)
	jobs := make(chan editJob, opts.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := c.Apply(ctx, string(service.ActionEdit), job.row, job.column, job.value)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					continue
				}
				if res.Coerced {
					atomic.AddInt64(&coerced, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for r, row := range generateAthletes(opts.Athletes) {
			for col := 0; col < schema.Count; col++ {
				select {
				case <-ctx.Done():
					return
				case jobs <- editJob{row: r, column: col, value: row.Value(col)}:
				}
			}
		}
	}()
	wg.Wait()

	stats := SeedStats{
		Rows:      opts.Athletes,
		Submitted: int(atomic.LoadInt64(&submitted)),
		Failed:    int(atomic.LoadInt64(&failed)),
		Coerced:   int(atomic.LoadInt64(&coerced)),
		Duration:  time.Since(start),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stats, ctxErr
	}
	if firstErr != nil {
		return stats, errors.Join(fmt.Errorf("%d of %d edits failed", stats.Failed, stats.Submitted), firstErr)
	}
	return stats, nil
}
