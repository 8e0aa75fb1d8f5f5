package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"slidecast/internal/course"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

type slideFunc func(ctx context.Context, slide course.Slide) error

// forEach applies fn to every slide and returns the per-slide errors in input
// order. With concurrency above one the calls run on an ants pool.
func (p *Pipeline) forEach(ctx context.Context, slides []course.Slide, fn slideFunc) []error {
	errs := make([]error, len(slides))
	workers := min(p.concurrency(), len(slides))
	if workers <= 1 {
		for i, slide := range slides {
			errs[i] = runSlide(ctx, slide, fn)
		}
		return errs
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "worker pool unavailable", "worker_pool_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check workers.concurrency"),
			logging.String(logging.FieldImpact, "slides are processed sequentially"),
		)
		for i, slide := range slides {
			errs[i] = runSlide(ctx, slide, fn)
		}
		return errs
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, slide := range slides {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			errs[i] = runSlide(ctx, slide, fn)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("schedule slide %s: %w", slide.ID, submitErr)
		}
	}
	wg.Wait()
	return errs
}

func runSlide(ctx context.Context, slide course.Slide, fn slideFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(services.WithSlide(ctx, slide.ID.Key()), slide)
}
