package postgrest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency limits how many requests ExecuteAll runs at once.
const DefaultConcurrency = 5

// ExecuteAll executes several independent builder chains concurrently and
// returns their responses in input order. The first failure cancels the
// remaining requests. concurrency values below one fall back to
// DefaultConcurrency.
func ExecuteAll(ctx context.Context, concurrency int, builders ...ExecuteBuilder) ([]*Response, error) {
	if len(builders) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	responses := make([]*Response, len(builders))
	var mu sync.Mutex

	for i, b := range builders {
		g.Go(func() error {
			resp, err := b.Execute(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			responses[i] = resp
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}
