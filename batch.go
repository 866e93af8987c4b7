package ratexpr

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of evaluating one expression in a batch.
type Result struct {
	Value Value
	Err   error
}

// EvalAll evaluates each expression in srcs independently and returns their
// results in the same order. At most workers expressions are evaluated at
// once; workers <= 0 means no limit. Expressions not yet started when ctx is
// done get ctx's error.
func EvalAll(ctx context.Context, srcs []string, workers int, opts ...ParseOption) []Result {
	res := make([]Result, len(srcs))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res[i].Err = err
				return nil
			}
			res[i].Value, res[i].Err = EvalString(src, opts...)
			return nil
		})
	}
	// Per-expression errors live in res.
	_ = g.Wait()
	return res
}
