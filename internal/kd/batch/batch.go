// Package batch fans independent read-only queries out across goroutines.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run calls fn for every position in [0, n) across GOMAXPROCS workers, each
// owning a contiguous range. The first error or a cancelled ctx stops all
// workers.
func Run(ctx context.Context, n int, fn func(i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
