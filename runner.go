package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PairError records the failure of a single input pair.
type PairError struct {
	Pair InputPair
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("A=%d, B=%d: %v", e.Pair.A, e.Pair.B, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// Runner produces the report bundles of a set of input pairs.
type Runner struct {
	reporter    *Reporter
	pairs       []InputPair
	concurrency int
	logger      *zap.Logger
}

func NewRunner(cfg *Config, backend Backend, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		reporter:    NewReporter(cfg, backend, logger),
		pairs:       Combinations,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// Run reports every pair concurrently. A failing pair does not cancel the
// others; the returned results hold the successful pairs in pair order and
// the error aggregates one *PairError per failed pair.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]*Result, len(r.pairs))
	var (
		mu   sync.Mutex
		errs error
	)

	var g errgroup.Group
	g.SetLimit(max(r.concurrency, 1))
	for i, p := range r.pairs {
		g.Go(func() error {
			res, err := r.reporter.Report(ctx, p)
			if err != nil {
				r.logger.Error("pair failed", zap.Int("a", p.A), zap.Int("b", p.B), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, &PairError{Pair: p, Err: err})
				mu.Unlock()
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out, errs
}
