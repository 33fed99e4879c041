// Package runner builds every requested language concurrently on a bounded
// worker pool and collects their outcomes.
package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
	"github.com/AndreyAkinshin/tsdl/internal/parser"
)

const (
	// minParallelWorkers keeps the pool usable when ncpus is misconfigured.
	minParallelWorkers = 1

	// maxParallelWorkers caps the pool. Builds are dominated by git and the C
	// compiler, so more workers than this only thrash the machine.
	maxParallelWorkers = 256
)

// Builder builds one language. *parser.Builder implements it.
type Builder interface {
	Build(ctx context.Context, lang parser.Language) *tsdlerrors.LanguageError
}

// Runner dispatches one pipeline per language.
type Runner struct {
	builder Builder
	workers int
}

// New creates a runner executing at most workers languages at once.
func New(builder Builder, workers int) *Runner {
	return &Runner{builder: builder, workers: clampWorkers(workers)}
}

// Workers returns the size of the worker pool.
func (r *Runner) Workers() int { return r.workers }

// Run builds every language. It never stops at the first failure: all
// languages run to completion and every failure ends up in the returned
// *errors.AggregateError.
func (r *Runner) Run(ctx context.Context, langs []parser.Language) error {
	logger := logging.FromContext(ctx)
	logger.Info("building languages", "count", len(langs), "workers", r.workers)

	results := make(chan *tsdlerrors.LanguageError, len(langs))

	var g errgroup.Group
	g.SetLimit(r.workers)
	go func() {
		for _, lang := range langs {
			g.Go(func() error {
				results <- r.builder.Build(ctx, lang)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var failed []*tsdlerrors.LanguageError
	for res := range results {
		if res != nil {
			logger.Error("language failed", "language", res.Name, "err", res)
			failed = append(failed, res)
		}
	}

	if len(failed) > 0 {
		return tsdlerrors.NewAggregate("could not build all parsers", failed)
	}
	return nil
}

func clampWorkers(n int) int {
	return min(max(n, minParallelWorkers), maxParallelWorkers)
}
