// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
	"github.com/naka-gawa/github-ci-stats/internal/gateway"
)

// maxConcurrentRepos bounds how many repositories AggregateAll works on at once.
const maxConcurrentRepos = 4

// Aggregator is the use case for aggregating workflow run reliability.
// It orchestrates the fetching of run pages and their reduction into a report.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches the pages of runs matching q one after another and
// reduces them into a report. Any fetch error aborts the aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, q gateway.RunQuery) (*domain.Report, error) {
	a.logger.Printf("Usecase: Aggregating '%s' runs of %s by %s...\n", q.Target.Workflow, q.Target.FullName(), q.Target.Actor)

	tally := NewTally(q.Target.Workflow)
	pages := 0
	for runs, err := range gateway.RunPages(ctx, a.fetcher, q) {
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate workflow runs of %s: %w", q.Target.FullName(), err)
		}
		pages++
		tally.Add(runs...)
	}

	a.logger.Printf("Usecase: Aggregation of %s complete (%d pages, %d successful runs).\n", q.Target.FullName(), pages, tally.Successes)
	return tally.Report(q.Target, q.Since), nil
}

// AggregateAll aggregates every query and returns the reports in the same
// order. Queries run concurrently, each paginating sequentially. The first
// error cancels the others.
func (a *Aggregator) AggregateAll(ctx context.Context, queries []gateway.RunQuery) ([]*domain.Report, error) {
	reports := make([]*domain.Report, len(queries))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentRepos)
	for i, q := range queries {
		eg.Go(func() error {
			report, err := a.Aggregate(egCtx, q)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
