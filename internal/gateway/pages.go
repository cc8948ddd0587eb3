package gateway

import (
	"context"
	"iter"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
)

// RunPages returns the pages of runs matching q in order, starting at page 1.
// The sequence ends at the first empty page, after q.MaxPages pages when it
// is positive, or after yielding the first fetch error.
//
// Nothing is fetched until the sequence is ranged over, and every range
// starts again from page 1.
func RunPages(ctx context.Context, f Fetcher, q RunQuery) iter.Seq2[[]domain.WorkflowRun, error] {
	return func(yield func([]domain.WorkflowRun, error) bool) {
		for page := 1; q.MaxPages <= 0 || page <= q.MaxPages; page++ {
			runs, err := f.FetchWorkflowRuns(ctx, q, page)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(runs) == 0 {
				return
			}
			if !yield(runs, nil) {
				return
			}
		}
	}
}
