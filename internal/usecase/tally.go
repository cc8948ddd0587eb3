package usecase

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
)

// Tally accumulates the successful runs of one workflow.
// It does no I/O, so the order runs are added in does not matter.
type Tally struct {
	workflow string

	// Successes is the number of successful runs.
	Successes int
	// Attempts is the number of attempts the successful runs took.
	Attempts int
	// Failures is the number of successful runs that needed more than one attempt.
	Failures int

	runsPerBranch     map[string]int
	attemptsPerBranch map[string]int
}

// NewTally returns an empty Tally counting runs named workflow.
func NewTally(workflow string) *Tally {
	return &Tally{
		workflow:          workflow,
		runsPerBranch:     make(map[string]int),
		attemptsPerBranch: make(map[string]int),
	}
}

// Add counts the runs that belong to the workflow and concluded successfully.
// Other runs are ignored.
func (t *Tally) Add(runs ...domain.WorkflowRun) {
	for _, run := range runs {
		if run.Name != t.workflow || run.Conclusion != domain.ConclusionSuccess {
			continue
		}
		attempts := run.Attempts()
		t.Successes++
		t.Attempts += attempts
		t.runsPerBranch[run.HeadBranch]++
		t.attemptsPerBranch[run.HeadBranch] += attempts
		if attempts > 1 {
			t.Failures++
		}
	}
}

// Branches returns the number of distinct branches with at least one successful run.
func (t *Tally) Branches() int {
	return len(t.runsPerBranch)
}

// Report derives the histograms and rates from the accumulated counts.
func (t *Tally) Report(target domain.Target, since time.Time) *domain.Report {
	return &domain.Report{
		Target:             target,
		Since:              since,
		Branches:           t.Branches(),
		Runs:               t.Successes,
		RunsPerBranch:      histogram(t.runsPerBranch),
		RunsWithFailures:   t.Failures,
		RunSuccessRate:     domain.NewRate(t.Successes-t.Failures, t.Successes),
		Attempts:           t.Attempts,
		FailedAttempts:     t.Attempts - t.Successes,
		AttemptsPerBranch:  histogram(t.attemptsPerBranch),
		AttemptSuccessRate: domain.NewRate(t.Successes, t.Attempts),
		RunsSpread:         spread(t.runsPerBranch),
		AttemptsSpread:     spread(t.attemptsPerBranch),
	}
}

func histogram(perBranch map[string]int) domain.Histogram {
	h := make(domain.Histogram)
	for _, count := range perBranch {
		h[count]++
	}
	return h
}

// spread returns nil when there are no branches.
func spread(perBranch map[string]int) *domain.Spread {
	if len(perBranch) == 0 {
		return nil
	}
	data := make(stats.Float64Data, 0, len(perBranch))
	for _, count := range perBranch {
		data = append(data, float64(count))
	}
	// The inputs are non-empty and 90 is in bounds, so none of these can fail.
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p90, _ := stats.PercentileNearestRank(data, 90)
	maximum, _ := stats.Max(data)
	return &domain.Spread{Mean: mean, Median: median, P90: p90, Max: maximum}
}
