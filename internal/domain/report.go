package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Histogram maps a per-branch count to the number of branches having that count.
type Histogram map[int]int

// Buckets returns the histogram keys in ascending order.
func (h Histogram) Buckets() []int {
	return slices.Sorted(maps.Keys(h))
}

// Weight returns the sum of bucket*branches, i.e. the total the histogram
// was built from.
func (h Histogram) Weight() int {
	total := 0
	for bucket, branches := range h {
		total += bucket * branches
	}
	return total
}

func (h Histogram) String() string {
	parts := make([]string, 0, len(h))
	for _, bucket := range h.Buckets() {
		parts = append(parts, fmt.Sprintf("%d: %d", bucket, h[bucket]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Rate is a percentage. It is NaN when it was computed over an empty set.
type Rate float64

// NewRate returns num/den as a percentage, or NaN when den is zero.
func NewRate(num, den int) Rate {
	if den == 0 {
		return Rate(math.NaN())
	}
	return Rate(float64(num) / float64(den) * 100)
}

// Defined reports whether the rate has a numeric value.
func (r Rate) Defined() bool {
	return !math.IsNaN(float64(r))
}

func (r Rate) String() string {
	if !r.Defined() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

// MarshalJSON encodes an undefined rate as null.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Defined() {
		return []byte("null"), nil
	}
	return []byte(r.String()), nil
}

// Spread summarizes how a per-branch count is distributed across branches.
type Spread struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Report is the reliability summary for one Target over one time window.
// It is the core domain entity of this application.
type Report struct {
	Target Target    `json:"target"`
	Since  time.Time `json:"since"`

	Branches           int       `json:"branches"`
	Runs               int       `json:"runs"`
	RunsPerBranch      Histogram `json:"runs_per_branch"`
	RunsWithFailures   int       `json:"runs_with_failures"`
	RunSuccessRate     Rate      `json:"run_success_rate"`
	Attempts           int       `json:"attempts"`
	FailedAttempts     int       `json:"failed_attempts"`
	AttemptsPerBranch  Histogram `json:"attempts_per_branch"`
	AttemptSuccessRate Rate      `json:"attempt_success_rate"`

	RunsSpread     *Spread `json:"runs_spread,omitempty"`
	AttemptsSpread *Spread `json:"attempts_spread,omitempty"`
}
