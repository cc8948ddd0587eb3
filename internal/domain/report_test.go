package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRate(t *testing.T) {
	testCases := []struct {
		name     string
		num, den int
		expected string
		defined  bool
	}{
		{name: "two thirds", num: 2, den: 3, expected: "66.67", defined: true},
		{name: "three quarters", num: 3, den: 4, expected: "75.00", defined: true},
		{name: "zero numerator", num: 0, den: 4, expected: "0.00", defined: true},
		{name: "zero denominator", num: 0, den: 0, expected: "n/a", defined: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := NewRate(tc.num, tc.den)
			assert.Equal(t, tc.defined, rate.Defined())
			assert.Equal(t, tc.expected, rate.String())
		})
	}
}

func TestHistogram(t *testing.T) {
	h := Histogram{4: 1, 1: 5, 2: 3}

	assert.Equal(t, []int{1, 2, 4}, h.Buckets())
	assert.Equal(t, 15, h.Weight())
	assert.Equal(t, "{1: 5, 2: 3, 4: 1}", h.String())
	assert.Equal(t, "{}", Histogram{}.String())
}

func TestWorkflowRun_Attempts(t *testing.T) {
	assert.Equal(t, 1, WorkflowRun{}.Attempts())
	assert.Equal(t, 1, WorkflowRun{Attempt: 1}.Attempts())
	assert.Equal(t, 3, WorkflowRun{Attempt: 3}.Attempts())
}

func TestReport_MarshalJSON(t *testing.T) {
	report := Report{
		Target:             Target{Owner: "linkerd", Repo: "linkerd2", Actor: "dependabot[bot]", Workflow: "Integration tests"},
		RunsPerBranch:      Histogram{},
		AttemptsPerBranch:  Histogram{},
		RunSuccessRate:     NewRate(0, 0),
		AttemptSuccessRate: NewRate(3, 4),
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["run_success_rate"])
	assert.Equal(t, 75.0, decoded["attempt_success_rate"])
	assert.NotContains(t, decoded, "runs_spread")
}
