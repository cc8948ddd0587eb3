// Package domain contains the core data structures and domain logic for the application.
package domain

import "fmt"

const (
	// StatusCompleted is the run status filter sent to GitHub.
	StatusCompleted = "completed"
	// ConclusionSuccess is the only conclusion that contributes to the stats.
	ConclusionSuccess = "success"
)

// WorkflowRun holds the fields of a GitHub Actions workflow run that the
// reliability stats are computed from.
type WorkflowRun struct {
	Name       string `json:"name"`
	HeadBranch string `json:"head_branch"`
	Conclusion string `json:"conclusion"`
	// Attempt is the run_attempt reported by GitHub. Zero means it was absent.
	Attempt int `json:"run_attempt,omitempty"`
}

// Attempts returns the number of attempts the run took, treating a missing
// attempt count as a single attempt.
func (r WorkflowRun) Attempts() int {
	if r.Attempt < 1 {
		return 1
	}
	return r.Attempt
}

// Target identifies which runs are aggregated: one workflow, in one
// repository, triggered by one actor.
type Target struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Actor    string `json:"actor"`
	Workflow string `json:"workflow"`
}

// FullName returns "owner/repo".
func (t Target) FullName() string {
	return fmt.Sprintf("%s/%s", t.Owner, t.Repo)
}
