// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
)

// RunQuery scopes a listing of workflow runs.
type RunQuery struct {
	Target domain.Target
	// Since is the inclusive lower bound on the run creation time.
	Since   time.Time
	PerPage int
	// MaxPages bounds RunPages. Zero or less means no bound.
	MaxPages int
}

// RateLimit is a snapshot of the GraphQL API budget of the current token.
type RateLimit struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchWorkflowRuns returns one page of completed runs. Page numbers start at 1.
	FetchWorkflowRuns(ctx context.Context, q RunQuery, page int) ([]domain.WorkflowRun, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// rateLimitQuery reads the budget of the authenticated token.
type rateLimitQuery struct {
	RateLimit struct {
		Limit     githubv4.Int
		Remaining githubv4.Int
		ResetAt   githubv4.DateTime
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token yields a gateway sending unauthenticated requests.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	} else {
		logger.Println("GITHUB_TOKEN is not set, requests are sent unauthenticated.")
	}
	httpClient := &http.Client{Transport: transport}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchWorkflowRuns lists one page of completed workflow runs of q.Target's
// repository, triggered by q.Target.Actor and created at or after q.Since.
func (g *GitHubGateway) FetchWorkflowRuns(ctx context.Context, q RunQuery, page int) ([]domain.WorkflowRun, error) {
	g.logger.Printf("  Fetching page %d of workflow runs for %s...\n", page, q.Target.FullName())
	opts := &github.ListWorkflowRunsOptions{
		Actor:       q.Target.Actor,
		Status:      domain.StatusCompleted,
		Created:     ">=" + q.Since.UTC().Format(time.RFC3339),
		ListOptions: github.ListOptions{Page: page, PerPage: q.PerPage},
	}
	result, _, err := g.restClient.Actions.ListRepositoryWorkflowRuns(ctx, q.Target.Owner, q.Target.Repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow runs of %s (page %d): %w", q.Target.FullName(), page, err)
	}
	runs := make([]domain.WorkflowRun, 0, len(result.WorkflowRuns))
	for _, run := range result.WorkflowRuns {
		runs = append(runs, domain.WorkflowRun{
			Name:       run.GetName(),
			HeadBranch: run.GetHeadBranch(),
			Conclusion: run.GetConclusion(),
			Attempt:    run.GetRunAttempt(),
		})
	}
	return runs, nil
}

// FetchRateLimit queries the remaining GraphQL budget of the token.
func (g *GitHubGateway) FetchRateLimit(ctx context.Context) (*RateLimit, error) {
	var q rateLimitQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for rate limit: %w", err)
	}
	return &RateLimit{
		Limit:     int(q.RateLimit.Limit),
		Remaining: int(q.RateLimit.Remaining),
		ResetAt:   q.RateLimit.ResetAt.Time,
	}, nil
}
