package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
	"github.com/naka-gawa/github-ci-stats/internal/gateway"
	"github.com/naka-gawa/github-ci-stats/internal/usecase"
)

const inputDateLayout = "2006/01/02"

var reliabilityCmd = &cobra.Command{
	Use:   "reliability",
	Short: "Reports the success and retry rates of a workflow's runs",
	Long: `Fetches the completed runs of a repository triggered by an actor since a
point in time, keeps the successful runs of one workflow, and prints how many
branches and runs there were, how many runs needed a retry, and the run and
attempt success rates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		owner, _ := cmd.Flags().GetString("owner")
		repos, _ := cmd.Flags().GetStringSlice("repo")
		actor, _ := cmd.Flags().GetString("actor")
		workflow, _ := cmd.Flags().GetString("workflow")
		sinceStr, _ := cmd.Flags().GetString("since")
		perPage, _ := cmd.Flags().GetInt("per-page")
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		asJSON, _ := cmd.Flags().GetBool("json")

		since, err := parseSince(sinceStr, time.Now())
		if err != nil {
			return err
		}
		if perPage < 1 || perPage > 100 {
			return fmt.Errorf("invalid --per-page %d: must be between 1 and 100", perPage)
		}

		if err := loadDotEnv(".env", logger); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		token := os.Getenv("GITHUB_TOKEN")

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		if verbose && token != "" {
			logRateLimit(ctx, githubGateway, logger)
		}

		queries := buildQueries(owner, repos, actor, workflow, since, perPage, maxPages)
		aggregator := usecase.NewAggregator(githubGateway, logger)
		reports, err := aggregator.AggregateAll(ctx, queries)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), reports)
		}
		return writeText(cmd.OutOrStdout(), reports)
	},
}

func init() {
	rootCmd.AddCommand(reliabilityCmd)
	reliabilityCmd.Flags().StringP("owner", "o", "linkerd", "Owner of the repositories")
	reliabilityCmd.Flags().StringSliceP("repo", "r", []string{"linkerd2"}, "Repository name, may be repeated")
	reliabilityCmd.Flags().StringP("actor", "a", "dependabot[bot]", "Login of the actor that triggered the runs")
	reliabilityCmd.Flags().StringP("workflow", "w", "Integration tests", "Name of the workflow to report on")
	reliabilityCmd.Flags().String("since", "", "Start date of the window (YYYY/MM/DD), defaults to one month ago")
	reliabilityCmd.Flags().Int("per-page", 100, "Runs requested per page (max 100)")
	reliabilityCmd.Flags().Int("max-pages", 0, "Stop after this many pages per repository, 0 for no limit")
	reliabilityCmd.Flags().Bool("json", false, "Output the reports as JSON")
}

// parseSince returns the start of the window: the given date, or one month
// before now when it is empty.
func parseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.AddDate(0, -1, 0).UTC(), nil
	}
	since, err := time.Parse(inputDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since date format, please use YYYY/MM/DD: %w", err)
	}
	return since, nil
}

func buildQueries(owner string, repos []string, actor, workflow string, since time.Time, perPage, maxPages int) []gateway.RunQuery {
	queries := make([]gateway.RunQuery, 0, len(repos))
	for _, repo := range repos {
		queries = append(queries, gateway.RunQuery{
			Target: domain.Target{
				Owner:    owner,
				Repo:     repo,
				Actor:    actor,
				Workflow: workflow,
			},
			Since:    since,
			PerPage:  perPage,
			MaxPages: maxPages,
		})
	}
	return queries
}

// rateLimitFetcher is implemented by gateway.GitHubGateway.
type rateLimitFetcher interface {
	FetchRateLimit(ctx context.Context) (*gateway.RateLimit, error)
}

// logRateLimit logs the remaining API budget. Failures are logged and ignored.
func logRateLimit(ctx context.Context, f rateLimitFetcher, logger *log.Logger) {
	rateLimit, err := f.FetchRateLimit(ctx)
	if err != nil {
		logger.Printf("Could not read the API rate limit: %v\n", err)
		return
	}
	logger.Printf("API rate limit: %d/%d remaining, resets at %s\n",
		rateLimit.Remaining, rateLimit.Limit, rateLimit.ResetAt.Format(time.RFC3339))
}
