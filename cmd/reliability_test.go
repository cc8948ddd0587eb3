package cmd

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-ci-stats/internal/gateway"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "defaults to one month ago", input: "", expected: time.Date(2026, 9, 17, 9, 0, 0, 0, time.UTC)},
		{name: "explicit date", input: "2026/01/31", expected: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{name: "wrong layout", input: "2026-01-31", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			since, err := parseSince(tc.input, now)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "YYYY/MM/DD")
			} else {
				assert.NoError(t, err)
				assert.True(t, tc.expected.Equal(since), "got %s", since)
			}
		})
	}
}

func TestBuildQueries(t *testing.T) {
	since := time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC)
	queries := buildQueries("linkerd", []string{"linkerd2", "linkerd2-proxy"}, "dependabot[bot]", "Integration tests", since, 50, 3)

	require.Len(t, queries, 2)
	assert.Equal(t, "linkerd/linkerd2", queries[0].Target.FullName())
	assert.Equal(t, "linkerd/linkerd2-proxy", queries[1].Target.FullName())
	for _, q := range queries {
		assert.Equal(t, "dependabot[bot]", q.Target.Actor)
		assert.Equal(t, "Integration tests", q.Target.Workflow)
		assert.Equal(t, since, q.Since)
		assert.Equal(t, 50, q.PerPage)
		assert.Equal(t, 3, q.MaxPages)
	}
}

type fakeRateLimitFetcher struct {
	rateLimit *gateway.RateLimit
	err       error
}

func (f fakeRateLimitFetcher) FetchRateLimit(context.Context) (*gateway.RateLimit, error) {
	return f.rateLimit, f.err
}

func TestLogRateLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	logRateLimit(context.Background(), fakeRateLimitFetcher{rateLimit: &gateway.RateLimit{
		Limit:     5000,
		Remaining: 4999,
		ResetAt:   time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC),
	}}, logger)
	assert.Contains(t, buf.String(), "4999/5000 remaining, resets at 2026-10-17T10:00:00Z")

	buf.Reset()
	logRateLimit(context.Background(), fakeRateLimitFetcher{err: errors.New("401 Unauthorized")}, logger)
	assert.Contains(t, buf.String(), "Could not read the API rate limit: 401 Unauthorized")
}

func TestLoadDotEnv(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	dir := t.TempDir()

	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env"), logger))
	})

	t.Run("variables are loaded", func(t *testing.T) {
		const key = "GITHUB_CI_STATS_TEST_TOKEN"
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { _ = os.Unsetenv(key) })

		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

		require.NoError(t, loadDotEnv(path, logger))
		assert.Equal(t, "from-dotenv", os.Getenv(key))
	})
}
