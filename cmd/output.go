package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/naka-gawa/github-ci-stats/internal/domain"
)

var headerColor = color.New(color.Bold)

// writeText prints each report in a fixed line order, separated by blank lines.
func writeText(w io.Writer, reports []*domain.Report) error {
	var buf bytes.Buffer
	for i, r := range reports {
		if i > 0 {
			buf.WriteString("\n")
		}
		headerColor.Fprintf(&buf, "# %s '%s' by %s since %s\n",
			r.Target.FullName(), r.Target.Workflow, r.Target.Actor, r.Since.UTC().Format(time.RFC3339))
		fmt.Fprintln(&buf, "Branches:", r.Branches)
		fmt.Fprintln(&buf, "Runs:", r.Runs)
		fmt.Fprintln(&buf, "Runs per branch:", r.RunsPerBranch)
		fmt.Fprintf(&buf, "Runs with failures: %d\n", r.RunsWithFailures)
		fmt.Fprintln(&buf, "Run success rate:", r.RunSuccessRate)
		fmt.Fprintf(&buf, "Failed attempts: %d\n", r.FailedAttempts)
		fmt.Fprintln(&buf, "Attempts per branch:", r.AttemptsPerBranch)
		fmt.Fprintln(&buf, "Attempt success rate:", r.AttemptSuccessRate)
		writeSpread(&buf, "Runs per branch spread", r.RunsSpread)
		writeSpread(&buf, "Attempts per branch spread", r.AttemptsSpread)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeSpread(w io.Writer, label string, s *domain.Spread) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "%s: mean %.2f, median %.2f, p90 %.2f, max %.2f\n", label, s.Mean, s.Median, s.P90, s.Max)
}

func writeJSON(w io.Writer, reports []*domain.Report) error {
	// Marshal the results into a pretty-printed JSON string.
	jsonData, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
