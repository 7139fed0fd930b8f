// Package report prints the outcome of an analysis.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/ghanalyzer/internal/domain"
)

// Reporter writes the summary of an AggregateResult.
type Reporter struct {
	out       io.Writer
	verbosity int
}

// New creates a Reporter. Detail lines are only written when verbosity is at least 1.
func New(out io.Writer, verbosity int) *Reporter {
	return &Reporter{out: out, verbosity: verbosity}
}

// Report writes the total pull request count and, when verbose, the
// per-repository distribution and any repositories with missing pages.
func (r *Reporter) Report(result *domain.AggregateResult) error {
	if r.verbosity > 0 {
		if err := r.distribution(result); err != nil {
			return err
		}
		if err := r.degraded(result); err != nil {
			return err
		}
	}
	_, err := color.New(color.FgGreen, color.Bold).Fprintf(r.out, "Total pull requests: %d\n", result.Total())
	return err
}

func (r *Reporter) distribution(result *domain.AggregateResult) error {
	if len(result.Repositories) == 0 {
		_, err := fmt.Fprintf(r.out, "No repositories found in %s\n", result.Organization)
		return err
	}

	counts := make(stats.Float64Data, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		counts = append(counts, float64(len(repo.Records)))
	}
	mean, err := counts.Mean()
	if err != nil {
		return fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := counts.Median()
	if err != nil {
		return fmt.Errorf("failed to compute median: %w", err)
	}
	maximum, err := counts.Max()
	if err != nil {
		return fmt.Errorf("failed to compute max: %w", err)
	}

	_, err = fmt.Fprintf(r.out, "Repositories: %d, pull requests per repository: mean %.1f, median %.1f, max %.0f\n",
		len(result.Repositories), mean, median, maximum)
	return err
}

func (r *Reporter) degraded(result *domain.AggregateResult) error {
	degraded := result.Degraded()
	if len(degraded) == 0 {
		return nil
	}
	sort.Slice(degraded, func(i, j int) bool {
		return degraded[i].Repository.FullName < degraded[j].Repository.FullName
	})

	warn := color.New(color.FgYellow)
	if _, err := warn.Fprintf(r.out, "%d repositories may be incomplete:\n", len(degraded)); err != nil {
		return err
	}
	for _, repo := range degraded {
		var reasons []string
		if repo.PageCountUnknown {
			reasons = append(reasons, "page count unknown")
		}
		if len(repo.FailedPages) > 0 {
			reasons = append(reasons, "failed pages "+joinInts(repo.FailedPages))
		}
		if _, err := warn.Fprintf(r.out, "  %s (%s)\n", repo.Repository.FullName, strings.Join(reasons, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
