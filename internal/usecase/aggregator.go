// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/ghanalyzer/internal/domain"
	"github.com/naka-gawa/ghanalyzer/internal/gateway"
	"github.com/naka-gawa/ghanalyzer/internal/logging"
	"github.com/naka-gawa/ghanalyzer/internal/metrics"
	"github.com/naka-gawa/ghanalyzer/internal/pagination"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for collecting an organization's pull requests.
// It drives two nested pagination passes: repositories, then the pull requests of each repository.
type Aggregator struct {
	fetcher   gateway.Fetcher
	paginator *pagination.Paginator
	logger    zerolog.Logger
	metrics   *metrics.Recorder
	limit     int
	preflight bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrencyLimit caps in-flight work at each level of the crawl:
// repositories processed at once, and page fetches per collection.
// Zero means no limit.
func WithConcurrencyLimit(n int) Option {
	return func(a *Aggregator) { a.limit = n }
}

// WithMetrics records crawl counters on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(a *Aggregator) { a.metrics = rec }
}

// WithPreflight enables the organization lookup that runs before the crawl.
func WithPreflight(enabled bool) Option {
	return func(a *Aggregator) { a.preflight = enabled }
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		logger:  logging.NewLogger(logger, "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.paginator = pagination.New(fetcher, fetcher, logging.NewLogger(logger, "paginator"),
		pagination.WithConcurrencyLimit(a.limit),
		pagination.WithMetrics(a.metrics),
	)
	return a
}

// Analyze collects every pull request of every repository in org.
//
// Failing to enumerate the repositories is fatal and yields an error wrapping
// domain.ErrRepositoryEnumeration. Failures while collecting pull requests are
// logged and leave the affected repository marked as degraded in the result.
func (a *Aggregator) Analyze(ctx context.Context, org domain.Organization, filters domain.Filters) (*domain.AggregateResult, error) {
	start := time.Now()
	a.logger.Info().Str("organization", org.Login()).Str("state", string(filters.State)).Msg("Starting analysis")

	var info *domain.OrganizationInfo
	if a.preflight {
		info = a.lookupOrganization(ctx, org)
	}

	repos, err := a.listRepositories(ctx, org, filters)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Int("repositories", len(repos)).Msg("Enumerated repositories")
	if info != nil && info.RepositoryCount != len(repos) {
		a.logger.Warn().
			Int("expected", info.RepositoryCount).
			Int("enumerated", len(repos)).
			Msg("Repository count differs from the organization's total")
	}

	results := make([]domain.RepositoryResult, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	if a.limit > 0 {
		eg.SetLimit(a.limit)
	}
	for i, repo := range repos {
		eg.Go(func() error {
			results[i] = a.collectPullRequests(egCtx, repo, filters)
			return nil
		})
	}
	// Every goroutine returns nil; Wait is the barrier.
	_ = eg.Wait()

	result := &domain.AggregateResult{
		Organization: org.Login(),
		Repositories: results,
	}
	a.metrics.Collected(len(repos), result.Total())
	a.logger.Info().
		Int("repositories", len(repos)).
		Int("pull_requests", result.Total()).
		Int("degraded", len(result.Degraded())).
		Dur("duration", time.Since(start)).
		Msg("Analysis complete")
	return result, nil
}

func (a *Aggregator) lookupOrganization(ctx context.Context, org domain.Organization) *domain.OrganizationInfo {
	info, err := a.fetcher.LookupOrganization(ctx, org.Login())
	if err != nil {
		a.logger.Warn().Err(err).Str("organization", org.Login()).Msg("Organization lookup failed, continuing without it")
		return nil
	}
	a.logger.Info().
		Str("organization", info.Login).
		Str("name", info.Name).
		Int("repositories", info.RepositoryCount).
		Msg("Found organization")
	return info
}

// listRepositories runs the repository pass. Any failure here is fatal.
func (a *Aggregator) listRepositories(ctx context.Context, org domain.Organization, filters domain.Filters) ([]domain.RepositoryReference, error) {
	page, err := a.paginator.CollectAll(ctx, pagination.Repositories, org.ReposEndpoint(), filters.WithoutState().Values(), pagination.FailFast)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", domain.ErrRepositoryEnumeration, org.Login(), err)
	}

	repos := make([]domain.RepositoryReference, 0, len(page.Records))
	seen := make(map[string]bool, len(page.Records))
	for _, raw := range page.Records {
		ref, err := decodeRepository(raw)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %w", domain.ErrRepositoryEnumeration, org.Login(), err)
		}
		// A repository created mid-crawl can shift another one onto the next page.
		if seen[ref.PullsURL] {
			a.logger.Debug().Str("repository", ref.FullName).Msg("Skipping repository listed twice")
			continue
		}
		seen[ref.PullsURL] = true
		repos = append(repos, ref)
	}
	return repos, nil
}

// collectPullRequests runs the pull request pass for one repository.
// Failed pages are dropped, never fatal.
func (a *Aggregator) collectPullRequests(ctx context.Context, repo domain.RepositoryReference, filters domain.Filters) domain.RepositoryResult {
	result := domain.RepositoryResult{Repository: repo}

	// SkipFailed never returns an error.
	page, _ := a.paginator.CollectAll(ctx, pagination.PullRequests, repo.PullsURL, filters.Values(), pagination.SkipFailed)

	result.Records = page.Records
	result.LastPage = page.Resolution.LastPage
	result.FailedPages = page.FailedPages
	result.PageCountUnknown = page.Resolution.Fallback()
	a.logger.Info().
		Str("repository", repo.FullName).
		Int("pages", result.LastPage).
		Int("pull_requests", len(result.Records)).
		Msg("Collected pull requests")
	return result
}

// decodeRepository extracts the pull request collection URL from a repository record.
func decodeRepository(raw json.RawMessage) (domain.RepositoryReference, error) {
	var repo github.Repository
	if err := json.Unmarshal(raw, &repo); err != nil {
		return domain.RepositoryReference{}, fmt.Errorf("failed to decode repository: %w", err)
	}

	ref := domain.RepositoryReference{FullName: repo.GetFullName()}
	switch {
	case repo.GetPullsURL() != "":
		ref.PullsURL = strings.TrimSuffix(repo.GetPullsURL(), "{/number}")
	case ref.FullName != "":
		ref.PullsURL = fmt.Sprintf("repos/%s/pulls", ref.FullName)
	default:
		return domain.RepositoryReference{}, fmt.Errorf("repository record has neither pulls_url nor full_name")
	}
	return ref, nil
}
