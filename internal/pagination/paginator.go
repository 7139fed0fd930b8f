package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/naka-gawa/ghanalyzer/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PageFetcher fetches the records of a single 1-based page.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, page int, query url.Values) ([]json.RawMessage, error)
}

// Policy decides what a failed page fetch does to the whole pass.
type Policy int

const (
	// FailFast aborts the pass on the first failed page.
	FailFast Policy = iota
	// SkipFailed logs the failure and leaves the page's records out.
	SkipFailed
)

func (p Policy) String() string {
	if p == SkipFailed {
		return "skip-failed"
	}
	return "fail-fast"
}

// Result is the flattened output of one pagination pass.
// Records carry no cross-page ordering guarantee.
type Result struct {
	Records     []json.RawMessage
	Resolution  Resolution
	FailedPages []int
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithConcurrencyLimit caps the number of in-flight page fetches per pass.
// Zero or less issues every page at once.
func WithConcurrencyLimit(n int) Option {
	return func(p *Paginator) { p.limit = n }
}

// WithMetrics records resolutions and fetches on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(p *Paginator) { p.metrics = rec }
}

// Paginator collects every page of a collection.
type Paginator struct {
	resolver *Resolver
	fetcher  PageFetcher
	limit    int
	logger   zerolog.Logger
	metrics  *metrics.Recorder
}

// New creates a Paginator that probes with prober and fetches with fetcher.
func New(prober Prober, fetcher PageFetcher, logger zerolog.Logger, opts ...Option) *Paginator {
	p := &Paginator{
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = NewResolver(prober, logger, p.metrics)
	return p
}

// CollectAll resolves the collection's page count once, then fetches pages
// 1 through LastPage concurrently, each exactly once, and waits for all of
// them to settle before returning.
//
// Under FailFast the first page error is returned and the remaining fetches
// are cancelled. Under SkipFailed the returned error is always nil; failed
// pages are listed in Result.FailedPages instead.
func (p *Paginator) CollectAll(ctx context.Context, collection Collection, endpoint string, query url.Values, policy Policy) (*Result, error) {
	start := time.Now()
	res := p.resolver.ResolveLastPage(ctx, collection, endpoint, query)

	pages := make([][]json.RawMessage, res.LastPage)
	failed := make([]bool, res.LastPage)

	eg, egCtx := errgroup.WithContext(ctx)
	if p.limit > 0 {
		eg.SetLimit(p.limit)
	}
	for i := range pages {
		page := i + 1
		eg.Go(func() error {
			records, err := p.fetcher.FetchPage(egCtx, endpoint, page, query)
			p.metrics.PageFetched(string(collection), err)
			if err == nil {
				pages[i] = records
				return nil
			}
			if policy == FailFast {
				return fmt.Errorf("page %d of %s: %w", page, endpoint, err)
			}
			p.logger.Warn().Err(err).
				Str("collection", string(collection)).
				Str("endpoint", endpoint).
				Int("page", page).
				Msg("Page fetch failed, skipping its records")
			failed[i] = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Resolution: res}
	total := 0
	for _, records := range pages {
		total += len(records)
	}
	out.Records = make([]json.RawMessage, 0, total)
	for i, records := range pages {
		if failed[i] {
			out.FailedPages = append(out.FailedPages, i+1)
			continue
		}
		out.Records = append(out.Records, records...)
	}

	p.logger.Debug().
		Str("collection", string(collection)).
		Str("endpoint", endpoint).
		Stringer("policy", policy).
		Int("pages", res.LastPage).
		Int("failed_pages", len(out.FailedPages)).
		Int("records", len(out.Records)).
		Dur("duration", time.Since(start)).
		Msg("Collected all pages")
	return out, nil
}
