package pagination

import (
	"context"
	"net/url"

	"github.com/naka-gawa/ghanalyzer/internal/metrics"
	"github.com/rs/zerolog"
)

// Collection names the kind of collection being paginated, for logs and metrics.
type Collection string

const (
	Repositories Collection = "repositories"
	PullRequests Collection = "pulls"
)

// Source tells where a resolved page count came from.
type Source string

const (
	// SourceLink means the count was read from a rel="last" link.
	SourceLink Source = "link"
	// SourceSinglePage means the response carried no rel="last" link.
	SourceSinglePage Source = "single_page"
	// SourceMalformed means a rel="last" link was present but unusable.
	SourceMalformed Source = "malformed"
	// SourceProbeFailed means the probe request itself failed.
	SourceProbeFailed Source = "probe_failed"
)

// Prober issues a metadata-only request and returns the raw Link header.
type Prober interface {
	ProbeLinks(ctx context.Context, endpoint string, query url.Values) (string, error)
}

// Resolution is the outcome of a page count lookup.
// LastPage is always at least 1; Err explains a fallback to 1, if any.
type Resolution struct {
	LastPage int
	Source   Source
	Err      error
}

// Fallback reports whether LastPage is a guess rather than a value read from the server.
func (r Resolution) Fallback() bool {
	return r.Source == SourceMalformed || r.Source == SourceProbeFailed
}

// Resolver finds the last page of a collection.
type Resolver struct {
	prober  Prober
	logger  zerolog.Logger
	metrics *metrics.Recorder
}

// NewResolver creates a Resolver. rec may be nil.
func NewResolver(prober Prober, logger zerolog.Logger, rec *metrics.Recorder) *Resolver {
	return &Resolver{prober: prober, logger: logger, metrics: rec}
}

// ResolveLastPage probes endpoint with query applied and returns its last page number.
// It never fails: a failed probe or an unparsable link is logged and resolves to 1.
func (r *Resolver) ResolveLastPage(ctx context.Context, collection Collection, endpoint string, query url.Values) Resolution {
	res := r.resolve(ctx, endpoint, query)
	r.metrics.PageCountResolved(string(collection), string(res.Source))

	switch res.Source {
	case SourceProbeFailed:
		r.logger.Warn().Err(res.Err).
			Str("collection", string(collection)).
			Str("endpoint", endpoint).
			Msg("Page count probe failed, assuming a single page")
	case SourceMalformed:
		r.logger.Warn().Err(res.Err).
			Str("collection", string(collection)).
			Str("endpoint", endpoint).
			Msg("Unparsable last page link, assuming a single page")
	default:
		r.logger.Debug().
			Str("collection", string(collection)).
			Str("endpoint", endpoint).
			Int("last_page", res.LastPage).
			Msg("Resolved page count")
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, endpoint string, query url.Values) Resolution {
	header, err := r.prober.ProbeLinks(ctx, endpoint, query)
	if err != nil {
		return Resolution{LastPage: 1, Source: SourceProbeFailed, Err: err}
	}

	last, found, err := parseLastPage(header)
	switch {
	case err != nil:
		return Resolution{LastPage: 1, Source: SourceMalformed, Err: err}
	case !found:
		return Resolution{LastPage: 1, Source: SourceSinglePage}
	default:
		return Resolution{LastPage: last, Source: SourceLink}
	}
}
