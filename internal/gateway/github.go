// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/ghanalyzer/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// DefaultMediaType is the Accept header sent with every REST request.
const DefaultMediaType = "application/vnd.github.v3+json"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ProbeLinks issues a HEAD request and returns the Link header of the response.
	ProbeLinks(ctx context.Context, endpoint string, query url.Values) (string, error)
	// FetchPage returns the raw records of one page of a collection.
	FetchPage(ctx context.Context, endpoint string, page int, query url.Values) ([]json.RawMessage, error)
	// LookupOrganization returns summary information about an organization.
	LookupOrganization(ctx context.Context, login string) (*domain.OrganizationInfo, error)
}

// Options configures the gateway's HTTP clients.
type Options struct {
	Token      string
	BaseURL    string
	GraphQLURL string
	MediaType  string
	Timeout    time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	mediaType     string
	logger        zerolog.Logger
}

// organizationQuery fetches the organization's display name and repository count.
type organizationQuery struct {
	Organization struct {
		Login        githubv4.String
		Name         githubv4.String
		Repositories struct {
			TotalCount githubv4.Int
		}
	} `graphql:"organization(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger zerolog.Logger) (*GitHubGateway, error) {
	if opts.Token == "" {
		return nil, domain.ErrMissingToken
	}
	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.MediaType == "" {
		opts.MediaType = DefaultMediaType
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = "https://api.github.com/graphql"
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	restClient.BaseURL = baseURL

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient),
		mediaType:     opts.MediaType,
		logger:        logger,
	}, nil
}

// parseBaseURL accepts an absolute API URL and guarantees the trailing slash go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = "https://api.github.com/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid API base URL %q: must be absolute", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// newRequest builds a request for endpoint, which may be absolute or relative to the base URL.
// Parameters in query replace any of the same name already present in endpoint.
func (g *GitHubGateway) newRequest(method, endpoint string, query url.Values) (*http.Request, error) {
	req, err := g.restClient.NewRequest(method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	for k, v := range query {
		q[k] = v
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", g.mediaType)
	return req, nil
}

func (g *GitHubGateway) ProbeLinks(ctx context.Context, endpoint string, query url.Values) (string, error) {
	req, err := g.newRequest(http.MethodHead, endpoint, query)
	if err != nil {
		return "", fmt.Errorf("failed to build probe for %s: %w", endpoint, err)
	}
	resp, err := g.restClient.BareDo(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to probe %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	link := resp.Header.Get("Link")
	g.logger.Debug().Str("endpoint", endpoint).Str("link", link).Msg("Probed collection")
	return link, nil
}

func (g *GitHubGateway) FetchPage(ctx context.Context, endpoint string, page int, query url.Values) ([]json.RawMessage, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))

	req, err := g.newRequest(http.MethodGet, endpoint, q)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for page %d of %s: %w", page, endpoint, err)
	}

	var records []json.RawMessage
	if _, err := g.restClient.Do(ctx, req, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch page %d of %s: %w", page, endpoint, err)
	}
	g.logger.Debug().Str("endpoint", endpoint).Int("page", page).Int("records", len(records)).Msg("Fetched page")
	return records, nil
}

// LookupOrganization queries the GraphQL API for the organization's name and repository count.
func (g *GitHubGateway) LookupOrganization(ctx context.Context, login string) (*domain.OrganizationInfo, error) {
	var q organizationQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for organization %s: %w", login, err)
	}
	return &domain.OrganizationInfo{
		Login:           string(q.Organization.Login),
		Name:            string(q.Organization.Name),
		RepositoryCount: int(q.Organization.Repositories.TotalCount),
	}, nil
}
