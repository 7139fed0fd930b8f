package domain

// RepositoryResult holds the pull requests collected for a single repository.
type RepositoryResult struct {
	Repository       RepositoryReference `json:"repository"`
	Records          []PullRequestRecord `json:"-"`
	LastPage         int                 `json:"last_page"`
	FailedPages      []int               `json:"failed_pages,omitempty"`
	PageCountUnknown bool                `json:"page_count_unknown,omitempty"`
}

// Degraded reports whether some of the repository's pull requests may be missing,
// either because a page fetch failed or because its page count was a fallback guess.
func (r RepositoryResult) Degraded() bool {
	return len(r.FailedPages) > 0 || r.PageCountUnknown
}

// AggregateResult is the organization-wide collection of pull requests.
type AggregateResult struct {
	Organization string             `json:"organization"`
	Repositories []RepositoryResult `json:"repositories"`
}

// Total returns the number of pull requests across all repositories.
func (a *AggregateResult) Total() int {
	total := 0
	for _, r := range a.Repositories {
		total += len(r.Records)
	}
	return total
}

// Records flattens every repository's pull requests into a single slice.
func (a *AggregateResult) Records() []PullRequestRecord {
	out := make([]PullRequestRecord, 0, a.Total())
	for _, r := range a.Repositories {
		out = append(out, r.Records...)
	}
	return out
}

// Degraded returns the repositories whose collections are known to be incomplete.
func (a *AggregateResult) Degraded() []RepositoryResult {
	var out []RepositoryResult
	for _, r := range a.Repositories {
		if r.Degraded() {
			out = append(out, r)
		}
	}
	return out
}
