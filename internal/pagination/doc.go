// Package pagination resolves how many pages a GitHub collection has and
// fetches all of them concurrently.
//
// The page count comes from the rel="last" entry of the Link header returned
// by a HEAD probe, never from the payload. Once the count is known every page
// is requested at once and the results are joined at a barrier:
//
//	p := pagination.New(gw, gw, logger)
//	res, err := p.CollectAll(ctx, pagination.PullRequests, pullsURL, filters, pagination.SkipFailed)
//
// Failed pages are either fatal (FailFast) or skipped and reported in
// Result.FailedPages (SkipFailed). Nothing is retried.
package pagination
