package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// StateFilter restricts the pull requests returned by the API.
type StateFilter string

const (
	StateOpen   StateFilter = "open"
	StateClosed StateFilter = "closed"
	StateAll    StateFilter = "all"
)

// ParseStateFilter accepts "open", "closed" or "all" (case-insensitive).
func ParseStateFilter(s string) (StateFilter, error) {
	switch st := StateFilter(strings.ToLower(strings.TrimSpace(s))); st {
	case StateOpen, StateClosed, StateAll:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q (want open, closed or all)", ErrInvalidState, s)
	}
}

// Filters holds the query parameters applied to a collection request.
// A zero PerPage leaves the page size to the server.
type Filters struct {
	State   StateFilter
	PerPage int
}

// Values renders the filters as query parameters.
func (f Filters) Values() url.Values {
	v := url.Values{}
	if f.State != "" {
		v.Set("state", string(f.State))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return v
}

// WithoutState returns a copy of f that only keeps the page size.
// The repository collection does not take a state parameter.
func (f Filters) WithoutState() Filters {
	return Filters{PerPage: f.PerPage}
}
