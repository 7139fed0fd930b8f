package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomnomnom/linkheader"
)

// ErrMalformedLink is returned when the rel="last" entry carries no usable page number.
var ErrMalformedLink = errors.New("malformed pagination link")

// MaxLastPage is the largest page count accepted from a Link header.
// Every page gets a result slot and a fetch before any of them complete.
const MaxLastPage = 100000

// ParseLastPage extracts the page number of the rel="last" entry from a Link header value.
//
// A missing header or a header without a rel="last" entry means the collection
// has a single page and yields (1, nil). A rel="last" entry whose URL has no
// positive integer page parameter, or whose page exceeds MaxLastPage, yields 1
// together with an error wrapping ErrMalformedLink.
func ParseLastPage(header string) (int, error) {
	page, _, err := parseLastPage(header)
	return page, err
}

// parseLastPage also reports whether a rel="last" entry was present at all.
func parseLastPage(header string) (page int, found bool, err error) {
	if strings.TrimSpace(header) == "" {
		return 1, false, nil
	}

	last := linkheader.Parse(header).FilterByRel("last")
	if len(last) == 0 {
		return 1, false, nil
	}

	u, err := url.Parse(last[0].URL)
	if err != nil {
		return 1, true, fmt.Errorf("%w: %v", ErrMalformedLink, err)
	}
	raw := u.Query().Get("page")
	if raw == "" {
		return 1, true, fmt.Errorf("%w: no page parameter in %q", ErrMalformedLink, last[0].URL)
	}
	page, err = strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1, true, fmt.Errorf("%w: page %q is not a positive integer", ErrMalformedLink, raw)
	}
	if page > MaxLastPage {
		return 1, true, fmt.Errorf("%w: page %d exceeds %d", ErrMalformedLink, page, MaxLastPage)
	}
	return page, true, nil
}
