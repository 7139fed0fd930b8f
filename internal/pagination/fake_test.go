package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
)

// fakeCollection serves a fixed set of pages and counts every call it receives.
type fakeCollection struct {
	link     string
	probeErr error
	pages    map[int]int // page -> record count
	failing  map[int]bool

	mu     sync.Mutex
	probes int
	calls  map[int]int
	query  []url.Values
}

func newFakeCollection(sizes ...int) *fakeCollection {
	f := &fakeCollection{
		pages:   make(map[int]int),
		failing: make(map[int]bool),
		calls:   make(map[int]int),
	}
	for i, n := range sizes {
		f.pages[i+1] = n
	}
	if len(sizes) > 1 {
		f.link = fmt.Sprintf(`<https://api.example.com/c?page=2>; rel="next", <https://api.example.com/c?page=%d>; rel="last"`, len(sizes))
	}
	return f
}

func (f *fakeCollection) ProbeLinks(_ context.Context, _ string, _ url.Values) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.link, f.probeErr
}

func (f *fakeCollection) FetchPage(ctx context.Context, _ string, page int, query url.Values) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.calls[page]++
	f.query = append(f.query, query)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failing[page] {
		return nil, errors.New("502 bad gateway")
	}
	records := make([]json.RawMessage, 0, f.pages[page])
	for i := 0; i < f.pages[page]; i++ {
		records = append(records, json.RawMessage(fmt.Sprintf(`{"page":%d,"index":%d}`, page, i)))
	}
	return records, nil
}

func (f *fakeCollection) callCounts() map[int]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]int, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}
