package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrganization(t *testing.T) {
	testCases := []struct {
		name        string
		login       string
		token       string
		wantLogin   string
		expectedErr error
	}{
		{name: "valid", login: "acme", token: "t", wantLogin: "acme"},
		{name: "surrounding whitespace is trimmed", login: "  acme\n", token: "t", wantLogin: "acme"},
		{name: "blank login", login: "   ", token: "t", expectedErr: ErrMissingOrganization},
		{name: "missing token", login: "acme", token: "", expectedErr: ErrMissingToken},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			org, err := NewOrganization(tc.login, tc.token)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogin, org.Login())
			assert.Equal(t, tc.token, org.Token())
			assert.Equal(t, "orgs/"+tc.wantLogin+"/repos", org.ReposEndpoint())
		})
	}
}

func TestParseStateFilter(t *testing.T) {
	for _, in := range []string{"open", "CLOSED", " all "} {
		_, err := ParseStateFilter(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseStateFilter("merged")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFilters_Values(t *testing.T) {
	testCases := []struct {
		name    string
		filters Filters
		want    url.Values
	}{
		{name: "zero value sends nothing", filters: Filters{}, want: url.Values{}},
		{name: "state only", filters: Filters{State: StateOpen}, want: url.Values{"state": {"open"}}},
		{name: "page size only", filters: Filters{PerPage: 50}, want: url.Values{"per_page": {"50"}}},
		{
			name:    "both",
			filters: Filters{State: StateAll, PerPage: 100},
			want:    url.Values{"state": {"all"}, "per_page": {"100"}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filters.Values())
		})
	}
}

func TestFilters_WithoutState(t *testing.T) {
	f := Filters{State: StateClosed, PerPage: 30}
	assert.Equal(t, Filters{PerPage: 30}, f.WithoutState())
	assert.Equal(t, StateClosed, f.State)
}

func TestRepositoryResult_Degraded(t *testing.T) {
	testCases := []struct {
		name   string
		result RepositoryResult
		want   bool
	}{
		{name: "complete", result: RepositoryResult{LastPage: 3}, want: false},
		{name: "failed page", result: RepositoryResult{LastPage: 3, FailedPages: []int{2}}, want: true},
		{name: "page count unknown", result: RepositoryResult{LastPage: 1, PageCountUnknown: true}, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.result.Degraded())
		})
	}
}

func TestAggregateResult(t *testing.T) {
	result := &AggregateResult{
		Organization: "acme",
		Repositories: []RepositoryResult{
			{Repository: RepositoryReference{FullName: "acme/api"}, Records: []PullRequestRecord{[]byte(`{}`), []byte(`{}`)}},
			{Repository: RepositoryReference{FullName: "acme/web"}, Records: []PullRequestRecord{[]byte(`{}`)}, FailedPages: []int{2}},
			{Repository: RepositoryReference{FullName: "acme/cli"}},
		},
	}

	assert.Equal(t, 3, result.Total())
	assert.Len(t, result.Records(), 3)
	require.Len(t, result.Degraded(), 1)
	assert.Equal(t, "acme/web", result.Degraded()[0].Repository.FullName)
}
