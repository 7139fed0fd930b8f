// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Organization identifies the organization being analyzed and carries the
// credential used for every request made on its behalf.
// It is immutable once constructed.
type Organization struct {
	login string
	token string
}

// NewOrganization validates the login and token and returns an Organization.
func NewOrganization(login, token string) (Organization, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return Organization{}, ErrMissingOrganization
	}
	if token == "" {
		return Organization{}, ErrMissingToken
	}
	return Organization{login: login, token: token}, nil
}

// Login returns the organization's login name.
func (o Organization) Login() string { return o.login }

// Token returns the access credential.
func (o Organization) Token() string { return o.token }

// ReposEndpoint returns the organization's repository collection, relative to the API base URL.
func (o Organization) ReposEndpoint() string {
	return fmt.Sprintf("orgs/%s/repos", url.PathEscape(o.login))
}

// RepositoryReference points at one repository's pull request collection.
type RepositoryReference struct {
	FullName string `json:"full_name"`
	PullsURL string `json:"pulls_url"`
}

// PullRequestRecord is a pull request exactly as returned by the API.
// Its contents are never interpreted.
type PullRequestRecord = json.RawMessage

// OrganizationInfo is what the API reports about an organization as a whole.
type OrganizationInfo struct {
	Login           string
	Name            string
	RepositoryCount int
}
