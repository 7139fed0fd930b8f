package domain

import "errors"

var (
	// ErrRepositoryEnumeration indicates the organization's repositories could not be listed.
	// It is the only failure that aborts an analysis.
	ErrRepositoryEnumeration = errors.New("repository enumeration failed")

	ErrInvalidState        = errors.New("invalid pull request state")
	ErrMissingOrganization = errors.New("organization is required")
	ErrMissingToken        = errors.New("access token is required")
)
