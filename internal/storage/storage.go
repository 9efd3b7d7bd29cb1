package storage

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUpstream        = errors.New("upstream request failed")
	ErrCreateFailed    = errors.New("failed to create")
	ErrUpdateFailed    = errors.New("failed to update")
	ErrDeleteFailed    = errors.New("failed to delete")
)
