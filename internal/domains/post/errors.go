package post

import "errors"

// Repository-level errors
var (
	ErrPostNotFound = errors.New("post not found")

	// ErrAuthorNotFound means the author_id on a create or update does
	// not reference a live user. No write happens when it is returned.
	ErrAuthorNotFound = errors.New("author not found")
)

// Service-level errors
var (
	ErrEmptyUpdate = errors.New("update contains no fields")
)
