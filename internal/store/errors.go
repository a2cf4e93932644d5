package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers entities that are absent or not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrTitleExists signals a (owner, title) uniqueness conflict.
	ErrTitleExists = errors.New("title already exists")

	// ErrUsernameExists signals a username uniqueness conflict.
	ErrUsernameExists = errors.New("username already exists")

	// ErrForbidden signals a mutation attempted by a non-owner.
	ErrForbidden = errors.New("forbidden")
)

// InvalidSplitIndexError reports a split at a token boundary outside
// (0, max_words).
type InvalidSplitIndexError struct {
	WordIndex int
	MaxWords  int
}

func (e *InvalidSplitIndexError) Error() string {
	return fmt.Sprintf("invalid split index %d: must be between 1 and %d", e.WordIndex, e.MaxWords-1)
}

// CombineError reports an invalid combine request.
type CombineError struct {
	Reason string
}

func (e *CombineError) Error() string {
	return "cannot combine chunks: " + e.Reason
}

// UpdateError reports a chunk patch that could not be applied.
type UpdateError struct {
	Reason string
}

func (e *UpdateError) Error() string {
	return "cannot update chunk: " + e.Reason
}

// HasDependenciesError blocks source document deletion while metatexts
// still reference it.
type HasDependenciesError struct {
	Count int64
}

func (e *HasDependenciesError) Error() string {
	return fmt.Sprintf("document has %d dependent metatext(s)", e.Count)
}
