package core

import "errors"

// Common errors.
var (
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrNotFound         = errors.New("document not found")
	ErrInvalidPath      = errors.New("invalid collection path")
	ErrEmptyID          = errors.New("document ID cannot be empty")
	ErrWatchUnsupported = errors.New("repository does not support watching")
)
