package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoData        = errors.New("no data rows")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrEmbedding     = errors.New("embedding failed")
)
