package registry

import "errors"

var (
	// ErrNotFound marks lookups by id, name, or path that matched nothing.
	// Callers distinguish it from store failures with errors.Is.
	ErrNotFound = errors.New("registry: not found")

	ErrNameRequired     = errors.New("registry: skill name is required")
	ErrPathRequired     = errors.New("registry: document path is required")
	ErrVersionRequired  = errors.New("registry: version string is required")
	ErrInvalidDocType   = errors.New("registry: invalid document type")
	ErrInvalidRelevance = errors.New("registry: relevance must be in [0, 1]")
)
