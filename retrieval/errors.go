package retrieval

import "errors"

var (
	// ErrIndexRepositoryRequired is returned when an index repository is not provided.
	ErrIndexRepositoryRequired = errors.New("index repository required")

	// ErrVectorSearchIncomplete is returned when only one of the vector
	// repository and embedder is provided.
	ErrVectorSearchIncomplete = errors.New("vector repository and embedder must be provided together")

	// ErrEmptyQuery is returned when the search query is blank.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidMode is returned for an unrecognized search mode.
	ErrInvalidMode = errors.New("invalid search mode")
)
