package ingestion

import "errors"

var (
	// ErrIndexRepositoryRequired is returned when an index repository is not provided.
	ErrIndexRepositoryRequired = errors.New("index repository required")

	// ErrParserRequired is returned when a document parser is not provided.
	ErrParserRequired = errors.New("document parser required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrRootDirRequired is returned when the proposals root directory is not provided.
	ErrRootDirRequired = errors.New("root directory required")

	// ErrVectorIndexIncomplete is returned when only one of the vector
	// repository and embedder is provided.
	ErrVectorIndexIncomplete = errors.New("vector repository and embedder must be provided together")
)
