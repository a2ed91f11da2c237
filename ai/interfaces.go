package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Extractor runs structured extraction over the combined text of a
// proposal folder. Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// ExtractProposal sends the combined, budgeted document text plus the
	// file name list to the model with an instruction to return the fixed
	// proposal metadata JSON schema. It returns the raw model response;
	// the caller owns parsing and the degraded-entry fallback, so a
	// syntactically broken response is not an error here.
	ExtractProposal(ctx context.Context, folderName string, fileNames []string, combinedText string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Extractor instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service, or nil when embedding
	// is not configured. Callers treat a nil embedder as "no vector
	// capability", never as an error.
	Embedder() Embedder

	// Extractor returns the structured extraction service.
	// The returned Extractor is safe for concurrent use.
	Extractor() Extractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
