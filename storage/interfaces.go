package storage

import (
	"context"

	"github.com/poiesic/tenderidx/core"
)

// IndexRepository provides operations on the lexical proposal index.
// Implementations must be thread-safe and support concurrent access.
type IndexRepository interface {
	// UpsertEntry inserts or fully replaces the entry keyed by its folder
	// name, including its lexical search projection. Partial updates are
	// not supported.
	UpsertEntry(ctx context.Context, entry *core.ProposalIndexEntry) error

	// GetEntry retrieves a single entry by folder name.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, folderName string) (*core.ProposalIndexEntry, error)

	// GetEntries retrieves multiple entries by folder name.
	// Returns only the entries that exist (no error for missing entries).
	GetEntries(ctx context.Context, folderNames ...string) ([]*core.ProposalIndexEntry, error)

	// SearchEntries runs a full-text query over the index and returns up
	// to limit entries in relevance order. A non-empty sector restricts
	// results to that sector. A query with no matches returns an empty
	// slice, not an error.
	SearchEntries(ctx context.Context, query, sector string, limit int) ([]*core.ProposalIndexEntry, error)

	// ListEntries returns every indexed entry, most recently indexed first.
	ListEntries(ctx context.Context) ([]*core.ProposalIndexEntry, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorHit is a single nearest-neighbor result.
type VectorHit struct {
	// FolderName keys back into the lexical index.
	FolderName string

	// Distance is the cosine distance to the query vector (lower is closer).
	Distance float64
}

// VectorRepository provides operations on the semantic vector index.
// Implementations must be thread-safe and support concurrent access.
type VectorRepository interface {
	// UpsertVector inserts or replaces the embedding keyed by the entry's
	// folder name. Returns core.ErrDimensionMismatch if the embedding's
	// dimension differs from vectors already stored.
	UpsertVector(ctx context.Context, entry *core.VectorEntry) error

	// FindNearest returns up to limit stored vectors ordered by cosine
	// distance to the query vector, closest first. An empty index returns
	// an empty slice.
	FindNearest(ctx context.Context, vector []float32, limit int) ([]VectorHit, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
