// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
// Nearest-neighbor search is a brute-force scan over all stored vectors,
// which is appropriate for the hundreds-of-proposals scale this index
// serves.
type VectorRepository struct {
	backend *Backend

	mu        sync.Mutex
	dimension int // 0 until the first vector is stored
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository. The expected
// embedding dimension is learned from the first vector stored or, for an
// existing database, from the first vector found on open.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}

	r := &VectorRepository{backend: backend}

	err := backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		iter.Rewind()
		if !iter.Valid() {
			return nil
		}
		return iter.Item().Value(func(val []byte) error {
			entry, err := storage.UnmarshalVectorEntry(val)
			if err != nil {
				return err
			}
			r.dimension = len(entry.Embedding)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// UpsertVector inserts or replaces the embedding for a folder.
func (r *VectorRepository) UpsertVector(ctx context.Context, entry *core.VectorEntry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.FolderName == "" {
		return core.ErrEmptyFolderName
	}
	if len(entry.Embedding) == 0 {
		return fmt.Errorf("%w: empty embedding", core.ErrDimensionMismatch)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.dimension == 0 {
		r.dimension = len(entry.Embedding)
	} else if len(entry.Embedding) != r.dimension {
		r.mu.Unlock()
		return fmt.Errorf("%w: got %d, index holds %d",
			core.ErrDimensionMismatch, len(entry.Embedding), r.dimension)
	}
	r.mu.Unlock()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeVectorKey(entry.FolderName)
		if err := tx.Set(key, storage.MarshalVectorEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindNearest returns up to limit stored vectors ordered by cosine
// distance to the query vector, closest first.
func (r *VectorRepository) FindNearest(ctx context.Context, vector []float32, limit int) ([]storage.VectorHit, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hits []storage.VectorHit

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Embedding) == 0 {
				continue
			}

			distance, ok := cosineDistance(vector, entry.Embedding)
			if !ok {
				continue
			}
			hits = append(hits, storage.VectorHit{
				FolderName: entry.FolderName,
				Distance:   distance,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by distance ascending, folder name as a stable tie-break
	slices.SortFunc(hits, func(a, b storage.VectorHit) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		if a.FolderName < b.FolderName {
			return -1
		}
		if a.FolderName > b.FolderName {
			return 1
		}
		return 0
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *VectorRepository) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity of two vectors.
// Returns ok=false when either vector has zero magnitude or the
// dimensions differ.
func cosineDistance(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), true
}
