package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/tenderidx/ai/mock"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
	"github.com/poiesic/tenderidx/storage/badger"
	"github.com/poiesic/tenderidx/storage/sqlite"
)

type backfillFixture struct {
	indexRepo  storage.IndexRepository
	vectorRepo storage.VectorRepository
	embedder   *mock.MockEmbedder
	progress   *bytes.Buffer
}

func newBackfillFixture(t *testing.T) *backfillFixture {
	t.Helper()

	indexRepo, err := sqlite.NewIndexRepository(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = indexRepo.Close() })

	vectorRepo, backend, err := badger.NewMemoryVectorRepository()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	return &backfillFixture{
		indexRepo:  indexRepo,
		vectorRepo: vectorRepo,
		embedder:   mock.NewMockEmbedder(),
		progress:   &bytes.Buffer{},
	}
}

func (f *backfillFixture) seed(t *testing.T, folderName, title string) {
	t.Helper()
	err := f.indexRepo.UpsertEntry(context.Background(), &core.ProposalIndexEntry{
		Id:         core.IDFromFolder(folderName),
		FolderName: folderName,
		Title:      title,
		FileCount:  1,
		IndexedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (f *backfillFixture) backfiller(t *testing.T, config *Config) *Backfiller {
	t.Helper()
	b, err := NewBackfiller(f.indexRepo, f.vectorRepo, f.embedder, config, f.progress)
	require.NoError(t, err)
	return b
}

func TestNewBackfiller(t *testing.T) {
	f := newBackfillFixture(t)

	t.Run("requires an index repository", func(t *testing.T) {
		_, err := NewBackfiller(nil, f.vectorRepo, f.embedder, nil, nil)
		assert.ErrorIs(t, err, ErrIndexRepositoryRequired)
	})

	t.Run("requires a vector repository", func(t *testing.T) {
		_, err := NewBackfiller(f.indexRepo, nil, f.embedder, nil, nil)
		assert.ErrorIs(t, err, ErrVectorRepositoryRequired)
	})

	t.Run("requires an embedder", func(t *testing.T) {
		_, err := NewBackfiller(f.indexRepo, f.vectorRepo, nil, nil, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("nil config and progress get defaults", func(t *testing.T) {
		b, err := NewBackfiller(f.indexRepo, f.vectorRepo, f.embedder, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, b)
	})
}

func TestBackfiller_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds every indexed proposal", func(t *testing.T) {
		f := newBackfillFixture(t)
		f.seed(t, "tender_001", "Fiber Rollout")
		f.seed(t, "tender_002", "Data Center Build")
		f.seed(t, "tender_003", "Core Network Upgrade")

		result, err := f.backfiller(t, nil).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 3, result.Embedded)
		assert.Empty(t, result.Failed)

		// Stored vectors are queryable.
		query, err := f.embedder.EmbedText(ctx, "Fiber Rollout")
		require.NoError(t, err)
		hits, err := f.vectorRepo.FindNearest(ctx, query, 3)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("empty index is a no-op", func(t *testing.T) {
		f := newBackfillFixture(t)

		result, err := f.backfiller(t, nil).Run(ctx)
		require.NoError(t, err)

		assert.Zero(t, result.Total)
		assert.Zero(t, result.Embedded)
		assert.Contains(t, f.progress.String(), "No indexed proposals")
		assert.Zero(t, f.embedder.CallCount())
	})

	t.Run("transient embedding failure is retried", func(t *testing.T) {
		f := newBackfillFixture(t)
		f.seed(t, "tender_001", "Fiber Rollout")

		attempts := 0
		f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("connection reset")
			}
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		}

		config := DefaultConfig()
		config.RetryDelay = time.Millisecond
		result, err := f.backfiller(t, config).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, attempts)
		assert.Equal(t, 1, result.Embedded)
		assert.Empty(t, result.Failed)
	})

	t.Run("persistent embedding failure marks the batch failed", func(t *testing.T) {
		f := newBackfillFixture(t)
		f.seed(t, "tender_001", "Fiber Rollout")
		f.seed(t, "tender_002", "Data Center Build")

		f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("model not found")
		}

		config := DefaultConfig()
		config.MaxRetries = 2
		config.RetryDelay = time.Millisecond
		result, err := f.backfiller(t, config).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Total)
		assert.Zero(t, result.Embedded)
		assert.Len(t, result.Failed, 2)
	})

	t.Run("vector store failure marks only the affected proposal", func(t *testing.T) {
		f := newBackfillFixture(t)
		f.seed(t, "tender_001", "Fiber Rollout")
		f.seed(t, "tender_002", "Data Center Build")

		failing := &failingVectorRepository{inner: f.vectorRepo, failFolder: "tender_002"}
		b, err := NewBackfiller(f.indexRepo, failing, f.embedder, nil, f.progress)
		require.NoError(t, err)

		result, err := b.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Embedded)
		assert.Equal(t, []string{"tender_002"}, result.Failed)
	})

	t.Run("respects batch size across multiple batches", func(t *testing.T) {
		f := newBackfillFixture(t)
		for i := 0; i < 5; i++ {
			f.seed(t, fmt.Sprintf("tender_%03d", i), fmt.Sprintf("Proposal %d", i))
		}

		var batchSizes []int
		f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			batchSizes = append(batchSizes, len(texts))
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		}

		config := DefaultConfig()
		config.BatchSize = 2
		result, err := f.backfiller(t, config).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, 5, result.Embedded)
		assert.Equal(t, []int{2, 2, 1}, batchSizes)
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		f := newBackfillFixture(t)
		f.seed(t, "tender_001", "Fiber Rollout")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.backfiller(t, nil).Run(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// failingVectorRepository wraps a real repository and fails upserts for
// one folder name.
type failingVectorRepository struct {
	inner      storage.VectorRepository
	failFolder string
}

func (r *failingVectorRepository) UpsertVector(ctx context.Context, entry *core.VectorEntry) error {
	if entry.FolderName == r.failFolder {
		return errors.New("disk full")
	}
	return r.inner.UpsertVector(ctx, entry)
}

func (r *failingVectorRepository) FindNearest(ctx context.Context, vector []float32, limit int) ([]storage.VectorHit, error) {
	return r.inner.FindNearest(ctx, vector, limit)
}

func (r *failingVectorRepository) Close() error {
	return r.inner.Close()
}
