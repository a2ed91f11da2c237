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


package retrieval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	aimock "github.com/poiesic/tenderidx/ai/mock"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
	storagebadger "github.com/poiesic/tenderidx/storage/badger"
	storagesqlite "github.com/poiesic/tenderidx/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searcherFixture struct {
	indexRepo  *storagesqlite.IndexRepository
	vectorRepo storage.VectorRepository
	embedder   *aimock.MockEmbedder
}

func newSearcherFixture(t *testing.T) *searcherFixture {
	t.Helper()

	indexRepo, err := storagesqlite.NewIndexRepository(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { indexRepo.Close() })

	vectorRepo, backend, err := storagebadger.NewMemoryVectorRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectorRepo.Close()
		backend.Close()
	})

	return &searcherFixture{
		indexRepo:  indexRepo,
		vectorRepo: vectorRepo,
		embedder:   aimock.NewMockEmbedder(),
	}
}

func (f *searcherFixture) seed(t *testing.T, folderName, title, sector string, embedding []float32) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.indexRepo.UpsertEntry(ctx, &core.ProposalIndexEntry{
		Id:         core.IDFromFolder(folderName),
		FolderName: folderName,
		Title:      title,
		Sector:     sector,
		IndexedAt:  time.Now().UTC(),
	}))
	if embedding != nil {
		require.NoError(t, f.vectorRepo.UpsertVector(ctx, &core.VectorEntry{
			FolderName: folderName,
			Embedding:  embedding,
		}))
	}
}

func (f *searcherFixture) hybridSearcher(t *testing.T) *Searcher {
	t.Helper()
	s, err := NewSearcher(f.indexRepo, WithVectorSearch(f.vectorRepo, f.embedder))
	require.NoError(t, err)
	return s
}

func TestNewSearcher(t *testing.T) {
	f := newSearcherFixture(t)

	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.False(t, s.VectorAvailable())
	})

	t.Run("with vector search", func(t *testing.T) {
		s := f.hybridSearcher(t)
		assert.True(t, s.VectorAvailable())
	})

	t.Run("nil index repository", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrIndexRepositoryRequired, err)
	})

	t.Run("incomplete vector option", func(t *testing.T) {
		_, err := NewSearcher(f.indexRepo, WithVectorSearch(f.vectorRepo, nil))
		assert.ErrorIs(t, err, ErrVectorSearchIncomplete)
	})
}

func TestSearch_ModeResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("auto without vectors resolves to keyword", func(t *testing.T) {
		f := newSearcherFixture(t)
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)

		resp, err := s.Search(ctx, Request{Query: "fiber"})
		require.NoError(t, err)
		assert.Equal(t, ModeKeyword, resp.Mode)
		assert.False(t, resp.VectorAvailable)
	})

	t.Run("auto with vectors resolves to hybrid", func(t *testing.T) {
		f := newSearcherFixture(t)
		s := f.hybridSearcher(t)

		resp, err := s.Search(ctx, Request{Query: "fiber"})
		require.NoError(t, err)
		assert.Equal(t, ModeHybrid, resp.Mode)
		assert.True(t, resp.VectorAvailable)
	})

	t.Run("hybrid without vectors degrades silently and skips the vector path", func(t *testing.T) {
		f := newSearcherFixture(t)
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)

		resp, err := s.Search(ctx, Request{Query: "fiber", Mode: ModeHybrid})
		require.NoError(t, err)
		assert.Equal(t, ModeKeyword, resp.Mode)
		assert.Zero(t, f.embedder.CallCount())
	})

	t.Run("semantic without vectors degrades to keyword", func(t *testing.T) {
		f := newSearcherFixture(t)
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)

		resp, err := s.Search(ctx, Request{Query: "fiber", Mode: ModeSemantic})
		require.NoError(t, err)
		assert.Equal(t, ModeKeyword, resp.Mode)
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		f := newSearcherFixture(t)
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)

		_, err = s.Search(ctx, Request{Query: "fiber", Mode: Mode("fuzzy")})
		assert.ErrorIs(t, err, ErrInvalidMode)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		f := newSearcherFixture(t)
		s, err := NewSearcher(f.indexRepo)
		require.NoError(t, err)

		_, err = s.Search(ctx, Request{Query: "   "})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestSearch_Keyword(t *testing.T) {
	ctx := context.Background()
	f := newSearcherFixture(t)
	f.seed(t, "tender_042", "Core Network Upgrade", "telecom", nil)
	f.seed(t, "tender_018", "Datacenter Build", "it", nil)

	s, err := NewSearcher(f.indexRepo)
	require.NoError(t, err)

	t.Run("returns lexical ranks without fusion scores", func(t *testing.T) {
		resp, err := s.Search(ctx, Request{Query: "network upgrade", Mode: ModeKeyword})
		require.NoError(t, err)
		require.Len(t, resp.Matches, 1)

		m := resp.Matches[0]
		assert.Equal(t, "tender_042", m.Entry.FolderName)
		require.NotNil(t, m.LexicalRank)
		assert.Equal(t, 0, *m.LexicalRank)
		assert.Nil(t, m.FusionScore)
		assert.Nil(t, m.Distance)
	})

	t.Run("zero matches is not an error", func(t *testing.T) {
		resp, err := s.Search(ctx, Request{Query: "blockchain", Mode: ModeKeyword})
		require.NoError(t, err)
		assert.Empty(t, resp.Matches)
	})

	t.Run("malformed query degrades to empty results", func(t *testing.T) {
		resp, err := s.Search(ctx, Request{Query: "AND AND", Mode: ModeKeyword})
		require.NoError(t, err)
		assert.Empty(t, resp.Matches)
	})
}

func TestSearch_SemanticAndHybrid(t *testing.T) {
	ctx := context.Background()
	f := newSearcherFixture(t)

	// Embeddings controlled per text so vector ranks are deterministic
	vectors := map[string][]float32{
		"fiber rollout":        {1, 0, 0}, // query
		"near the query":       {1, 0.1, 0},
		"far from the query":   {0, 1, 0},
		"telecom but furthest": {0, 0, 1},
	}
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 0, 0.5}, nil
	}

	f.seed(t, "tender_near", "near match", "telecom", vectors["near the query"])
	f.seed(t, "tender_far", "far fiber rollout match", "it", vectors["far from the query"])
	f.seed(t, "tender_furthest", "unrelated", "telecom", vectors["telecom but furthest"])

	s := f.hybridSearcher(t)

	t.Run("semantic orders by distance", func(t *testing.T) {
		resp, err := s.Search(ctx, Request{Query: "fiber rollout", Mode: ModeSemantic})
		require.NoError(t, err)
		require.Len(t, resp.Matches, 3)

		assert.Equal(t, "tender_near", resp.Matches[0].Entry.FolderName)
		require.NotNil(t, resp.Matches[0].Distance)
		assert.Nil(t, resp.Matches[0].FusionScore)
		assert.Less(t, *resp.Matches[0].Distance, *resp.Matches[1].Distance)
	})

	t.Run("sector post-filter narrows vector results", func(t *testing.T) {
		resp, err := s.Search(ctx, Request{Query: "fiber rollout", Mode: ModeSemantic, Sector: "Telecom"})
		require.NoError(t, err)
		require.Len(t, resp.Matches, 2)
		for _, m := range resp.Matches {
			assert.Equal(t, "telecom", m.Entry.Sector)
		}
	})

	t.Run("hybrid fuses both paths", func(t *testing.T) {
		// Lexically only tender_far matches the query; vector path ranks
		// tender_near first. Fusion must score tender_far from both lists.
		resp, err := s.Search(ctx, Request{Query: "fiber rollout", Mode: ModeHybrid})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Matches)
		assert.Equal(t, ModeHybrid, resp.Mode)

		for _, m := range resp.Matches {
			require.NotNil(t, m.FusionScore)
		}
	})

	t.Run("limit bounds every mode", func(t *testing.T) {
		for _, mode := range []Mode{ModeKeyword, ModeSemantic, ModeHybrid} {
			resp, err := s.Search(ctx, Request{Query: "fiber rollout", Mode: mode, Limit: 1})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(resp.Matches), 1, string(mode))
		}
	})

	t.Run("embedding failure degrades hybrid to lexical results", func(t *testing.T) {
		failing := aimock.NewMockEmbedder()
		failing.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, assert.AnError
		}
		degraded, err := NewSearcher(f.indexRepo, WithVectorSearch(f.vectorRepo, failing))
		require.NoError(t, err)

		resp, err := degraded.Search(ctx, Request{Query: "fiber", Mode: ModeHybrid})
		require.NoError(t, err)
		assert.Equal(t, ModeHybrid, resp.Mode)
		for _, m := range resp.Matches {
			assert.Nil(t, m.FusionScore)
			assert.NotNil(t, m.LexicalRank)
		}
	})
}

func TestSearcher_DefaultLimit(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.seed(t, "tender_a", "fiber backbone north", "telecom", nil)
	f.seed(t, "tender_b", "fiber backbone south", "telecom", nil)
	f.seed(t, "tender_c", "fiber backbone east", "telecom", nil)

	t.Run("configured default bounds unset request limits", func(t *testing.T) {
		s, err := NewSearcher(f.indexRepo, WithDefaultLimit(2))
		require.NoError(t, err)

		resp, err := s.Search(ctx, Request{Query: "fiber", Mode: ModeKeyword})
		require.NoError(t, err)
		assert.Len(t, resp.Matches, 2)
	})

	t.Run("explicit request limit wins", func(t *testing.T) {
		s, err := NewSearcher(f.indexRepo, WithDefaultLimit(2))
		require.NoError(t, err)

		resp, err := s.Search(ctx, Request{Query: "fiber", Mode: ModeKeyword, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, resp.Matches, 3)
	})

	t.Run("non-positive option keeps the package default", func(t *testing.T) {
		s, err := NewSearcher(f.indexRepo, WithDefaultLimit(0))
		require.NoError(t, err)
		assert.Equal(t, DefaultLimit, s.defaultLimit)
	})
}
