package retrieval

import (
	"testing"

	"github.com/poiesic/tenderidx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(folderName string) *core.ProposalIndexEntry {
	return &core.ProposalIndexEntry{
		Id:         core.IDFromFolder(folderName),
		FolderName: folderName,
		Title:      folderName,
	}
}

func TestFuse(t *testing.T) {
	t.Run("lexical rank zero only", func(t *testing.T) {
		fused := fuse([]*core.ProposalIndexEntry{entry("a")}, nil, 1.0, 1.0)
		require.Len(t, fused, 1)

		require.NotNil(t, fused[0].FusionScore)
		assert.InDelta(t, 1.0/61.0, *fused[0].FusionScore, 1e-9)
		require.NotNil(t, fused[0].LexicalRank)
		assert.Equal(t, 0, *fused[0].LexicalRank)
		assert.Nil(t, fused[0].Distance)
	})

	t.Run("present at rank zero in both lists", func(t *testing.T) {
		fused := fuse(
			[]*core.ProposalIndexEntry{entry("a")},
			[]vectorCandidate{{entry: entry("a"), distance: 0.1}},
			1.0, 1.0,
		)
		require.Len(t, fused, 1)

		assert.InDelta(t, 2.0/61.0, *fused[0].FusionScore, 1e-9)
		assert.Equal(t, 0, *fused[0].LexicalRank)
		require.NotNil(t, fused[0].Distance)
		assert.InDelta(t, 0.1, *fused[0].Distance, 1e-9)
	})

	t.Run("entry in both lists outranks single-list entries", func(t *testing.T) {
		fused := fuse(
			[]*core.ProposalIndexEntry{entry("only_lexical"), entry("both")},
			[]vectorCandidate{
				{entry: entry("both"), distance: 0.2},
				{entry: entry("only_vector"), distance: 0.4},
			},
			1.0, 1.0,
		)
		require.Len(t, fused, 3)

		// both: 1/62 + 1/61 > only_lexical: 1/61 > only_vector: 1/62
		assert.Equal(t, "both", fused[0].Entry.FolderName)
		assert.InDelta(t, 1.0/62.0+1.0/61.0, *fused[0].FusionScore, 1e-9)
		assert.Equal(t, "only_lexical", fused[1].Entry.FolderName)
		assert.Equal(t, "only_vector", fused[2].Entry.FolderName)
	})

	t.Run("ties keep lexical-first encounter order", func(t *testing.T) {
		// Same rank in separate lists gives identical scores
		fused := fuse(
			[]*core.ProposalIndexEntry{entry("lex")},
			[]vectorCandidate{{entry: entry("vec"), distance: 0.3}},
			1.0, 1.0,
		)
		require.Len(t, fused, 2)
		assert.Equal(t, "lex", fused[0].Entry.FolderName)
		assert.Equal(t, "vec", fused[1].Entry.FolderName)
	})

	t.Run("weights scale list contributions", func(t *testing.T) {
		fused := fuse(
			[]*core.ProposalIndexEntry{entry("lex")},
			[]vectorCandidate{{entry: entry("vec"), distance: 0.3}},
			1.0, 3.0,
		)
		require.Len(t, fused, 2)
		assert.Equal(t, "vec", fused[0].Entry.FolderName)
		assert.InDelta(t, 3.0/61.0, *fused[0].FusionScore, 1e-9)
	})
}
