package retrieval

import (
	"sort"

	"github.com/poiesic/tenderidx/core"
)

// rrfK is the standard Reciprocal Rank Fusion damping constant.
const rrfK = 60

// vectorCandidate pairs an entry with its raw cosine distance.
type vectorCandidate struct {
	entry    *core.ProposalIndexEntry
	distance float64
}

// fuse merges the lexical and vector candidate lists with Reciprocal
// Rank Fusion: score = Σ weight / (K + rank + 1) over the lists an entry
// appears in, ranks 0-based. Results are ordered by score descending;
// ties keep first-encounter order, lexical list first.
func fuse(lexical []*core.ProposalIndexEntry, vector []vectorCandidate, lexicalWeight, vectorWeight float64) []*Match {
	matches := make(map[string]*Match)
	var order []string

	for rank, entry := range lexical {
		score := lexicalWeight / float64(rrfK+rank+1)
		r := rank
		matches[entry.FolderName] = &Match{
			Entry:       entry,
			FusionScore: &score,
			LexicalRank: &r,
		}
		order = append(order, entry.FolderName)
	}

	for rank, candidate := range vector {
		name := candidate.entry.FolderName
		d := candidate.distance
		term := vectorWeight / float64(rrfK+rank+1)

		if m, ok := matches[name]; ok {
			*m.FusionScore += term
			m.Distance = &d
			continue
		}

		score := term
		matches[name] = &Match{
			Entry:       candidate.entry,
			FusionScore: &score,
			Distance:    &d,
		}
		order = append(order, name)
	}

	fused := make([]*Match, 0, len(order))
	for _, name := range order {
		fused = append(fused, matches[name])
	}

	// Stable sort keeps first-encounter order on equal scores
	sort.SliceStable(fused, func(i, j int) bool {
		return *fused[i].FusionScore > *fused[j].FusionScore
	})

	return fused
}
