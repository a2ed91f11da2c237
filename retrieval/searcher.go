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
	"log/slog"
	"strings"

	"github.com/poiesic/tenderidx/ai"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
)

// Mode selects which retrieval paths a search runs.
type Mode string

const (
	// ModeAuto picks hybrid when vector capability exists, keyword otherwise.
	ModeAuto Mode = "auto"
	// ModeKeyword runs the lexical path only. Supports quoted phrases,
	// prefix (term*), and AND/OR boolean syntax.
	ModeKeyword Mode = "keyword"
	// ModeSemantic runs the vector path only.
	ModeSemantic Mode = "semantic"
	// ModeHybrid runs both paths and merges with Reciprocal Rank Fusion.
	ModeHybrid Mode = "hybrid"
)

// DefaultLimit is the result limit applied when a request leaves it unset.
const DefaultLimit = 5

// Request describes one search.
type Request struct {
	// Query is the search text. Required.
	Query string

	// Sector optionally restricts results to one sector
	// (case-insensitive exact match).
	Sector string

	// Limit bounds the result count. Defaults to DefaultLimit.
	Limit int

	// Mode is the requested search mode. Defaults to ModeAuto.
	Mode Mode
}

// Match is one ranked search result. FusionScore is set only when RRF
// ran; LexicalRank and Distance are set when the respective path found
// the entry, so callers can tell how a result was found.
type Match struct {
	Entry       *core.ProposalIndexEntry
	FusionScore *float64
	LexicalRank *int
	Distance    *float64
}

// Response is the outcome of one search.
type Response struct {
	// Query echoes the request.
	Query string

	// Sector echoes the request's sector filter.
	Sector string

	// Mode is the resolved mode the search actually ran with.
	Mode Mode

	// VectorAvailable reports whether semantic search was possible.
	VectorAvailable bool

	// Matches is the ranked result list, best first.
	Matches []*Match
}

// Searcher runs hybrid searches over the proposal index.
type Searcher struct {
	indexRepository  storage.IndexRepository
	vectorRepository storage.VectorRepository
	embedder         ai.Embedder
	lexicalWeight    float64
	vectorWeight     float64
	defaultLimit     int
	logger           *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithVectorSearch enables the semantic path. Both the repository and
// the embedder are required.
func WithVectorSearch(repo storage.VectorRepository, embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		if repo == nil || embedder == nil {
			return ErrVectorSearchIncomplete
		}
		s.vectorRepository = repo
		s.embedder = embedder
		return nil
	}
}

// WithWeights overrides the per-list fusion weights. Defaults are 1.0
// for both lists.
func WithWeights(lexical, vector float64) Option {
	return func(s *Searcher) error {
		s.lexicalWeight = lexical
		s.vectorWeight = vector
		return nil
	}
}

// WithDefaultLimit overrides the limit applied to requests that leave
// Limit unset. Non-positive values keep DefaultLimit.
func WithDefaultLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit > 0 {
			s.defaultLimit = limit
		}
		return nil
	}
}

// NewSearcher creates a Searcher over the given index.
func NewSearcher(indexRepository storage.IndexRepository, opts ...Option) (*Searcher, error) {
	if indexRepository == nil {
		return nil, ErrIndexRepositoryRequired
	}

	s := &Searcher{
		indexRepository: indexRepository,
		lexicalWeight:   1.0,
		vectorWeight:    1.0,
		defaultLimit:    DefaultLimit,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "retrieval")

	return s, nil
}

// VectorAvailable reports whether the semantic path is configured.
func (s *Searcher) VectorAvailable() bool {
	return s.vectorRepository != nil && s.embedder != nil
}

// Search runs the request and returns a ranked result list. Sub-query
// failures are logged and treated as empty result sets; only malformed
// requests fail.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		return nil, err
	}

	var lexical []*core.ProposalIndexEntry
	if mode == ModeKeyword || mode == ModeHybrid {
		lexical, err = s.indexRepository.SearchEntries(ctx, req.Query, req.Sector, limit*2)
		if err != nil {
			s.logger.Warn("lexical search failed", "query", req.Query, "err", err)
			lexical = nil
		}
	}

	var vector []vectorCandidate
	if mode == ModeSemantic || mode == ModeHybrid {
		vector = s.vectorSearch(ctx, req.Query, req.Sector, limit*2)
	}

	var matches []*Match
	switch {
	case mode == ModeHybrid && len(lexical) > 0 && len(vector) > 0:
		matches = fuse(lexical, vector, s.lexicalWeight, s.vectorWeight)
	case mode == ModeSemantic && len(vector) > 0:
		matches = vectorMatches(vector)
	case mode == ModeHybrid && len(vector) > 0 && len(lexical) == 0:
		matches = vectorMatches(vector)
	default:
		matches = lexicalMatches(lexical)
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &Response{
		Query:           req.Query,
		Sector:          req.Sector,
		Mode:            mode,
		VectorAvailable: s.VectorAvailable(),
		Matches:         matches,
	}, nil
}

// resolveMode maps the requested mode onto what the configuration can
// actually run. Semantic and hybrid degrade to keyword, never error,
// when the vector path is absent.
func (s *Searcher) resolveMode(requested Mode) (Mode, error) {
	if requested == "" {
		requested = ModeAuto
	}

	hasVec := s.VectorAvailable()
	switch requested {
	case ModeAuto:
		if hasVec {
			return ModeHybrid, nil
		}
		return ModeKeyword, nil
	case ModeSemantic, ModeHybrid:
		if !hasVec {
			s.logger.Info("vector search unavailable, falling back to keyword mode")
			return ModeKeyword, nil
		}
		return requested, nil
	case ModeKeyword:
		return ModeKeyword, nil
	default:
		return "", ErrInvalidMode
	}
}

// vectorSearch embeds the query, finds the nearest stored vectors, loads
// their entries, and applies the sector post-filter. Any failure returns
// an empty candidate list.
func (s *Searcher) vectorSearch(ctx context.Context, query, sector string, limit int) []vectorCandidate {
	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed", "err", err)
		return nil
	}

	hits, err := s.vectorRepository.FindNearest(ctx, queryVec, limit)
	if err != nil {
		s.logger.Warn("vector search failed", "err", err)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}

	folderNames := make([]string, len(hits))
	distances := make(map[string]float64, len(hits))
	for i, hit := range hits {
		folderNames[i] = hit.FolderName
		distances[hit.FolderName] = hit.Distance
	}

	entries, err := s.indexRepository.GetEntries(ctx, folderNames...)
	if err != nil {
		s.logger.Warn("could not load entries for vector hits", "err", err)
		return nil
	}

	candidates := make([]vectorCandidate, 0, len(entries))
	for _, entry := range entries {
		if sector != "" && !strings.EqualFold(entry.Sector, sector) {
			continue
		}
		candidates = append(candidates, vectorCandidate{
			entry:    entry,
			distance: distances[entry.FolderName],
		})
	}
	return candidates
}

func lexicalMatches(entries []*core.ProposalIndexEntry) []*Match {
	matches := make([]*Match, 0, len(entries))
	for rank, entry := range entries {
		r := rank
		matches = append(matches, &Match{Entry: entry, LexicalRank: &r})
	}
	return matches
}

func vectorMatches(candidates []vectorCandidate) []*Match {
	matches := make([]*Match, 0, len(candidates))
	for _, c := range candidates {
		d := c.distance
		matches = append(matches, &Match{Entry: c.entry, Distance: &d})
	}
	return matches
}
