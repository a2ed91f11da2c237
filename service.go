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


package tenderidx

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/tenderidx/ai"
	"github.com/poiesic/tenderidx/ai/openai"
	"github.com/poiesic/tenderidx/config"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/ingestion"
	"github.com/poiesic/tenderidx/parser"
	"github.com/poiesic/tenderidx/reembed"
	"github.com/poiesic/tenderidx/retrieval"
	"github.com/poiesic/tenderidx/storage"
	"github.com/poiesic/tenderidx/storage/badger"
	"github.com/poiesic/tenderidx/storage/sqlite"
)

// Service wires the stores, the AI collaborators, the ingestion
// pipeline, and the retrieval engine into the three public operations.
type Service struct {
	indexRepo     storage.IndexRepository
	vectorRepo    storage.VectorRepository
	vectorBackend *badger.Backend
	provider      ai.Provider
	pipeline      *ingestion.Pipeline
	searcher      *retrieval.Searcher
	logger        *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	provider  ai.Provider
	docParser parser.Parser
	logger    *slog.Logger
}

// WithProvider substitutes the AI provider, bypassing the one built from
// configuration. Intended for tests and embedders-in-process setups.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithDocumentParser substitutes the text-extraction collaborator.
// Default is the local parser.
func WithDocumentParser(p parser.Parser) ServiceOption {
	return func(o *serviceOptions) {
		o.docParser = p
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService builds a Service from configuration. The lexical index is
// always opened; the vector index and embedder are wired only when the
// configuration enables them, and their absence leaves a fully working
// keyword-only service.
func NewService(cfg *config.AppConfig, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	provider := options.provider
	if provider == nil {
		aiConfig := ai.NewConfig(
			ai.WithExtractorHost(cfg.AI.ExtractorHost),
			ai.WithExtractorModel(cfg.AI.ExtractorModel),
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithAPIKey(cfg.AI.APIKey()),
			ai.WithMaxTokens(cfg.AI.MaxTokens),
		)
		if !cfg.EmbeddingEnabled() {
			aiConfig.EmbeddingHost = ""
			aiConfig.EmbeddingModel = ""
		}
		var err error
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			return nil, err
		}
	}

	indexRepo, err := sqlite.NewIndexRepository(cfg.Storage.IndexPath)
	if err != nil {
		provider.Close()
		return nil, err
	}

	s := &Service{
		indexRepo: indexRepo,
		provider:  provider,
		logger:    logger,
	}

	// The vector store is only worth opening when an embedder exists.
	if provider.Embedder() != nil && cfg.Storage.VectorDir != "" {
		backend, err := badger.OpenBackend(cfg.Storage.VectorDir, false)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.vectorBackend = backend

		vectorRepo, err := badger.NewVectorRepository(backend)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.vectorRepo = vectorRepo
	}

	docParser := options.docParser
	if docParser == nil {
		docParser = parser.NewLocal()
	}

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(logger)}
	if s.vectorRepo != nil {
		pipelineOpts = append(pipelineOpts,
			ingestion.WithVectorIndex(s.vectorRepo, provider.Embedder()))
	}
	pipeline, err := ingestion.NewPipeline(indexRepo, docParser, provider.Extractor(),
		cfg.Storage.DataDir, pipelineOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.pipeline = pipeline

	searcherOpts := []retrieval.Option{
		retrieval.WithLogger(logger),
		retrieval.WithWeights(cfg.Search.LexicalWeight, cfg.Search.VectorWeight),
		retrieval.WithDefaultLimit(cfg.Search.DefaultLimit),
	}
	if s.vectorRepo != nil {
		searcherOpts = append(searcherOpts,
			retrieval.WithVectorSearch(s.vectorRepo, provider.Embedder()))
	}
	searcher, err := retrieval.NewSearcher(indexRepo, searcherOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.searcher = searcher

	return s, nil
}

// IndexPastProposal parses, extracts, and indexes one proposal folder.
func (s *Service) IndexPastProposal(ctx context.Context, folderName string) (*ingestion.Result, error) {
	return s.pipeline.IndexFolder(ctx, folderName)
}

// SearchPastProposals runs a hybrid search over the index.
func (s *Service) SearchPastProposals(ctx context.Context, req retrieval.Request) (*retrieval.Response, error) {
	return s.searcher.Search(ctx, req)
}

// Listing is the aggregate view over every indexed proposal.
type Listing struct {
	TotalCount      int
	BySector        map[string]int
	ByCountry       map[string]int
	TotalValue      float64
	VectorAvailable bool
	Proposals       []*core.ProposalIndexEntry
}

// ListIndexedProposals returns every entry, most recently indexed first,
// with counts by sector and country and the summed total price. Sector
// and country buckets use the stored strings as-is.
func (s *Service) ListIndexedProposals(ctx context.Context) (*Listing, error) {
	entries, err := s.indexRepo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		TotalCount:      len(entries),
		BySector:        make(map[string]int),
		ByCountry:       make(map[string]int),
		VectorAvailable: s.searcher.VectorAvailable(),
		Proposals:       entries,
	}
	for _, entry := range entries {
		listing.BySector[entry.Sector]++
		listing.ByCountry[entry.Country]++
		listing.TotalValue += entry.TotalPrice
	}
	return listing, nil
}

// BackfillVectors recomputes embedding vectors for every indexed
// proposal. It fails when the service has no vector capability; use it
// after enabling embeddings or after switching embedding models.
// Progress output goes to progress, which may be nil.
func (s *Service) BackfillVectors(ctx context.Context, cfg *reembed.Config, progress io.Writer) (*reembed.Result, error) {
	var embedder ai.Embedder
	if s.provider != nil {
		embedder = s.provider.Embedder()
	}
	backfiller, err := reembed.NewBackfiller(s.indexRepo, s.vectorRepo, embedder, cfg, progress)
	if err != nil {
		return nil, err
	}
	return backfiller.Run(ctx)
}

// VectorAvailable reports whether semantic indexing and search are wired.
func (s *Service) VectorAvailable() bool {
	return s.searcher != nil && s.searcher.VectorAvailable()
}

// Close releases the pipeline, both stores, and the AI provider.
func (s *Service) Close() error {
	if s.pipeline != nil {
		s.pipeline.Release()
	}

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if s.vectorRepo != nil {
		if err := s.vectorRepo.Close(); err != nil {
			s.logger.Error("error closing vector repository", "err", err)
		}
	}
	if s.vectorBackend != nil {
		if err := s.vectorBackend.Close(); err != nil {
			s.logger.Error("error closing vector backend", "err", err)
			return err
		}
	}

	if err := s.indexRepo.Close(); err != nil {
		s.logger.Error("error closing index repository", "err", err)
		return err
	}
	return nil
}
