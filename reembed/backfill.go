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


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/tenderidx/ai"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
)

// Config holds tuning knobs for the backfill operation.
type Config struct {
	// BatchSize is the number of proposals embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of proposals)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a failed embedding batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Result summarizes a completed backfill run.
type Result struct {
	// Total is the number of indexed proposals considered.
	Total int

	// Embedded is the number of vectors successfully stored.
	Embedded int

	// Failed lists the folder names whose vectors could not be stored.
	Failed []string
}

// Backfiller recomputes and stores vectors for every indexed proposal.
type Backfiller struct {
	indexRepository  storage.IndexRepository
	vectorRepository storage.VectorRepository
	embedder         ai.Embedder
	config           *Config
	progress         io.Writer
	logger           *slog.Logger
}

// NewBackfiller creates a backfiller over the given repositories.
// progress is where human-readable progress output is written; pass
// nil to discard it.
func NewBackfiller(indexRepository storage.IndexRepository, vectorRepository storage.VectorRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Backfiller, error) {
	if indexRepository == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if vectorRepository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Backfiller{
		indexRepository:  indexRepository,
		vectorRepository: vectorRepository,
		embedder:         embedder,
		config:           config,
		progress:         progress,
		logger:           slog.Default().With("component", "reembed"),
	}, nil
}

// Run embeds every indexed proposal and upserts the resulting vectors.
// A proposal whose embedding or storage ultimately fails is recorded in
// the result and skipped; only repository listing errors and context
// cancellation abort the run.
func (b *Backfiller) Run(ctx context.Context) (*Result, error) {
	entries, err := b.indexRepository.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed proposals: %w", err)
	}

	result := &Result{Total: len(entries)}
	if len(entries) == 0 {
		fmt.Fprintf(b.progress, "No indexed proposals found (0 entries)\n")
		return result, nil
	}

	batchSize := b.config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultConfig().BatchSize
	}

	fmt.Fprintf(b.progress, "Starting vector backfill of %d proposals (batch size: %d)\n",
		len(entries), batchSize)
	tracker := newProgressTracker(b.progress, len(entries), b.config.ReportInterval)

	for start := 0; start < len(entries); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		b.processBatch(ctx, entries[start:end], result)
		tracker.update(end)
	}

	tracker.finish()

	elapsed := tracker.elapsed()
	fmt.Fprintf(b.progress, "Backfill complete. Embedded %d/%d proposals in %v\n",
		result.Embedded, result.Total, elapsed.Round(time.Second))
	if len(result.Failed) > 0 {
		b.logger.Warn("some proposals could not be re-embedded",
			"failed", len(result.Failed), "folders", result.Failed)
	}

	return result, nil
}

// processBatch embeds one batch of entries and stores the vectors,
// accumulating per-folder outcomes into result.
func (b *Backfiller) processBatch(ctx context.Context, batch []*core.ProposalIndexEntry, result *Result) {
	texts := make([]string, len(batch))
	for i, entry := range batch {
		texts[i] = entry.EmbedText()
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, func() error {
		v, embedErr := b.embedder.EmbedTexts(ctx, texts)
		if embedErr != nil {
			return embedErr
		}
		if len(v) != len(texts) {
			return fmt.Errorf("embedder returned %d vectors for %d texts", len(v), len(texts))
		}
		vectors = v
		return nil
	}, b.config.MaxRetries, b.config.RetryDelay)
	if err != nil {
		b.logger.Warn("embedding batch failed", "size", len(batch), "err", err)
		for _, entry := range batch {
			result.Failed = append(result.Failed, entry.FolderName)
		}
		return
	}

	for i, entry := range batch {
		storeErr := b.vectorRepository.UpsertVector(ctx, &core.VectorEntry{
			FolderName: entry.FolderName,
			Embedding:  vectors[i],
		})
		if storeErr != nil {
			b.logger.Warn("could not store vector", "folder", entry.FolderName, "err", storeErr)
			result.Failed = append(result.Failed, entry.FolderName)
			continue
		}
		result.Embedded++
	}
}
