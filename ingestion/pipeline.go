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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/tenderidx/ai"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/parser"
	"github.com/poiesic/tenderidx/storage"
)

const (
	// artifactPrefix marks generated files excluded from re-ingestion scans.
	artifactPrefix = "_"

	// summaryFileName is the human-readable artifact written per folder.
	summaryFileName = "_summary.md"

	// maxTotalChars caps the combined text sent to structured extraction.
	maxTotalChars = 25000

	// financialReserveChars caps the financial portion of the combined text.
	financialReserveChars = 8000

	// minNarrativeChars is the narrative floor kept even when financial
	// text fills its reserve.
	minNarrativeChars = 5000


	// maxDegradedSummaryChars caps the raw response kept as a degraded
	// entry's full summary.
	maxDegradedSummaryChars = 1000
)

// indexableExtensions are the file types considered for ingestion.
var indexableExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".xlsx": true,
	".xls":  true,
	".md":   true,
	".txt":  true,
}

// financialExtensions mark spreadsheet files whose text is kept separate
// and labeled for the extraction prompt.
var financialExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// Result reports the outcome of indexing one folder.
type Result struct {
	// Entry is the upserted index entry.
	Entry *core.ProposalIndexEntry

	// SummaryPath is the location of the human-readable summary artifact,
	// empty if writing it failed.
	SummaryPath string

	// VectorIndexed reports whether an embedding was computed and stored.
	VectorIndexed bool
}

// Pipeline orchestrates indexing of past proposal folders.
type Pipeline struct {
	indexRepository  storage.IndexRepository
	vectorRepository storage.VectorRepository
	docParser        parser.Parser
	extractor        ai.Extractor
	embedder         ai.Embedder
	rootDir          string
	parsePool        *ants.Pool
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent file parsing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.parsePool != nil {
			p.parsePool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.parsePool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithVectorIndex enables best-effort vector indexing. Both the
// repository and the embedder are required; indexing proceeds without
// vectors when this option is absent.
func WithVectorIndex(repo storage.VectorRepository, embedder ai.Embedder) Option {
	return func(p *Pipeline) error {
		if repo == nil || embedder == nil {
			return ErrVectorIndexIncomplete
		}
		p.vectorRepository = repo
		p.embedder = embedder
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline rooted at rootDir, the
// directory holding one subdirectory per past proposal.
func NewPipeline(
	indexRepository storage.IndexRepository,
	docParser parser.Parser,
	extractor ai.Extractor,
	rootDir string,
	opts ...Option,
) (*Pipeline, error) {
	if indexRepository == nil {
		return nil, ErrIndexRepositoryRequired
	}
	if docParser == nil {
		return nil, ErrParserRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if rootDir == "" {
		return nil, ErrRootDirRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		indexRepository: indexRepository,
		docParser:       docParser,
		extractor:       extractor,
		rootDir:         rootDir,
		parsePool:       pool,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// VectorCapable reports whether the pipeline can store embeddings.
func (p *Pipeline) VectorCapable() bool {
	return p.vectorRepository != nil && p.embedder != nil
}

// IndexFolder parses every supported file in the named folder under the
// pipeline's root, extracts structured metadata, writes a summary
// artifact, and upserts the index entry. The lexical write must succeed;
// embedding failures only clear the VectorIndexed flag.
func (p *Pipeline) IndexFolder(ctx context.Context, folderName string) (*Result, error) {
	folderPath := filepath.Join(p.rootDir, folderName)
	info, err := os.Stat(folderPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", core.ErrFolderNotFound, folderPath)
	}

	fileNames, err := p.selectFiles(folderPath)
	if err != nil {
		return nil, err
	}

	p.logger.Info("indexing proposal folder", "folder", folderName, "files", len(fileNames))

	narrative, financial := p.parseFiles(ctx, folderPath, fileNames)
	combined := buildCombinedText(narrative, financial)

	raw, err := p.extractor.ExtractProposal(ctx, folderName, fileNames, combined)
	if err != nil {
		return nil, fmt.Errorf("structured extraction failed for %s: %w", folderName, err)
	}

	extraction, parseErr := parseExtraction(raw)
	if parseErr != nil {
		p.logger.Error("extractor returned invalid JSON, producing degraded entry",
			"folder", folderName, "err", parseErr)
		extraction = degradedExtraction(folderName, raw)
	}
	if extraction.Title == "" {
		extraction.Title = folderName
	}

	summaryPath := filepath.Join(folderPath, summaryFileName)
	if err := os.WriteFile(summaryPath, []byte(renderSummary(extraction)), 0644); err != nil {
		p.logger.Warn("could not write summary artifact", "path", summaryPath, "err", err)
		summaryPath = ""
	}

	entry := &core.ProposalIndexEntry{
		Id:               core.IDFromFolder(folderName),
		FolderName:       folderName,
		TenderNumber:     extraction.TenderNumber,
		Title:            extraction.Title,
		Client:           extraction.Client,
		Sector:           extraction.Sector,
		Country:          extraction.Country,
		TechnicalSummary: extraction.TechnicalSummary,
		PricingSummary:   extraction.PricingSummary,
		FullSummary:      extraction.FullSummary,
		TotalPrice:       extraction.TotalPrice,
		MarginInfo:       extraction.MarginInfo,
		Technologies:     extraction.Technologies,
		Keywords:         extraction.Keywords,
		FileCount:        len(fileNames),
		FileList:         fileNames,
		IndexedAt:        time.Now().UTC(),
	}

	if err := p.indexRepository.UpsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to upsert index entry for %s: %w", folderName, err)
	}

	vectorIndexed := p.storeVector(ctx, entry)

	p.logger.Info("indexed proposal", "folder", folderName,
		"title", entry.Title, "vector_indexed", vectorIndexed)

	return &Result{
		Entry:         entry,
		SummaryPath:   summaryPath,
		VectorIndexed: vectorIndexed,
	}, nil
}

// Release releases the parse worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.parsePool != nil {
		p.parsePool.Release()
	}
}

// selectFiles lists the parseable files directly inside folderPath,
// sorted by name, skipping generated artifacts.
func (p *Pipeline) selectFiles(folderPath string) ([]string, error) {
	dirEntries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}

	var fileNames []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if strings.HasPrefix(name, artifactPrefix) {
			continue
		}
		if !indexableExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	if len(fileNames) == 0 {
		return nil, fmt.Errorf("%w in %s", core.ErrNoIndexableFiles, folderPath)
	}
	return fileNames, nil
}

// parseFiles extracts text from each file concurrently, preserving file
// order, and splits spreadsheet-derived text from narrative text. A
// single file's failure is logged and skipped.
func (p *Pipeline) parseFiles(ctx context.Context, folderPath string, fileNames []string) (narrative, financial []string) {
	texts := make([]string, len(fileNames))

	var wg sync.WaitGroup
	for i, name := range fileNames {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			parsed, err := p.docParser.ParseFile(ctx, filepath.Join(folderPath, name))
			if err != nil {
				p.logger.Warn("could not parse file", "file", name, "err", err)
				return
			}
			texts[i] = parsed.Text
		}
		if err := p.parsePool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	for i, name := range fileNames {
		if texts[i] == "" {
			continue
		}
		if financialExtensions[strings.ToLower(filepath.Ext(name))] {
			financial = append(financial, fmt.Sprintf("=== %s (Financial) ===\n%s", name, texts[i]))
		} else {
			narrative = append(narrative, fmt.Sprintf("=== %s ===\n%s", name, texts[i]))
		}
	}
	return narrative, financial
}

// buildCombinedText joins narrative and financial text under the shared
// character budget. Financial text is placed last and explicitly labeled
// so it survives truncation of the narrative portion.
func buildCombinedText(narrative, financial []string) string {
	narrativeCombined := strings.Join(narrative, "\n\n")
	financialCombined := strings.Join(financial, "\n\n")

	if financialCombined == "" {
		return truncateRunes(narrativeCombined, maxTotalChars)
	}

	financialCombined = truncateRunes(financialCombined, financialReserveChars)
	remaining := maxTotalChars - len([]rune(financialCombined))
	if remaining < minNarrativeChars {
		remaining = minNarrativeChars
	}
	narrativeCombined = truncateRunes(narrativeCombined, remaining)

	return narrativeCombined + "\n\n--- FINANCIAL DATA ---\n\n" + financialCombined
}

// storeVector computes and stores the entry's embedding. Any failure is
// logged and reported as false, never propagated.
func (p *Pipeline) storeVector(ctx context.Context, entry *core.ProposalIndexEntry) bool {
	if !p.VectorCapable() {
		return false
	}

	vector, err := p.embedder.EmbedText(ctx, entry.EmbedText())
	if err != nil {
		p.logger.Warn("could not generate embedding", "folder", entry.FolderName, "err", err)
		return false
	}

	err = p.vectorRepository.UpsertVector(ctx, &core.VectorEntry{
		FolderName: entry.FolderName,
		Embedding:  vector,
	})
	if err != nil {
		p.logger.Warn("could not store embedding", "folder", entry.FolderName, "err", err)
		return false
	}

	p.logger.Debug("stored embedding vector", "folder", entry.FolderName, "dimension", len(vector))
	return true
}

// truncateRunes limits s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
