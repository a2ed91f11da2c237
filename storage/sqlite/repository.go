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


package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/poiesic/tenderidx/core"
	"github.com/poiesic/tenderidx/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS proposal_fts
USING fts5(folder_name UNINDEXED, content)`

// IndexRepository implements storage.IndexRepository on SQLite with an
// FTS5 companion table for full-text search.
type IndexRepository struct {
	db *gorm.DB
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository opens (creating if necessary) the index database at
// the given path and runs migrations.
func NewIndexRepository(path string) (*IndexRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	if err := db.AutoMigrate(&proposalRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate index database: %w", err)
	}
	if err := db.Exec(createFTSTable).Error; err != nil {
		return nil, fmt.Errorf("failed to create full-text table: %w", err)
	}

	return &IndexRepository{db: db}, nil
}

// UpsertEntry inserts or fully replaces the entry and its full-text
// projection in a single transaction.
func (r *IndexRepository) UpsertEntry(ctx context.Context, entry *core.ProposalIndexEntry) error {
	if err := core.ValidateEntry(entry); err != nil {
		return err
	}

	row := rowFromEntry(entry)
	searchText := entry.SearchText()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM proposal_fts WHERE folder_name = ?", entry.FolderName).Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO proposal_fts(folder_name, content) VALUES (?, ?)",
			entry.FolderName, searchText).Error
	})
}

// GetEntry retrieves a single entry by folder name.
func (r *IndexRepository) GetEntry(ctx context.Context, folderName string) (*core.ProposalIndexEntry, error) {
	if folderName == "" {
		return nil, core.ErrEmptyFolderName
	}

	var row proposalRow
	err := r.db.WithContext(ctx).First(&row, "folder_name = ?", folderName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return row.toEntry(), nil
}

// GetEntries retrieves multiple entries by folder name, preserving the
// input order. Missing folders are skipped.
func (r *IndexRepository) GetEntries(ctx context.Context, folderNames ...string) ([]*core.ProposalIndexEntry, error) {
	if len(folderNames) == 0 {
		return nil, nil
	}

	var rows []proposalRow
	err := r.db.WithContext(ctx).Find(&rows, "folder_name IN ?", folderNames).Error
	if err != nil {
		return nil, err
	}

	byFolder := make(map[string]*core.ProposalIndexEntry, len(rows))
	for i := range rows {
		byFolder[rows[i].FolderName] = rows[i].toEntry()
	}

	entries := make([]*core.ProposalIndexEntry, 0, len(rows))
	for _, name := range folderNames {
		if entry, ok := byFolder[name]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// SearchEntries runs an FTS5 query and returns matching entries in
// relevance order. FTS5 query syntax (phrases, prefix, AND/OR/NOT) is
// passed through to the engine.
func (r *IndexRepository) SearchEntries(ctx context.Context, query, sector string, limit int) ([]*core.ProposalIndexEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", storage.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	sql := `SELECT p.* FROM proposal_fts f
JOIN proposal_index p ON p.folder_name = f.folder_name
WHERE proposal_fts MATCH ?`
	args := []any{query}

	if sector != "" {
		sql += " AND LOWER(p.sector) = LOWER(?)"
		args = append(args, sector)
	}
	sql += " ORDER BY f.rank LIMIT ?"
	args = append(args, limit)

	var rows []proposalRow
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		// FTS5 reports malformed match expressions as SQL errors
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return nil, fmt.Errorf("%w: %v", storage.ErrInvalidQuery, err)
		}
		return nil, err
	}

	entries := make([]*core.ProposalIndexEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntry())
	}
	return entries, nil
}

// ListEntries returns every indexed entry, most recently indexed first.
func (r *IndexRepository) ListEntries(ctx context.Context) ([]*core.ProposalIndexEntry, error) {
	var rows []proposalRow
	err := r.db.WithContext(ctx).
		Order("indexed_at DESC, folder_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*core.ProposalIndexEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntry())
	}
	return entries, nil
}

// Close closes the underlying database handle.
func (r *IndexRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
