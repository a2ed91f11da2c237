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


package core

import "fmt"

// ValidateEntry validates a ProposalIndexEntry according to domain rules.
//
// Validation rules:
//   - FolderName must not be empty
//   - TotalPrice must not be negative
//   - FileCount must not be negative
//
// NOT validated (may legitimately be empty):
//   - Short string fields and summaries (structured extraction may fail
//     partially; a degraded entry carries only FolderName and a summary)
//   - Technologies, Keywords, FileList
//   - IndexedAt (set by the store on upsert)
func ValidateEntry(entry *ProposalIndexEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.FolderName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyFolderName)
	}

	if entry.TotalPrice < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrNegativePrice)
	}

	if entry.FileCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrNegativeFileCount)
	}

	return nil
}
