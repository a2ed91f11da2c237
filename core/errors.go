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

import "errors"

// Domain errors
var (
	// ErrFolderNotFound indicates the proposal folder does not exist or is not a directory.
	ErrFolderNotFound = errors.New("proposal folder not found")

	// ErrNoIndexableFiles indicates a folder contains no parseable files.
	ErrNoIndexableFiles = errors.New("no parseable files found")

	// ErrInvalidEntry indicates a ProposalIndexEntry failed validation.
	ErrInvalidEntry = errors.New("invalid proposal index entry")

	// ErrEmptyFolderName indicates the FolderName field is empty.
	ErrEmptyFolderName = errors.New("folder name cannot be empty")

	// ErrNegativePrice indicates a negative TotalPrice value.
	ErrNegativePrice = errors.New("total price cannot be negative")

	// ErrNegativeFileCount indicates a negative FileCount value.
	ErrNegativeFileCount = errors.New("file count cannot be negative")

	// ErrDimensionMismatch indicates an embedding does not match the stored dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
