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


// Package storage provides the storage abstraction layer for tenderidx.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. The proposal index is deliberately
// split across two independently-owned stores:
//
//   - IndexRepository: the lexical index, the authoritative record of what
//     has been indexed (SQLite/FTS5 implementation in storage/sqlite)
//   - VectorRepository: the optional semantic index keyed by the same
//     folder names (BadgerDB implementation in storage/badger)
//
// An entry may exist in the lexical index without a companion vector; that
// is a valid state, not an inconsistency. The reverse (a vector with no
// lexical entry) can only occur transiently and is ignored by readers.
//
// # Constructor Return Type Pattern
//
// Public constructors return the repository interface rather than a
// concrete type:
//
//	repo, err := sqlite.NewIndexRepository(path)  // returns storage.IndexRepository
//	vecs, err := badger.NewVectorRepository(backend)  // returns storage.VectorRepository
//
// This keeps consumers decoupled from the backing engine and lets tests
// substitute in-memory or mock implementations without modification.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
