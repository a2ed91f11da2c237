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


// Package sqlite implements storage.IndexRepository on SQLite.
//
// Structured proposal fields live in an ordinary table managed through
// GORM; full-text search runs against a companion FTS5 virtual table that
// holds a flattened text projection of each entry. Both are rewritten
// atomically on upsert, so the projection can never drift from the
// structured row.
//
// The driver is pure Go (modernc SQLite via glebarez), so no cgo is
// required and FTS5 is available everywhere the binary runs.
package sqlite
