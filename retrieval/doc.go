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


// Package retrieval provides hybrid lexical and semantic search over the
// proposal index.
//
// The Searcher type resolves a requested mode against the configured
// vector capability, runs the lexical and/or vector sub-queries, and
// merges hybrid results with Reciprocal Rank Fusion. Sub-query failures
// degrade to empty result sets so search stays available when a
// collaborator is down.
package retrieval
