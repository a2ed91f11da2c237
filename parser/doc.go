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


// Package parser extracts plain text from proposal documents.
//
// The Parser interface abstracts per-file text extraction so the ingestion
// pipeline can treat every document format uniformly. The Local
// implementation reads Markdown and plain-text files directly and extracts
// text from PDF files; office formats are reported as unsupported and the
// caller decides whether to skip or fail.
package parser
