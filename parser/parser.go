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


package parser

import "context"

// Parsed holds the text extracted from a single document.
type Parsed struct {
	// Text is the plain-text content of the document.
	Text string

	// Format is the lowercase file extension the text was extracted from,
	// without the leading dot (e.g. "pdf", "md").
	Format string
}

// Parser extracts plain text from a document on disk.
type Parser interface {
	// ParseFile reads the file at path and returns its plain-text content.
	// It returns ErrUnsupportedFormat when no extractor exists for the
	// file's extension.
	ParseFile(ctx context.Context, path string) (Parsed, error)
}
