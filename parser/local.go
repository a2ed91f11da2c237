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

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Local extracts text from documents on the local filesystem. Plain-text
// and Markdown files are read verbatim; PDF files go through a text
// extraction pass. Binary office formats are not handled here.
type Local struct{}

// NewLocal creates a Local parser.
func NewLocal() *Local {
	return &Local{}
}

// ParseFile extracts plain text from the file at path based on its
// extension.
func (p *Local) ParseFile(ctx context.Context, path string) (Parsed, error) {
	if err := ctx.Err(); err != nil {
		return Parsed{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	format := strings.TrimPrefix(ext, ".")

	var text string
	switch ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Parsed{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		text = string(data)

	case ".pdf":
		extracted, err := extractPDF(path)
		if err != nil {
			return Parsed{}, err
		}
		text = extracted

	default:
		return Parsed{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	if strings.TrimSpace(text) == "" {
		return Parsed{}, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	return Parsed{Text: text, Format: format}, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("failed to read pdf text from %s: %w", path, err)
	}
	return buf.String(), nil
}
