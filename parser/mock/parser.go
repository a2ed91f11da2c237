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


// Package mock provides a test double for the parser package.
package mock

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/poiesic/tenderidx/parser"
)

// MockParser implements parser.Parser for testing. By default it reads any
// file verbatim regardless of extension; set ParseFileFunc to override.
type MockParser struct {
	mu sync.Mutex

	// ParseFileFunc overrides the default behavior when set.
	ParseFileFunc func(ctx context.Context, path string) (parser.Parsed, error)

	callCount int
}

// NewMockParser creates a mock parser with default behavior.
func NewMockParser() *MockParser {
	return &MockParser{}
}

// ParseFile returns the file content verbatim, or delegates to
// ParseFileFunc when set.
func (m *MockParser) ParseFile(ctx context.Context, path string) (parser.Parsed, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ParseFileFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return parser.Parsed{}, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return parser.Parsed{Text: string(data), Format: format}, nil
}

// CallCount returns the number of ParseFile invocations.
func (m *MockParser) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears call counts and overrides.
func (m *MockParser) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ParseFileFunc = nil
}
