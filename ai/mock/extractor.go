package mock

import (
	"context"
	"encoding/json"

	"github.com/poiesic/tenderidx/ai"
)

// MockExtractor is a test double for ai.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractProposalFunc is called by ExtractProposal if set.
	// If nil, uses default canned-JSON behavior.
	ExtractProposalFunc func(ctx context.Context, folderName string, fileNames []string, combinedText string) (string, error)

	callCount int
}

// NewMockExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// ExtractProposal returns a canned extraction response.
// Default behavior: a minimal valid JSON document using the folder name
// as the title, so pipeline tests produce well-formed entries without
// stubbing anything.
func (m *MockExtractor) ExtractProposal(ctx context.Context, folderName string, fileNames []string, combinedText string) (string, error) {
	m.callCount++

	if m.ExtractProposalFunc != nil {
		return m.ExtractProposalFunc(ctx, folderName, fileNames, combinedText)
	}

	extraction := ai.ProposalExtraction{
		Title:       folderName,
		FullSummary: "mock extraction for " + folderName,
	}
	raw, err := json.Marshal(extraction)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// CallCount returns the number of times ExtractProposal was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractProposalFunc = nil
}
