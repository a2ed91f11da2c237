// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Extractor,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	raw, err := mockProvider.Extractor().ExtractProposal(ctx, "tender_042", files, text)
//
//	// Custom behavior injection
//	extractor := mock.NewMockExtractor()
//	extractor.ExtractProposalFunc = func(ctx context.Context, folder string, files []string, text string) (string, error) {
//	    return `{"title":"Core Network Upgrade","client":"Client X"}`, nil
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockExtractor: Returns minimal valid extraction JSON built from the folder name
//   - MockProvider: Aggregates mock embedder and extractor
package mock
