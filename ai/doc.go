// Package ai defines the interfaces for the hosted AI collaborators:
// text embedding for semantic search and structured extraction of
// proposal metadata from document text.
//
// Implementations live in subpackages (ai/openai for OpenAI-compatible
// services, ai/mock for tests). Consumers depend only on the interfaces
// defined here and receive them through constructor injection; there is
// no ambient provider state.
package ai
