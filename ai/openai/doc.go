// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// Structured extraction uses the chat completions endpoint in JSON mode
// with temperature 0; embeddings use the embeddings endpoint. Both
// services may point at the same host or at different ones.
package openai
