// Package ingestion turns a folder of past proposal documents into an
// index entry.
//
// The Pipeline type manages the full workflow for one folder:
//   - Selecting and parsing the source files (concurrently, via a worker pool)
//   - Structured metadata extraction through the text-generation collaborator
//   - Writing a human-readable summary artifact next to the sources
//   - Upserting the lexical index entry and, best-effort, its embedding
//
// The lexical write is mandatory; embedding and summary-artifact failures
// are logged and reported but never fail the overall operation.
package ingestion
