// Package reembed recomputes embedding vectors for proposals that are
// already in the lexical index. It exists for two situations: a corpus
// indexed without embedding capability that later gains one, and an
// embedding model change that invalidates every stored vector (wipe
// the vector directory first when the new model changes dimensions).
//
// The backfill reads entries from the index repository in batches,
// embeds each entry's text projection, and upserts the resulting
// vectors. Transient embedding failures are retried with exponential
// backoff; the lexical index is never modified.
package reembed
