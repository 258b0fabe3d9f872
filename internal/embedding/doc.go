// Package embedding converts text into fixed-dimension vectors for
// similarity search.
//
// The package owns the chunk/average strategy, not the vector math: token
// counting (tokens.go) decides when a text must be split, the chunker
// (chunker.go) splits on paragraph boundaries, and the Generator
// (generator.go) delegates each chunk to an external ai.Embedder and
// mean-pools the chunk vectors back into a single embedding.
//
// Mean pooling is a deliberate simplification: it loses ordering
// information but is cheap and stable, which is acceptable because
// embeddings here serve topical similarity, not exact semantics.
//
// fingerprint.go provides the SHA-256 content fingerprint the registry uses
// to skip re-embedding unchanged documents, and texts.go builds the
// entity-specific embedding inputs (skills and documents truncate content
// at different lengths; keep those in sync with stored embeddings or
// similarity scores drift).
package embedding
