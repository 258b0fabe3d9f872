package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// MockEmbedder provides deterministic embedding vectors for testing.
//
// By default it derives a normalized vector from the input text via
// SHA-256, so identical text always embeds identically and different text
// almost always differs. Explicit vectors can be registered per text for
// precise cosine-similarity control.
//
// Thread-safe for concurrent use.
type MockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
	calls   int
	inputs  []string
}

// NewMockEmbedder creates a mock embedder producing vectors of the given
// dimension.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{
		vectors: make(map[string][]float32),
		dim:     dim,
	}
}

// SetVector registers an explicit vector for a given input text. Use this
// to control exact cosine similarity between test inputs.
func (e *MockEmbedder) SetVector(text string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[text] = vec
}

// Calls returns the number of Embed calls made so far.
func (e *MockEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Inputs returns a copy of every input text embedded so far, in order.
func (e *MockEmbedder) Inputs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]string, len(e.inputs))
	copy(cp, e.inputs)
	return cp
}

// Reset clears recorded calls and inputs (keeps registered vectors).
func (e *MockEmbedder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = 0
	e.inputs = nil
}

// Name implements ai.Embedder.
func (e *MockEmbedder) Name() string { return "mock/test-embedder" }

// Register implements ai.Embedder. No-op for testing.
func (e *MockEmbedder) Register(r api.Registry) {}

// Embed implements ai.Embedder.
func (e *MockEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		text := documentText(doc)
		e.mu.Lock()
		e.inputs = append(e.inputs, text)
		e.mu.Unlock()
		embeddings[i] = &ai.Embedding{Embedding: e.vectorFor(text)}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

// vectorFor returns the registered vector for text, or a deterministic
// hash-derived one.
func (e *MockEmbedder) vectorFor(text string) []float32 {
	e.mu.Lock()
	v, ok := e.vectors[text]
	e.mu.Unlock()
	if ok {
		return v
	}
	return deterministicVector(text, e.dim)
}

// documentText extracts all text content from a Document's parts.
func documentText(doc *ai.Document) string {
	var sb strings.Builder
	for _, p := range doc.Content {
		if p.Kind == ai.PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// deterministicVector generates a normalized vector from text using
// SHA-256. The same text always produces the same vector.
func deterministicVector(text string, dim int) []float32 {
	hash := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)

	var norm float64
	for i := range vec {
		idx := (i * 4) % len(hash)
		bits := binary.LittleEndian.Uint32([]byte{
			hash[idx%32],
			hash[(idx+1)%32],
			hash[(idx+2)%32],
			hash[(idx+3)%32],
		})
		// Map to [-1, 1].
		vec[i] = float32(bits)/float32(math.MaxUint32)*2 - 1
		norm += float64(vec[i]) * float64(vec[i])
	}

	// Normalize to unit length so cosine similarity behaves like real
	// text-embedding output.
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}
