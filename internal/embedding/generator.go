package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/skillreg/skillreg/internal/log"
)

// maxBatchSize bounds the number of chunks sent to the embedder in one
// request. Provider embedding APIs cap batch payloads around this size.
const maxBatchSize = 100

var (
	ErrNilEmbedder       = errors.New("embedding: embedder is nil")
	ErrInvalidDimension  = errors.New("embedding: dimension must be positive")
	ErrEmptyText         = errors.New("embedding: text is empty")
	ErrEmptyResponse     = errors.New("embedding: embedder returned no vectors")
	ErrDimensionMismatch = errors.New("embedding: vector dimension mismatch")
)

// Generator produces one fixed-dimension vector per input text. Long texts
// are chunked on paragraph boundaries, each chunk embedded, and the chunk
// vectors mean-pooled.
type Generator struct {
	embedder  ai.Embedder
	dimension int
	maxTokens int
	overlap   int
	limiter   *rate.Limiter
	logger    log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithChunking overrides the chunk size and overlap budgets.
func WithChunking(maxTokens, overlap int) Option {
	return func(g *Generator) {
		g.maxTokens = maxTokens
		g.overlap = overlap
	}
}

// WithRateLimit throttles embedder calls to r requests per second with the
// given burst. A zero r disables throttling.
func WithRateLimit(r float64, burst int) Option {
	return func(g *Generator) {
		if r > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(r), burst)
		}
	}
}

// WithLogger attaches a logger for per-batch diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator wires an ai.Embedder into a Generator producing vectors of
// the given dimension.
func NewGenerator(embedder ai.Embedder, dimension int, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrNilEmbedder
	}
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}
	g := &Generator{
		embedder:  embedder,
		dimension: dimension,
		maxTokens: 8000,
		logger:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Dimension reports the vector size this Generator produces.
func (g *Generator) Dimension() int { return g.dimension }

// Embed returns a single vector for text. Text exceeding the chunk budget is
// split, embedded chunk by chunk, and the vectors averaged element-wise.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	chunks := Chunk(text, g.maxTokens, g.overlap)
	vectors, err := g.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		// Pooling over zero vectors would produce NaNs.
		return nil, ErrEmptyResponse
	}
	if len(vectors) == 1 {
		return vectors[0], nil
	}
	g.logger.Debug("mean-pooling chunk vectors", "chunks", len(vectors))
	return meanPool(vectors, g.dimension), nil
}

// EmbedBatch returns one vector per input text, in input order. Chunking is
// applied per text; all chunks across all texts share the batched embedder
// calls, and each text's chunk vectors are pooled back independently.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var flat []string
	// owner[i] is the index in texts that produced flat chunk i.
	var owner []int
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyText, i)
		}
		for _, c := range Chunk(text, g.maxTokens, g.overlap) {
			flat = append(flat, c)
			owner = append(owner, i)
		}
	}

	vectors, err := g.embedChunks(ctx, flat)
	if err != nil {
		return nil, err
	}

	grouped := make([][][]float32, len(texts))
	for i, vec := range vectors {
		grouped[owner[i]] = append(grouped[owner[i]], vec)
	}

	out := make([][]float32, len(texts))
	for i, vecs := range grouped {
		switch len(vecs) {
		case 0:
			return nil, fmt.Errorf("%w: index %d", ErrEmptyResponse, i)
		case 1:
			out[i] = vecs[0]
		default:
			out[i] = meanPool(vecs, g.dimension)
		}
	}
	return out, nil
}

// embedChunks sends chunks to the embedder in batches of at most
// maxBatchSize and returns one vector per chunk, in order.
func (g *Generator) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += maxBatchSize {
		end := min(start+maxBatchSize, len(chunks))
		batch := chunks[start:end]

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("embedding: rate limit wait: %w", err)
			}
		}

		docs := make([]*ai.Document, len(batch))
		for i, c := range batch {
			docs[i] = ai.DocumentFromText(c, nil)
		}
		dim := int32(g.dimension)
		resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{
			Input:   docs,
			Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
		})
		if err != nil {
			return nil, fmt.Errorf("embedding: embed batch [%d:%d]: %w", start, end, err)
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrEmptyResponse, len(batch), respLen(resp))
		}
		for i, e := range resp.Embeddings {
			if len(e.Embedding) != g.dimension {
				return nil, fmt.Errorf("%w: want %d, got %d (chunk %d)",
					ErrDimensionMismatch, g.dimension, len(e.Embedding), start+i)
			}
			vectors = append(vectors, e.Embedding)
		}
		g.logger.Debug("embedded batch", "chunks", len(batch), "offset", start)
	}
	return vectors, nil
}

func respLen(resp *ai.EmbedResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}

// meanPool averages the vectors element-wise. All vectors must have length
// dim; embedChunks enforces that before pooling.
func meanPool(vectors [][]float32, dim int) []float32 {
	pooled := make([]float32, dim)
	for _, v := range vectors {
		for i, x := range v {
			pooled[i] += x
		}
	}
	n := float32(len(vectors))
	for i := range pooled {
		pooled[i] /= n
	}
	return pooled
}
