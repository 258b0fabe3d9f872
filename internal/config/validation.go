package config

import (
	"fmt"
	"os"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
//
// Validation is the fail-fast boundary for configuration errors: a missing
// API key or mismatched embedding dimension is caught here, before any
// network or database call.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Provider and credential validation
	switch c.Provider {
	case ProviderGemini:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required",
				ErrMissingAPIKey)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("%w: ollama_host cannot be empty", ErrInvalidOllamaHost)
		}
	default:
		return fmt.Errorf("%w: %q, must be one of: gemini, ollama, openai",
			ErrInvalidProvider, c.Provider)
	}

	// 2. Embedder configuration validation
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	// Dimension must match the vector(n) column width in the schema exactly.
	// A mismatch is a configuration error, not recoverable at runtime.
	if c.EmbeddingDimension < 1 || c.EmbeddingDimension > 4096 {
		return fmt.Errorf("%w: must be between 1 and 4096, got %d",
			ErrInvalidEmbeddingDimension, c.EmbeddingDimension)
	}

	// 3. Chunking validation
	if c.MaxTokensPerChunk < 100 || c.MaxTokensPerChunk > 100000 {
		return fmt.Errorf("%w: must be between 100 and 100,000, got %d",
			ErrInvalidChunkTokens, c.MaxTokensPerChunk)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.MaxTokensPerChunk {
		return fmt.Errorf("%w: must be >= 0 and less than max_tokens_per_chunk, got %d",
			ErrInvalidChunkOverlap, c.ChunkOverlap)
	}

	// 4. Embedding rate limit validation (zero disables throttling)
	if c.EmbedRequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must be >= 0, got %.2f",
			ErrInvalidEmbedRateLimit, c.EmbedRequestsPerSecond)
	}
	if c.EmbedRequestsPerSecond > 0 && c.EmbedBurst < 1 {
		return fmt.Errorf("%w: burst must be >= 1 when throttling is enabled, got %d",
			ErrInvalidEmbedRateLimit, c.EmbedBurst)
	}

	// 5. Search defaults validation
	if c.SearchThreshold < -1.0 || c.SearchThreshold > 1.0 {
		return fmt.Errorf("%w: must be between -1.0 and 1.0, got %.2f",
			ErrInvalidSearchThreshold, c.SearchThreshold)
	}
	if c.SearchLimit < 1 || c.SearchLimit > 1000 {
		return fmt.Errorf("%w: must be between 1 and 1000, got %d",
			ErrInvalidSearchLimit, c.SearchLimit)
	}

	// 6. PostgreSQL configuration validation
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d",
			ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	// Modern SSL modes only - exclude deprecated allow/prefer (MITM vulnerable)
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	return nil
}
