// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.skillreg/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Embedding: provider, embedder model, output dimension, chunking limits
//   - Storage: PostgreSQL connection (see storage.go)
//   - Search: default similarity threshold and result limit
//
// Security: sensitive data (passwords) are never logged.
// Validation: range checks in validation.go with clear error messages.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required embedding API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidProvider indicates the embedding provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidEmbeddingDimension indicates the embedding dimension does not
	// match what the vector schema can store.
	ErrInvalidEmbeddingDimension = errors.New("invalid embedding dimension")

	// ErrInvalidChunkTokens indicates the per-chunk token limit is out of range.
	ErrInvalidChunkTokens = errors.New("invalid max tokens per chunk")

	// ErrInvalidChunkOverlap indicates the chunk overlap is out of range.
	ErrInvalidChunkOverlap = errors.New("invalid chunk overlap")

	// ErrInvalidEmbedRateLimit indicates the embedding rate limit settings are
	// out of range.
	ErrInvalidEmbedRateLimit = errors.New("invalid embed rate limit")

	// ErrInvalidSearchThreshold indicates the similarity threshold is out of range.
	ErrInvalidSearchThreshold = errors.New("invalid search threshold")

	// ErrInvalidSearchLimit indicates the search result limit is out of range.
	ErrInvalidSearchLimit = errors.New("invalid search limit")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")
)

// Embedding provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	// DefaultGeminiEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 outputs 3072 dimensions by default, but supports
	// truncation via OutputDimensionality (Matryoshka Representation Learning).
	// The pgvector schema width must match DefaultEmbeddingDimension.
	DefaultGeminiEmbedderModel = "gemini-embedding-001"

	// DefaultEmbeddingDimension is the vector width stored in pgvector.
	// Must match the vector(n) column width created by the migrations.
	DefaultEmbeddingDimension = 768

	// DefaultMaxTokensPerChunk bounds the token count of a single chunk sent
	// to the embedding service. Leaves headroom under typical model limits.
	DefaultMaxTokensPerChunk = 8000

	// DefaultChunkOverlap is the pseudo-overlap hint passed to the chunker.
	DefaultChunkOverlap = 200

	// DefaultEmbedRequestsPerSecond throttles embedding batches client-side
	// to stay under provider rate limits. Zero disables throttling.
	DefaultEmbedRequestsPerSecond = 5

	// DefaultEmbedBurst is the limiter burst size.
	DefaultEmbedBurst = 10

	// DefaultSearchThreshold is the minimum cosine similarity for a match.
	DefaultSearchThreshold = 0.7

	// DefaultSearchLimit caps search results when the caller gives no limit.
	DefaultSearchLimit = 10
)

// Config stores application configuration.
type Config struct {
	// Embedding provider and model configuration
	Provider           string `mapstructure:"provider" json:"provider"`             // "gemini" (default), "ollama", "openai"
	EmbedderModel      string `mapstructure:"embedder_model" json:"embedder_model"` // e.g. "gemini-embedding-001", "text-embedding-3-small"
	EmbeddingDimension int    `mapstructure:"embedding_dimension" json:"embedding_dimension"`
	OllamaHost         string `mapstructure:"ollama_host" json:"ollama_host"` // only used when provider is "ollama"

	// Chunking configuration for long content
	MaxTokensPerChunk int `mapstructure:"max_tokens_per_chunk" json:"max_tokens_per_chunk"`
	ChunkOverlap      int `mapstructure:"chunk_overlap" json:"chunk_overlap"`

	// Client-side rate limiting for embedding calls
	EmbedRequestsPerSecond float64 `mapstructure:"embed_requests_per_second" json:"embed_requests_per_second"`
	EmbedBurst             int     `mapstructure:"embed_burst" json:"embed_burst"`

	// Search defaults
	SearchThreshold float64 `mapstructure:"search_threshold" json:"search_threshold"`
	SearchLimit     int     `mapstructure:"search_limit" json:"search_limit"`

	// Content roots scanned by the index command
	SkillsDir string `mapstructure:"skills_dir" json:"skills_dir"`
	DocsDir   string `mapstructure:"docs_dir" json:"docs_dir"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"` // SENSITIVE: never serialized
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".skillreg")

	// Ensure directory exists (0750 keeps credentials group-readable at most)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL takes priority over individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Embedding defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("embedder_model", DefaultGeminiEmbedderModel)
	viper.SetDefault("embedding_dimension", DefaultEmbeddingDimension)
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// Chunking defaults
	viper.SetDefault("max_tokens_per_chunk", DefaultMaxTokensPerChunk)
	viper.SetDefault("chunk_overlap", DefaultChunkOverlap)

	// Embedding rate limit defaults
	viper.SetDefault("embed_requests_per_second", DefaultEmbedRequestsPerSecond)
	viper.SetDefault("embed_burst", DefaultEmbedBurst)

	// Search defaults
	viper.SetDefault("search_threshold", DefaultSearchThreshold)
	viper.SetDefault("search_limit", DefaultSearchLimit)

	// Content roots
	viper.SetDefault("skills_dir", "skills")
	viper.SetDefault("docs_dir", "docs")

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "skillreg")
	viper.SetDefault("postgres_password", "skillreg_dev_password")
	viper.SetDefault("postgres_db_name", "skillreg")
	viper.SetDefault("postgres_ssl_mode", "disable")
}

// bindEnvVariables binds environment overrides explicitly.
//
// API keys are read directly by the Genkit provider plugins, not via Viper:
// GEMINI_API_KEY for gemini, OPENAI_API_KEY for openai. Validate() checks
// their presence based on the selected provider.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a bug in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "SKILLREG_PROVIDER")
	mustBind("embedder_model", "SKILLREG_EMBEDDER_MODEL")
	mustBind("embedding_dimension", "SKILLREG_EMBEDDING_DIMENSION")
	mustBind("ollama_host", "SKILLREG_OLLAMA_HOST")
	mustBind("skills_dir", "SKILLREG_SKILLS_DIR")
	mustBind("docs_dir", "SKILLREG_DOCS_DIR")
}
