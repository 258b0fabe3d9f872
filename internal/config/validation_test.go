package config

import (
	"errors"
	"strings"
	"testing"
)

// validConfig returns a config that passes Validate when the ollama provider
// is selected (ollama needs no API key, keeping tests hermetic).
func validConfig() *Config {
	return &Config{
		Provider:           ProviderOllama,
		EmbedderModel:      "nomic-embed-text",
		EmbeddingDimension: 768,
		OllamaHost:         "http://localhost:11434",
		MaxTokensPerChunk:  8000,
		ChunkOverlap:       200,
		SearchThreshold:    0.7,
		SearchLimit:        10,
		PostgresHost:       "localhost",
		PostgresPort:       5432,
		PostgresUser:       "skillreg",
		PostgresPassword:   "skillreg_dev_password",
		PostgresDBName:     "skillreg",
		PostgresSSLMode:    "disable",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: nil},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "cohere" },
			wantErr: ErrInvalidProvider,
		},
		{
			name:    "empty embedder model",
			mutate:  func(c *Config) { c.EmbedderModel = "" },
			wantErr: ErrInvalidEmbedderModel,
		},
		{
			name:    "zero dimension",
			mutate:  func(c *Config) { c.EmbeddingDimension = 0 },
			wantErr: ErrInvalidEmbeddingDimension,
		},
		{
			name:    "oversized dimension",
			mutate:  func(c *Config) { c.EmbeddingDimension = 10000 },
			wantErr: ErrInvalidEmbeddingDimension,
		},
		{
			name:    "chunk tokens too small",
			mutate:  func(c *Config) { c.MaxTokensPerChunk = 10 },
			wantErr: ErrInvalidChunkTokens,
		},
		{
			name:    "overlap exceeds chunk size",
			mutate:  func(c *Config) { c.ChunkOverlap = 9000 },
			wantErr: ErrInvalidChunkOverlap,
		},
		{
			name:    "negative overlap",
			mutate:  func(c *Config) { c.ChunkOverlap = -1 },
			wantErr: ErrInvalidChunkOverlap,
		},
		{
			name:    "negative embed rate",
			mutate:  func(c *Config) { c.EmbedRequestsPerSecond = -1 },
			wantErr: ErrInvalidEmbedRateLimit,
		},
		{
			name: "throttling without burst",
			mutate: func(c *Config) {
				c.EmbedRequestsPerSecond = 5
				c.EmbedBurst = 0
			},
			wantErr: ErrInvalidEmbedRateLimit,
		},
		{
			name:    "threshold above 1",
			mutate:  func(c *Config) { c.SearchThreshold = 1.5 },
			wantErr: ErrInvalidSearchThreshold,
		},
		{
			name:    "zero search limit",
			mutate:  func(c *Config) { c.SearchLimit = 0 },
			wantErr: ErrInvalidSearchLimit,
		},
		{
			name:    "empty postgres host",
			mutate:  func(c *Config) { c.PostgresHost = "" },
			wantErr: ErrInvalidPostgresHost,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.PostgresPort = 70000 },
			wantErr: ErrInvalidPostgresPort,
		},
		{
			name:    "empty db name",
			mutate:  func(c *Config) { c.PostgresDBName = "" },
			wantErr: ErrInvalidPostgresDBName,
		},
		{
			name:    "deprecated ssl mode",
			mutate:  func(c *Config) { c.PostgresSSLMode = "prefer" },
			wantErr: ErrInvalidPostgresSSLMode,
		},
		{
			name:    "ollama without host",
			mutate:  func(c *Config) { c.OllamaHost = "" },
			wantErr: ErrInvalidOllamaHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want errors.Is(%v)", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil = %v, want ErrConfigNil", err)
	}
}

func TestValidate_GeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := validConfig()
	cfg.Provider = ProviderGemini

	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() without GEMINI_API_KEY = %v, want ErrMissingAPIKey", err)
	}

	t.Setenv("GEMINI_API_KEY", "test-key")
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with GEMINI_API_KEY = %v, want nil", err)
	}
}

func TestPostgresConnectionString_QuotesPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "p'ass word"

	dsn := cfg.PostgresConnectionString()
	want := `password='p\'ass word'`
	if !strings.Contains(dsn, want) {
		t.Errorf("DSN %q missing quoted password %q", dsn, want)
	}
}

func TestPostgresURL_EncodesCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresUser = "user@domain"
	cfg.PostgresPassword = "p@ss/word"

	u := cfg.PostgresURL()
	if !strings.HasPrefix(u, "postgres://") {
		t.Errorf("PostgresURL() = %q, want postgres:// scheme", u)
	}
	if strings.Contains(u, "p@ss/word") {
		t.Errorf("PostgresURL() = %q, credentials not encoded", u)
	}
}
