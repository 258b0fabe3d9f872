package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/skillreg/skillreg/db"
	"github.com/skillreg/skillreg/internal/advisor"
	"github.com/skillreg/skillreg/internal/config"
	"github.com/skillreg/skillreg/internal/database"
	"github.com/skillreg/skillreg/internal/embedding"
	"github.com/skillreg/skillreg/internal/log"
	"github.com/skillreg/skillreg/internal/registry"
)

// Setup creates and initializes the application. Call Close on the returned
// App to release its resources.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	gen, err := embedding.NewGenerator(embedder, cfg.EmbeddingDimension,
		embedding.WithChunking(cfg.MaxTokensPerChunk, cfg.ChunkOverlap),
		embedding.WithRateLimit(cfg.EmbedRequestsPerSecond, cfg.EmbedBurst),
		embedding.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating embedding generator: %w", err)
	}
	a.Generator = gen

	reg, err := registry.New(pool, gen, logger)
	if err != nil {
		return nil, err
	}
	a.Registry = reg

	adv, err := advisor.New(reg, logger)
	if err != nil {
		return nil, err
	}
	a.Advisor = adv

	return a, nil
}

// provideGenkit initializes Genkit with the configured embedding provider.
// Supports gemini (default), ollama, and openai.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit embedder registration (no auto-discovery).
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Debug("initialized genkit", "provider", "ollama",
			"embedder", cfg.EmbedderModel, "host", cfg.OllamaHost)
		return g, nil

	case config.ProviderOpenAI:
		g := genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Debug("initialized genkit", "provider", "openai", "embedder", cfg.EmbedderModel)
		return g, nil

	default: // gemini
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Debug("initialized genkit", "provider", "gemini", "embedder", cfg.EmbedderModel)
		return g, nil
	}
}

// provideEmbedder looks up the embedder registered by the provider plugin.
// Each provider registers embedders differently: ollama keys by server
// address, openai auto-registers in Init, gemini exposes a lookup helper.
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.Embedder(g, cfg.OllamaHost)
	case config.ProviderOpenAI:
		return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	default: // gemini
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}
