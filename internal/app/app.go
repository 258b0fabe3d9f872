// Package app wires configuration, the embedding provider, the database
// pool, and the registry into a single application container used by the
// CLI commands.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillreg/skillreg/internal/advisor"
	"github.com/skillreg/skillreg/internal/config"
	"github.com/skillreg/skillreg/internal/embedding"
	"github.com/skillreg/skillreg/internal/log"
	"github.com/skillreg/skillreg/internal/registry"
)

// App is the application container.
type App struct {
	Config    *config.Config
	Logger    log.Logger
	Genkit    *genkit.Genkit
	Embedder  ai.Embedder
	Pool      *pgxpool.Pool
	Generator *embedding.Generator
	Registry  *registry.Registry
	Advisor   *advisor.Advisor
}

// Close releases all resources held by the container.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
		a.Logger.Debug("database pool closed")
	}
	return nil
}
