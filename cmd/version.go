package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillreg/skillreg/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	// Display version information (from ldflags)
	fmt.Printf("skillreg %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration: unavailable (%v)\n", err)
		return nil
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Embedder model: %s\n", cfg.EmbedderModel)
	fmt.Printf("  Embedding dimension: %d\n", cfg.EmbeddingDimension)
	fmt.Printf("  Database: %s:%d/%s\n", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName)
	fmt.Printf("  Skills dir: %s\n", cfg.SkillsDir)
	fmt.Printf("  Docs dir: %s\n", cfg.DocsDir)

	// Check API Key from environment (don't display full content)
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		fmt.Printf("  GEMINI_API_KEY: %s (configured)\n", maskKey(geminiKey))
	} else {
		fmt.Println("  GEMINI_API_KEY: Not set")
	}

	return nil
}

// maskKey keeps only the first and last four characters of a credential.
// Keys too short to mask meaningfully are hidden entirely.
func maskKey(key string) string {
	if len(key) < 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
