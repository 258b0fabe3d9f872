package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagSearchType      string
	flagSearchThreshold float64
	flagSearchLimit     int
	flagSearchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search across skills and documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchType, "type", "all", "what to search: skills, docs, or all")
	searchCmd.Flags().Float64Var(&flagSearchThreshold, "threshold", -1, "minimum cosine similarity (default from config)")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 0, "maximum results per type (default from config)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(searchCmd)
}

type skillResult struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Version     string  `json:"version"`
	Similarity  float64 `json:"similarity"`
}

type documentResult struct {
	Title      string  `json:"title"`
	Path       string  `json:"path"`
	DocType    string  `json:"doc_type"`
	Similarity float64 `json:"similarity"`
}

type searchResults struct {
	Query     string           `json:"query"`
	Skills    []skillResult    `json:"skills,omitempty"`
	Documents []documentResult `json:"documents,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	switch flagSearchType {
	case "skills", "docs", "all":
	default:
		return fmt.Errorf("invalid --type %q: must be skills, docs, or all", flagSearchType)
	}

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	threshold := flagSearchThreshold
	if threshold < 0 {
		threshold = a.Config.SearchThreshold
	}
	limit := flagSearchLimit
	if limit <= 0 {
		limit = a.Config.SearchLimit
	}

	results := searchResults{Query: query}

	if flagSearchType == "skills" || flagSearchType == "all" {
		matches, err := a.Registry.SearchSkills(ctx, query, threshold, limit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			results.Skills = append(results.Skills, skillResult{
				Name:        m.Name,
				Description: m.Description,
				Version:     m.Version,
				Similarity:  m.Similarity,
			})
		}
	}
	if flagSearchType == "docs" || flagSearchType == "all" {
		matches, err := a.Registry.SearchDocuments(ctx, query, threshold, limit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			results.Documents = append(results.Documents, documentResult{
				Title:      m.Title,
				Path:       m.Path,
				DocType:    string(m.DocType),
				Similarity: m.Similarity,
			})
		}
	}

	if flagSearchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results.Skills) == 0 && len(results.Documents) == 0 {
		fmt.Printf("No matches for %q (threshold %.2f)\n", query, threshold)
		return nil
	}
	if len(results.Skills) > 0 {
		fmt.Printf("Skills matching %q:\n", query)
		for _, m := range results.Skills {
			fmt.Printf("  %.3f  %s (v%s)  %s\n", m.Similarity, m.Name, m.Version, m.Description)
		}
	}
	if len(results.Documents) > 0 {
		fmt.Printf("Documents matching %q:\n", query)
		for _, m := range results.Documents {
			fmt.Printf("  %.3f  [%s] %s  (%s)\n", m.Similarity, m.DocType, m.Title, m.Path)
		}
	}
	return nil
}
