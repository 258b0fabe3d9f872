package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagAnalyzeThreshold float64
	flagAnalyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Index a document and recommend what to do with it",
	Long: `Indexes the given markdown file, finds semantically related skills, and
recommends one of three actions: create a new skill, update the closest
existing skill, or keep the document as reference material.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64Var(&flagAnalyzeThreshold, "threshold", -1, "minimum cosine similarity for related skills (default from config)")
	analyzeCmd.Flags().BoolVar(&flagAnalyzeJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	threshold := flagAnalyzeThreshold
	if threshold < 0 {
		threshold = a.Config.SearchThreshold
	}

	report, err := a.Advisor.Analyze(ctx, string(raw), storePath(path, a.Config.DocsDir), threshold)
	if err != nil {
		return err
	}

	if flagAnalyzeJSON {
		out := struct {
			Action         string        `json:"action"`
			DocumentID     string        `json:"document_id"`
			Recommendation string        `json:"recommendation"`
			RelatedSkills  []skillResult `json:"related_skills,omitempty"`
		}{
			Action:         string(report.Action),
			DocumentID:     report.DocumentID.String(),
			Recommendation: report.Recommendation,
		}
		for _, m := range report.RelatedSkills {
			out.RelatedSkills = append(out.RelatedSkills, skillResult{
				Name:        m.Name,
				Description: m.Description,
				Version:     m.Version,
				Similarity:  m.Similarity,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Action: %s\n", report.Action)
	fmt.Printf("Document: %s\n", report.DocumentID)
	fmt.Printf("\n%s\n", report.Recommendation)
	if len(report.RelatedSkills) > 0 {
		fmt.Println("\nRelated skills:")
		for _, m := range report.RelatedSkills {
			fmt.Printf("  %.3f  %s (v%s)\n", m.Similarity, m.Name, m.Version)
		}
	}
	return nil
}
