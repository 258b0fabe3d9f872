package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed a single skill or document",
}

var reindexSkillCmd = &cobra.Command{
	Use:   "skill <name>",
	Short: "Re-read and re-embed one skill from disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		skillFile := filepath.Join(a.Config.SkillsDir, name, "SKILL.md")
		if _, _, err := indexSkillFile(ctx, a, skillFile, name, a.Config.SkillsDir); err != nil {
			return fmt.Errorf("reindexing skill %q: %w", name, err)
		}
		return nil
	},
}

var reindexDocCmd = &cobra.Command{
	Use:   "doc <path>",
	Short: "Re-read and re-embed one document from disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		path := resolveDocPath(args[0], a.Config.DocsDir)
		if _, err := indexDocumentFile(ctx, a, path, a.Config.DocsDir); err != nil {
			return fmt.Errorf("reindexing document %q: %w", args[0], err)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a skill or document from the registry",
}

var deleteSkillCmd = &cobra.Command{
	Use:   "skill <name>",
	Short: "Delete a skill, its versions and its links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		deleted, err := a.Registry.DeleteSkill(ctx, args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Printf("Skill not found: %s\n", args[0])
			return nil
		}
		fmt.Printf("Deleted skill: %s\n", args[0])
		return nil
	},
}

var deleteDocCmd = &cobra.Command{
	Use:   "doc <path>",
	Short: "Delete a document and its links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setupApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		deleted, err := a.Registry.DeleteDocument(ctx, args[0])
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Printf("Document not found: %s\n", args[0])
			return nil
		}
		fmt.Printf("Deleted document: %s\n", args[0])
		return nil
	},
}

func init() {
	reindexCmd.AddCommand(reindexSkillCmd, reindexDocCmd)
	deleteCmd.AddCommand(deleteSkillCmd, deleteDocCmd)
	rootCmd.AddCommand(reindexCmd, deleteCmd)
}

// resolveDocPath accepts either a filesystem path or a registry-style key
// like "docs/a.md" and maps it back onto the docs directory.
func resolveDocPath(arg, docsDir string) string {
	if exists(arg) {
		return arg
	}
	base := filepath.Dir(filepath.Clean(docsDir))
	candidate := filepath.Join(base, filepath.FromSlash(arg))
	if exists(candidate) {
		return candidate
	}
	return arg
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
