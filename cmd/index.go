package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skillreg/skillreg/internal/advisor"
	"github.com/skillreg/skillreg/internal/app"
	"github.com/skillreg/skillreg/internal/registry"
	"github.com/skillreg/skillreg/internal/skillfile"
)

var (
	flagIndexSkills bool
	flagIndexDocs   bool
	flagSkillsDir   string
	flagDocsDir     string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index skills and documents into the registry",
	Long: `Walks the skills and docs directories and upserts everything found.

Skills live in <skills-dir>/<name>/SKILL.md with optional references/*.md
alongside; documents are all markdown files under <docs-dir>. Unchanged
documents are skipped via content-hash comparison.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagIndexSkills, "skills", false, "index skills only")
	indexCmd.Flags().BoolVar(&flagIndexDocs, "docs", false, "index documents only")
	indexCmd.Flags().StringVar(&flagSkillsDir, "skills-dir", "", "override the configured skills directory")
	indexCmd.Flags().StringVar(&flagDocsDir, "docs-dir", "", "override the configured docs directory")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	skillsDir := flagSkillsDir
	if skillsDir == "" {
		skillsDir = a.Config.SkillsDir
	}
	docsDir := flagDocsDir
	if docsDir == "" {
		docsDir = a.Config.DocsDir
	}

	// Neither flag set means index everything.
	doSkills := flagIndexSkills || !flagIndexDocs
	doDocs := flagIndexDocs || !flagIndexSkills

	if doSkills {
		count, err := indexSkills(ctx, a, skillsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d skills from %s\n", count, skillsDir)
	}
	if doDocs {
		count, err := indexDocuments(ctx, a, docsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d documents from %s\n", count, docsDir)
	}

	st, err := a.Registry.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(st)
	return nil
}

// indexSkills upserts every <dir>/SKILL.md under skillsDir, including the
// skill's references/ documents.
func indexSkills(ctx context.Context, a *app.App, skillsDir string) (int, error) {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Skills directory not found: %s\n", skillsDir)
			return 0, nil
		}
		return 0, fmt.Errorf("reading skills directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillFile := filepath.Join(skillsDir, entry.Name(), "SKILL.md")
		if _, err := os.Stat(skillFile); err != nil {
			a.Logger.Debug("skipping directory without SKILL.md", "dir", entry.Name())
			continue
		}

		skillID, name, err := indexSkillFile(ctx, a, skillFile, entry.Name(), skillsDir)
		if err != nil {
			a.Logger.Warn("indexing skill failed", "skill", entry.Name(), "error", err)
			continue
		}
		count++

		if err := indexSkillReferences(ctx, a, skillID, name, filepath.Join(skillsDir, entry.Name()), skillsDir); err != nil {
			a.Logger.Warn("indexing skill references failed", "skill", name, "error", err)
		}
	}
	return count, nil
}

var versionPattern = regexp.MustCompile(`\*\*Version\*\*:\s*(\d+\.\d+\.\d+)`)

// indexSkillFile upserts a single SKILL.md and returns the skill's id and
// resolved name.
func indexSkillFile(ctx context.Context, a *app.App, path, dirName, skillsDir string) (uuid.UUID, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(raw)

	fm, _, err := skillfile.Parse(content)
	if err != nil {
		return uuid.Nil, "", err
	}

	name := fm.Name
	if name == "" {
		name = dirName
	}
	version := fm.Version
	if version == "" {
		if m := versionPattern.FindStringSubmatch(content); m != nil {
			version = m[1]
		} else {
			version = "1.0.0"
		}
	}

	id, err := a.Registry.UpsertSkill(ctx, registry.SkillInput{
		Name:        name,
		Description: fm.Description,
		Content:     content,
		Path:        storePath(path, skillsDir),
		Version:     version,
		Author:      fm.Author,
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	fmt.Printf("  Indexed skill: %s\n", name)
	return id, name, nil
}

// indexSkillReferences upserts references/*.md under a skill directory and
// links them to the skill.
func indexSkillReferences(ctx context.Context, a *app.App, skillID uuid.UUID, skillName, skillDir, skillsDir string) error {
	refs, err := filepath.Glob(filepath.Join(skillDir, "references", "*.md"))
	if err != nil {
		return err
	}
	for _, ref := range refs {
		raw, err := os.ReadFile(ref)
		if err != nil {
			return fmt.Errorf("reading %s: %w", ref, err)
		}
		content := string(raw)
		title := skillfile.ExtractTitle(content, filepath.Base(ref))

		docID, err := a.Registry.UpsertDocument(ctx, registry.DocumentInput{
			Title:   fmt.Sprintf("%s: %s", skillName, title),
			Content: content,
			Path:    storePath(ref, skillsDir),
			DocType: registry.DocTypeReference,
		})
		if err != nil {
			return err
		}
		if err := a.Registry.LinkSkillToDocument(ctx, skillID, docID, 0.9); err != nil {
			return err
		}
	}
	return nil
}

// indexDocuments upserts every markdown file under docsDir.
func indexDocuments(ctx context.Context, a *app.App, docsDir string) (int, error) {
	if _, err := os.Stat(docsDir); os.IsNotExist(err) {
		fmt.Printf("Docs directory not found: %s\n", docsDir)
		return 0, nil
	}

	count := 0
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if _, err := indexDocumentFile(ctx, a, path, docsDir); err != nil {
			a.Logger.Warn("indexing document failed", "path", path, "error", err)
		} else {
			count++
		}
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walking docs directory: %w", err)
	}
	return count, nil
}

// indexDocumentFile upserts a single markdown document.
func indexDocumentFile(ctx context.Context, a *app.App, path, docsDir string) (uuid.UUID, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(raw)

	fm, _, err := skillfile.Parse(content)
	if err != nil {
		return uuid.Nil, err
	}

	title := fm.Name
	if title == "" {
		title = skillfile.ExtractTitle(content, titleFromFilename(path))
	}
	docType := registry.DocType(fm.DocType)
	if docType == "" {
		docType = advisor.InferDocType(path)
	}

	id, err := a.Registry.UpsertDocument(ctx, registry.DocumentInput{
		Title:       title,
		Content:     content,
		Path:        storePath(path, docsDir),
		DocType:     docType,
		Description: fm.Description,
		SourceURL:   fm.SourceURL,
	})
	if err != nil {
		return uuid.Nil, err
	}
	fmt.Printf("  Indexed document: %s\n", title)
	return id, nil
}

// storePath is the registry key for a file: relative to the content root's
// parent so keys look like "skills/foo/SKILL.md" or "docs/a.md".
func storePath(path, rootDir string) string {
	base := filepath.Dir(filepath.Clean(rootDir))
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// titleFromFilename turns "vector_search-notes.md" into "Vector Search Notes".
func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
