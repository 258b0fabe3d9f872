// Package advisor drives the document intake workflow: index an incoming
// document, measure its overlap with existing skills, and recommend whether
// to create a skill, update one, or keep the document as a reference.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillreg/skillreg/internal/log"
	"github.com/skillreg/skillreg/internal/registry"
	"github.com/skillreg/skillreg/internal/skillfile"
)

// Action is the recommended follow-up for an analyzed document.
type Action string

const (
	ActionCreateSkill   Action = "create_skill"
	ActionUpdateSkills  Action = "update_skills"
	ActionReferenceOnly Action = "reference_only"
)

// updateThreshold is the similarity above which a document is considered an
// update to its closest skill rather than new material.
const updateThreshold = 0.85

// Relevance weights recorded on skill-document links, by how the document
// was used.
const (
	createRelevance = 1.0
	updateRelevance = 0.8
)

// Report is the outcome of analyzing one document.
type Report struct {
	Action         Action
	DocumentID     uuid.UUID
	RelatedSkills  []*registry.SkillMatch
	Recommendation string
}

// Advisor composes registry operations into intake workflows.
type Advisor struct {
	reg    *registry.Registry
	logger log.Logger
}

// New creates an Advisor over an initialized Registry.
func New(reg *registry.Registry, logger log.Logger) (*Advisor, error) {
	if reg == nil {
		return nil, fmt.Errorf("advisor: registry is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Advisor{reg: reg, logger: logger}, nil
}

// Analyze indexes a document and recommends what to do with it.
//
// The document is upserted (deduplicated by path and content hash), then
// compared against every embedded skill. No related skills means new
// territory; a top similarity above 0.85 means the closest skill should
// absorb the document; anything in between is reference material.
func (a *Advisor) Analyze(ctx context.Context, content, path string, threshold float64) (*Report, error) {
	title := skillfile.ExtractTitle(content, "Untitled")

	docID, err := a.reg.UpsertDocument(ctx, registry.DocumentInput{
		Title:   title,
		Content: content,
		Path:    path,
		DocType: InferDocType(path),
	})
	if err != nil {
		return nil, fmt.Errorf("indexing document %q: %w", path, err)
	}

	related, err := a.reg.FindRelatedSkills(ctx, content, threshold)
	if err != nil {
		return nil, fmt.Errorf("finding related skills: %w", err)
	}

	report := &Report{
		DocumentID:    docID,
		RelatedSkills: related,
	}
	switch {
	case len(related) == 0:
		report.Action = ActionCreateSkill
		report.Recommendation = fmt.Sprintf(
			"No existing skills found related to %q. Consider creating a new skill based on this document.",
			title)
	case related[0].Similarity > updateThreshold:
		report.Action = ActionUpdateSkills
		report.Recommendation = fmt.Sprintf(
			"Document is highly similar to %q (similarity: %.2f). Consider updating this skill with new information.",
			related[0].Name, related[0].Similarity)
	default:
		report.Action = ActionReferenceOnly
		names := make([]string, 0, 3)
		for _, m := range related {
			names = append(names, m.Name)
			if len(names) == 3 {
				break
			}
		}
		report.Recommendation = fmt.Sprintf(
			"Document relates to skills: %s. Consider adding as a reference to these skills.",
			strings.Join(names, ", "))
	}

	a.logger.Debug("analyzed document", "path", path, "action", report.Action, "related", len(related))
	return report, nil
}

// CreateSkillFromDocument registers a new skill derived from an indexed
// document, snapshots its initial version, and links the source with full
// relevance. The caller supplies the skill content; this method only runs
// the registry operations.
func (a *Advisor) CreateSkillFromDocument(ctx context.Context, name, description, content string, documentID uuid.UUID, version string) (uuid.UUID, error) {
	if version == "" {
		version = "1.0.0"
	}

	skillID, err := a.reg.UpsertSkill(ctx, registry.SkillInput{
		Name:        name,
		Description: description,
		Content:     content,
		Path:        fmt.Sprintf("skills/%s/SKILL.md", name),
		Version:     version,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("creating skill %q: %w", name, err)
	}

	if err := a.reg.LinkSkillToDocument(ctx, skillID, documentID, createRelevance); err != nil {
		return uuid.Nil, fmt.Errorf("linking source document: %w", err)
	}

	if _, err := a.reg.CreateSkillVersion(ctx, skillID, version, content, "Initial version created from document"); err != nil {
		return uuid.Nil, fmt.Errorf("snapshotting initial version: %w", err)
	}

	a.logger.Debug("created skill from document", "skill", name, "document_id", documentID)
	return skillID, nil
}

// UpdateSkillWithDocument rewrites an existing skill's content, snapshots
// the new version, and links the document that motivated the change.
// Returns ErrNotFound when the skill id is unknown.
func (a *Advisor) UpdateSkillWithDocument(ctx context.Context, skillID uuid.UUID, newContent string, documentID uuid.UUID, newVersion, changeSummary string) error {
	skill, err := a.reg.GetSkillByID(ctx, skillID)
	if err != nil {
		return err
	}

	_, err = a.reg.UpsertSkill(ctx, registry.SkillInput{
		Name:        skill.Name,
		Description: skill.Description,
		Content:     newContent,
		Path:        skill.Path,
		Version:     newVersion,
		Author:      skill.Author,
	})
	if err != nil {
		return fmt.Errorf("updating skill %q: %w", skill.Name, err)
	}

	if _, err := a.reg.CreateSkillVersion(ctx, skillID, newVersion, newContent, changeSummary); err != nil {
		return fmt.Errorf("snapshotting version %q: %w", newVersion, err)
	}

	if err := a.reg.LinkSkillToDocument(ctx, skillID, documentID, updateRelevance); err != nil {
		return fmt.Errorf("linking source document: %w", err)
	}

	a.logger.Debug("updated skill from document", "skill", skill.Name, "version", newVersion)
	return nil
}

// SkillContext is a skill together with its provenance.
type SkillContext struct {
	Skill    *registry.Skill
	Sources  []*registry.LinkedDocument
	Versions []*registry.SkillVersion
}

// SkillWithSources returns a skill plus its source documents and version
// history, for callers that need the full picture behind a skill.
func (a *Advisor) SkillWithSources(ctx context.Context, name string) (*SkillContext, error) {
	skill, err := a.reg.GetSkill(ctx, name)
	if err != nil {
		return nil, err
	}
	sources, err := a.reg.GetSkillSources(ctx, skill.ID)
	if err != nil {
		return nil, err
	}
	versions, err := a.reg.GetSkillVersions(ctx, skill.ID)
	if err != nil {
		return nil, err
	}
	return &SkillContext{Skill: skill, Sources: sources, Versions: versions}, nil
}

// InferDocType guesses a document's type from its path. Unknown paths are
// treated as research material.
func InferDocType(path string) registry.DocType {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "blog"):
		return registry.DocTypeBlog
	case strings.Contains(p, "research"):
		return registry.DocTypeResearch
	case strings.Contains(p, "case"), strings.Contains(p, "example"):
		return registry.DocTypeCaseStudy
	case strings.Contains(p, "reference"):
		return registry.DocTypeReference
	}
	return registry.DocTypeResearch
}
