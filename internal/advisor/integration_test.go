//go:build integration

// Integration tests for the document intake workflow against a real
// pgvector-enabled PostgreSQL instance.
package advisor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/skillreg/skillreg/internal/advisor"
	"github.com/skillreg/skillreg/internal/embedding"
	"github.com/skillreg/skillreg/internal/registry"
	"github.com/skillreg/skillreg/internal/testutil"
)

const testDimension = 768

func newTestAdvisor(t *testing.T) (*advisor.Advisor, *registry.Registry, *testutil.MockEmbedder, func()) {
	t.Helper()

	db, cleanup := testutil.SetupTestDB(t)

	mock := testutil.NewMockEmbedder(testDimension)
	gen, err := embedding.NewGenerator(mock, testDimension)
	if err != nil {
		cleanup()
		t.Fatalf("NewGenerator() error = %v", err)
	}
	reg, err := registry.New(db.Pool, gen, testutil.DiscardLogger())
	if err != nil {
		cleanup()
		t.Fatalf("registry.New() error = %v", err)
	}
	adv, err := advisor.New(reg, testutil.DiscardLogger())
	if err != nil {
		cleanup()
		t.Fatalf("advisor.New() error = %v", err)
	}
	return adv, reg, mock, cleanup
}

func vec768(vals ...float32) []float32 {
	v := make([]float32, testDimension)
	copy(v, vals)
	return v
}

func TestAnalyze_NoRelatedSkills(t *testing.T) {
	t.Parallel()

	adv, reg, _, cleanup := newTestAdvisor(t)
	defer cleanup()
	ctx := context.Background()

	report, err := adv.Analyze(ctx, "# Brand New Topic\n\nNothing like this exists.", "docs/research/new.md", 0.7)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Action != advisor.ActionCreateSkill {
		t.Errorf("Action = %q, want %q", report.Action, advisor.ActionCreateSkill)
	}
	if len(report.RelatedSkills) != 0 {
		t.Errorf("RelatedSkills = %d, want 0", len(report.RelatedSkills))
	}

	// The document was indexed with its heading as title and an inferred type.
	doc, err := reg.GetDocumentByID(ctx, report.DocumentID)
	if err != nil {
		t.Fatalf("GetDocumentByID() error = %v", err)
	}
	if doc.Title != "Brand New Topic" {
		t.Errorf("document title = %q, want heading text", doc.Title)
	}
	if doc.DocType != registry.DocTypeResearch {
		t.Errorf("document type = %q, want research", doc.DocType)
	}
}

func TestAnalyze_SimilarityBands(t *testing.T) {
	t.Parallel()

	adv, reg, mock, cleanup := newTestAdvisor(t)
	defer cleanup()
	ctx := context.Background()

	// One skill pinned at a known vector.
	mock.SetVector(embedding.SkillText("existing", "d", "c"), vec768(1))
	if _, err := reg.UpsertSkill(ctx, registry.SkillInput{Name: "existing", Description: "d", Content: "c"}); err != nil {
		t.Fatalf("UpsertSkill() error = %v", err)
	}

	tests := []struct {
		name       string
		content    string
		similarity []float32
		want       advisor.Action
	}{
		{
			name:       "above update band",
			content:    "near-duplicate content",
			similarity: vec768(0.95, 0.3122499), // cos ~0.95
			want:       advisor.ActionUpdateSkills,
		},
		{
			name:       "reference band",
			content:    "adjacent content",
			similarity: vec768(0.8, 0.6), // cos 0.8
			want:       advisor.ActionReferenceOnly,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.SetVector(tt.content, tt.similarity)
			path := []string{"docs/near.md", "docs/adjacent.md"}[i]

			report, err := adv.Analyze(ctx, tt.content, path, 0.7)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if report.Action != tt.want {
				t.Errorf("Action = %q, want %q", report.Action, tt.want)
			}
			if len(report.RelatedSkills) != 1 || report.RelatedSkills[0].Name != "existing" {
				t.Errorf("RelatedSkills = %v", report.RelatedSkills)
			}
			if report.Recommendation == "" {
				t.Error("Recommendation is empty")
			}
		})
	}
}

func TestCreateSkillFromDocument(t *testing.T) {
	t.Parallel()

	adv, reg, _, cleanup := newTestAdvisor(t)
	defer cleanup()
	ctx := context.Background()

	docID, err := reg.UpsertDocument(ctx, registry.DocumentInput{Path: "docs/source.md", Content: "source material"})
	if err != nil {
		t.Fatalf("UpsertDocument() error = %v", err)
	}

	skillID, err := adv.CreateSkillFromDocument(ctx, "derived", "From source", "skill body", docID, "")
	if err != nil {
		t.Fatalf("CreateSkillFromDocument() error = %v", err)
	}

	skill, err := reg.GetSkillByID(ctx, skillID)
	if err != nil {
		t.Fatalf("GetSkillByID() error = %v", err)
	}
	if skill.Version != "1.0.0" {
		t.Errorf("skill version = %q, want default 1.0.0", skill.Version)
	}
	if skill.Path != "skills/derived/SKILL.md" {
		t.Errorf("skill path = %q", skill.Path)
	}

	sources, err := reg.GetSkillSources(ctx, skillID)
	if err != nil {
		t.Fatalf("GetSkillSources() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Relevance != 1.0 {
		t.Errorf("sources = %d rows, relevance %v; want 1 row at 1.0", len(sources), sources)
	}

	versions, err := reg.GetSkillVersions(ctx, skillID)
	if err != nil {
		t.Fatalf("GetSkillVersions() error = %v", err)
	}
	if len(versions) != 1 || versions[0].Version != "1.0.0" {
		t.Errorf("versions = %v, want one 1.0.0 snapshot", versions)
	}
}

func TestUpdateSkillWithDocument(t *testing.T) {
	t.Parallel()

	adv, reg, _, cleanup := newTestAdvisor(t)
	defer cleanup()
	ctx := context.Background()

	skillID, err := reg.UpsertSkill(ctx, registry.SkillInput{
		Name: "evolving", Description: "desc", Content: "old", Version: "1.0.0",
	})
	if err != nil {
		t.Fatalf("UpsertSkill() error = %v", err)
	}
	docID, err := reg.UpsertDocument(ctx, registry.DocumentInput{Path: "docs/update.md", Content: "new findings"})
	if err != nil {
		t.Fatalf("UpsertDocument() error = %v", err)
	}

	err = adv.UpdateSkillWithDocument(ctx, skillID, "new content", docID, "1.1.0", "added findings")
	if err != nil {
		t.Fatalf("UpdateSkillWithDocument() error = %v", err)
	}

	skill, err := reg.GetSkill(ctx, "evolving")
	if err != nil {
		t.Fatalf("GetSkill() error = %v", err)
	}
	if skill.Content != "new content" || skill.Version != "1.1.0" {
		t.Errorf("skill = {content: %q, version: %q}, want updated", skill.Content, skill.Version)
	}

	sources, err := reg.GetSkillSources(ctx, skillID)
	if err != nil {
		t.Fatalf("GetSkillSources() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Relevance != 0.8 {
		t.Errorf("update link relevance = %v, want 0.8", sources)
	}

	// Unknown skill ids surface as soft misses.
	err = adv.UpdateSkillWithDocument(ctx, uuid.New(), "x", docID, "2.0.0", "")
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("UpdateSkillWithDocument(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSkillWithSources(t *testing.T) {
	t.Parallel()

	adv, reg, _, cleanup := newTestAdvisor(t)
	defer cleanup()
	ctx := context.Background()

	docID, err := reg.UpsertDocument(ctx, registry.DocumentInput{Path: "docs/ctx.md", Content: "context"})
	if err != nil {
		t.Fatalf("UpsertDocument() error = %v", err)
	}
	skillID, err := adv.CreateSkillFromDocument(ctx, "contextual", "d", "body", docID, "1.0.0")
	if err != nil {
		t.Fatalf("CreateSkillFromDocument() error = %v", err)
	}

	sc, err := adv.SkillWithSources(ctx, "contextual")
	if err != nil {
		t.Fatalf("SkillWithSources() error = %v", err)
	}
	if sc.Skill.ID != skillID {
		t.Errorf("skill id = %s, want %s", sc.Skill.ID, skillID)
	}
	if len(sc.Sources) != 1 || len(sc.Versions) != 1 {
		t.Errorf("sources = %d, versions = %d; want 1 and 1", len(sc.Sources), len(sc.Versions))
	}
}
