package registry

import (
	"time"

	"github.com/google/uuid"
)

// DocType classifies a document's origin.
type DocType string

const (
	DocTypeBlog      DocType = "blog"
	DocTypeResearch  DocType = "research"
	DocTypeCaseStudy DocType = "case_study"
	DocTypeReference DocType = "reference"
)

// Valid reports whether dt is a known document type.
func (dt DocType) Valid() bool {
	switch dt {
	case DocTypeBlog, DocTypeResearch, DocTypeCaseStudy, DocTypeReference:
		return true
	}
	return false
}

// Skill is a registered capability with an optional semantic embedding.
// The embedding vector itself stays in the store; HasEmbedding reports
// whether one is present.
type Skill struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Content      string
	Path         string
	Version      string
	Author       string
	HasEmbedding bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Document is an ingested source text, deduplicated by path and
// change-detected by content hash.
type Document struct {
	ID           uuid.UUID
	Title        string
	Content      string
	Path         string
	ContentHash  string
	DocType      DocType
	Description  string
	SourceURL    string
	HasEmbedding bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SkillVersion is an immutable snapshot of a skill's content at a point in
// time. Version strings may repeat; rows are append-only.
type SkillVersion struct {
	ID            uuid.UUID
	SkillID       uuid.UUID
	Version       string
	Content       string
	ChangeSummary string
	CreatedAt     time.Time
}

// SkillInput holds the fields for UpsertSkill. SkipEmbedding leaves the
// stored embedding untouched (or null on first insert).
type SkillInput struct {
	Name          string
	Description   string
	Content       string
	Path          string
	Version       string
	Author        string
	SkipEmbedding bool
}

// DocumentInput holds the fields for UpsertDocument.
type DocumentInput struct {
	Title         string
	Content       string
	Path          string
	DocType       DocType
	Description   string
	SourceURL     string
	SkipEmbedding bool
}

// SkillMatch is a search hit with its cosine similarity to the query.
type SkillMatch struct {
	Skill
	Similarity float64
}

// DocumentMatch is a search hit with its cosine similarity to the query.
type DocumentMatch struct {
	Document
	Similarity float64
}

// LinkedDocument is a source document attached to a skill with a relevance
// weight in [0, 1].
type LinkedDocument struct {
	Document
	Relevance float64
}

// LinkedSkill is a skill derived from a document with a relevance weight.
type LinkedSkill struct {
	Skill
	Relevance float64
}

// Stats aggregates registry-wide row counts.
type Stats struct {
	Skills              int64 `json:"skills"`
	SkillsWithEmbedding int64 `json:"skills_with_embedding"`
	Documents           int64 `json:"documents"`
	DocsWithEmbedding   int64 `json:"documents_with_embedding"`
	Links               int64 `json:"links"`
}
