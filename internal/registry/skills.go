package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillreg/skillreg/internal/embedding"
)

// UpsertSkill inserts or replaces a skill keyed on name and returns its id.
//
// Unless in.SkipEmbedding is set, the embedding is always recomputed from
// the current name, description, and content. There is no change-detection
// skip for skills. The write is a single upsert statement, so either the
// full row including the embedding lands or nothing does.
func (r *Registry) UpsertSkill(ctx context.Context, in SkillInput) (uuid.UUID, error) {
	if in.Name == "" {
		return uuid.Nil, ErrNameRequired
	}
	if in.Version == "" {
		in.Version = "1.0.0"
	}

	// Embed outside any store work; no connection is held during the call.
	var vec any
	if !in.SkipEmbedding {
		v, err := r.embed(ctx, embedding.SkillText(in.Name, in.Description, in.Content))
		if err != nil {
			return uuid.Nil, err
		}
		vec = v
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO skills (name, description, content, path, version, author, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (name) DO UPDATE
		 SET description = EXCLUDED.description,
		     content     = EXCLUDED.content,
		     path        = EXCLUDED.path,
		     version     = EXCLUDED.version,
		     author      = EXCLUDED.author,
		     embedding   = COALESCE(EXCLUDED.embedding, skills.embedding)
		 RETURNING id`,
		in.Name, in.Description, in.Content, in.Path, in.Version, in.Author, vec,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upserting skill %q: %w", in.Name, err)
	}

	r.logger.Debug("upserted skill", "name", in.Name, "id", id, "embedded", !in.SkipEmbedding)
	return id, nil
}

// GetSkill returns the skill with the given name, or ErrNotFound.
func (r *Registry) GetSkill(ctx context.Context, name string) (*Skill, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+skillCols+` FROM skills WHERE name = $1`, name)
	return skillOrNotFound(row, name)
}

// GetSkillByID returns the skill with the given id, or ErrNotFound.
func (r *Registry) GetSkillByID(ctx context.Context, id uuid.UUID) (*Skill, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+skillCols+` FROM skills WHERE id = $1`, id)
	return skillOrNotFound(row, id.String())
}

func skillOrNotFound(row pgx.Row, key string) (*Skill, error) {
	s, err := scanSkill(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("skill %q: %w", key, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("querying skill %q: %w", key, err)
	}
	return s, nil
}

// ListSkills returns every skill ordered by name.
func (r *Registry) ListSkills(ctx context.Context) ([]*Skill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+skillCols+` FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	return scanSkills(rows)
}

// DeleteSkill removes the named skill and, via cascade, its version
// snapshots and document links. It reports whether a row existed.
func (r *Registry) DeleteSkill(ctx context.Context, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("deleting skill %q: %w", name, err)
	}
	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Debug("deleted skill", "name", name)
	}
	return deleted, nil
}

// CreateSkillVersion appends an immutable content snapshot for a skill.
// Duplicate version strings are allowed; every call inserts a new row.
// A missing skill id returns ErrNotFound.
func (r *Registry) CreateSkillVersion(ctx context.Context, skillID uuid.UUID, version, content, changeSummary string) (uuid.UUID, error) {
	if version == "" {
		return uuid.Nil, ErrVersionRequired
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO skill_versions (skill_id, version, content, change_summary)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		skillID, version, content, changeSummary,
	).Scan(&id)
	if err != nil {
		if mapped := mapFKViolation(err); errors.Is(mapped, ErrNotFound) {
			return uuid.Nil, fmt.Errorf("skill %s: %w", skillID, ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("creating skill version %q: %w", version, err)
	}
	return id, nil
}

// GetSkillVersions returns a skill's snapshots, most recent first.
func (r *Registry) GetSkillVersions(ctx context.Context, skillID uuid.UUID) ([]*SkillVersion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, skill_id, version, content, change_summary, created_at
		 FROM skill_versions
		 WHERE skill_id = $1
		 ORDER BY created_at DESC`,
		skillID)
	if err != nil {
		return nil, fmt.Errorf("listing skill versions: %w", err)
	}
	defer rows.Close()

	var versions []*SkillVersion
	for rows.Next() {
		var v SkillVersion
		if err := rows.Scan(&v.ID, &v.SkillID, &v.Version, &v.Content, &v.ChangeSummary, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning skill version row: %w", err)
		}
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill version rows: %w", err)
	}
	return versions, nil
}

// GetSkillSources returns the documents linked to a skill, highest
// relevance first.
func (r *Registry) GetSkillSources(ctx context.Context, skillID uuid.UUID) ([]*LinkedDocument, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.title, d.content, d.path, d.content_hash, d.doc_type,
		        d.description, d.source_url, d.embedding IS NOT NULL AS has_embedding,
		        d.created_at, d.updated_at, ss.relevance
		 FROM skill_sources ss
		 JOIN documents d ON d.id = ss.document_id
		 WHERE ss.skill_id = $1
		 ORDER BY ss.relevance DESC, d.path`,
		skillID)
	if err != nil {
		return nil, fmt.Errorf("listing skill sources: %w", err)
	}
	defer rows.Close()

	var linked []*LinkedDocument
	for rows.Next() {
		var ld LinkedDocument
		d := &ld.Document
		err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Path, &d.ContentHash,
			&d.DocType, &d.Description, &d.SourceURL, &d.HasEmbedding,
			&d.CreatedAt, &d.UpdatedAt, &ld.Relevance)
		if err != nil {
			return nil, fmt.Errorf("scanning skill source row: %w", err)
		}
		linked = append(linked, &ld)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill source rows: %w", err)
	}
	return linked, nil
}
