package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillreg/skillreg/internal/embedding"
)

// UpsertDocument inserts or replaces a document keyed on path and returns
// its id.
//
// The content fingerprint gates the write: when a row already exists at the
// path with an identical fingerprint, the existing id is returned, no
// embedding is computed, and no field is touched. Otherwise the row is
// written in full with a fresh embedding (unless in.SkipEmbedding).
//
// The fingerprint check runs twice: once on the pool to decide whether to
// pay for the embedding call, and again inside the write transaction so a
// concurrent identical upsert stays a no-op.
func (r *Registry) UpsertDocument(ctx context.Context, in DocumentInput) (uuid.UUID, error) {
	if in.Path == "" {
		return uuid.Nil, ErrPathRequired
	}
	if in.DocType == "" {
		in.DocType = DocTypeReference
	}
	if !in.DocType.Valid() {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidDocType, in.DocType)
	}

	hash := embedding.Fingerprint(in.Content)

	// Fast path: unchanged content costs one SELECT and zero embed calls.
	id, found, err := r.documentIDByPathAndHash(ctx, r.pool, in.Path, hash)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		r.logger.Debug("document unchanged, skipping re-embed", "path", in.Path)
		return id, nil
	}

	// Embed before the transaction; no connection is held during the call.
	var vec any
	if !in.SkipEmbedding {
		v, err := r.embed(ctx, embedding.DocumentText(in.Title, in.Content))
		if err != nil {
			return uuid.Nil, err
		}
		vec = v
	}

	tx, rollback, err := r.beginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer rollback()

	// Re-check under the transaction; another writer may have landed the
	// same content since the fast path.
	id, found, err = r.documentIDByPathAndHash(ctx, tx, in.Path, hash)
	if err != nil {
		return uuid.Nil, err
	}
	if !found {
		err = tx.QueryRow(ctx,
			`INSERT INTO documents (title, content, path, content_hash, doc_type, description, source_url, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (path) DO UPDATE
			 SET title        = EXCLUDED.title,
			     content      = EXCLUDED.content,
			     content_hash = EXCLUDED.content_hash,
			     doc_type     = EXCLUDED.doc_type,
			     description  = EXCLUDED.description,
			     source_url   = EXCLUDED.source_url,
			     embedding    = COALESCE(EXCLUDED.embedding, documents.embedding)
			 RETURNING id`,
			in.Title, in.Content, in.Path, hash, in.DocType, in.Description, in.SourceURL, vec,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("upserting document %q: %w", in.Path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing document upsert: %w", err)
	}

	r.logger.Debug("upserted document", "path", in.Path, "id", id, "embedded", !in.SkipEmbedding)
	return id, nil
}

// documentIDByPathAndHash returns the id of the document at path when its
// stored fingerprint equals hash.
func (*Registry) documentIDByPathAndHash(ctx context.Context, q querier, path, hash string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`SELECT id FROM documents WHERE path = $1 AND content_hash = $2`,
		path, hash,
	).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return uuid.Nil, false, nil
	case err != nil:
		return uuid.Nil, false, fmt.Errorf("checking document fingerprint: %w", err)
	}
	return id, true, nil
}

// GetDocument returns the document at the given path, or ErrNotFound.
func (r *Registry) GetDocument(ctx context.Context, path string) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentCols+` FROM documents WHERE path = $1`, path)
	return documentOrNotFound(row, path)
}

// GetDocumentByID returns the document with the given id, or ErrNotFound.
func (r *Registry) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentCols+` FROM documents WHERE id = $1`, id)
	return documentOrNotFound(row, id.String())
}

func documentOrNotFound(row pgx.Row, key string) (*Document, error) {
	d, err := scanDocument(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("document %q: %w", key, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("querying document %q: %w", key, err)
	}
	return d, nil
}

// ListDocuments returns documents ordered by path. A non-empty docType
// filters to that type.
func (r *Registry) ListDocuments(ctx context.Context, docType DocType) ([]*Document, error) {
	if docType != "" && !docType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocType, docType)
	}

	var rows pgx.Rows
	var err error
	if docType == "" {
		rows, err = r.pool.Query(ctx,
			`SELECT `+documentCols+` FROM documents ORDER BY path`)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+documentCols+` FROM documents WHERE doc_type = $1 ORDER BY path`, docType)
	}
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return scanDocuments(rows)
}

// DeleteDocument removes the document at path and, via cascade, its skill
// links. It reports whether a row existed.
func (r *Registry) DeleteDocument(ctx context.Context, path string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path)
	if err != nil {
		return false, fmt.Errorf("deleting document %q: %w", path, err)
	}
	deleted := tag.RowsAffected() > 0
	if deleted {
		r.logger.Debug("deleted document", "path", path)
	}
	return deleted, nil
}

// LinkSkillToDocument records that a document is a source for a skill.
// Linking an existing pair updates its relevance in place. A missing skill
// or document id returns ErrNotFound.
func (r *Registry) LinkSkillToDocument(ctx context.Context, skillID, documentID uuid.UUID, relevance float64) error {
	if relevance < 0 || relevance > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRelevance, relevance)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO skill_sources (skill_id, document_id, relevance)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (skill_id, document_id) DO UPDATE
		 SET relevance = EXCLUDED.relevance`,
		skillID, documentID, relevance,
	)
	if err != nil {
		if mapped := mapFKViolation(err); errors.Is(mapped, ErrNotFound) {
			return fmt.Errorf("linking %s -> %s: %w", skillID, documentID, ErrNotFound)
		}
		return fmt.Errorf("linking skill to document: %w", err)
	}
	return nil
}

// GetDocumentSkills returns the skills that cite a document as a source,
// highest relevance first.
func (r *Registry) GetDocumentSkills(ctx context.Context, documentID uuid.UUID) ([]*LinkedSkill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, s.description, s.content, s.path, s.version, s.author,
		        s.embedding IS NOT NULL AS has_embedding, s.created_at, s.updated_at,
		        ss.relevance
		 FROM skill_sources ss
		 JOIN skills s ON s.id = ss.skill_id
		 WHERE ss.document_id = $1
		 ORDER BY ss.relevance DESC, s.name`,
		documentID)
	if err != nil {
		return nil, fmt.Errorf("listing document skills: %w", err)
	}
	defer rows.Close()

	var linked []*LinkedSkill
	for rows.Next() {
		var ls LinkedSkill
		s := &ls.Skill
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Content, &s.Path,
			&s.Version, &s.Author, &s.HasEmbedding, &s.CreatedAt, &s.UpdatedAt,
			&ls.Relevance)
		if err != nil {
			return nil, fmt.Errorf("scanning document skill row: %w", err)
		}
		linked = append(linked, &ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document skill rows: %w", err)
	}
	return linked, nil
}
