// Package registry persists skills and documents with semantic embeddings
// in PostgreSQL + pgvector and answers similarity queries over them.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/skillreg/skillreg/internal/embedding"
	"github.com/skillreg/skillreg/internal/log"
)

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// skillCols is the standard SELECT column list for scanSkill. The embedding
// vector is never read back; only its presence is.
const skillCols = `id, name, description, content, path, version, author,
	embedding IS NOT NULL AS has_embedding, created_at, updated_at`

// documentCols is the standard SELECT column list for scanDocument.
const documentCols = `id, title, content, path, content_hash, doc_type,
	description, source_url, embedding IS NOT NULL AS has_embedding,
	created_at, updated_at`

// foreignKeyViolation is the PostgreSQL error code for a missing referenced
// row. Link and version writes map it to ErrNotFound.
const foreignKeyViolation = "23503"

// Registry is the façade over the skill and document store.
//
// Registry holds no state beyond its store handle and is safe for
// concurrent reads; concurrent writes to the same named entity rely on the
// store's single-row upsert atomicity, nothing more.
type Registry struct {
	pool   *pgxpool.Pool
	gen    *embedding.Generator
	logger log.Logger
}

// New creates a Registry over an open pool and a configured embedding
// Generator.
func New(pool *pgxpool.Pool, gen *embedding.Generator, logger log.Logger) (*Registry, error) {
	if pool == nil {
		return nil, fmt.Errorf("registry: pool is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("registry: embedding generator is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{pool: pool, gen: gen, logger: logger}, nil
}

// embed produces the stored vector form of text.
func (r *Registry) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	vec, err := r.gen.Embed(ctx, text)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding text: %w", err)
	}
	return pgvector.NewVector(vec), nil
}

// beginTx starts a transaction whose rollback is safe to defer; rollback
// after commit is a no-op.
func (r *Registry) beginTx(ctx context.Context) (pgx.Tx, func(), error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	rollback := func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Debug("transaction rollback", "error", rbErr)
		}
	}
	return tx, rollback, nil
}

// mapFKViolation converts a foreign-key violation into ErrNotFound so that
// writing against a deleted parent reads as a soft miss.
func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrNotFound
	}
	return err
}

func scanSkill(row pgx.Row) (*Skill, error) {
	var s Skill
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Content, &s.Path,
		&s.Version, &s.Author, &s.HasEmbedding, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSkills(rows pgx.Rows) ([]*Skill, error) {
	defer rows.Close()
	var skills []*Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill rows: %w", err)
	}
	return skills, nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Path, &d.ContentHash,
		&d.DocType, &d.Description, &d.SourceURL, &d.HasEmbedding,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]*Document, error) {
	defer rows.Close()
	var docs []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}
