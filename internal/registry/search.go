package registry

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/skillreg/skillreg/internal/embedding"
)

// SearchSkills returns skills semantically similar to query, ordered by
// descending cosine similarity. Only rows with similarity strictly above
// threshold are returned, at most limit of them. Skills without an
// embedding never match.
func (r *Registry) SearchSkills(ctx context.Context, query string, threshold float64, limit int) ([]*SkillMatch, error) {
	if query == "" || limit <= 0 {
		return nil, nil
	}

	vec, err := r.embed(ctx, embedding.QueryText(query))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.searchSkillsByVector(ctx, vec, threshold, limit)
}

// FindRelatedSkills returns every skill whose similarity to content exceeds
// threshold, ordered by descending similarity with no result cap. Content
// is truncated to the document embedding budget before the query vector is
// computed.
func (r *Registry) FindRelatedSkills(ctx context.Context, content string, threshold float64) ([]*SkillMatch, error) {
	if content == "" {
		return nil, nil
	}

	vec, err := r.embed(ctx, embedding.QueryText(content))
	if err != nil {
		return nil, fmt.Errorf("embedding content: %w", err)
	}
	return r.searchSkillsByVector(ctx, vec, threshold, 0)
}

// searchSkillsByVector runs the similarity query. limit <= 0 means no cap.
func (r *Registry) searchSkillsByVector(ctx context.Context, vec pgvector.Vector, threshold float64, limit int) ([]*SkillMatch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+skillCols+`, 1 - (embedding <=> $1) AS similarity
		 FROM skills
		 WHERE embedding IS NOT NULL
		   AND 1 - (embedding <=> $1) > $2
		 ORDER BY embedding <=> $1
		 LIMIT NULLIF($3, 0)`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching skills: %w", err)
	}
	defer rows.Close()

	var matches []*SkillMatch
	for rows.Next() {
		var m SkillMatch
		s := &m.Skill
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Content, &s.Path,
			&s.Version, &s.Author, &s.HasEmbedding, &s.CreatedAt, &s.UpdatedAt,
			&m.Similarity)
		if err != nil {
			return nil, fmt.Errorf("scanning skill match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skill matches: %w", err)
	}
	return matches, nil
}

// SearchDocuments mirrors SearchSkills over documents.
func (r *Registry) SearchDocuments(ctx context.Context, query string, threshold float64, limit int) ([]*DocumentMatch, error) {
	if query == "" || limit <= 0 {
		return nil, nil
	}

	vec, err := r.embed(ctx, embedding.QueryText(query))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+documentCols+`, 1 - (embedding <=> $1) AS similarity
		 FROM documents
		 WHERE embedding IS NOT NULL
		   AND 1 - (embedding <=> $1) > $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var matches []*DocumentMatch
	for rows.Next() {
		var m DocumentMatch
		d := &m.Document
		err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Path, &d.ContentHash,
			&d.DocType, &d.Description, &d.SourceURL, &d.HasEmbedding,
			&d.CreatedAt, &d.UpdatedAt, &m.Similarity)
		if err != nil {
			return nil, fmt.Errorf("scanning document match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document matches: %w", err)
	}
	return matches, nil
}
