package registry

import (
	"context"
	"fmt"
)

// Stats returns registry-wide row counts. Read-only.
func (r *Registry) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM skills),
			(SELECT count(*) FROM skills WHERE embedding IS NOT NULL),
			(SELECT count(*) FROM documents),
			(SELECT count(*) FROM documents WHERE embedding IS NOT NULL),
			(SELECT count(*) FROM skill_sources)`,
	).Scan(&st.Skills, &st.SkillsWithEmbedding, &st.Documents, &st.DocsWithEmbedding, &st.Links)
	if err != nil {
		return Stats{}, fmt.Errorf("querying registry stats: %w", err)
	}
	return st, nil
}
