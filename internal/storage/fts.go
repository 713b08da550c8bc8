package storage

import (
	"context"
	"database/sql"
	"strings"
)

// SearchResult is a declaration matched by a binding search
type SearchResult struct {
	BindingRecord
	MatchType string // exact, prefix or substring
}

// Search finds declarations whose binding matches query. Phrase matches come
// first, then token prefix matches, then plain substring matches.
func (r *BindingRepository) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil, nil
	}

	phrase := quoteFTS5(query)
	tiers := []struct {
		matchType string
		run       func(remaining int) (*sql.Rows, error)
	}{
		{"exact", func(n int) (*sql.Rows, error) { return r.matchFTS(ctx, phrase, n) }},
		{"prefix", func(n int) (*sql.Rows, error) { return r.matchFTS(ctx, phrase+"*", n) }},
		{"substring", func(n int) (*sql.Rows, error) {
			return r.db.conn.QueryContext(ctx, `
				SELECT binding, artifact_id, source_path, is_type
				FROM bindings
				WHERE binding LIKE ? ESCAPE '\'
				ORDER BY binding
				LIMIT ?
			`, "%"+escapeLike(query)+"%", n)
		}},
	}

	var results []SearchResult
	seen := make(map[BindingRecord]bool)
	for _, tier := range tiers {
		if len(results) >= limit {
			break
		}
		rows, err := tier.run(limit - len(results))
		if err != nil {
			return nil, err
		}
		records, err := scanBindings(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if seen[rec] || len(results) >= limit {
				continue
			}
			seen[rec] = true
			results = append(results, SearchResult{BindingRecord: rec, MatchType: tier.matchType})
		}
	}
	return results, nil
}

func (r *BindingRepository) matchFTS(ctx context.Context, ftsQuery string, limit int) (*sql.Rows, error) {
	return r.db.conn.QueryContext(ctx, `
		SELECT b.binding, b.artifact_id, b.source_path, b.is_type
		FROM bindings_fts f
		JOIN bindings b ON f.rowid = b.rowid
		WHERE bindings_fts MATCH ?
		ORDER BY bm25(bindings_fts), b.is_type DESC, b.binding
		LIMIT ?
	`, ftsQuery, limit)
}

// RebuildIndex rebuilds the full-text index from the bindings table.
func (r *BindingRepository) RebuildIndex(ctx context.Context) error {
	_, err := r.db.conn.ExecContext(ctx, "INSERT INTO bindings_fts(bindings_fts) VALUES('rebuild')")
	return err
}

// Optimize merges the full-text index segments.
func (r *BindingRepository) Optimize(ctx context.Context) error {
	_, err := r.db.conn.ExecContext(ctx, "INSERT INTO bindings_fts(bindings_fts) VALUES('optimize')")
	return err
}

// quoteFTS5 turns arbitrary text into a single FTS5 phrase.
func quoteFTS5(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
