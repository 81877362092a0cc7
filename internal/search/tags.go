package search

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TagRepo answers tag-name prefix queries. Tag names are stored normalized
// (lowercase), so the term is lowercased before matching.
type TagRepo struct {
	db *pgxpool.Pool
}

func NewTagRepo(db *pgxpool.Pool) *TagRepo {
	return &TagRepo{db: db}
}

func (r *TagRepo) SearchByPrefix(ctx context.Context, term string, limit int) ([]string, error) {
	const q = `
select name
from tags
where name like $1
order by name asc
limit $2;
`
	rows, err := r.db.Query(ctx, q, escapeLike(strings.ToLower(term))+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
