package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tracklet-backend/internal/domain"
)

// listQuery assembles the WHERE, ORDER BY and LIMIT parts of a list
// statement with positional arguments.
type listQuery struct {
	base  string
	where []string
	args  []any
	order string
}

func newListQuery(base string) *listQuery {
	return &listQuery{base: base}
}

// arg registers v and returns its placeholder.
func (q *listQuery) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) and(cond string) {
	q.where = append(q.where, cond)
}

func (q *listQuery) eq(column string, v *int32) {
	if v != nil {
		q.and(column + " = " + q.arg(*v))
	}
}

// search requires every whitespace-separated term to match at least one of
// the columns.
func (q *listQuery) search(term string, columns ...string) {
	for _, word := range strings.Fields(term) {
		ph := q.arg("%" + escapeLike(word) + "%")
		parts := make([]string, len(columns))
		for i, c := range columns {
			parts[i] = c + " ILIKE " + ph
		}
		q.and("(" + strings.Join(parts, " OR ") + ")")
	}
}

// orderBy resolves a comma-separated ordering parameter against the allowed
// fields. Unknown fields are ignored; if nothing is left the default applies.
func (q *listQuery) orderBy(ordering string, allowed map[string]string, fallback ...string) {
	var terms []string
	for _, raw := range strings.Split(ordering, ",") {
		name := strings.TrimSpace(raw)
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		col, ok := allowed[name]
		if !ok {
			continue
		}
		if desc {
			col += " DESC"
		}
		terms = append(terms, col)
	}
	if len(terms) == 0 {
		terms = fallback
	}
	q.order = strings.Join(terms, ", ")
}

func (q *listQuery) filtered() string {
	sql := q.base
	if len(q.where) > 0 {
		sql += " WHERE " + strings.Join(q.where, " AND ")
	}
	return sql
}

// run counts the matching rows and then fetches the requested page.
func (q *listQuery) run(ctx context.Context, db *sql.DB, opts domain.ListOptions, scan func(*sql.Rows) error) (int, error) {
	sql := q.filtered()

	var count int
	countSql := "SELECT count(*) FROM (" + sql + ") AS sub"
	if err := db.QueryRowContext(ctx, countSql, q.args...).Scan(&count); err != nil {
		return 0, err
	}

	args := append([]any(nil), q.args...)
	if q.order != "" {
		sql += " ORDER BY " + q.order
	}
	if opts.Limit != nil {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, *opts.Limit, opts.Offset)
	}

	rows, err := db.QueryContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
