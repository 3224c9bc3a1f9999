package store

import (
	"fmt"
	"math"
	"strings"

	"stash/internal/core"
)

// NoLimit is the sentinel used when the caller wants every matching row.
const NoLimit = int64(math.MaxInt64)

// ListOptions is the query intent for a filtered listing. Predicates combine
// with logical AND:
//
//   - All=false restricts to unread rows and, unless Archived is set, to
//     unarchived rows.
//   - Archived=true restricts to archived rows regardless of All.
//   - Starred=true restricts to starred rows.
//   - Tags requires every listed tag to be present on the article.
type ListOptions struct {
	All      bool
	Archived bool
	Starred  bool
	Tags     []string
	Sort     string
	Reverse  bool
	Limit    int64
}

// sortColumns maps caller-facing sort fields to ORDER BY expressions. Text
// fields sort case-insensitively.
var sortColumns = map[string]string{
	"time":  "saved_at",
	"title": "title COLLATE NOCASE",
	"site":  "site COLLATE NOCASE",
	"read":  "read",
	"star":  "starred",
}

// textSortFields default to ascending; everything else defaults to descending.
var textSortFields = map[string]bool{
	"title": true,
	"site":  true,
}

// SortFields lists the accepted sort field names, for flag validation.
func SortFields() []string {
	return []string{"time", "title", "site", "read", "star"}
}

// ValidSortField reports whether field names a known sort column.
func ValidSortField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

// scopeClause builds the WHERE conditions for opts. Tag values are always
// bound parameters, never interpolated into the query text.
func scopeClause(opts ListOptions) (string, []any) {
	var conditions []string
	var args []any

	if !opts.All {
		conditions = append(conditions, "read = 0")
		if !opts.Archived {
			conditions = append(conditions, "archived = 0")
		}
	}
	if opts.Archived {
		conditions = append(conditions, "archived = 1")
	}
	if opts.Starred {
		conditions = append(conditions, "starred = 1")
	}
	for _, tag := range opts.Tags {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value = ?)")
		args = append(args, tag)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderClause(sort string, reverse bool) string {
	column, ok := sortColumns[sort]
	if !ok {
		column = "saved_at"
	}

	direction := "DESC"
	if textSortFields[sort] {
		direction = "ASC"
	}
	if reverse {
		if direction == "ASC" {
			direction = "DESC"
		} else {
			direction = "ASC"
		}
	}

	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// Articles returns the articles matching opts in the requested order.
func (s *Store) Articles(opts ListOptions) ([]core.Article, error) {
	where, args := scopeClause(opts)

	query := fmt.Sprintf("SELECT %s FROM articles %s %s LIMIT ?",
		articleColumns, where, orderClause(opts.Sort, opts.Reverse))
	args = append(args, opts.Limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	return collectArticles(rows)
}

// Search runs a full-text query over title, description, note, and markdown
// content, restricted by the same scope predicates as Articles, ranked by
// relevance.
func (s *Store) Search(match string, opts ListOptions) ([]core.Article, error) {
	where, args := scopeClause(opts)
	if where == "" {
		where = "WHERE articles_fts MATCH ?"
	} else {
		where += " AND articles_fts MATCH ?"
	}

	cols := "a." + strings.Join(articleColumnList, ", a.")
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN articles_fts ON articles_fts.rowid = a.id
		%s
		ORDER BY articles_fts.rank LIMIT ?`,
		cols, where)
	args = append(args, match, opts.Limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles for %q: %w", match, err)
	}

	return collectArticles(rows)
}
