package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stash/internal/core"
)

// Flag names an article boolean that can be bulk-toggled.
type Flag string

const (
	FlagRead     Flag = "read"
	FlagStarred  Flag = "starred"
	FlagArchived Flag = "archived"
)

// flagColumns whitelists the columns SetFlag may touch; the flag name is never
// interpolated from caller input without passing through this map.
var flagColumns = map[Flag]string{
	FlagRead:     "read",
	FlagStarred:  "starred",
	FlagArchived: "archived",
}

// SetFlag sets one boolean flag on every listed article and returns the
// post-mutation rows. An empty id list performs zero writes and returns
// nothing. Clearing the archived flag also resets read, so a restored
// article lands back in the unread inbox.
func (s *Store) SetFlag(ids []int64, flag Flag, value bool) ([]core.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	column, ok := flagColumns[flag]
	if !ok {
		return nil, fmt.Errorf("unknown flag %q", flag)
	}

	set := fmt.Sprintf("%s = ?", column)
	args := []any{value}
	if flag == FlagArchived && !value {
		set = "archived = ?, read = 0"
	}

	query := fmt.Sprintf("UPDATE articles SET %s WHERE id IN (%s)", set, placeholders(len(ids)))
	res, err := s.db.Exec(query, append(args, idArgs(ids)...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to set %s=%t: %w", column, value, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to count updated articles: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return s.FindByIDs(ids)
}

// SetReadAll marks every article read or unread, optionally skipping archived
// rows, and returns the affected articles.
func (s *Store) SetReadAll(read bool, includeArchived bool) ([]core.Article, error) {
	query := "SELECT id FROM articles"
	if !includeArchived {
		query += " WHERE archived = 0"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve article ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate article ids: %w", err)
	}

	return s.SetFlag(ids, FlagRead, read)
}

// TouchOpened records that the listed articles were just opened.
func (s *Store) TouchOpened(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE articles SET last_opened_at = ? WHERE id IN (%s)", placeholders(len(ids)))
	args := append([]any{time.Now().UTC().Unix()}, idArgs(ids)...)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to record opened time: %w", err)
	}

	return nil
}

// UpdateTags replaces an article's full tag list and returns the updated row.
func (s *Store) UpdateTags(id int64, tags []string) (core.Article, error) {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.Exec("UPDATE articles SET tags = ? WHERE id = ?", string(tagsJSON), id)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to update tags for article %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	updated, err := s.FindByID(id)
	if err != nil {
		return core.Article{}, err
	}
	if updated == nil {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	return *updated, nil
}

// UpdateNote replaces an article's note; an empty note clears it.
func (s *Store) UpdateNote(id int64, note string) (core.Article, error) {
	res, err := s.db.Exec("UPDATE articles SET note = ? WHERE id = ?", nullable(note), id)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to update note for article %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	updated, err := s.FindByID(id)
	if err != nil {
		return core.Article{}, err
	}
	if updated == nil {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	return *updated, nil
}

// UpdateMetadata applies a full-record edit to one article and returns the
// updated row. The caller validates the URL before calling; this only fails
// on ErrNotFound or storage errors.
func (s *Store) UpdateMetadata(id int64, title, url, note string, tags []string, starred, read, archived bool) (core.Article, error) {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE articles
		SET title = ?, url = ?, note = ?, tags = ?, starred = ?, read = ?, archived = ?
		WHERE id = ?`,
		nullable(title), url, nullable(note), string(tagsJSON), starred, read, archived, id)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to update article %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to count updated articles: %w", err)
	}
	if affected == 0 {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	updated, err := s.FindByID(id)
	if err != nil {
		return core.Article{}, err
	}
	if updated == nil {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	return *updated, nil
}

// rewriteTags applies fn to every article's tag list and persists the lists
// that changed, returning the number of rewritten rows. fn returns the new
// list and whether anything changed.
func (s *Store) rewriteTags(fn func(tags []string) ([]string, bool)) (int64, error) {
	rows, err := s.db.Query("SELECT id, tags FROM articles")
	if err != nil {
		return 0, fmt.Errorf("failed to scan tag column: %w", err)
	}

	type change struct {
		id   int64
		tags []string
	}
	var changes []change

	func() {
		defer rows.Close()
		for rows.Next() {
			var id int64
			var tagsJSON string
			if err = rows.Scan(&id, &tagsJSON); err != nil {
				return
			}
			var tags []string
			if jsonErr := json.Unmarshal([]byte(tagsJSON), &tags); jsonErr != nil {
				continue
			}
			if newTags, changed := fn(tags); changed {
				changes = append(changes, change{id: id, tags: newTags})
			}
		}
		err = rows.Err()
	}()
	if err != nil {
		return 0, fmt.Errorf("failed to read tag column: %w", err)
	}

	if len(changes) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin tag rewrite: %w", err)
	}
	for _, c := range changes {
		tagsJSON, err := json.Marshal(c.tags)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to encode tags for article %d: %w", c.id, err)
		}
		if _, err := tx.Exec("UPDATE articles SET tags = ? WHERE id = ?", string(tagsJSON), c.id); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to rewrite tags for article %d: %w", c.id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tag rewrite: %w", err)
	}

	return int64(len(changes)), nil
}

// RenameTag renames a tag on every article carrying it and returns the number
// of articles touched. Articles already carrying the new name keep a single
// occurrence.
func (s *Store) RenameTag(oldTag, newTag string) (int64, error) {
	return s.rewriteTags(func(tags []string) ([]string, bool) {
		if !containsTag(tags, oldTag) {
			return tags, false
		}
		var out []string
		for _, t := range tags {
			if t == oldTag {
				t = newTag
			}
			if !containsTag(out, t) {
				out = append(out, t)
			}
		}
		return out, true
	})
}

// MergeTags folds every listed source tag into a single target tag across the
// whole collection. Articles that already carry the target keep exactly one
// occurrence.
func (s *Store) MergeTags(sources []string, into string) (int64, error) {
	sourceSet := make(map[string]bool, len(sources))
	for _, t := range sources {
		sourceSet[t] = true
	}

	return s.rewriteTags(func(tags []string) ([]string, bool) {
		changed := false
		var out []string
		for _, t := range tags {
			if sourceSet[t] && t != into {
				t = into
				changed = true
			}
			if !containsTag(out, t) {
				out = append(out, t)
			}
		}
		return out, changed
	})
}

// DeleteTag removes a tag from every article carrying it and returns the
// number of articles touched.
func (s *Store) DeleteTag(tag string) (int64, error) {
	return s.rewriteTags(func(tags []string) ([]string, bool) {
		if !containsTag(tags, tag) {
			return tags, false
		}
		var out []string
		for _, t := range tags {
			if t != tag {
				out = append(out, t)
			}
		}
		return out, true
	})
}

// TagCount pairs a tag with the number of articles carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts returns every tag in use with its article count, sorted
// alphabetically.
func (s *Store) TagCounts() ([]TagCount, error) {
	rows, err := s.db.Query("SELECT tags FROM articles")
	if err != nil {
		return nil, fmt.Errorf("failed to query tag column: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tagsJSON string
		if err := rows.Scan(&tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan tag column: %w", err)
		}
		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			continue
		}
		for _, t := range tags {
			counts[t]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tag column: %w", err)
	}

	result := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Tag < result[j].Tag })

	return result, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
