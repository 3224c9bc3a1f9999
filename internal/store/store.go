package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stash/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors surfaced to command handlers.
var (
	// ErrNotFound is returned when an operation targets an id that does not exist.
	ErrNotFound = errors.New("article not found")
	// ErrDuplicate is returned when an insert collides with an existing URL hash.
	ErrDuplicate = errors.New("article already exists")
)

// Store owns the SQLite database holding all articles.
type Store struct {
	db   *sql.DB
	path string
}

// migrations are applied in order on open; PRAGMA user_version records how
// many have run, so re-opening an existing database is a no-op for the
// already-applied prefix.
var migrations = []string{
	`CREATE TABLE articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		canonical_url TEXT NOT NULL,
		title TEXT,
		site TEXT,
		description TEXT,
		favicon_url TEXT,
		content_markdown TEXT,
		saved_at INTEGER NOT NULL,
		last_opened_at INTEGER,
		read INTEGER NOT NULL DEFAULT 0,
		archived INTEGER NOT NULL DEFAULT 0,
		starred INTEGER NOT NULL DEFAULT 0,
		note TEXT,
		tags TEXT NOT NULL DEFAULT '[]'
	);`,

	`CREATE VIRTUAL TABLE articles_fts USING fts5(
		title, description, note, content_markdown,
		content='articles', content_rowid='id'
	);

	CREATE TRIGGER articles_fts_insert AFTER INSERT ON articles BEGIN
		INSERT INTO articles_fts(rowid, title, description, note, content_markdown)
		VALUES (new.id, new.title, new.description, new.note, new.content_markdown);
	END;

	CREATE TRIGGER articles_fts_delete AFTER DELETE ON articles BEGIN
		INSERT INTO articles_fts(articles_fts, rowid, title, description, note, content_markdown)
		VALUES ('delete', old.id, old.title, old.description, old.note, old.content_markdown);
	END;

	CREATE TRIGGER articles_fts_update AFTER UPDATE ON articles BEGIN
		INSERT INTO articles_fts(articles_fts, rowid, title, description, note, content_markdown)
		VALUES ('delete', old.id, old.title, old.description, old.note, old.content_markdown);
		INSERT INTO articles_fts(rowid, title, description, note, content_markdown)
		VALUES (new.id, new.title, new.description, new.note, new.content_markdown);
	END;`,
}

// Open creates or opens the article database under dataDir and brings the
// schema up to date.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	dbPath := filepath.Join(dataDir, "articles.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	// Single-writer tool; one connection avoids SQLITE_BUSY between the
	// pooled connections.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to exec %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database %s: %w", dbPath, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}

	return nil
}

// articleColumnList is the canonical select order; scanArticle depends on it.
var articleColumnList = []string{
	"id", "hash", "url", "canonical_url", "title", "site", "description",
	"favicon_url", "content_markdown", "saved_at", "last_opened_at",
	"read", "archived", "starred", "note", "tags",
}

var articleColumns = strings.Join(articleColumnList, ", ")

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (core.Article, error) {
	var (
		a            core.Article
		title        sql.NullString
		site         sql.NullString
		description  sql.NullString
		faviconURL   sql.NullString
		contentMD    sql.NullString
		note         sql.NullString
		savedAt      int64
		lastOpenedAt sql.NullInt64
		tagsJSON     string
	)

	err := row.Scan(&a.ID, &a.Hash, &a.URL, &a.CanonicalURL, &title, &site,
		&description, &faviconURL, &contentMD, &savedAt, &lastOpenedAt,
		&a.Read, &a.Archived, &a.Starred, &note, &tagsJSON)
	if err != nil {
		return core.Article{}, err
	}

	a.Title = title.String
	a.Site = site.String
	a.Description = description.String
	a.FaviconURL = faviconURL.String
	a.ContentMarkdown = contentMD.String
	a.Note = note.String

	// Repair an unusable stored timestamp to "now" rather than failing the read.
	if savedAt > 0 {
		a.SavedAt = time.Unix(savedAt, 0).UTC()
	} else {
		a.SavedAt = time.Now().UTC()
	}
	if lastOpenedAt.Valid && lastOpenedAt.Int64 > 0 {
		t := time.Unix(lastOpenedAt.Int64, 0).UTC()
		a.LastOpenedAt = &t
	}

	a.Tags = []string{}
	if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
		a.Tags = []string{}
	}

	return a, nil
}

func collectArticles(rows *sql.Rows) ([]core.Article, error) {
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate article rows: %w", err)
	}

	return articles, nil
}

// nullable maps "" to NULL so optional fields round-trip as absent.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// Insert stores a new article, assigning its id and saved_at, and returns the
// fully materialized row. Returns ErrDuplicate when the hash already exists.
func (s *Store) Insert(na core.NewArticle) (core.Article, error) {
	tagsJSON, err := json.Marshal(na.Tags)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO articles (hash, url, canonical_url, title, site, description,
			favicon_url, content_markdown, saved_at, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		na.Hash, na.URL, na.CanonicalURL, nullable(na.Title), nullable(na.Site),
		nullable(na.Description), nullable(na.FaviconURL), nullable(na.ContentMarkdown),
		time.Now().UTC().Unix(), string(tagsJSON),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Article{}, fmt.Errorf("hash %s: %w", na.Hash, ErrDuplicate)
		}
		return core.Article{}, fmt.Errorf("failed to insert article %s: %w", na.URL, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	inserted, err := s.FindByID(id)
	if err != nil {
		return core.Article{}, err
	}
	if inserted == nil {
		return core.Article{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}

	return *inserted, nil
}

// FindByHash returns the article with the given URL fingerprint, or nil when
// no row matches.
func (s *Store) FindByHash(hash string) (*core.Article, error) {
	row := s.db.QueryRow("SELECT "+articleColumns+" FROM articles WHERE hash = ?", hash)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article by hash %s: %w", hash, err)
	}

	return &a, nil
}

// FindByID returns the article with the given id, or nil when no row matches.
func (s *Store) FindByID(id int64) (*core.Article, error) {
	row := s.db.QueryRow("SELECT "+articleColumns+" FROM articles WHERE id = ?", id)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article by id %d: %w", id, err)
	}

	return &a, nil
}

// FindByIDs returns the articles matching the given ids. Missing ids are
// simply absent from the result; output order is not guaranteed to follow
// the input order.
func (s *Store) FindByIDs(ids []int64) ([]core.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT "+articleColumns+" FROM articles WHERE id IN (%s)", placeholders(len(ids)))
	rows, err := s.db.Query(query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by ids: %w", err)
	}

	return collectArticles(rows)
}

// List returns up to limit articles ordered starred-first then most recently
// saved. When all is false only unread, unarchived articles are returned.
func (s *Store) List(limit int64, all bool) ([]core.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles"
	if !all {
		query += " WHERE read = 0 AND archived = 0"
	}
	query += " ORDER BY starred DESC, saved_at DESC LIMIT ?"

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return collectArticles(rows)
}

// RandomSample returns up to count uniformly random articles, restricted to
// unread, unarchived rows unless all is true.
func (s *Store) RandomSample(count int64, all bool) ([]core.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles"
	if !all {
		query += " WHERE read = 0 AND archived = 0"
	}
	query += " ORDER BY RANDOM() LIMIT ?"

	rows, err := s.db.Query(query, count)
	if err != nil {
		return nil, fmt.Errorf("failed to sample articles: %w", err)
	}

	return collectArticles(rows)
}

// Delete permanently removes the given articles and returns the number of
// rows deleted. An empty id list is a no-op.
func (s *Store) Delete(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf("DELETE FROM articles WHERE id IN (%s)", placeholders(len(ids)))
	res, err := s.db.Exec(query, idArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted articles: %w", err)
	}

	return affected, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
