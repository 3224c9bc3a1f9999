package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is the persisted bookmark entity. Optional text fields use the
// empty string for "unset"; Tags is stored as a JSON array in a single
// column by the store.
type Article struct {
	ID              int64      `json:"id"`
	Hash            string     `json:"hash"`
	URL             string     `json:"url"`
	CanonicalURL    string     `json:"canonical_url"`
	Title           string     `json:"title,omitempty"`
	Site            string     `json:"site,omitempty"`
	Description     string     `json:"description,omitempty"`
	FaviconURL      string     `json:"favicon_url,omitempty"`
	ContentMarkdown string     `json:"content_markdown,omitempty"`
	SavedAt         time.Time  `json:"saved_at"`
	LastOpenedAt    *time.Time `json:"last_opened_at,omitempty"`
	Read            bool       `json:"read"`
	Archived        bool       `json:"archived"`
	Starred         bool       `json:"starred"`
	Note            string     `json:"note,omitempty"`
	Tags            []string   `json:"tags"`
}

// NewArticle carries the caller-supplied fields for an insert. The store
// assigns ID and SavedAt.
type NewArticle struct {
	Hash            string
	URL             string
	CanonicalURL    string
	Title           string
	Site            string
	Description     string
	FaviconURL      string
	ContentMarkdown string
	Tags            []string
}

// HashURL returns the article fingerprint for a raw URL: the first 8 hex
// characters of its SHA-256 digest. The hash is over the raw string, so
// URLs differing only in case or query parameters get distinct fingerprints.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:8]
}

// ValidTag reports whether a tag matches the allowed lexical form:
// lowercase ASCII letters and digits with internal single hyphens.
// Valid: "rust", "rust-lang", "web-dev-101". Invalid: "Rust", "rust_lang",
// "rust--lang", "-rust", "rust-".
func ValidTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] == '-' || tag[len(tag)-1] == '-' {
		return false
	}
	prevHyphen := false
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			prevHyphen = false
		default:
			return false
		}
	}
	return true
}
