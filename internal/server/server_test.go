package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stash/internal/core"
	"stash/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(s, Options{Host: "127.0.0.1", Port: 0}), s
}

func insertArticle(t *testing.T, s *store.Store, url, title string, tags ...string) core.Article {
	t.Helper()

	a, err := s.Insert(core.NewArticle{
		Hash:         core.HashURL(url),
		URL:          url,
		CanonicalURL: url,
		Title:        title,
		Site:         "example.com",
		Tags:         tags,
	})
	if err != nil {
		t.Fatalf("failed to insert %s: %v", url, err)
	}

	return a
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestListArticlesAPI(t *testing.T) {
	srv, s := newTestServer(t)
	insertArticle(t, s, "https://example.com/1", "First", "go")
	insertArticle(t, s, "https://example.com/2", "Second")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var articles []core.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &articles); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestListArticlesAPITagFilter(t *testing.T) {
	srv, s := newTestServer(t)
	tagged := insertArticle(t, s, "https://example.com/1", "First", "go")
	insertArticle(t, s, "https://example.com/2", "Second")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/?tag=go", nil))

	var articles []core.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &articles); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != tagged.ID {
		t.Errorf("expected only tagged article, got %+v", articles)
	}
}

func TestGetArticleAPI(t *testing.T) {
	srv, s := newTestServer(t)
	a := insertArticle(t, s, "https://example.com/1", "First")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/articles/%d", a.ID), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var decoded core.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if decoded.ID != a.ID || decoded.Title != "First" {
		t.Errorf("unexpected article: %+v", decoded)
	}
}

func TestGetArticleAPINotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/notanumber", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestTagsAPI(t *testing.T) {
	srv, s := newTestServer(t)
	insertArticle(t, s, "https://example.com/1", "First", "go", "web")
	insertArticle(t, s, "https://example.com/2", "Second", "go")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"tag":"go"`) {
		t.Errorf("expected go tag in response, got %s", rec.Body.String())
	}
}

func TestHomePage(t *testing.T) {
	srv, s := newTestServer(t)
	insertArticle(t, s, "https://example.com/1", "Front page material")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Front page material") {
		t.Errorf("expected article title on home page, got %s", rec.Body.String())
	}
}

func TestArticlePageEscapesTitle(t *testing.T) {
	srv, s := newTestServer(t)
	a := insertArticle(t, s, "https://example.com/1", "<script>alert(1)</script>")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/articles/%d", a.ID), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Error("expected title to be escaped")
	}
}
