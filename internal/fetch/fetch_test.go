package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"not-a-url",
		"ftp://example.com/file",
		"/relative/path",
	}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestPageFetchesHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "stash-test/1.0" {
			t.Errorf("expected custom user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><head><title>Hello</title></head><body>hi</body></html>"))
	}))
	defer server.Close()

	client := NewClient(Options{Timeout: 5 * time.Second, UserAgent: "stash-test/1.0", FollowRedirects: true})
	html, finalURL, err := client.Page(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if !strings.Contains(html, "<title>Hello</title>") {
		t.Errorf("expected page HTML, got %q", html)
	}
	if finalURL != server.URL {
		t.Errorf("expected final URL %s, got %s", server.URL, finalURL)
	}
}

func TestPageFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>moved</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(Options{Timeout: 5 * time.Second, FollowRedirects: true})
	_, finalURL, err := client.Page(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if finalURL != server.URL+"/new" {
		t.Errorf("expected final URL to follow redirect, got %s", finalURL)
	}
}

func TestPageRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(Options{Timeout: 5 * time.Second})
	if _, _, err := client.Page(context.Background(), server.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestPageRejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	client := NewClient(Options{Timeout: 5 * time.Second})
	if _, _, err := client.Page(context.Background(), server.URL); err == nil {
		t.Error("expected error for non-HTML content type")
	}
}

func TestExtractMetadataPrecedence(t *testing.T) {
	html := `<html><head>
		<title>Plain Title</title>
		<meta property="og:title" content="OG Title">
		<meta name="twitter:title" content="Twitter Title">
		<meta property="og:description" content="OG description">
		<meta property="og:site_name" content="Example Site">
		<link rel="canonical" href="https://example.com/canonical">
		<link rel="icon" href="/icon.png">
	</head><body></body></html>`

	md, err := ExtractMetadata(html, "https://example.com/page")
	if err != nil {
		t.Fatalf("ExtractMetadata failed: %v", err)
	}

	if md.Title != "OG Title" {
		t.Errorf("expected OpenGraph title to win, got %q", md.Title)
	}
	if md.Description != "OG description" {
		t.Errorf("expected OG description, got %q", md.Description)
	}
	if md.Site != "Example Site" {
		t.Errorf("expected og:site_name, got %q", md.Site)
	}
	if md.CanonicalURL != "https://example.com/canonical" {
		t.Errorf("expected canonical link, got %q", md.CanonicalURL)
	}
	if md.FaviconURL != "https://example.com/icon.png" {
		t.Errorf("expected resolved favicon, got %q", md.FaviconURL)
	}
}

func TestExtractMetadataFallbacks(t *testing.T) {
	html := `<html><head>
		<title>  Plain Title  </title>
		<meta name="twitter:description" content="Twitter description">
	</head><body></body></html>`

	md, err := ExtractMetadata(html, "https://www.example.com/page")
	if err != nil {
		t.Fatalf("ExtractMetadata failed: %v", err)
	}

	if md.Title != "Plain Title" {
		t.Errorf("expected trimmed title tag fallback, got %q", md.Title)
	}
	if md.Description != "Twitter description" {
		t.Errorf("expected twitter description fallback, got %q", md.Description)
	}
	if md.Site != "example.com" {
		t.Errorf("expected site derived from host without www, got %q", md.Site)
	}
	if md.CanonicalURL != "https://www.example.com/page" {
		t.Errorf("expected page URL as canonical fallback, got %q", md.CanonicalURL)
	}
	if md.FaviconURL != "https://www.example.com/favicon.ico" {
		t.Errorf("expected default favicon location, got %q", md.FaviconURL)
	}
}

func TestDeriveSite(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/a", "example.com"},
		{"https://blog.example.com/a", "blog.example.com"},
		{"not a url at all://", ""},
	}
	for _, tt := range tests {
		if got := DeriveSite(tt.url); got != tt.want {
			t.Errorf("DeriveSite(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractContentPrefersArticle(t *testing.T) {
	html := `<html><body>
		<nav>site nav</nav>
		<article><h1>Heading</h1><p>Body paragraph.</p></article>
		<footer>copyright</footer>
	</body></html>`

	markdown := ExtractContent(html)
	if !strings.Contains(markdown, "Heading") || !strings.Contains(markdown, "Body paragraph.") {
		t.Errorf("expected article content in markdown, got %q", markdown)
	}
	if strings.Contains(markdown, "site nav") || strings.Contains(markdown, "copyright") {
		t.Errorf("expected chrome to be stripped, got %q", markdown)
	}
}

func TestExtractContentFallsBackToBody(t *testing.T) {
	html := `<html><body><p>Just a paragraph.</p></body></html>`

	markdown := ExtractContent(html)
	if !strings.Contains(markdown, "Just a paragraph.") {
		t.Errorf("expected body fallback, got %q", markdown)
	}
}

func TestExtractContentEmptyPage(t *testing.T) {
	if got := ExtractContent("<html><body><script>x()</script></body></html>"); got != "" {
		t.Errorf("expected empty result for unreadable page, got %q", got)
	}
}
