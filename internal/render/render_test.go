package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"stash/internal/core"
)

func sampleArticles() []core.Article {
	return []core.Article{
		{
			ID:      1,
			Hash:    "aabbccdd",
			URL:     "https://example.com/one",
			Title:   "First article",
			Site:    "example.com",
			SavedAt: time.Now().Add(-2 * time.Hour),
			Tags:    []string{"go", "web"},
			Starred: true,
		},
		{
			ID:      2,
			Hash:    "11223344",
			URL:     "https://example.com/two",
			SavedAt: time.Now().Add(-48 * time.Hour),
			Tags:    []string{},
			Read:    true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "table", "json", "ids"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) = %v, want nil", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestArticlesJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if err := r.Articles(FormatJSON, sampleArticles()); err != nil {
		t.Fatalf("render json: %v", err)
	}

	var decoded []core.Article
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != 1 {
		t.Errorf("unexpected decoded articles: %+v", decoded)
	}
}

func TestArticlesJSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if err := r.Articles(FormatJSON, nil); err != nil {
		t.Fatalf("render json: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", buf.String())
	}
}

func TestArticlesIDs(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if err := r.Articles(FormatIDs, sampleArticles()); err != nil {
		t.Fatalf("render ids: %v", err)
	}
	if buf.String() != "1\n2\n" {
		t.Errorf("expected one id per line, got %q", buf.String())
	}
}

func TestArticlesTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if err := r.Articles(FormatTable, sampleArticles()); err != nil {
		t.Fatalf("render table: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "First article") {
		t.Errorf("expected title in table, got %q", out)
	}
	// Untitled articles fall back to their URL.
	if !strings.Contains(out, "https://example.com/two") {
		t.Errorf("expected URL fallback in table, got %q", out)
	}
	if !strings.Contains(out, "go,web") {
		t.Errorf("expected joined tags in table, got %q", out)
	}
}

func TestArticlesTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if err := r.Articles(FormatTable, nil); err != nil {
		t.Fatalf("render empty table: %v", err)
	}
	if !strings.Contains(buf.String(), "stash add") {
		t.Errorf("expected empty-state hint, got %q", buf.String())
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-72 * time.Hour), "3d"},
		{now.Add(-60 * 24 * time.Hour), "2mo"},
		{now.Add(-2 * 365 * 24 * time.Hour), "2y"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.t, now); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("expected short string untouched, got %q", got)
	}
	long := strings.Repeat("x", 80)
	got := truncate(long, 60)
	if len([]rune(got)) != 60 || !strings.HasSuffix(got, "…") {
		t.Errorf("expected 60-rune truncation with ellipsis, got %q", got)
	}
}
