package export

import (
	"bytes"
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
			Title:   "First",
			Site:    "example.com",
			SavedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			Tags:    []string{"go"},
			Note:    "worth a reread",
		},
		{
			ID:      2,
			Hash:    "11223344",
			URL:     "https://other.net/two",
			SavedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
			Tags:    []string{},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleArticles()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	decoded, err := Read(&buf)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(decoded))
	}
	if decoded[0].URL != "https://example.com/one" || decoded[0].Note != "worth a reread" {
		t.Errorf("unexpected first article: %+v", decoded[0])
	}
	if len(decoded[0].Tags) != 1 || decoded[0].Tags[0] != "go" {
		t.Errorf("expected tags to survive the round trip, got %v", decoded[0].Tags)
	}
}

func TestMarkdownGroupsBySite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, sampleArticles()); err != nil {
		t.Fatalf("write markdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## example.com") {
		t.Errorf("expected site heading, got %q", out)
	}
	if !strings.Contains(out, "[First](https://example.com/one)") {
		t.Errorf("expected markdown link, got %q", out)
	}
	// Untitled articles link their raw URL.
	if !strings.Contains(out, "[https://other.net/two](https://other.net/two)") {
		t.Errorf("expected URL-titled link, got %q", out)
	}
	if !strings.Contains(out, "worth a reread") {
		t.Errorf("expected note in markdown, got %q", out)
	}
}

func TestHTMLEscapesContent(t *testing.T) {
	articles := []core.Article{{
		ID:    1,
		URL:   "https://example.com/x",
		Title: "<script>alert(1)</script>",
		Site:  "example.com",
	}}

	var buf bytes.Buffer
	if err := Write(&buf, FormatHTML, articles); err != nil {
		t.Fatalf("write html: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("expected title to be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped title in output, got %q", out)
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "json", "markdown", "md", "html"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) = %v, want nil", s, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
