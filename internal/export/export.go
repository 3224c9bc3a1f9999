// Package export writes and reads article collections in portable formats.
package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"stash/internal/core"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat parses a string into an export Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatJSON, fmt.Errorf("invalid export format %q: must be json, markdown, or html", s)
	}
}

// Write encodes articles to w in the given format. JSON is the only format
// Import can read back.
func Write(w io.Writer, format Format, articles []core.Article) error {
	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, articles)
	case FormatHTML:
		return writeHTML(w, articles)
	default:
		return writeJSON(w, articles)
	}
}

func writeJSON(w io.Writer, articles []core.Article) error {
	if articles == nil {
		articles = []core.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	return nil
}

func writeMarkdown(w io.Writer, articles []core.Article) error {
	var b strings.Builder
	b.WriteString("# Stash\n")

	for _, section := range groupBySite(articles) {
		fmt.Fprintf(&b, "\n## %s\n\n", section.site)
		for _, a := range section.articles {
			title := a.Title
			if title == "" {
				title = a.URL
			}
			fmt.Fprintf(&b, "- [%s](%s)", title, a.URL)
			if len(a.Tags) > 0 {
				fmt.Fprintf(&b, " — %s", strings.Join(a.Tags, ", "))
			}
			b.WriteString("\n")
			if a.Note != "" {
				fmt.Fprintf(&b, "  - %s\n", a.Note)
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown export: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stash</title>
</head>
<body>
<h1>Stash</h1>
{{range .}}
<h2>{{.Site}}</h2>
<ul>
{{range .Articles}}<li><a href="{{.URL}}">{{if .Title}}{{.Title}}{{else}}{{.URL}}{{end}}</a>{{if .Note}} — {{.Note}}{{end}}</li>
{{end}}</ul>
{{end}}
</body>
</html>
`))

func writeHTML(w io.Writer, articles []core.Article) error {
	type htmlSection struct {
		Site     string
		Articles []core.Article
	}

	var sections []htmlSection
	for _, s := range groupBySite(articles) {
		sections = append(sections, htmlSection{Site: s.site, Articles: s.articles})
	}

	if err := htmlTemplate.Execute(w, sections); err != nil {
		return fmt.Errorf("failed to write html export: %w", err)
	}
	return nil
}

type siteGroup struct {
	site     string
	articles []core.Article
}

// groupBySite buckets articles by site, alphabetically, with untitled hosts
// collected under "other".
func groupBySite(articles []core.Article) []siteGroup {
	buckets := make(map[string][]core.Article)
	for _, a := range articles {
		site := a.Site
		if site == "" {
			site = "other"
		}
		buckets[site] = append(buckets[site], a)
	}

	sites := make([]string, 0, len(buckets))
	for site := range buckets {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	groups := make([]siteGroup, 0, len(sites))
	for _, site := range sites {
		groups = append(groups, siteGroup{site: site, articles: buckets[site]})
	}
	return groups
}

// Read decodes a JSON export produced by Write.
func Read(r io.Reader) ([]core.Article, error) {
	var articles []core.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return articles, nil
}
