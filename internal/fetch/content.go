package fetch

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// contentSelectors name the elements most likely to hold the article body,
// tried in order.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	".entry-content",
	".post-content",
	".article-body",
	"#content",
}

// ExtractContent converts the readable part of a page to Markdown for offline
// search. Boilerplate chrome is stripped first; when no recognizable article
// container exists, the whole body is converted. Returns "" when nothing
// readable remains.
func ExtractContent(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript").Remove()

	var fragment string
	for _, sel := range contentSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if h, err := goquery.OuterHtml(node); err == nil && strings.TrimSpace(h) != "" {
				fragment = h
				break
			}
		}
	}
	if fragment == "" {
		if h, err := doc.Find("body").Html(); err == nil {
			fragment = h
		}
	}
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(markdown)
}
