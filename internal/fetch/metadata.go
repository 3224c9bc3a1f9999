package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is what we could learn about a page without reading its body text.
type Metadata struct {
	Title        string
	Description  string
	Site         string
	FaviconURL   string
	CanonicalURL string
}

// ExtractMetadata pulls title, description, site, favicon, and canonical URL
// out of a page. OpenGraph tags win over Twitter card tags, which win over
// plain HTML tags. Missing fields stay empty; pageURL fills in the site and
// resolves relative favicon links.
func ExtractMetadata(html string, pageURL string) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	md := Metadata{
		Title:        firstMeta(doc, "meta[property='og:title']", "meta[name='twitter:title']"),
		Description:  firstMeta(doc, "meta[property='og:description']", "meta[name='twitter:description']", "meta[name='description']"),
		Site:         firstMeta(doc, "meta[property='og:site_name']"),
		CanonicalURL: pageURL,
	}

	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	}
	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if canonical, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		if resolved := resolveRef(pageURL, canonical); resolved != "" {
			md.CanonicalURL = resolved
		}
	}

	if md.Site == "" {
		md.Site = DeriveSite(md.CanonicalURL)
	}

	md.FaviconURL = findFavicon(doc, pageURL)

	return md, nil
}

// DeriveSite returns the display site for a URL: its host without a leading
// "www.". An unparseable URL yields "".
func DeriveSite(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

func firstMeta(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func findFavicon(doc *goquery.Document, pageURL string) string {
	selectors := []string{
		"link[rel='icon']",
		"link[rel='shortcut icon']",
		"link[rel='apple-touch-icon']",
	}
	for _, sel := range selectors {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			if resolved := resolveRef(pageURL, href); resolved != "" {
				return resolved
			}
		}
	}

	// Default well-known location.
	return resolveRef(pageURL, "/favicon.ico")
}

// resolveRef resolves ref against base, returning "" when either is invalid.
func resolveRef(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
