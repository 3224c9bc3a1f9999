// Package render formats article listings for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"stash/internal/core"
)

// Format selects how a listing is written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatIDs   Format = "ids"
)

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "ids":
		return FormatIDs, nil
	default:
		return FormatTable, fmt.Errorf("invalid output format %q: must be table, json, or ids", s)
	}
}

// ResolveColors determines whether to use colors based on theme and environment.
func ResolveColors(theme string) bool {
	switch theme {
	case "always":
		return true
	case "never":
		return false
	default: // auto
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return true
	}
}

// Renderer writes article listings in the selected format.
type Renderer struct {
	out       io.Writer
	useColors bool
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, useColors bool) *Renderer {
	return &Renderer{out: w, useColors: useColors}
}

// Articles writes the listing in the given format.
func (r *Renderer) Articles(format Format, articles []core.Article) error {
	switch format {
	case FormatJSON:
		return r.articlesJSON(articles)
	case FormatIDs:
		return r.articlesIDs(articles)
	default:
		return r.articlesTable(articles)
	}
}

func (r *Renderer) articlesJSON(articles []core.Article) error {
	if articles == nil {
		articles = []core.Article{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	return nil
}

func (r *Renderer) articlesIDs(articles []core.Article) error {
	for _, a := range articles {
		if _, err := fmt.Fprintln(r.out, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) articlesTable(articles []core.Article) error {
	if len(articles) == 0 {
		fmt.Fprintln(r.out, "Nothing here. Save something with: stash add <url>")
		return nil
	}

	table := tablewriter.NewTable(r.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"", "ID", "Title", "Site", "Saved", "Tags"})
	for _, a := range articles {
		table.Append([]string{
			r.statusIcons(a),
			strconv.FormatInt(a.ID, 10),
			r.title(a),
			a.Site,
			RelativeTime(a.SavedAt, time.Now()),
			strings.Join(a.Tags, ","),
		})
	}

	return table.Render()
}

func (r *Renderer) statusIcons(a core.Article) string {
	var icons []string
	if a.Starred {
		if r.useColors {
			icons = append(icons, color.YellowString("★"))
		} else {
			icons = append(icons, "★")
		}
	}
	if a.Archived {
		icons = append(icons, "▣")
	} else if a.Read {
		icons = append(icons, "✓")
	}
	return strings.Join(icons, "")
}

func (r *Renderer) title(a core.Article) string {
	title := a.Title
	if title == "" {
		title = a.URL
	}
	title = truncate(title, 60)
	if r.useColors && !a.Read && !a.Archived {
		return color.New(color.Bold).Sprint(title)
	}
	return title
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RelativeTime renders t against now as a compact age like "3h" or "2d".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
	}
}
