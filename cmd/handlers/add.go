package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stash/internal/core"
	"stash/internal/fetch"
	"stash/internal/logger"
	"stash/internal/store"
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	var (
		tags    []string
		note    string
		noFetch bool
		star    bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>...",
		Short: "Save one or more URLs to the stash",
		Long: `Fetch each URL, extract its title, description, and readable content,
and store it. Re-adding a URL reports the existing article instead of
creating a duplicate.

Examples:
  stash add https://example.com/article
  stash add https://example.com/article -t go -t concurrency
  stash add https://example.com/article --no-fetch`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runAdd(cmd.Context(), args, tags, note, noFetch, star); err != nil {
				logger.Error("Failed to add articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&note, "note", "", "Note to attach")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip fetching the page; store the bare URL")
	cmd.Flags().BoolVar(&star, "star", false, "Star the article on save")

	return cmd
}

func runAdd(ctx context.Context, urls, tags []string, note string, noFetch, star bool) error {
	for _, tag := range tags {
		if !core.ValidTag(tag) {
			return fmt.Errorf("invalid tag %q: use lowercase letters, digits, and single hyphens", tag)
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	client := newFetchClient()

	for _, rawURL := range urls {
		if err := addOne(ctx, s, client, rawURL, tags, note, noFetch, star); err != nil {
			return err
		}
	}

	return nil
}

func addOne(ctx context.Context, s *store.Store, client *fetch.Client, rawURL string, tags []string, note string, noFetch, star bool) error {
	if err := fetch.ValidateURL(rawURL); err != nil {
		return err
	}

	na := core.NewArticle{
		Hash:         core.HashURL(rawURL),
		URL:          rawURL,
		CanonicalURL: rawURL,
		Site:         fetch.DeriveSite(rawURL),
		Tags:         tags,
	}

	if !noFetch {
		html, finalURL, err := client.Page(ctx, rawURL)
		if err != nil {
			// The URL is still worth keeping; save it bare.
			logger.Warn("fetch failed, saving without metadata", "url", rawURL, "error", err.Error())
			fmt.Printf("⚠ fetch failed for %s, saving without metadata\n", rawURL)
		} else {
			md, err := fetch.ExtractMetadata(html, finalURL)
			if err != nil {
				logger.Warn("metadata extraction failed", "url", rawURL, "error", err.Error())
			} else {
				na.Title = md.Title
				na.Description = md.Description
				na.FaviconURL = md.FaviconURL
				if md.Site != "" {
					na.Site = md.Site
				}
			}
			na.ContentMarkdown = fetch.ExtractContent(html)
		}
	}

	article, err := s.Insert(na)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			existing, findErr := s.FindByHash(na.Hash)
			if findErr == nil && existing != nil {
				fmt.Printf("Already stashed as %s\n", describeArticle(existing.ID, existing.Title, existing.URL))
				return nil
			}
		}
		return err
	}

	if note != "" {
		if article, err = s.UpdateNote(article.ID, note); err != nil {
			return err
		}
	}
	if star {
		if _, err = s.SetFlag([]int64{article.ID}, store.FlagStarred, true); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Saved %s\n", describeArticle(article.ID, article.Title, article.URL))
	return nil
}
