package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/core"
	"stash/internal/export"
	"stash/internal/logger"
	"stash/internal/store"
)

// scopeFlags are the listing filters shared by list, search, and export.
type scopeFlags struct {
	all      bool
	archived bool
	starred  bool
	tags     []string
	sort     string
	reverse  bool
	limit    int64
}

func (f *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "Include read and archived articles")
	cmd.Flags().BoolVar(&f.archived, "archived", false, "Only archived articles")
	cmd.Flags().BoolVar(&f.starred, "starred", false, "Only starred articles")
	cmd.Flags().StringArrayVarP(&f.tags, "tag", "t", nil, "Require a tag (repeatable; all must match)")
	cmd.Flags().StringVar(&f.sort, "sort", "", fmt.Sprintf("Sort field (%s)", strings.Join(store.SortFields(), ", ")))
	cmd.Flags().BoolVar(&f.reverse, "reverse", false, "Reverse the sort order")
	cmd.Flags().Int64Var(&f.limit, "limit", 0, "Maximum rows (default from config)")
}

func (f *scopeFlags) options() (store.ListOptions, error) {
	if f.sort != "" && !store.ValidSortField(f.sort) {
		return store.ListOptions{}, fmt.Errorf("invalid sort field %q: must be one of %s", f.sort, strings.Join(store.SortFields(), ", "))
	}

	limit := f.limit
	if limit == 0 {
		limit = config.GetDefaults().ListLimit
	}
	if limit < 0 {
		limit = store.NoLimit
	}

	return store.ListOptions{
		All:      f.all,
		Archived: f.archived,
		Starred:  f.starred,
		Tags:     f.tags,
		Sort:     f.sort,
		Reverse:  f.reverse,
		Limit:    limit,
	}, nil
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		flags     scopeFlags
		format    string
		inBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved articles",
		Long: `List articles in the stash. By default only unread, unarchived
articles are shown, starred first, newest first.

Examples:
  stash list
  stash list --all --sort title
  stash list -t go --starred
  stash list --format ids --limit -1`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runList(flags, format, inBrowser); err != nil {
				logger.Error("Failed to list articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, or ids (default from config)")
	cmd.Flags().BoolVar(&inBrowser, "browser", false, "Open the listing as an HTML page in the browser")

	return cmd
}

func runList(flags scopeFlags, format string, inBrowser bool) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	articles, err := s.Articles(opts)
	if err != nil {
		return err
	}

	if inBrowser {
		return openListingInBrowser(articles)
	}

	outFormat, err := resolveFormat(format)
	if err != nil {
		return err
	}

	return newRenderer().Articles(outFormat, articles)
}

// openListingInBrowser writes the listing as a standalone HTML page and hands
// it to the system browser.
func openListingInBrowser(articles []core.Article) error {
	path := filepath.Join(os.TempDir(), "stash-listing.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create listing page: %w", err)
	}
	if err := export.Write(f, export.FormatHTML, articles); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write listing page: %w", err)
	}

	if err := browser.OpenURL("file://" + path); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
