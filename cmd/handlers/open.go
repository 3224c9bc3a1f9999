package handlers

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/core"
	"stash/internal/logger"
	"stash/internal/store"
)

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var keepUnread bool

	cmd := &cobra.Command{
		Use:   "open [id]...",
		Short: "Open articles in the browser",
		Long: `Open each article's URL in the system browser, record the opened
time, and mark it read (unless auto-read is disabled). With no ids the
most recently saved unread article is opened.

Examples:
  stash open 12
  stash open 12 15 20
  stash open --keep-unread 12`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runOpen(args, keepUnread); err != nil {
				logger.Error("Failed to open articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&keepUnread, "keep-unread", false, "Do not mark opened articles as read")

	return cmd
}

func runOpen(args []string, keepUnread bool) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var articles []core.Article
	if len(args) == 0 {
		latest, err := s.List(1, false)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			fmt.Println("Nothing unread to open.")
			return nil
		}
		articles = latest
	} else {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		articles, err = s.FindByIDs(ids)
		if err != nil {
			return err
		}
		if len(articles) != len(ids) {
			return fmt.Errorf("some ids not found (requested %s, found %d)", summarizeIDs(ids), len(articles))
		}
	}

	opened := make([]int64, 0, len(articles))
	for _, a := range articles {
		if err := browser.OpenURL(a.URL); err != nil {
			return fmt.Errorf("failed to open %s in browser: %w", a.URL, err)
		}
		fmt.Printf("↗ Opened %s\n", describeArticle(a.ID, a.Title, a.URL))
		opened = append(opened, a.ID)
	}

	if err := s.TouchOpened(opened); err != nil {
		return err
	}
	if config.GetDefaults().AutoRead && !keepUnread {
		if _, err := s.SetFlag(opened, store.FlagRead, true); err != nil {
			return err
		}
	}

	return nil
}
