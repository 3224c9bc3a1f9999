package handlers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/logger"
	"stash/internal/store"
)

// NewRmCmd creates the remove command
func NewRmCmd() *cobra.Command {
	var (
		force bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Archive articles, or delete them permanently with --force",
		Long: `Archive the given articles so they disappear from listings but stay
recoverable with restore. With --force the rows are deleted permanently
after confirmation.

Examples:
  stash rm 12
  stash rm 12 15 --force
  stash rm 12 --force --yes`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRm(args, force, yes); err != nil {
				logger.Error("Failed to remove articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete permanently instead of archiving")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runRm(args []string, force, yes bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if !force {
		updated, err := s.SetFlag(ids, store.FlagArchived, true)
		if err != nil {
			return err
		}
		for _, a := range updated {
			fmt.Printf("▣ Archived %s\n", describeArticle(a.ID, a.Title, a.URL))
		}
		return nil
	}

	if !yes {
		fmt.Printf("Permanently delete %d article(s) [%s]? [y/N] ", len(ids), summarizeIDs(ids))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted, err := s.Delete(ids)
	if err != nil {
		return err
	}
	fmt.Printf("✗ Deleted %d article(s)\n", deleted)
	return nil
}

// NewRestoreCmd creates the restore command
func NewRestoreCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "restore <id>...",
		Short: "Unarchive articles and return them to the unread inbox",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRestore(args, all); err != nil {
				logger.Error("Failed to restore articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Restore every archived article")

	return cmd
}

func runRestore(args []string, all bool) error {
	if !all && len(args) == 0 {
		return fmt.Errorf("pass article ids or --all")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var ids []int64
	if all {
		archived, err := s.Articles(store.ListOptions{Archived: true, All: true, Limit: store.NoLimit})
		if err != nil {
			return err
		}
		for _, a := range archived {
			ids = append(ids, a.ID)
		}
		if len(ids) == 0 {
			fmt.Println("Nothing archived to restore.")
			return nil
		}
	} else {
		if ids, err = parseIDs(args); err != nil {
			return err
		}
	}

	restored, err := s.SetFlag(ids, store.FlagArchived, false)
	if err != nil {
		return err
	}
	for _, a := range restored {
		fmt.Printf("↩ Restored %s\n", describeArticle(a.ID, a.Title, a.URL))
	}
	return nil
}
