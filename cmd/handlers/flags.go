package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stash/internal/logger"
	"stash/internal/store"
)

// NewReadCmd creates the mark-read command
func NewReadCmd() *cobra.Command {
	var (
		all             bool
		includeArchived bool
	)

	cmd := &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark articles as read",
		Long: `Mark the given articles as read, removing them from the default
inbox listing. With --all every article is marked (archived articles
only when --include-archived is set).`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetRead(args, true, all, includeArchived); err != nil {
				logger.Error("Failed to mark articles read", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every article read")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "With --all, include archived articles")

	return cmd
}

// NewUnreadCmd creates the mark-unread command
func NewUnreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread <id>...",
		Short: "Mark articles as unread",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetRead(args, false, false, false); err != nil {
				logger.Error("Failed to mark articles unread", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runSetRead(args []string, read, all, includeArchived bool) error {
	if !all && len(args) == 0 {
		return fmt.Errorf("pass article ids or --all")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if all {
		updated, err := s.SetReadAll(read, includeArchived)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Marked %d articles %s\n", len(updated), readLabel(read))
		return nil
	}

	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	updated, err := s.SetFlag(ids, store.FlagRead, read)
	if err != nil {
		return err
	}
	for _, a := range updated {
		fmt.Printf("✓ %s %s\n", describeArticle(a.ID, a.Title, a.URL), readLabel(read))
	}
	return nil
}

func readLabel(read bool) string {
	if read {
		return "read"
	}
	return "unread"
}

// NewStarCmd creates the star command
func NewStarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <id>...",
		Short: "Star articles",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetStar(args, true); err != nil {
				logger.Error("Failed to star articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

// NewUnstarCmd creates the unstar command
func NewUnstarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstar <id>...",
		Short: "Remove the star from articles",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetStar(args, false); err != nil {
				logger.Error("Failed to unstar articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runSetStar(args []string, starred bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	updated, err := s.SetFlag(ids, store.FlagStarred, starred)
	if err != nil {
		return err
	}
	icon := "★"
	if !starred {
		icon = "☆"
	}
	for _, a := range updated {
		fmt.Printf("%s %s\n", icon, describeArticle(a.ID, a.Title, a.URL))
	}
	return nil
}
