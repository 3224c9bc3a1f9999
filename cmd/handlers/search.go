package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/logger"
)

// NewSearchCmd creates the full-text search command
func NewSearchCmd() *cobra.Command {
	var (
		flags  scopeFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Full-text search over saved articles",
		Long: `Search titles, descriptions, notes, and article content, ranked by
relevance. The same scope flags as list apply.

Examples:
  stash search goroutines
  stash search "error handling" --all
  stash search rust -t systems --format json`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSearch(strings.Join(args, " "), flags, format); err != nil {
				logger.Error("Failed to search articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, or ids (default from config)")

	return cmd
}

func runSearch(query string, flags scopeFlags, format string) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	articles, err := s.Search(query, opts)
	if err != nil {
		return err
	}

	outFormat, err := resolveFormat(format)
	if err != nil {
		return err
	}

	return newRenderer().Articles(outFormat, articles)
}
