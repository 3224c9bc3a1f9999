package handlers

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"stash/internal/logger"
)

// NewRandomCmd creates the random-sample command
func NewRandomCmd() *cobra.Command {
	var (
		all    bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "random [count]",
		Short: "Show a random sample of unread articles",
		Long: `Pick articles uniformly at random, useful for rediscovering things
saved long ago. Defaults to one unread, unarchived article.

Examples:
  stash random
  stash random 5 --all`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			count := int64(1)
			if len(args) == 1 {
				parsed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || parsed < 1 {
					fmt.Fprintf(os.Stderr, "invalid count %q\n", args[0])
					os.Exit(1)
				}
				count = parsed
			}
			if err := runRandom(count, all, format); err != nil {
				logger.Error("Failed to sample articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Sample from read and archived articles too")
	cmd.Flags().StringVar(&format, "format", "", "Output format: table, json, or ids (default from config)")

	return cmd
}

func runRandom(count int64, all bool, format string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	articles, err := s.RandomSample(count, all)
	if err != nil {
		return err
	}

	outFormat, err := resolveFormat(format)
	if err != nil {
		return err
	}

	return newRenderer().Articles(outFormat, articles)
}
