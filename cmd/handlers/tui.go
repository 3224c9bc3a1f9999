package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/logger"
	"stash/internal/tui"
)

// NewTUICmd creates the TUI command
func NewTUICmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the stash interactively in the terminal",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTUI(all); err != nil {
				logger.Error("TUI exited with an error", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Start with read and archived articles visible")

	return cmd
}

func runTUI(all bool) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(s, tui.Options{
		ShowAll:  all,
		AutoRead: config.GetDefaults().AutoRead,
	})
}
