package handlers

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/logger"
	"stash/internal/store"
)

// NewPickCmd creates the fuzzy-picker command
func NewPickCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-pick an article with fzf and open it",
		Long: `Pipe the current listing through fzf and open the selected article
in the browser. Requires fzf on PATH.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runPick(all); err != nil {
				logger.Error("Failed to pick an article", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include read and archived articles")

	return cmd
}

func runPick(all bool) error {
	if _, err := exec.LookPath("fzf"); err != nil {
		return fmt.Errorf("fzf not found on PATH: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	articles, err := s.List(store.NoLimit, all)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Println("Nothing to pick from.")
		return nil
	}

	var input bytes.Buffer
	for _, a := range articles {
		title := a.Title
		if title == "" {
			title = a.URL
		}
		fmt.Fprintf(&input, "%d\t%s\t%s\n", a.ID, title, a.Site)
	}

	fzf := exec.Command("fzf", "--delimiter=\t", "--with-nth=2,3", "--no-multi")
	fzf.Stdin = &input
	fzf.Stderr = os.Stderr
	out, err := fzf.Output()
	if err != nil {
		// fzf exits 130 when the user cancels; treat that as a no-op.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 130 {
			return nil
		}
		return fmt.Errorf("fzf failed: %w", err)
	}

	selected := strings.TrimSpace(string(out))
	if selected == "" {
		return nil
	}
	idField := strings.SplitN(selected, "\t", 2)[0]
	if _, err := strconv.ParseInt(idField, 10, 64); err != nil {
		return fmt.Errorf("unexpected fzf selection %q", selected)
	}
	s.Close()

	return runOpen([]string{idField}, false)
}
