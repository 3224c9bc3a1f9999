package handlers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/logger"
	"stash/internal/store"
)

// NewNoteCmd creates the note command
func NewNoteCmd() *cobra.Command {
	var (
		appendNote bool
		clear      bool
	)

	cmd := &cobra.Command{
		Use:   "note <id> [text]",
		Short: "Attach a note to an article",
		Long: `Set an article's note from the command line, or open $EDITOR when no
text is given.

Examples:
  stash note 12 "revisit the benchmarks section"
  stash note 12 --append "also see the HN thread"
  stash note 12            # opens $EDITOR
  stash note 12 --clear`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runNote(args, appendNote, clear); err != nil {
				logger.Error("Failed to update note", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&appendNote, "append", false, "Append to the existing note")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the note")

	return cmd
}

func runNote(args []string, appendNote, clear bool) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}
	id := ids[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	article, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("id %d: %w", id, store.ErrNotFound)
	}

	var note string
	switch {
	case clear:
		note = ""
	case len(args) > 1:
		note = strings.Join(args[1:], " ")
		if appendNote && article.Note != "" {
			note = article.Note + "\n" + note
		}
	default:
		note, err = editInEditor(article.Note, fmt.Sprintf("stash-note-%d-*.md", id))
		if err != nil {
			return err
		}
		note = strings.TrimSpace(note)
	}

	updated, err := s.UpdateNote(id, note)
	if err != nil {
		return err
	}
	if updated.Note == "" {
		fmt.Printf("✓ Cleared note on %s\n", describeArticle(updated.ID, updated.Title, updated.URL))
	} else {
		fmt.Printf("✓ Noted %s\n", describeArticle(updated.ID, updated.Title, updated.URL))
	}
	return nil
}

// editInEditor round-trips content through $EDITOR and returns the result.
func editInEditor(content, tempPattern string) (string, error) {
	editor := config.GetDefaults().Editor
	if editor == "" {
		return "", fmt.Errorf("no editor configured: set defaults.editor or $EDITOR")
	}

	f, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	parts := strings.Fields(editor)
	parts = append(parts, path)
	editCmd := exec.Command(parts[0], parts[1:]...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", filepath.Base(parts[0]), err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}

	return string(edited), nil
}
