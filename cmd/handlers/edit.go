package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stash/internal/core"
	"stash/internal/fetch"
	"stash/internal/logger"
	"stash/internal/store"
)

// editDoc is the YAML shape presented in the editor for a full-record edit.
type editDoc struct {
	Title    string   `yaml:"title"`
	URL      string   `yaml:"url"`
	Note     string   `yaml:"note"`
	Tags     []string `yaml:"tags"`
	Starred  bool     `yaml:"starred"`
	Read     bool     `yaml:"read"`
	Archived bool     `yaml:"archived"`
}

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an article's fields in $EDITOR",
		Long: `Open the article as a YAML document in $EDITOR. On save the edited
fields are validated and written back; a summary of what changed is
printed.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runEdit(args[0]); err != nil {
				logger.Error("Failed to edit article", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runEdit(arg string) error {
	ids, err := parseIDs([]string{arg})
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

	doc := editDoc{
		Title:    article.Title,
		URL:      article.URL,
		Note:     article.Note,
		Tags:     article.Tags,
		Starred:  article.Starred,
		Read:     article.Read,
		Archived: article.Archived,
	}
	original, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode article %d: %w", id, err)
	}

	edited, err := editInEditor(string(original), fmt.Sprintf("stash-edit-%d-*.yaml", id))
	if err != nil {
		return err
	}
	if strings.TrimSpace(edited) == strings.TrimSpace(string(original)) {
		fmt.Println("No changes.")
		return nil
	}

	var next editDoc
	if err := yaml.Unmarshal([]byte(edited), &next); err != nil {
		return fmt.Errorf("failed to parse edited YAML: %w", err)
	}

	if err := fetch.ValidateURL(next.URL); err != nil {
		return err
	}
	for _, tag := range next.Tags {
		if !core.ValidTag(tag) {
			return fmt.Errorf("invalid tag %q: use lowercase letters, digits, and single hyphens", tag)
		}
	}

	updated, err := s.UpdateMetadata(id, next.Title, next.URL, next.Note, next.Tags, next.Starred, next.Read, next.Archived)
	if err != nil {
		return err
	}

	printEditSummary(doc, next)
	fmt.Printf("✓ Updated %s\n", describeArticle(updated.ID, updated.Title, updated.URL))
	return nil
}

func printEditSummary(before, after editDoc) {
	diff := func(field, from, to string) {
		if from != to {
			fmt.Printf("  %s: %q → %q\n", field, from, to)
		}
	}
	diff("title", before.Title, after.Title)
	diff("url", before.URL, after.URL)
	diff("note", before.Note, after.Note)
	diff("tags", strings.Join(before.Tags, ","), strings.Join(after.Tags, ","))
	diffBool := func(field string, from, to bool) {
		if from != to {
			fmt.Printf("  %s: %t → %t\n", field, from, to)
		}
	}
	diffBool("starred", before.Starred, after.Starred)
	diffBool("read", before.Read, after.Read)
	diffBool("archived", before.Archived, after.Archived)
}
