package handlers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/core"
	"stash/internal/logger"
	"stash/internal/store"
)

// NewTagCmd creates the per-article tag command and its collection-wide
// subcommands
func NewTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <id> [+tag|-tag]...",
		Short: "Show or edit an article's tags",
		Long: `With just an id, print the article's tags. Arguments prefixed with +
add a tag and - removes one; bare arguments add.

Examples:
  stash tag 12
  stash tag 12 +go +concurrency -later
  stash tag rename golang go
  stash tag merge js javascript ecmascript
  stash tag delete stale
  stash tag stats`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTag(args); err != nil {
				logger.Error("Failed to update tags", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	// Leave -tag edits alone instead of parsing them as flags.
	cmd.Flags().SetInterspersed(false)

	cmd.AddCommand(newTagRenameCmd())
	cmd.AddCommand(newTagMergeCmd())
	cmd.AddCommand(newTagDeleteCmd())
	cmd.AddCommand(newTagStatsCmd())

	return cmd
}

func runTag(args []string) error {
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

	if len(args) == 1 {
		if len(article.Tags) == 0 {
			fmt.Printf("#%d has no tags\n", id)
		} else {
			fmt.Println(strings.Join(article.Tags, " "))
		}
		return nil
	}

	tags, err := applyTagEdits(article.Tags, args[1:])
	if err != nil {
		return err
	}

	updated, err := s.UpdateTags(id, tags)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s: [%s]\n", describeArticle(updated.ID, updated.Title, updated.URL), strings.Join(updated.Tags, ", "))
	return nil
}

// applyTagEdits folds +tag/-tag edits into the current list, keeping order and
// uniqueness.
func applyTagEdits(current []string, edits []string) ([]string, error) {
	tags := append([]string(nil), current...)

	for _, edit := range edits {
		remove := false
		name := edit
		switch {
		case strings.HasPrefix(edit, "+"):
			name = edit[1:]
		case strings.HasPrefix(edit, "-"):
			name = edit[1:]
			remove = true
		}

		if !core.ValidTag(name) {
			return nil, fmt.Errorf("invalid tag %q: use lowercase letters, digits, and single hyphens", name)
		}

		if remove {
			kept := tags[:0]
			for _, t := range tags {
				if t != name {
					kept = append(kept, t)
				}
			}
			tags = kept
			continue
		}

		exists := false
		for _, t := range tags {
			if t == name {
				exists = true
				break
			}
		}
		if !exists {
			tags = append(tags, name)
		}
	}

	return tags, nil
}

func newTagRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a tag everywhere",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTagRename(args[0], args[1]); err != nil {
				logger.Error("Failed to rename tag", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runTagRename(oldTag, newTag string) error {
	if !core.ValidTag(newTag) {
		return fmt.Errorf("invalid tag %q: use lowercase letters, digits, and single hyphens", newTag)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.RenameTag(oldTag, newTag)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Renamed %q to %q on %d article(s)\n", oldTag, newTag, count)
	return nil
}

func newTagMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <into> <tag>...",
		Short: "Merge tags into one",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTagMerge(args[0], args[1:]); err != nil {
				logger.Error("Failed to merge tags", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runTagMerge(into string, sources []string) error {
	if !core.ValidTag(into) {
		return fmt.Errorf("invalid tag %q: use lowercase letters, digits, and single hyphens", into)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.MergeTags(sources, into)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Merged [%s] into %q on %d article(s)\n", strings.Join(sources, ", "), into, count)
	return nil
}

func newTagDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Remove a tag from every article",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTagDelete(args[0]); err != nil {
				logger.Error("Failed to delete tag", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runTagDelete(tag string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	count, err := s.DeleteTag(tag)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed %q from %d article(s)\n", tag, count)
	return nil
}

func newTagStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show tag usage counts",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTags("count", 0); err != nil {
				logger.Error("Failed to show tag stats", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

// NewTagsCmd creates the tag-listing command
func NewTagsCmd() *cobra.Command {
	var (
		sortBy string
		min    int
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List all tags in use",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTags(sortBy, min); err != nil {
				logger.Error("Failed to list tags", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "alpha", "Sort by alpha or count")
	cmd.Flags().IntVar(&min, "min", 0, "Hide tags used fewer than n times")

	return cmd
}

func runTags(sortBy string, min int) error {
	if sortBy != "alpha" && sortBy != "count" {
		return fmt.Errorf("invalid sort %q: must be alpha or count", sortBy)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.TagCounts()
	if err != nil {
		return err
	}

	filtered := counts[:0]
	for _, c := range counts {
		if c.Count >= min {
			filtered = append(filtered, c)
		}
	}
	counts = filtered

	if sortBy == "count" {
		sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	}

	for _, c := range counts {
		fmt.Printf("%4d  %s\n", c.Count, c.Tag)
	}
	return nil
}
