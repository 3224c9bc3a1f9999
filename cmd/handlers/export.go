package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stash/internal/core"
	"stash/internal/export"
	"stash/internal/logger"
	"stash/internal/store"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		flags  scopeFlags
		format string
		output string
		ids    []int64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export articles to JSON, Markdown, or HTML",
		Long: `Write the selected articles to stdout or a file. The JSON format can
be read back with import.

Examples:
  stash export --all > backup.json
  stash export --format markdown -t go -o reading-list.md
  stash export --id 12 --id 15 --format html -o picks.html`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runExport(flags, format, output, ids); err != nil {
				logger.Error("Failed to export articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "Export format: json, markdown, or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().Int64SliceVar(&ids, "id", nil, "Export specific article ids (repeatable)")

	return cmd
}

func runExport(flags scopeFlags, format, output string, ids []int64) error {
	exportFormat, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var articles []core.Article
	if len(ids) > 0 {
		articles, err = s.FindByIDs(ids)
	} else {
		var opts store.ListOptions
		opts, err = flags.options()
		if err != nil {
			return err
		}
		if flags.limit == 0 {
			// Exports default to everything matching, not the screen limit.
			opts.Limit = store.NoLimit
		}
		articles, err = s.Articles(opts)
	}
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, exportFormat, articles); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("✓ Exported %d article(s) to %s\n", len(articles), output)
	}
	return nil
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import articles from a JSON export",
		Long: `Read a JSON export and insert its articles. Articles whose URL hash
already exists are skipped.

Examples:
  stash import backup.json
  stash import backup.json --dry-run`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runImport(args[0], dryRun); err != nil {
				logger.Error("Failed to import articles", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be imported without writing")

	return cmd
}

func runImport(path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	articles, err := export.Read(f)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	imported, skipped := 0, 0
	for _, a := range articles {
		hash := a.Hash
		if hash == "" {
			hash = core.HashURL(a.URL)
		}

		if dryRun {
			existing, err := s.FindByHash(hash)
			if err != nil {
				return err
			}
			if existing != nil {
				skipped++
			} else {
				imported++
			}
			continue
		}

		canonical := a.CanonicalURL
		if canonical == "" {
			canonical = a.URL
		}
		inserted, err := s.Insert(core.NewArticle{
			Hash:            hash,
			URL:             a.URL,
			CanonicalURL:    canonical,
			Title:           a.Title,
			Site:            a.Site,
			Description:     a.Description,
			FaviconURL:      a.FaviconURL,
			ContentMarkdown: a.ContentMarkdown,
			Tags:            a.Tags,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				skipped++
				continue
			}
			return err
		}
		imported++

		if a.Note != "" {
			if _, err := s.UpdateNote(inserted.ID, a.Note); err != nil {
				return err
			}
		}
		if a.Starred || a.Read || a.Archived {
			if _, err := s.UpdateMetadata(inserted.ID, inserted.Title, inserted.URL, a.Note, a.Tags, a.Starred, a.Read, a.Archived); err != nil {
				return err
			}
		}
	}

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Printf("✓ %s %d article(s), skipped %d duplicate(s)\n", verb, imported, skipped)
	return nil
}
