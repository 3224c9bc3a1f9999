package handlers

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stash/internal/config"
	"stash/internal/fetch"
	"stash/internal/render"
	"stash/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stash",
		Short: "Stash is a personal bookmark and read-it-later manager.",
		Long: `Stash saves URLs with fetched metadata into a local SQLite database
and lets you list, search, tag, star, archive, annotate, and export them
from the command line, a TUI, or a local web view.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stash.yaml)")

	rootCmd.AddCommand(NewAddCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewOpenCmd())
	rootCmd.AddCommand(NewPickCmd())
	rootCmd.AddCommand(NewRandomCmd())
	rootCmd.AddCommand(NewReadCmd())
	rootCmd.AddCommand(NewUnreadCmd())
	rootCmd.AddCommand(NewStarCmd())
	rootCmd.AddCommand(NewUnstarCmd())
	rootCmd.AddCommand(NewRmCmd())
	rootCmd.AddCommand(NewRestoreCmd())
	rootCmd.AddCommand(NewTagCmd())
	rootCmd.AddCommand(NewTagsCmd())
	rootCmd.AddCommand(NewNoteCmd())
	rootCmd.AddCommand(NewEditCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the article database at the configured data directory.
func openStore() (*store.Store, error) {
	s, err := store.Open(config.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open stash at %s: %w", config.DataDir(), err)
	}
	return s, nil
}

// newFetchClient builds a fetch client from the fetch config section.
func newFetchClient() *fetch.Client {
	cfg := config.Get().Fetch
	return fetch.NewClient(fetch.Options{
		Timeout:         config.FetchTimeout(),
		UserAgent:       cfg.UserAgent,
		FollowRedirects: cfg.FollowRedirects,
	})
}

// newRenderer builds a stdout renderer honoring the color theme.
func newRenderer() *render.Renderer {
	return render.NewRenderer(os.Stdout, render.ResolveColors(config.Get().Colors.Theme))
}

// resolveFormat picks the output format from a flag value, falling back to the
// configured default.
func resolveFormat(flagValue string) (render.Format, error) {
	if flagValue == "" {
		flagValue = config.GetDefaults().OutputFormat
	}
	return render.ParseFormat(flagValue)
}

// parseIDs converts positional id arguments, rejecting anything non-numeric.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid article id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// describeArticle is the one-line confirmation used after mutations.
func describeArticle(id int64, title, url string) string {
	label := title
	if label == "" {
		label = url
	}
	return fmt.Sprintf("#%d %s", id, label)
}

// summarizeIDs joins ids for log/confirmation output.
func summarizeIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
