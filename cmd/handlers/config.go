package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"stash/internal/logger"
)

// NewConfigCmd creates the config inspection command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change configuration",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !viper.IsSet(args[0]) {
				fmt.Fprintf(os.Stderr, "unknown key %q\n", args[0])
				os.Exit(1)
			}
			fmt.Println(viper.Get(args[0]))
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value and write the config file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runConfigSet(args[0], args[1]); err != nil {
				logger.Error("Failed to set config value", err)
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func runConfigSet(key, value string) error {
	viper.Set(key, value)

	if err := viper.WriteConfig(); err != nil {
		// No config file yet; create one in $HOME.
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return fmt.Errorf("failed to locate home directory: %w", homeErr)
		}
		path := filepath.Join(home, ".stash.yaml")
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("failed to write config file %s: %w", path, err)
		}
	}

	fmt.Printf("✓ %s = %s\n", key, value)
	return nil
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			out, err := yaml.Marshal(viper.AllSettings())
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to encode settings: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(string(out))
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Run: func(cmd *cobra.Command, args []string) {
			path := viper.ConfigFileUsed()
			if path == "" {
				fmt.Println("(no config file; using defaults)")
				return
			}
			fmt.Println(path)
		},
	}
}
