package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Defaults Defaults `mapstructure:"defaults"`
	Colors   Colors   `mapstructure:"colors"`
	Fetch    Fetch    `mapstructure:"fetch"`
	Data     Data     `mapstructure:"data"`
	Serve    Serve    `mapstructure:"serve"`
}

// Defaults holds the behavior defaults applied when a command flag is absent
type Defaults struct {
	Editor       string `mapstructure:"editor"`
	Browser      string `mapstructure:"browser"`
	OutputFormat string `mapstructure:"output_format"`
	ListLimit    int64  `mapstructure:"list_limit"`
	AutoRead     bool   `mapstructure:"auto_read"`
}

// Colors holds terminal color configuration
type Colors struct {
	Theme string `mapstructure:"theme"`
}

// Fetch holds page-fetching configuration
type Fetch struct {
	Timeout         string `mapstructure:"timeout"`
	UserAgent       string `mapstructure:"user_agent"`
	FollowRedirects bool   `mapstructure:"follow_redirects"`
}

// Data holds on-disk storage configuration
type Data struct {
	Dir string `mapstructure:"dir"`
}

// Serve holds the local web view configuration
type Serve struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

var globalConfig *Config

// Load loads the configuration from the config file, environment, and defaults
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".stash")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.SetEnvPrefix("STASH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("defaults.editor", os.Getenv("EDITOR"))
	viper.SetDefault("defaults.browser", "")
	viper.SetDefault("defaults.output_format", "table")
	viper.SetDefault("defaults.list_limit", 25)
	viper.SetDefault("defaults.auto_read", true)

	viper.SetDefault("colors.theme", "auto")

	viper.SetDefault("fetch.timeout", "15s")
	viper.SetDefault("fetch.user_agent", "stash/1.0 (+https://github.com/stash/stash)")
	viper.SetDefault("fetch.follow_redirects", true)

	viper.SetDefault("data.dir", "~/.local/share/stash")

	viper.SetDefault("serve.host", "127.0.0.1")
	viper.SetDefault("serve.port", 7870)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("defaults.editor", []string{
		"STASH_EDITOR",
		"EDITOR",
		"VISUAL",
	})

	bindEnvKeys("defaults.browser", []string{
		"STASH_BROWSER",
		"BROWSER",
	})

	bindEnvKeys("data.dir", []string{
		"STASH_DATA_DIR",
	})

	bindEnvKeys("fetch.user_agent", []string{
		"STASH_USER_AGENT",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	if config.Data.Dir != "" {
		config.Data.Dir = expandPath(config.Data.Dir)
	}

	if config.Fetch.Timeout != "" {
		if _, err := time.ParseDuration(config.Fetch.Timeout); err != nil {
			return fmt.Errorf("invalid duration for fetch.timeout: %s", config.Fetch.Timeout)
		}
	}

	switch config.Defaults.OutputFormat {
	case "table", "json", "ids":
	default:
		return fmt.Errorf("unknown defaults.output_format: %s (supported: table, json, ids)", config.Defaults.OutputFormat)
	}

	switch config.Colors.Theme {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown colors.theme: %s (supported: auto, always, never)", config.Colors.Theme)
	}

	if config.Defaults.ListLimit < 1 {
		return fmt.Errorf("defaults.list_limit must be positive, got %d", config.Defaults.ListLimit)
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// FetchTimeout returns the parsed fetch timeout.
func FetchTimeout() time.Duration {
	d, err := time.ParseDuration(Get().Fetch.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// DataDir returns the expanded data directory.
func DataDir() string { return Get().Data.Dir }

// GetDefaults returns the behavior defaults section.
func GetDefaults() Defaults { return Get().Defaults }

// GetServe returns the web view section.
func GetServe() Serve { return Get().Serve }

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
