package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Source  SourceConfig  `yaml:"source,omitempty"`
	Render  RenderConfig  `yaml:"render,omitempty"`
	Verify  VerifyConfig  `yaml:"verify,omitempty"`
	Daemon  DaemonConfig  `yaml:"daemon,omitempty"`
}

// ProjectConfig identifies the library being documented.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	GithubUser  string `yaml:"github_user,omitempty"`
	GithubRepo  string `yaml:"github_repo,omitempty"`
}

// SourceConfig optionally points the pipeline at a remote repository instead
// of a local checkout. When URL is empty the resolved code source directory
// is used as-is.
type SourceConfig struct {
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Subdir string `yaml:"subdir,omitempty"` // header tree within the checkout, e.g. include/observable
}

// RenderConfig holds the static renderer settings. Values are read once at
// startup and never mutated.
type RenderConfig struct {
	MasterDoc     string              `yaml:"master_doc,omitempty"`
	Theme         string              `yaml:"theme,omitempty"`
	ThemeOptions  ThemeOptions        `yaml:"theme_options,omitempty"`
	PygmentsStyle string              `yaml:"pygments_style,omitempty"`
	Sidebars      map[string][]string `yaml:"sidebars,omitempty"`
	SiteOutputDir string              `yaml:"site_output_dir,omitempty"`
	SphinxBuilder string              `yaml:"sphinx_builder,omitempty"`
}

// ThemeOptions maps onto the alabaster theme sub-options.
type ThemeOptions struct {
	Description    string `yaml:"description,omitempty"`
	GithubUser     string `yaml:"github_user,omitempty"`
	GithubRepo     string `yaml:"github_repo,omitempty"`
	GithubButton   bool   `yaml:"github_button,omitempty"`
	FontFamily     string `yaml:"font_family,omitempty"`
	HeadFontFamily string `yaml:"head_font_family,omitempty"`
}

// VerifyConfig controls the post-render link verification stage.
type VerifyConfig struct {
	Links bool `yaml:"links,omitempty"`
}

// DaemonConfig configures continuous mode. Durations are strings in
// time.ParseDuration format (e.g. "2s", "30m").
type DaemonConfig struct {
	Listen          string `yaml:"listen,omitempty"`
	Watch           bool   `yaml:"watch,omitempty"`
	Debounce        string `yaml:"debounce,omitempty"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
	HistoryPath     string `yaml:"history_path,omitempty"`
	NATSURL         string `yaml:"nats_url,omitempty"`
	NATSSubject     string `yaml:"nats_subject,omitempty"`
}

// DebounceDuration parses Debounce, falling back to the default on error.
func (d DaemonConfig) DebounceDuration() time.Duration {
	if v, err := time.ParseDuration(d.Debounce); err == nil && v > 0 {
		return v
	}
	return defaultDebounce
}

// RebuildIntervalDuration parses RebuildInterval; zero disables scheduled rebuilds.
func (d DaemonConfig) RebuildIntervalDuration() time.Duration {
	if v, err := time.ParseDuration(d.RebuildInterval); err == nil && v > 0 {
		return v
	}
	return 0
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load the first available .env file; existing process env wins.
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			break
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to the built-in
// defaults otherwise, so extract-only invocations work without a config file.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(configPath)
}

// Default returns a configuration populated with the documented defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
