package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pmdview/internal/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Default values
const (
	// DefaultOutputFormat is used when neither config nor flags choose one
	DefaultOutputFormat = "text"

	// DefaultLocale drives the ordering of class names and messages
	DefaultLocale = "en"

	// DefaultLogLevel keeps the CLI quiet unless something goes wrong
	DefaultLogLevel = "warn"

	// DefaultMaxConcurrency bounds parallel report exports
	DefaultMaxConcurrency = 4

	// DefaultTimeoutSeconds bounds a whole export run
	DefaultTimeoutSeconds = 300

	// MaxConcurrencyLimit is the upper bound accepted for export.max_concurrency
	MaxConcurrencyLimit = 64
)

// Config represents the main configuration structure
type Config struct {
	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// View holds table ordering configuration
	View ViewConfig `json:"view" mapstructure:"view" yaml:"view"`

	// Session holds "open last file" configuration
	Session SessionConfig `json:"session" mapstructure:"session" yaml:"session"`

	// Export holds batch export configuration
	Export ExportConfig `json:"export" mapstructure:"export" yaml:"export"`

	// Logging holds diagnostics configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, html, xlsx
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Path is the file written by `view` (empty = stdout, required for xlsx)
	Path string `json:"path" mapstructure:"path" yaml:"path"`

	// Directory is where `export` writes converted reports
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`

	// CollapseWhitespace folds message whitespace in text output
	CollapseWhitespace bool `json:"collapse_whitespace" mapstructure:"collapse_whitespace" yaml:"collapse_whitespace"`
}

// ViewConfig holds configuration for the violations table
type ViewConfig struct {
	// Locale is the BCP 47 tag used to compare class names and messages
	Locale string `json:"locale" mapstructure:"locale" yaml:"locale"`

	// Sort lists column clicks applied after a report is loaded
	Sort []string `json:"sort" mapstructure:"sort" yaml:"sort"`
}

// SessionConfig holds configuration for reopening the last report
type SessionConfig struct {
	// RememberLastFile stores the last opened report path
	RememberLastFile bool `json:"remember_last_file" mapstructure:"remember_last_file" yaml:"remember_last_file"`

	// StateFile overrides where the last opened path is stored
	StateFile string `json:"state_file" mapstructure:"state_file" yaml:"state_file"`
}

// ExportConfig holds configuration for batch exports
type ExportConfig struct {
	// MaxConcurrency is the number of reports converted in parallel
	MaxConcurrency int `json:"max_concurrency" mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// TimeoutSeconds bounds the whole export
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// Recursive controls whether directories are walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// ExcludePatterns skips matching report files
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore skips files ignored by .gitignore files
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// LoggingConfig holds configuration for diagnostics on stderr
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:             DefaultOutputFormat,
			CollapseWhitespace: true,
		},
		View: ViewConfig{
			Locale: DefaultLocale,
			Sort:   []string{},
		},
		Session: SessionConfig{
			RememberLastFile: true,
		},
		Export: ExportConfig{
			MaxConcurrency:   DefaultMaxConcurrency,
			TimeoutSeconds:   DefaultTimeoutSeconds,
			Recursive:        true,
			ExcludePatterns:  []string{},
			RespectGitignore: true,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// flagBindings maps config keys to the CLI flags that override them
var flagBindings = map[string]string{
	"output.format":           "format",
	"output.path":             "output",
	"output.directory":        "out-dir",
	"view.locale":             "locale",
	"view.sort":               "sort",
	"export.max_concurrency":  "concurrency",
	"export.recursive":        "recursive",
	"export.exclude_patterns": "exclude",
	"logging.level":           "log-level",
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	return LoadConfigWithFlags(configPath, targetPath, nil)
}

// LoadConfigWithFlags loads configuration from the discovered or given
// file, environment variables (PMDVIEW_*) and CLI flags.
// Priority: CLI flags > environment variables > config file > defaults.
func LoadConfigWithFlags(configPath, targetPath string, flags *pflag.FlagSet) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.View.Sort = splitList(config.View.Sort)
	config.Export.ExcludePatterns = splitList(config.Export.ExcludePatterns)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.directory", cfg.Output.Directory)
	v.SetDefault("output.collapse_whitespace", cfg.Output.CollapseWhitespace)
	v.SetDefault("view.locale", cfg.View.Locale)
	v.SetDefault("view.sort", cfg.View.Sort)
	v.SetDefault("session.remember_last_file", cfg.Session.RememberLastFile)
	v.SetDefault("session.state_file", cfg.Session.StateFile)
	v.SetDefault("export.max_concurrency", cfg.Export.MaxConcurrency)
	v.SetDefault("export.timeout_seconds", cfg.Export.TimeoutSeconds)
	v.SetDefault("export.recursive", cfg.Export.Recursive)
	v.SetDefault("export.exclude_patterns", cfg.Export.ExcludePatterns)
	v.SetDefault("export.respect_gitignore", cfg.Export.RespectGitignore)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// splitList accepts both lists and comma separated values (as environment
// variables deliver them) and drops empty items
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
		"html": true,
		"xlsx": true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv, html, xlsx", c.Output.Format)
	}

	if _, err := language.Parse(c.View.Locale); err != nil {
		return fmt.Errorf("invalid view.locale '%s': %w", c.View.Locale, err)
	}

	validColumns := map[string]bool{
		"className":   true,
		"lineNumber":  true,
		"description": true,
	}
	for _, col := range c.View.Sort {
		if !validColumns[col] {
			return fmt.Errorf("invalid view.sort column '%s', must be one of: className, lineNumber, description", col)
		}
	}

	if c.Export.MaxConcurrency < 1 || c.Export.MaxConcurrency > MaxConcurrencyLimit {
		return fmt.Errorf("export.max_concurrency must be between 1 and %d, got %d",
			MaxConcurrencyLimit, c.Export.MaxConcurrency)
	}

	if c.Export.TimeoutSeconds < 1 {
		return fmt.Errorf("export.timeout_seconds must be >= 1, got %d", c.Export.TimeoutSeconds)
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel converts the configured level into a slog.Level
func (c *LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Level)
	}
	return level, nil
}

// StateFilePath returns where the last opened report path is stored
func (c *SessionConfig) StateFilePath() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+constants.ToolName+"-state.yaml")
	}
	return filepath.Join(dir, constants.ToolName, constants.StateFileName)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("output", config.Output)
	v.Set("view", config.View)
	v.Set("session", config.Session)
	v.Set("export", config.Export)
	v.Set("logging", config.Logging)

	return v.WriteConfig()
}

// configCandidates lists config file names in order of preference
func configCandidates() []string {
	return []string{
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		"." + constants.ToolName + ".yaml",
		"." + constants.ToolName + ".yml",
		constants.ToolName + ".json",
		"." + constants.ToolName + ".json",
		"." + constants.ToolName + ".toml",
	}
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the report being opened, if any.
func findDefaultConfig(targetPath string) string {
	candidates := configCandidates()

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
	}

	// PMDVIEW_CONFIG as the last resort
	if envConfig := os.Getenv(constants.ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}
