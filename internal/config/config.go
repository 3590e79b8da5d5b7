package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/textscope/domain"
)

// EnvPrefix prefixes every environment override, e.g. TEXTSCOPE_API_BASE_URL.
const EnvPrefix = "TEXTSCOPE"

// ConfigFileName is the project-level configuration file written by `init`.
const ConfigFileName = ".textscope.toml"

// Config represents the main configuration structure
type Config struct {
	// API holds backend connection settings
	API APIConfig `mapstructure:"api" toml:"api" yaml:"api"`

	// Session holds token persistence settings
	Session SessionConfig `mapstructure:"session" toml:"session" yaml:"session"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output"`

	// History holds analysis history paging
	History HistoryConfig `mapstructure:"history" toml:"history" yaml:"history"`

	// Input holds document extraction settings
	Input InputConfig `mapstructure:"input" toml:"input" yaml:"input"`

	// Dashboard holds the local browser dashboard settings
	Dashboard DashboardConfig `mapstructure:"dashboard" toml:"dashboard" yaml:"dashboard"`

	// Logging holds log settings
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" yaml:"logging"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	// BaseURL is the root of the TextScope REST backend
	BaseURL string `mapstructure:"base_url" toml:"base_url" yaml:"base_url"`

	// TimeoutSeconds bounds each request. 0 disables the client-side timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// SessionConfig holds token persistence settings
type SessionConfig struct {
	// StateDir is where the access token file lives. Empty selects the user
	// config directory.
	StateDir string `mapstructure:"state_dir" toml:"state_dir" yaml:"state_dir"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `mapstructure:"format" toml:"format" yaml:"format"`

	// Width is the terminal rendering width
	Width int `mapstructure:"width" toml:"width" yaml:"width"`

	// Plain disables colors and borders
	Plain bool `mapstructure:"plain" toml:"plain" yaml:"plain"`

	// NoOpen stops HTML reports from opening in a browser
	NoOpen bool `mapstructure:"no_open" toml:"no_open" yaml:"no_open"`

	// Sections lists the result sections to render. Empty renders all
	Sections []string `mapstructure:"sections" toml:"sections" yaml:"sections"`
}

// HistoryConfig holds analysis history paging
type HistoryConfig struct {
	Limit int `mapstructure:"limit" toml:"limit" yaml:"limit"`
}

// InputConfig holds document extraction settings
type InputConfig struct {
	// Concurrency bounds parallel file extraction
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" yaml:"concurrency"`
}

// DashboardConfig holds the local browser dashboard settings
type DashboardConfig struct {
	Addr           string   `mapstructure:"addr" toml:"addr" yaml:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" yaml:"allowed_origins"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" toml:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        domain.DefaultAPIBaseURL,
			TimeoutSeconds: 0,
		},
		Output: OutputConfig{
			Format:   string(domain.OutputFormatText),
			Width:    80,
			Sections: []string{},
		},
		History: HistoryConfig{
			Limit: domain.DefaultHistoryLimit,
		},
		Input: InputConfig{
			Concurrency: domain.DefaultExtractConcurrency,
		},
		Dashboard: DashboardConfig{
			Addr:           domain.DefaultDashboardAddr,
			AllowedOrigins: []string{},
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig loads configuration from file, .env and environment, or returns
// the defaults when nothing is found.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithEnvFile(configPath, ".env")
}

// LoadConfigWithEnvFile is LoadConfig with an explicit dotenv path. A missing
// dotenv file is ignored.
func LoadConfigWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewConfigError(fmt.Sprintf("failed to load %s", envFile), err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// If no config path specified, try to find default config files
	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no file sets them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_seconds", d.API.TimeoutSeconds)
	v.SetDefault("session.state_dir", d.Session.StateDir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.width", d.Output.Width)
	v.SetDefault("output.plain", d.Output.Plain)
	v.SetDefault("output.no_open", d.Output.NoOpen)
	v.SetDefault("output.sections", d.Output.Sections)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("input.concurrency", d.Input.Concurrency)
	v.SetDefault("dashboard.addr", d.Dashboard.Addr)
	v.SetDefault("dashboard.allowed_origins", d.Dashboard.AllowedOrigins)
	v.SetDefault("logging.level", d.Logging.Level)
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig() string {
	candidates := []string{ConfigFileName, "textscope.toml"}

	// Check current directory first
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "textscope", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewConfigError(fmt.Sprintf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL), err)
	}
	if c.API.TimeoutSeconds < 0 {
		return domain.NewConfigError(fmt.Sprintf("api.timeout_seconds must be >= 0, got %d", c.API.TimeoutSeconds), nil)
	}

	switch domain.OutputFormat(c.Output.Format) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
	default:
		return domain.NewConfigError(fmt.Sprintf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format), nil)
	}
	if c.Output.Width < 40 {
		return domain.NewConfigError(fmt.Sprintf("output.width must be >= 40, got %d", c.Output.Width), nil)
	}
	if _, err := domain.ParseMounts(c.Output.Sections); err != nil {
		return domain.NewConfigError("invalid output.sections", err)
	}

	if c.History.Limit < 1 || c.History.Limit > domain.MaxHistoryLimit {
		return domain.NewConfigError(fmt.Sprintf("history.limit must be between 1 and %d, got %d", domain.MaxHistoryLimit, c.History.Limit), nil)
	}
	if c.Input.Concurrency < 1 {
		return domain.NewConfigError(fmt.Sprintf("input.concurrency must be >= 1, got %d", c.Input.Concurrency), nil)
	}
	if strings.TrimSpace(c.Dashboard.Addr) == "" {
		return domain.NewConfigError("dashboard.addr cannot be empty", nil)
	}
	if _, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return domain.NewConfigError(fmt.Sprintf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level), nil)
	}
	return nil
}

// Timeout returns the per-request timeout, 0 for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// LogLevel returns the slog level of Logging.Level.
func (c *Config) LogLevel() slog.Level {
	if level, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; ok {
		return level
	}
	return slog.LevelWarn
}

// Mounts returns the result sections selected by Output.Sections.
func (c *Config) Mounts() domain.Mounts {
	mounts, err := domain.ParseMounts(c.Output.Sections)
	if err != nil {
		return domain.AllMounts()
	}
	return mounts
}
