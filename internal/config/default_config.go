package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/textscope/domain"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
type DefaultConfigValues struct {
	BaseURL         string
	TimeoutSeconds  int
	Format          string
	Width           int
	AllSections     string
	HistoryLimit    int
	MaxHistoryLimit int
	Concurrency     int
	DashboardAddr   string
	LogLevel        string
}

func newDefaultConfigValues() DefaultConfigValues {
	d := DefaultConfig()
	sections := make([]string, len(domain.ResultSections))
	for i, id := range domain.ResultSections {
		sections[i] = string(id)
	}
	return DefaultConfigValues{
		BaseURL:         d.API.BaseURL,
		TimeoutSeconds:  d.API.TimeoutSeconds,
		Format:          d.Output.Format,
		Width:           d.Output.Width,
		AllSections:     strings.Join(sections, ", "),
		HistoryLimit:    d.History.Limit,
		MaxHistoryLimit: domain.MaxHistoryLimit,
		Concurrency:     d.Input.Concurrency,
		DashboardAddr:   d.Dashboard.Addr,
		LogLevel:        d.Logging.Level,
	}
}

// GenerateDefaultConfigTOML renders the default config template and checks
// that the result parses back into a valid Config.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	var parsed Config
	if err := toml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("default config template is not valid TOML: %w", err)
	}
	if err := parsed.Validate(); err != nil {
		return "", fmt.Errorf("default config template is invalid: %w", err)
	}
	return buf.String(), nil
}

// WriteDefaultConfig writes the default configuration to path. An existing
// file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return domain.NewConfigError(fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
	}
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		return domain.NewConfigError("failed to generate default config", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// MarshalTOML encodes a configuration as TOML without comments.
func MarshalTOML(c *Config) ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, domain.NewConfigError("failed to encode config", err)
	}
	return data, nil
}
