package config

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/infraguys/genesis-templates/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "GST_"

// Config is the complete runtime configuration.
type Config struct {
	TemplateSettings    string `koanf:"template_settings" toml:"template_settings"`
	TargetDirectory     string `koanf:"target_directory" toml:"target_directory"`
	ProjectSettingsFile string `koanf:"project_settings_file" toml:"project_settings_file"`
	Git                 Git    `koanf:"git" toml:"git"`
	Render              Render `koanf:"render" toml:"render"`
}

// Git configures repository operations.
type Git struct {
	Binary                string `koanf:"binary" toml:"binary"`
	SettingsCommitMessage string `koanf:"settings_commit_message" toml:"settings_commit_message"`
	AuthorName            string `koanf:"author_name" toml:"author_name"`
	AuthorEmail           string `koanf:"author_email" toml:"author_email"`
}

// Render configures what happens after the tree is rendered.
type Render struct {
	CommitRendered bool   `koanf:"commit_rendered" toml:"commit_rendered"`
	CommitMessage  string `koanf:"commit_message" toml:"commit_message"`
}

// ProjectSettingsPath is where the resolved settings are written.
func (c *Config) ProjectSettingsPath() string {
	return filepath.Join(c.TargetDirectory, c.ProjectSettingsFile)
}

// Validate checks the fields every run needs.
func (c *Config) Validate() error {
	invalid := func(key, reason string) error {
		return errors.Newf(errors.ErrConfigLoad, "invalid configuration: %s %s", key, reason).
			WithDetail("key", key)
	}

	if strings.TrimSpace(c.TemplateSettings) == "" {
		return invalid("template_settings", "is required")
	}
	if strings.TrimSpace(c.TargetDirectory) == "" {
		return invalid("target_directory", "is required")
	}
	switch name := c.ProjectSettingsFile; {
	case name == "":
		return invalid("project_settings_file", "is required")
	case name != filepath.Base(name) || name == "." || name == "..":
		return invalid("project_settings_file", "must be a file name, not a path")
	}
	if strings.TrimSpace(c.Git.Binary) == "" {
		return invalid("git.binary", "is required")
	}
	return nil
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipUserConfig: true, SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary.
		panic(err)
	}
	return cfg
}
