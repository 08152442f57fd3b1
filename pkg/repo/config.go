package repo

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
)

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
	User UserConfig `toml:"user"`
}

// CoreConfig mirrors the storage engine's format knobs. Only format version
// 0 is readable by this engine.
type CoreConfig struct {
	RepositoryFormatVersion int  `toml:"repositoryformatversion"`
	FileMode                bool `toml:"filemode"`
	Bare                    bool `toml:"bare"`
}

// UserConfig identifies the author used when creating annotated tags.
type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			RepositoryFormatVersion: 0,
			FileMode:                false,
			Bare:                    false,
		},
	}
}

// Tagger renders the configured identity as "Name <email>", falling back to
// a placeholder when unset.
func (c *Config) Tagger() string {
	if c == nil || c.User.Name == "" {
		return "grit <grit@localhost>"
	}
	email := c.User.Email
	if email == "" {
		email = "unknown"
	}
	return fmt.Sprintf("%s <%s>", c.User.Name, email)
}

func configPath(gitDir string) string {
	return filepath.Join(gitDir, "config")
}

// readConfig reads the repository config file. A missing file is an error:
// a gitdir without a config is not a repository this engine can trust.
func readConfig(gitDir string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath(gitDir), &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// writeConfig atomically writes the repository config file.
func writeConfig(gitDir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := renameio.WriteFile(configPath(gitDir), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// WriteConfig persists the handle's current configuration.
func (r *Repo) WriteConfig() error {
	if r.Config == nil {
		r.Config = DefaultConfig()
	}
	return writeConfig(r.GitDir, r.Config)
}
