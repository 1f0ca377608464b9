// Package config provides configuration types, defaults and the default
// config file for lowkey.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/lowkey/internal/log"
)

// Config holds all configuration options for lowkey.
type Config struct {
	DBPath   string `mapstructure:"db_path" yaml:"db_path"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Channel  string `mapstructure:"channel" yaml:"channel"`
}

// Defaults returns the configuration used when no file or env overrides
// are present. An empty DBPath means the store's default location.
func Defaults() Config {
	return Config{
		LogLevel: "info",
	}
}

// Dir is the directory holding config.yaml, lowkey.db and lowkey.log
// (~/.config/lowkey on Linux).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(base, "lowkey"), nil
}

// DefaultPath is config.yaml inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Validate checks the values that cannot be defaulted silently.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Marshal renders c as YAML with two-space indentation.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path. An existing file is
// left untouched unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := Defaults().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info().Str("path", path).Msg("created default config")
	return nil
}
