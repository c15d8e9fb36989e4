// Package config loads the schemaedit CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/schemaedit/fieldtree"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "SCHEMAEDIT_LOG_LEVEL"
	EnvLogFormat = "SCHEMAEDIT_LOG_FORMAT"
	EnvLanguage  = "SCHEMAEDIT_LANGUAGE"
	EnvCapacity  = "SCHEMAEDIT_CLIPBOARD_CAPACITY"
)

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Paste     PasteConfig     `yaml:"paste"`
	I18n      I18nConfig      `yaml:"i18n"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console or auto
}

// ClipboardConfig bounds the clipboard.
type ClipboardConfig struct {
	Capacity int `yaml:"capacity"`
}

// PasteConfig sets paste defaults.
type PasteConfig struct {
	DefaultMode string `yaml:"default_mode"` // append, prepend, overwrite
}

// I18nConfig selects the message language.
type I18nConfig struct {
	Language string `yaml:"language"` // en, ja
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file. An empty path or a missing
// file yields the defaults (still subject to environment overrides).
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			data = []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		cfg.I18n.Language = v
	}
	if v := os.Getenv(EnvCapacity); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Clipboard.Capacity = n
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "auto"
	}
	if cfg.Clipboard.Capacity == 0 {
		cfg.Clipboard.Capacity = 20
	}
	if cfg.Paste.DefaultMode == "" {
		cfg.Paste.DefaultMode = fieldtree.Append.String()
	}
	if cfg.I18n.Language == "" {
		cfg.I18n.Language = "en"
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, disabled; got %q", c.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true, "auto": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json', 'console' or 'auto', got %q", c.Logging.Format)
	}
	if c.Clipboard.Capacity < 1 {
		return fmt.Errorf("clipboard.capacity must be positive, got %d", c.Clipboard.Capacity)
	}
	if _, err := fieldtree.ParsePasteMode(c.Paste.DefaultMode); err != nil {
		return fmt.Errorf("paste.default_mode: %w", err)
	}
	validLanguages := map[string]bool{"en": true, "ja": true}
	if !validLanguages[c.I18n.Language] {
		return fmt.Errorf("i18n.language must be 'en' or 'ja', got %q", c.I18n.Language)
	}
	return nil
}

// PasteMode returns the parsed default paste mode.
func (c *Config) PasteMode() fieldtree.PasteMode {
	m, err := fieldtree.ParsePasteMode(c.Paste.DefaultMode)
	if err != nil {
		return fieldtree.Append
	}
	return m
}
