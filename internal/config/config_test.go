package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaedit/fieldtree"
	"github.com/reoring/schemaedit/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "schemaedit.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_ValidConfig(t *testing.T) {
	p := writeConfig(t, `
logging:
  level: debug
  format: console
clipboard:
  capacity: 5
paste:
  default_mode: overwrite
i18n:
  language: ja
`)
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Clipboard.Capacity)
	assert.Equal(t, fieldtree.Overwrite, cfg.PasteMode())
	assert.Equal(t, "ja", cfg.I18n.Language)
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Logging.Format)
	assert.Equal(t, 20, cfg.Clipboard.Capacity)
	assert.Equal(t, fieldtree.Append, cfg.PasteMode())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvCapacity, "3")
	p := writeConfig(t, "logging:\n  level: debug\n")
	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Clipboard.Capacity)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"level":    "logging:\n  level: loud\n",
		"format":   "logging:\n  format: xml\n",
		"capacity": "clipboard:\n  capacity: -1\n",
		"mode":     "paste:\n  default_mode: splice\n",
		"language": "i18n:\n  language: fr\n",
		"yaml":     "logging: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
