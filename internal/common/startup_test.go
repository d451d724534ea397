package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     uint16
	Interval time.Duration
	Nested   struct {
		Name string
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_DefaultsOverridesAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "port: 8080\ninterval: 15s\nnested:\n  name: default\n")
	override := writeConfig(t, t.TempDir(), "override.yaml", "interval: 1h30m\n")
	t.Setenv("TESTCFG_NESTED_NAME", "from-env")

	cfg := testConfig{Port: 1}
	_, err := LoadConfig(&cfg, dir, []string{override}, "TESTCFG")

	require.NoError(t, err)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.Interval)
	assert.Equal(t, "from-env", cfg.Nested.Name)
}

func TestLoadConfig_MissingDefaultKeepsValues(t *testing.T) {
	cfg := testConfig{Port: 1, Interval: time.Second}
	_, err := LoadConfig(&cfg, t.TempDir(), nil, "TESTCFG")

	require.NoError(t, err)
	assert.Equal(t, uint16(1), cfg.Port)
	assert.Equal(t, time.Second, cfg.Interval)
}

func TestLoadConfig_MissingOverride(t *testing.T) {
	cfg := testConfig{}
	_, err := LoadConfig(&cfg, t.TempDir(), []string{"/does/not/exist.yaml"}, "TESTCFG")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	override := writeConfig(t, t.TempDir(), "override.yaml", "interval: fast\n")
	cfg := testConfig{}
	_, err := LoadConfig(&cfg, t.TempDir(), []string{override}, "TESTCFG")
	assert.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, ConfigureLogging("debug", "json"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	require.NoError(t, ConfigureLogging("warn", "text"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	assert.Error(t, ConfigureLogging("loud", "text"))
}

func TestLoadConfig_DurationWithoutUnit(t *testing.T) {
	override := writeConfig(t, t.TempDir(), "override.yaml", "interval: 15\n")
	cfg := testConfig{}
	_, err := LoadConfig(&cfg, t.TempDir(), []string{override}, "TESTCFG")
	assert.ErrorContains(t, err, "has no unit")
	assert.Equal(t, time.Duration(0), cfg.Interval)
}
