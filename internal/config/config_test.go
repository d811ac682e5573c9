package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: 99
database:
  host: localhost
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval())
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout())
}

func TestLoadSessionOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: 99
session:
  ttl_minutes: 10
  sweep_interval_minutes: 2
notify:
  timeout_seconds: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Session.TTL())
	assert.Equal(t, 2*time.Minute, cfg.Session.SweepInterval())
	assert.Equal(t, 3*time.Second, cfg.Notify.Timeout())
}

func TestLoadRejectsMissingAdmin(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin_id")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestCoreProjection(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "t"
	cfg.Logging.Level = "debug"

	core := cfg.Core()
	assert.Equal(t, "t", core.Telegram.Token)
	assert.Equal(t, "debug", core.Logging.Level)
}
