package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sealchat/internal/app"
)

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := app.LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Equal(t, "http://127.0.0.1:8080", cfg.RelayURL)
	require.Equal(t, app.StorageFile, cfg.Storage)
	require.Equal(t, 2*time.Second, cfg.PollInterval)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	yml := "relay: http://relay.example:9000\nusername: alice\nstorage: badger\npoll_interval: 500ms\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte(yml), 0o600))

	cfg, err := app.LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "http://relay.example:9000", cfg.RelayURL)
	require.Equal(t, "alice", cfg.Username)
	require.Equal(t, app.StorageBadger, cfg.Storage)
	require.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte("storage: sqlite\n"), 0o600))
	_, err := app.LoadConfig(home)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte("poll_interval: soon\n"), 0o600))
	_, err = app.LoadConfig(home)
	require.Error(t, err)
}
