package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"sealchat/internal/domain"
)

// ConfigFilename is read from the home directory when present.
const ConfigFilename = "config.yaml"

// Storage backends for the key ledger and session state.
const (
	StorageFile   = "file"
	StorageBadger = "badger"
)

const (
	defaultRelayURL     = "http://127.0.0.1:8080"
	defaultPollInterval = 2 * time.Second
	defaultLogLevel     = "info"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string           // config directory, e.g. $HOME/.sealchat
	RelayURL     string           // relay base URL, e.g. http://127.0.0.1:8080
	Username     string           // default local username
	Storage      string           // StorageFile or StorageBadger
	PollInterval time.Duration    // listen poll interval
	LogLevel     string           // zerolog level name
	HTTP         *http.Client     // optional; defaults to http.DefaultClient
	Transport    domain.Transport // optional; replaces the HTTP relay client
}

type fileConfig struct {
	Relay        string `yaml:"relay"`
	Username     string `yaml:"username"`
	Storage      string `yaml:"storage"`
	PollInterval string `yaml:"poll_interval"`
	LogLevel     string `yaml:"log_level"`
}

// LoadConfig reads home/config.yaml if it exists and fills in defaults for
// anything left unset.
func LoadConfig(home string) (Config, error) {
	cfg := Config{Home: home}

	data, err := os.ReadFile(filepath.Join(home, ConfigFilename))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", ConfigFilename, err)
		}
		cfg.RelayURL = fc.Relay
		cfg.Username = fc.Username
		cfg.Storage = fc.Storage
		cfg.LogLevel = fc.LogLevel
		if fc.PollInterval != "" {
			d, err := time.ParseDuration(fc.PollInterval)
			if err != nil {
				return Config{}, fmt.Errorf("parse poll_interval: %w", err)
			}
			cfg.PollInterval = d
		}
	}

	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.RelayURL == "" {
		c.RelayURL = defaultRelayURL
	}
	if c.Storage == "" {
		c.Storage = StorageFile
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate reports settings that cannot be wired.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageBadger:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage, StorageFile, StorageBadger)
	}
	return nil
}
