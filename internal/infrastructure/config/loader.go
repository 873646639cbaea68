// Package config loads the client settings from YAML.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hesabkit/hesabchat/internal/pkg/filesystem"
)

// Config holds the client settings persisted at ~/.hesabchat/config.yaml.
type Config struct {
	BackendAddress        string `yaml:"backend_address"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	EntityCacheTTLSeconds int    `yaml:"entity_cache_ttl_seconds"`
	JournalDisabled       bool   `yaml:"journal_disabled"`
}

// FileLoader loads YAML configuration from ~/.hesabchat/config.yaml
// (overridable via HESABCHAT_CONFIG). A local .env file is honored for the
// environment overrides.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	_ = godotenv.Load()
	return &FileLoader{overridePath: path}
}

// Load reads the config file, writing the defaults on first run. The
// HESABCHAT_BACKEND environment variable overrides the stored address.
func (l *FileLoader) Load() (Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := l.Save(cfg); err != nil {
				return Config{}, err
			}
			return l.applyEnv(cfg), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return l.applyEnv(hydrateDefaults(cfg)), nil
}

// Save writes the configuration back to disk.
func (l *FileLoader) Save(cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(l.Path(), raw, 0o600)
}

// Path resolves the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("HESABCHAT_CONFIG"); custom != "" {
		return custom
	}
	return filepath.Join(filesystem.UserHomeDir(), ".hesabchat", "config.yaml")
}

func (l *FileLoader) applyEnv(cfg Config) Config {
	if addr := os.Getenv("HESABCHAT_BACKEND"); addr != "" {
		cfg.BackendAddress = addr
	}
	return cfg
}

// Default is the configuration written on first run.
func Default() Config {
	return Config{
		BackendAddress:        "http://127.0.0.1:8000",
		RequestTimeoutSeconds: 60,
		EntityCacheTTLSeconds: 90,
	}
}

func hydrateDefaults(cfg Config) Config {
	def := Default()
	if cfg.BackendAddress == "" {
		cfg.BackendAddress = def.BackendAddress
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if cfg.EntityCacheTTLSeconds <= 0 {
		cfg.EntityCacheTTLSeconds = def.EntityCacheTTLSeconds
	}
	return cfg
}
