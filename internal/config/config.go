// Package config manages the aide configuration file (~/.config/aide/config.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all aide settings.
type Config struct {
	TimeZone   string           `toml:"time_zone"`
	DBPath     string           `toml:"db_path"`
	Classifier ClassifierConfig `toml:"classifier"`
	Server     ServerConfig     `toml:"server"`
	Corpus     CorpusConfig     `toml:"corpus"`
	Log        LogConfig        `toml:"log"`
}

// ClassifierConfig controls the intent classifier and its training run.
// C is the inverse regularisation strength: smaller values keep
// predictions that rest on one or two shared words under the threshold.
type ClassifierConfig struct {
	Enabled      bool    `toml:"enabled"`
	Threshold    float64 `toml:"threshold"`
	Epochs       int     `toml:"epochs"`
	LearningRate float64 `toml:"learning_rate"`
	C            float64 `toml:"c"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AdminToken     string   `toml:"admin_token"`
	AllowedOrigins []string `toml:"allowed_origins"`
	ReadTimeout    int      `toml:"read_timeout"`
	WriteTimeout   int      `toml:"write_timeout"`
}

// CorpusConfig points at a directory of training phrase files.
type CorpusConfig struct {
	Dir        string `toml:"dir"`
	DebounceMs int    `toml:"debounce_ms"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeZone: "Europe/Paris",
		DBPath:   DefaultDBPath(),
		Classifier: ClassifierConfig{
			Enabled:      true,
			Threshold:    0.55,
			Epochs:       300,
			LearningRate: 1,
			C:            10,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15,
			WriteTimeout:   15,
		},
		Corpus: CorpusConfig{
			DebounceMs: 500,
		},
	}
}

// DefaultPath returns the path to the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aide", "config.toml"), nil
}

// DefaultDBPath returns the default location of the SQLite database.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".aide", "aide.db")
	}
	return filepath.Join(home, ".local", "share", "aide", "aide.db")
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath; a missing file yields the defaults. Environment variables
// are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			applyEnv(&cfg)
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config: stat %s: %w", path, err)
	}

	applyEnv(&cfg)

	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if cfg.Classifier.Threshold <= 0 || cfg.Classifier.Threshold > 1 {
		return cfg, fmt.Errorf("config: classifier threshold %v outside (0,1]", cfg.Classifier.Threshold)
	}
	if cfg.Classifier.C <= 0 {
		return cfg, fmt.Errorf("config: classifier c must be positive, got %v", cfg.Classifier.C)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TIME_ZONE"); v != "" {
		cfg.TimeZone = v
	}
	if v := os.Getenv("AIDE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AIDE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("AIDE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Timeouts returns the read and write timeouts as durations.
func (s ServerConfig) Timeouts() (read, write time.Duration) {
	return time.Duration(s.ReadTimeout) * time.Second, time.Duration(s.WriteTimeout) * time.Second
}
