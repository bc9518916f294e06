package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const (
	dbFileName     = "softdesk.db"
	configFileName = "config.toml"
)

// Defaults used when neither config.toml nor the environment set a value.
const (
	DefaultAddr     = ":8000"
	DefaultTokenTTL = 24 * time.Hour
	DefaultLogLevel = "info"
)

// Config holds resolved configuration for the data directory, database and server.
type Config struct {
	Dir        string        // resolved .softdesk directory path
	DBPath     string        // full path to softdesk.db
	ConfigPath string        // full path to config.toml, which may not exist
	EnvVarSet  bool          // whether SOFTDESK_PATH was used
	Addr       string        // HTTP listen address
	TokenTTL   time.Duration // lifetime of issued tokens
	LogLevel   string        // zerolog level name
}

// fileConfig is the on-disk shape of config.toml.
type fileConfig struct {
	Addr     string `toml:"addr"`
	TokenTTL string `toml:"token_ttl"`
	LogLevel string `toml:"log_level"`
}

// Resolve returns the current configuration. The directory comes from
// SOFTDESK_PATH, falling back to $PWD/.softdesk. Settings are layered as
// defaults, then config.toml in that directory, then SOFTDESK_ADDR,
// SOFTDESK_TOKEN_TTL and SOFTDESK_LOG_LEVEL.
func Resolve() (*Config, error) {
	var dir string
	var envVarSet bool

	if envPath := os.Getenv("SOFTDESK_PATH"); envPath != "" {
		dir = envPath
		envVarSet = true
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(cwd, ".softdesk")
	}

	cfg := &Config{
		Dir:        dir,
		DBPath:     filepath.Join(dir, dbFileName),
		ConfigPath: filepath.Join(dir, configFileName),
		EnvVarSet:  envVarSet,
		Addr:       DefaultAddr,
		TokenTTL:   DefaultTokenTTL,
		LogLevel:   DefaultLogLevel,
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(cfg.ConfigPath, &fc); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", cfg.ConfigPath, err)
	}
	if err := cfg.apply(fc, "config.toml"); err != nil {
		return nil, err
	}

	env := fileConfig{
		Addr:     os.Getenv("SOFTDESK_ADDR"),
		TokenTTL: os.Getenv("SOFTDESK_TOKEN_TTL"),
		LogLevel: os.Getenv("SOFTDESK_LOG_LEVEL"),
	}
	if err := cfg.apply(env, "environment"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// apply overlays the non-empty values of fc onto c.
func (c *Config) apply(fc fileConfig, source string) error {
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.TokenTTL != "" {
		d, err := time.ParseDuration(fc.TokenTTL)
		if err != nil {
			return fmt.Errorf("%s: invalid token_ttl %q: %w", source, fc.TokenTTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: token_ttl must be positive, got %s", source, d)
		}
		c.TokenTTL = d
	}
	if fc.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(fc.LogLevel)); err != nil {
			return fmt.Errorf("%s: invalid log_level %q: %w", source, fc.LogLevel, err)
		}
		c.LogLevel = strings.ToLower(fc.LogLevel)
	}
	return nil
}

// Level returns the configured zerolog level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// WriteFile saves the server settings to config.toml.
func (c *Config) WriteFile() error {
	f, err := os.Create(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", c.ConfigPath, err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fileConfig{
		Addr:     c.Addr,
		TokenTTL: c.TokenTTL.String(),
		LogLevel: c.LogLevel,
	})
}

// Exists checks if the softdesk directory and DB file both exist.
// It returns an error for non-existence failures (e.g. permission errors).
func (c *Config) Exists() (bool, error) {
	for _, p := range []string{c.Dir, c.DBPath} {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

var (
	defaultUsername     string
	defaultUsernameOnce sync.Once
)

// DefaultUsername suggests a username for the first account: the OS user,
// or "admin" when that cannot be determined. Cached for the process lifetime.
func DefaultUsername() string {
	defaultUsernameOnce.Do(func() {
		defaultUsername = "admin"
		if u, err := user.Current(); err == nil && u.Username != "" {
			defaultUsername = u.Username
		}
	})
	return defaultUsername
}
