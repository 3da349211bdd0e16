// Package config loads runtime settings for the vyakarana CLI and server.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file, a .env file, and VYAKARANA_* environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "vyakarana.yaml"

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Environment variables that override file settings.
const (
	EnvRules          = "VYAKARANA_RULES"
	EnvAddr           = "VYAKARANA_ADDR"
	EnvLogLevel       = "VYAKARANA_LOG_LEVEL"
	EnvAllowedOrigins = "VYAKARANA_ALLOWED_ORIGINS"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config is the root configuration structure.
type Config struct {
	// Rules is a CUE rule directory. Empty selects the built-in table.
	Rules    string       `yaml:"rules"`
	LogLevel string       `yaml:"log_level"`
	Server   ServerConfig `yaml:"server"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads the config at path and applies environment overrides.
// A missing file is not an error when path is DefaultPath; the defaults are
// used instead. A relative rules directory in the file is resolved against
// the file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if cfg.Rules != "" && !filepath.IsAbs(cfg.Rules) {
			cfg.Rules = filepath.Join(filepath.Dir(path), cfg.Rules)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)
	applyDefaults(cfg)

	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given .env files into the
// process environment. Missing files are skipped and variables that are
// already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRules); ok {
		c.Rules = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvAllowedOrigins); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
}

func applyDefaults(c *Config) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
