// Package config loads asmcut settings from an optional YAML file and
// ASMCUT_* environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration for the asmcut tool
type Config struct {
	LogLevel   string   `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	LogPrefix  string   `yaml:"log_prefix" json:"log_prefix" jsonschema:"title=Log Prefix,description=Prefix for log messages"`
	LogToFile  bool     `yaml:"log_to_file" json:"log_to_file" jsonschema:"title=Log To File,description=Write logs to a timestamped file instead of stderr"`
	NoColor    bool     `yaml:"no_color" json:"no_color" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	Extensions []string `yaml:"extensions" json:"extensions" jsonschema:"title=Extensions,description=File extensions treated as assembly modules"`
	Workers    int      `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Concurrent module scans when indexing a directory,minimum=1"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogPrefix:  "asmcut ",
		Extensions: []string{".s", ".S", ".asm"},
		Workers:    runtime.NumCPU(),
	}
}

// Path returns the config file location: ASMCUT_CONFIG, or
// ~/.asmcut/config.yaml.
func Path() string {
	if p := os.Getenv("ASMCUT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".asmcut", "config.yaml")
}

// Load returns the defaults overlaid with the config file, if any, and then
// with the environment.
func Load() (Config, error) {
	cfg := Default()
	if p := Path(); p != "" {
		if err := cfg.loadFile(p); err != nil {
			return cfg, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("ASMCUT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ASMCUT_LOG_PREFIX"); v != "" {
		c.LogPrefix = v
	}
	if os.Getenv("ASMCUT_LOG_TO_FILE") == "1" {
		c.LogToFile = true
	}
	if os.Getenv("ASMCUT_NO_COLOR") != "" {
		c.NoColor = true
	}
	if v := os.Getenv("ASMCUT_EXTENSIONS"); v != "" {
		c.Extensions = nil
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				c.Extensions = append(c.Extensions, e)
			}
		}
	}
	if v := os.Getenv("ASMCUT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASMCUT_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	for _, e := range c.Extensions {
		if !strings.HasPrefix(e, ".") {
			return fmt.Errorf("extension %q must start with a dot", e)
		}
	}
	return nil
}
