// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Images struct {
		// Backend is "disk" or "sqlite".
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		Root    string `yaml:"root"`
	} `yaml:"images"`
	Upload struct {
		MaxBytes int64 `yaml:"max_bytes"`
	} `yaml:"upload"`
	RateLimit struct {
		Rate  float64 `yaml:"rate"`
		Burst float64 `yaml:"burst"`
	} `yaml:"rate_limit"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	var c Config
	c.Server.Port = "8080"
	c.Server.ShutdownTimeout = "5s"
	c.Database.Path = "o2o.db"
	c.Images.Backend = BackendDisk
	c.Images.Dir = "data"
	c.Images.Root = "upload/item/shop"
	c.Upload.MaxBytes = 20 << 20
	c.RateLimit.Rate = 2
	c.RateLimit.Burst = 10
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"PORT":          &c.Server.Port,
		"DATABASE_PATH": &c.Database.Path,
		"IMAGE_BACKEND": &c.Images.Backend,
		"IMAGE_DIR":     &c.Images.Dir,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("UPLOAD_MAX_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
		}
		c.Upload.MaxBytes = n
	}
	return nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error
	switch c.Images.Backend {
	case BackendDisk, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("images.backend must be %q or %q, got %q", BackendDisk, BackendSQLite, c.Images.Backend))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ShutdownTimeout parses server.shutdown_timeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	return d, nil
}
