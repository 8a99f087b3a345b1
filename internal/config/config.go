// Package config loads the per-project .boilerplate/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// Dir and File locate the config relative to the project directory.
const (
	Dir  = ".boilerplate"
	File = "config.yaml"
)

// Defaults
const (
	DefaultOutputRoot  = "."
	DefaultDatabase    = "~/.boilerplate/history.db"
	DefaultParallelism = 4
)

// Config represents the project configuration.
type Config struct {
	Project      string   `yaml:"project" validate:"required"`
	OutputRoot   string   `yaml:"output_root" validate:"required"`
	TemplatesDir string   `yaml:"templates_dir,omitempty"`
	History      *bool    `yaml:"history,omitempty"`
	Database     string   `yaml:"database,omitempty"`
	Parallelism  int      `yaml:"parallelism" validate:"min=1,max=32"`
	Artifacts    []string `yaml:"artifacts" validate:"min=1,dive,artifact"`
}

// HistoryEnabled reports whether runs are recorded. Unset means enabled.
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// Path returns the config file path for dir.
func Path(dir string) string {
	return filepath.Join(dir, Dir, File)
}

// Default returns the configuration used when dir has no config file.
// The project name defaults to the directory name.
func Default(dir string) *Config {
	project := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		project = filepath.Base(abs)
	}
	return &Config{
		Project:     project,
		OutputRoot:  DefaultOutputRoot,
		Database:    DefaultDatabase,
		Parallelism: DefaultParallelism,
		Artifacts:   []string{scaffold.GroupAll},
	}
}

// LoadConfig reads .boilerplate/config.yaml from dir. A missing file yields
// the defaults; missing keys in a present file are filled with defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.yaml under dir.
func SaveConfig(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir := filepath.Join(dir, Dir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", Dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the config against its validation tags.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("artifact", func(fl validator.FieldLevel) bool {
		return scaffold.IsSelector(fl.Field().String())
	})
	return v
}
