package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"glob-sweep/internal/limiter"
	"glob-sweep/internal/op"
)

// OperationRule is the yaml form of one delete operation.
type OperationRule struct {
	Root    string   `yaml:"root" json:"root"`
	Pattern string   `yaml:"pattern" json:"pattern"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"`
}

type LoggingCfg struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

type Config struct {
	Root            string          `yaml:"root" json:"root"`
	Operations      []OperationRule `yaml:"operations" json:"operations"`
	MaxInFlight     int             `yaml:"max_in_flight" json:"max_in_flight"`
	IntervalMinutes int             `yaml:"interval_minutes" json:"interval_minutes"`
	DryRun          bool            `yaml:"dry_run" json:"dry_run"`
	Prometheus      PrometheusCfg   `yaml:"prometheus" json:"prometheus"`
	Logging         LoggingCfg      `yaml:"logging" json:"logging"`
	DatabasePath    string          `yaml:"database_path" json:"database_path"`
	ProtectedPaths  []string        `yaml:"protected_paths" json:"protected_paths"`
}

var (
	errNoOperations = errors.New("configuration must specify at least one operation")
	errEmptyPattern = errors.New("operation pattern must not be empty")
	errInvalidRoot  = errors.New("root must be an absolute path")
)

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if len(c.Operations) == 0 {
		return errNoOperations
	}

	if c.Root != "" {
		cp, err := cleanAbsolute(c.Root)
		if err != nil {
			return err
		}
		c.Root = cp
	}

	for i := range c.Operations {
		if c.Operations[i].Pattern == "" {
			return fmt.Errorf("operation %d: %w", i, errEmptyPattern)
		}
		// Without a global root every operation must anchor itself.
		if c.Root == "" && !filepath.IsAbs(c.Operations[i].Root) {
			return fmt.Errorf("operation %d: %w", i, errInvalidRoot)
		}
	}

	if c.MaxInFlight <= 0 {
		c.MaxInFlight = limiter.DefaultMaxInFlight
	}
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 15
	}
	if c.Prometheus.Port < 0 {
		c.Prometheus.Port = 0
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

func cleanAbsolute(p string) (string, error) {
	cp := filepath.Clean(p)
	if !filepath.IsAbs(cp) {
		return "", fmt.Errorf("%w: %s", errInvalidRoot, p)
	}
	return cp, nil
}

// ToOperations converts the yaml rules into engine operations.
// IncludeFolders is always set: this engine removes matched directories once
// their contents are gone.
func (c *Config) ToOperations() []op.Operation {
	ops := make([]op.Operation, 0, len(c.Operations))
	for _, rule := range c.Operations {
		ops = append(ops, op.Operation{
			Root:           rule.Root,
			Pattern:        rule.Pattern,
			Exclude:        rule.Exclude,
			IncludeFolders: true,
		})
	}
	return ops
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
