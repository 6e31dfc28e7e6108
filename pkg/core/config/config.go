package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/registry"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "NCLPOST_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Parser   ParserConfig   `toml:"parser" yaml:"parser"`
	Sequence SequenceConfig `toml:"sequence" yaml:"sequence"`
	Store    StoreConfig    `toml:"store" yaml:"store"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
	Batch    BatchConfig    `toml:"batch" yaml:"batch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig holds classifier settings
type ParserConfig struct {
	Markers []registry.MarkerSpec `toml:"markers" yaml:"markers"`
}

// SequenceConfig holds segmentation settings. MaxGotoCount 0 disables
// cutting.
type SequenceConfig struct {
	MaxGotoCount int `toml:"max_goto_count" yaml:"max_goto_count"`
}

// StoreConfig holds run store settings
type StoreConfig struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Path          string `toml:"path" yaml:"path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// BatchConfig holds multi-file settings
type BatchConfig struct {
	Workers int `toml:"workers" yaml:"workers"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file; the extension
// decides (.yaml/.yml is YAML, everything else TOML)
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "config file not readable").
			WithCode(code).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, parseError(err, path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, parseError(err, path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, mdwerror.New(fmt.Sprintf("unknown config key %q", undecoded[0].String())).
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in path fields
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the NCLPOST_CONFIG environment
// variable, falling back to the default locations
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, mdwerror.New("no config file found, set " + EnvConfigPath + " or create configs/nclpost.toml").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// DefaultPaths lists the locations LoadFromEnv tries in order
func DefaultPaths() []string {
	return []string{
		"./configs/nclpost.toml",
		"./nclpost.toml",
		"./nclpost.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/nclpost/config.toml"),
	}
}

// Write encodes the configuration as "toml" or "yaml"
func (c *Config) Write(w io.Writer, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case "toml", "":
		return toml.NewEncoder(w).Encode(c)
	default:
		return mdwerror.New("unsupported config format " + format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Write")
	}
}

// Validate checks value ranges and compiles the marker rules once
func (c *Config) Validate() error {
	invalid := func(key, msg string) error {
		return mdwerror.New(key + ": " + msg).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("key", key)
	}

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", err.Error())
	}
	if c.Sequence.MaxGotoCount < 0 {
		return invalid("sequence.max_goto_count", "must not be negative")
	}
	if c.Batch.Workers < 1 {
		return invalid("batch.workers", "must be at least 1")
	}
	if c.Watch.Debounce.Duration < 0 {
		return invalid("watch.debounce", "must not be negative")
	}
	if c.Store.RetentionDays < 0 {
		return invalid("store.retention_days", "must not be negative")
	}
	if _, err := c.NewRegistry(mdwlog.Discard()); err != nil {
		return mdwerror.Wrap(err, "parser.markers").WithOperation("config.Validate")
	}
	return nil
}

// NewRegistry builds the feature-marker registry from parser.markers
func (c *Config) NewRegistry(logger *mdwlog.Logger) (*registry.Registry, error) {
	return registry.New(registry.Options{Logger: logger, Markers: c.Parser.Markers})
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "nclpost"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "nclpost.db")
	}
	if c.Store.RetentionDays == 0 {
		c.Store.RetentionDays = 90
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 250 * time.Millisecond
	}

	// Batch
	if c.Batch.Workers == 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

func parseError(err error, path string) error {
	return mdwerror.Wrap(err, "failed to parse config").
		WithCode(mdwerror.CodeConfigError).
		WithOperation("config.Load").
		WithDetail("path", path)
}
