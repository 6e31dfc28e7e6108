package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"seconds", "2s", 2 * time.Second, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "nclpost" {
		t.Errorf("General.Name = %v, want nclpost", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("General.LogFormat = %v, want text", cfg.General.LogFormat)
	}
	if cfg.Store.Path != filepath.Join("./data", "nclpost.db") {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if cfg.Store.Enabled {
		t.Error("Store.Enabled should default to false")
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce.Duration)
	}
	if cfg.Batch.Workers != runtime.NumCPU() {
		t.Errorf("Batch.Workers = %v, want %v", cfg.Batch.Workers, runtime.NumCPU())
	}
	if cfg.Sequence.MaxGotoCount != 0 {
		t.Errorf("Sequence.MaxGotoCount = %v, want 0", cfg.Sequence.MaxGotoCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/nclpost.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("error code = %v, want NOT_FOUND", mdwerror.GetCode(err))
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nclpost.toml")
	configContent := `
[general]
log_level = "debug"
log_format = "json"
data_dir = "/var/lib/nclpost"

[[parser.markers]]
name = "featno"
pattern = '^FEATNO\s*/\s*(?P<feature>\d+)'

[sequence]
max_goto_count = 500

[store]
enabled = true

[watch]
debounce = "1s"

[batch]
workers = 3
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" || cfg.General.LogFormat != "json" {
		t.Errorf("General = %+v", cfg.General)
	}
	if len(cfg.Parser.Markers) != 1 || cfg.Parser.Markers[0].Name != "featno" {
		t.Errorf("Parser.Markers = %+v", cfg.Parser.Markers)
	}
	if cfg.Sequence.MaxGotoCount != 500 {
		t.Errorf("Sequence.MaxGotoCount = %v, want 500", cfg.Sequence.MaxGotoCount)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != filepath.Join("/var/lib/nclpost", "nclpost.db") {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce.Duration)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("Batch.Workers = %v, want 3", cfg.Batch.Workers)
	}

	reg, err := cfg.NewRegistry(mdwlog.Discard())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if feature, _, _, ok := reg.Match("FEATNO/ 12"); !ok || feature != "12" {
		t.Errorf("configured marker did not match: %q %v", feature, ok)
	}
}

func TestLoad_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nclpost.yaml")
	configContent := `
general:
  log_level: warn
parser:
  markers:
    - name: pprint
      pattern: '^PPRINT\s+FEATURE\s+(?P<feature>\w+)'
watch:
  debounce: 100ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if len(cfg.Parser.Markers) != 1 || cfg.Parser.Markers[0].Name != "pprint" {
		t.Errorf("Parser.Markers = %+v", cfg.Parser.Markers)
	}
	if cfg.Watch.Debounce.Duration != 100*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 100ms", cfg.Watch.Debounce.Duration)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    mdwerror.Code
	}{
		{"syntax error", "a.toml", "[general\n", mdwerror.CodeConfigError},
		{"unknown key", "b.toml", "[general]\ncolour = \"red\"\n", mdwerror.CodeConfigError},
		{"unknown yaml key", "c.yaml", "general:\n  colour: red\n", mdwerror.CodeConfigError},
		{"bad level", "d.toml", "[general]\nlog_level = \"loud\"\n", mdwerror.CodeInvalidConfig},
		{"negative goto", "e.toml", "[sequence]\nmax_goto_count = -1\n", mdwerror.CodeInvalidConfig},
		{"marker without group", "f.toml", "[[parser.markers]]\nname = \"x\"\npattern = \"FEATNO\"\n", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if mdwerror.GetCode(err) != tt.code {
				t.Errorf("error code = %v, want %v (%v)", mdwerror.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(configPath, []byte("[batch]\nworkers = 2\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(EnvConfigPath, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("Batch.Workers = %v, want 2", cfg.Batch.Workers)
	}
}

func TestWrite(t *testing.T) {
	cfg := Default()
	cfg.Sequence.MaxGotoCount = 42

	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cfg.Write(&buf, format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.Contains(buf.String(), "max_goto_count") || !strings.Contains(buf.String(), "42") {
				t.Errorf("output misses max_goto_count:\n%s", buf.String())
			}
			if !strings.Contains(buf.String(), "250ms") {
				t.Errorf("debounce not written as duration text:\n%s", buf.String())
			}
		})
	}

	if err := cfg.Write(&bytes.Buffer{}, "ini"); err == nil {
		t.Error("Write() should reject unknown formats")
	}
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "nclpost.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Parser.Markers) != 1 || cfg.Parser.Markers[0].Name != "featno" {
		t.Fatalf("Parser.Markers = %+v, want the featno rule", cfg.Parser.Markers)
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce.Duration)
	}

	reg, err := cfg.NewRegistry(mdwlog.Discard())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	feature, name, rule, ok := reg.Match("FEATNO/ 12, POCKET")
	if !ok || feature != "12" || name != "POCKET" || rule != "featno" {
		t.Errorf("Match() = %q, %q, %q, %v", feature, name, rule, ok)
	}
}
