package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glob-sweep/internal/limiter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
root: /proj
operations:
  - pattern: "build/**"
  - root: scratch
    pattern: "**/*.tmp"
    exclude:
      - "**/keep.tmp"
max_in_flight: 4
interval_minutes: 30
prometheus:
  port: 9105
logging:
  level: debug
database_path: /var/lib/glob-sweep/history.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "/proj" {
		t.Errorf("root: got %s", cfg.Root)
	}
	if len(cfg.Operations) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(cfg.Operations))
	}
	if cfg.MaxInFlight != 4 || cfg.IntervalMinutes != 30 {
		t.Errorf("numeric fields wrong: %+v", cfg)
	}
	if cfg.PrometheusAddress() != ":9105" {
		t.Errorf("prometheus address: %s", cfg.PrometheusAddress())
	}

	ops := cfg.ToOperations()
	if len(ops) != 2 {
		t.Fatalf("expected 2 engine operations, got %d", len(ops))
	}
	for i, o := range ops {
		if !o.IncludeFolders {
			t.Errorf("operation %d: IncludeFolders must always be set", i)
		}
	}
	if ops[1].Exclude[0] != "**/keep.tmp" {
		t.Errorf("exclude lost: %+v", ops[1])
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
root: /proj
operations:
  - pattern: "dist/**"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxInFlight != limiter.DefaultMaxInFlight {
		t.Errorf("max_in_flight default: got %d", cfg.MaxInFlight)
	}
	if cfg.IntervalMinutes != 15 {
		t.Errorf("interval default: got %d", cfg.IntervalMinutes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default: got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsNoOperations(t *testing.T) {
	path := writeConfig(t, `root: /proj`)

	if _, err := Load(path); err == nil {
		t.Error("config without operations accepted")
	}
}

func TestLoadRejectsEmptyPattern(t *testing.T) {
	path := writeConfig(t, `
root: /proj
operations:
  - root: build
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "pattern") {
		t.Errorf("expected pattern error, got %v", err)
	}
}

func TestLoadRejectsRelativeRootWithoutBase(t *testing.T) {
	path := writeConfig(t, `
operations:
  - root: build
    pattern: "**"
`)

	if _, err := Load(path); err == nil {
		t.Error("relative operation root without global root accepted")
	}
}

func TestLoadRejectsRelativeGlobalRoot(t *testing.T) {
	path := writeConfig(t, `
root: proj
operations:
  - pattern: "build/**"
`)

	if _, err := Load(path); err == nil {
		t.Error("relative global root accepted")
	}
}
