package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-project" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Snapshot.Backend != BackendSQLite || cfg.Snapshot.Slot != "Level1" {
			t.Fatalf("unexpected snapshot config %+v", cfg.Snapshot)
		}
		if !reflect.DeepEqual(cfg.Persist.Denylist, []string{"CanBeDamaged", "Pending"}) {
			t.Fatalf("unexpected denylist %v", cfg.Persist.Denylist)
		}
		if got := cfg.Resolve(cfg.World.Scene); got != filepath.Join("testdata", "scene.yaml") {
			t.Fatalf("unexpected resolved scene path %q", got)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Snapshot.Backend != BackendFile || cfg.Snapshot.Path != DefaultSnapshotPath || cfg.Snapshot.Slot != DefaultSlot {
			t.Fatalf("unexpected snapshot defaults %+v", cfg.Snapshot)
		}
		if cfg.Capture.EntityType != DefaultEntityType {
			t.Fatalf("unexpected entity type %q", cfg.Capture.EntityType)
		}
		if !reflect.DeepEqual(cfg.Persist.Denylist, DefaultDenylist) {
			t.Fatalf("unexpected denylist %v", cfg.Persist.Denylist)
		}
		if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
			t.Fatalf("unexpected log defaults %+v", cfg.Log)
		}
		if abs := cfg.Resolve("/tmp/x.json"); abs != "/tmp/x.json" {
			t.Fatalf("absolute path changed to %q", abs)
		}
	})

	t.Run("empty denylist is kept", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\npersist:\n  denylist: []\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Persist.Denylist == nil || len(cfg.Persist.Denylist) != 0 {
			t.Fatalf("expected explicit empty denylist, got %v", cfg.Persist.Denylist)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(EnvSnapshotDSN, "postgres://localhost/worldsave")
		t.Setenv(EnvLogLevel, "warn")
		path := writeTempConfig(t, "project: test\nversion: 1\nsnapshot:\n  backend: postgres\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Snapshot.DSN != "postgres://localhost/worldsave" || cfg.Log.Level != "warn" {
			t.Fatalf("environment not applied: %+v %+v", cfg.Snapshot, cfg.Log)
		}
	})

	invalid := []struct {
		name     string
		contents string
	}{
		{"missing project name", "version: 1\n"},
		{"unsupported version", "project: test\nversion: 2\n"},
		{"unknown backend", "project: test\nversion: 1\nsnapshot:\n  backend: s3\n"},
		{"sqlite without dsn", "project: test\nversion: 1\nsnapshot:\n  backend: sqlite\n"},
		{"empty denylist entry", "project: test\nversion: 1\npersist:\n  denylist: [\"\"]\n"},
		{"duplicate denylist entry", "project: test\nversion: 1\npersist:\n  denylist: [Health, Health]\n"},
		{"unknown log format", "project: test\nversion: 1\nlog:\n  format: xml\n"},
		{"invalid yaml", "project: [\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.contents)
			if _, err := LoadProjectConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
