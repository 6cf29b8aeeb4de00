package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	DefaultSnapshotPath = "Content/Maps/MyMap.json"
	DefaultSlot         = "MyMap"
	DefaultEntityType   = "Character"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Environment overrides, read after the file is parsed.
const (
	EnvSnapshotDSN = "WORLDSAVE_SNAPSHOT_DSN"
	EnvLogLevel    = "WORLDSAVE_LOG_LEVEL"
)

var DefaultDenylist = []string{"CanBeDamaged"}

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	World    WorldConfig    `yaml:"world"`
	Assets   AssetsConfig   `yaml:"assets"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Capture  CaptureConfig  `yaml:"capture"`
	Persist  PersistConfig  `yaml:"persist"`
	Log      LogConfig      `yaml:"log"`

	// Dir is the directory holding the config file; relative paths resolve
	// against it.
	Dir string `yaml:"-"`
}

type WorldConfig struct {
	Scene string `yaml:"scene"`
}

type AssetsConfig struct {
	Manifest string `yaml:"manifest"`
}

type SnapshotConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
	Slot    string `yaml:"slot"`
}

type CaptureConfig struct {
	EntityType string `yaml:"entity_type"`
}

type PersistConfig struct {
	Denylist []string `yaml:"denylist"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	cfg.Dir = filepath.Dir(path)

	applyDefaults(&cfg)
	applyEnv(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// Resolve returns path relative to the config directory unless it is absolute.
func (c *ProjectConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = BackendFile
	}
	if cfg.Snapshot.Backend == BackendFile && cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = DefaultSnapshotPath
	}
	if cfg.Snapshot.Slot == "" {
		cfg.Snapshot.Slot = DefaultSlot
	}
	if cfg.Capture.EntityType == "" {
		cfg.Capture.EntityType = DefaultEntityType
	}
	if cfg.Persist.Denylist == nil {
		cfg.Persist.Denylist = append([]string(nil), DefaultDenylist...)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

func applyEnv(cfg *ProjectConfig) {
	if dsn := os.Getenv(EnvSnapshotDSN); dsn != "" {
		cfg.Snapshot.DSN = dsn
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	switch cfg.Snapshot.Backend {
	case BackendFile:
		if strings.TrimSpace(cfg.Snapshot.Path) == "" {
			return fmt.Errorf("snapshot path is required for the file backend")
		}
	case BackendSQLite, BackendPostgres:
		if strings.TrimSpace(cfg.Snapshot.DSN) == "" {
			return fmt.Errorf("snapshot dsn is required for the %s backend", cfg.Snapshot.Backend)
		}
	default:
		return fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}

	seen := make(map[string]struct{})
	for i, name := range cfg.Persist.Denylist {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("denylist entry %d is empty", i)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("duplicate denylist entry: %s", name)
		}
		seen[name] = struct{}{}
	}

	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Log.Format)
	}

	return nil
}
