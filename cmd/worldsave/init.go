package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	scenePath    = "scene.yaml"
	manifestPath = "assets.yaml"
)

const sceneTemplate = `entities:
  - type: Character
    name: Player0
    fields:
      Health: 100
      Inventory: ChestA
      Weapon: Sword
  - type: Chest
    name: ChestA
    fields:
      Gold: 10
      Items: [rope]
`

const manifestTemplate = `assets:
  - type: Material
    name: Steel
    fields:
      Color: grey
  - type: Weapon
    name: Sword
    fields:
      Damage: 10
      Skin: Steel
`

func initCmd() *cobra.Command {
	var projectName string
	var backend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new worldsave project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(filepath.Dir(configPath), configPath, projectName, backend)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&backend, "backend", "file", "Snapshot backend: file or sqlite")
	return cmd
}

func runInit(dir, configFile, projectName, backend string) error {
	var snapshotSection string
	switch backend {
	case "file":
		snapshotSection = "snapshot:\n  backend: file\n  path: Content/Maps/MyMap.json\n"
	case "sqlite":
		snapshotSection = "snapshot:\n  backend: sqlite\n  dsn: sqlite://worldsave.db\n  slot: MyMap\n"
	default:
		return fmt.Errorf("unsupported backend for init: %s", backend)
	}

	files := []struct {
		path     string
		contents string
	}{
		{configFile, fmt.Sprintf("project: %s\nversion: 1\n\nworld:\n  scene: %s\n\nassets:\n  manifest: %s\n\n%s\ncapture:\n  entity_type: Character\n\npersist:\n  denylist:\n    - CanBeDamaged\n\nlog:\n  level: info\n  format: console\n", projectName, scenePath, manifestPath, snapshotSection)},
		{filepath.Join(dir, scenePath), sceneTemplate},
		{filepath.Join(dir, manifestPath), manifestTemplate},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return fmt.Errorf("%s already exists", f.path)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.contents), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}
