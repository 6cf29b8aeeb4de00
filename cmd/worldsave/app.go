package main

import (
	"context"
	"fmt"
	"strings"

	"worldsave/internal/config"
	"worldsave/internal/game"
	"worldsave/internal/logging"
	"worldsave/internal/meta"
	"worldsave/internal/scene"
	"worldsave/internal/snapshot"
	"worldsave/internal/store"
	"worldsave/internal/store/file"
	"worldsave/internal/store/postgres"
	"worldsave/internal/store/sqlite"
	"worldsave/internal/world"
)

// app is everything a command needs, loaded from the project config.
type app struct {
	cfg      *config.ProjectConfig
	log      *logging.Logger
	registry *meta.Registry
	catalog  *world.Catalog
	world    *world.World
	store    store.Store
	service  *snapshot.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New().
		FromPath(cfg.Resolve(cfg.Log.Path)).
		Level(cfg.Log.Level).
		Format(cfg.Log.Format).
		Make()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, registry: game.NewRegistry()}

	var result *scene.Result
	a.catalog, result, err = scene.LoadCatalog(cfg.Resolve(cfg.Assets.Manifest), a.registry)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	a.logLoad("assets", result)

	a.world, result, err = scene.LoadWorld(cfg.Resolve(cfg.World.Scene), a.registry, a.catalog)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	a.logLoad("scene", result)

	a.store, err = openStore(ctx, cfg)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	a.service = snapshot.NewService(a.registry, a.world, a.catalog, a.store, snapshot.Options{
		Denylist: cfg.Persist.Denylist,
		Logger:   &a.log.Logger,
	})
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn().Err(err).Msg("closing snapshot store")
	}
	_ = a.log.Close()
}

func (a *app) logLoad(what string, result *scene.Result) {
	for _, err := range result.Errors {
		a.log.Warn().Err(err).Str("source", what).Msg("skipped")
	}
	a.log.Debug().Str("source", what).Int("loaded", result.Spawned).Int("fields", result.Applied).Msg("loaded")
}

func (a *app) entity(name string) (world.Entity, error) {
	e, ok := a.world.Find(name)
	if !ok {
		return nil, fmt.Errorf("entity not found: %s", name)
	}
	return e, nil
}

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	switch cfg.Snapshot.Backend {
	case config.BackendFile:
		client, err := file.New(cfg.Resolve(cfg.Snapshot.Path))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendSQLite:
		client, err := sqlite.New(ctx, resolveSQLiteDSN(cfg), cfg.Snapshot.Slot)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendPostgres:
		client, err := postgres.New(ctx, cfg.Snapshot.DSN, cfg.Snapshot.Slot)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}
}

// resolveSQLiteDSN anchors a relative database path to the config directory.
func resolveSQLiteDSN(cfg *config.ProjectConfig) string {
	rest, ok := strings.CutPrefix(cfg.Snapshot.DSN, "sqlite://")
	if !ok || strings.HasPrefix(rest, ":memory:") {
		return cfg.Snapshot.DSN
	}
	return "sqlite://" + cfg.Resolve(rest)
}
