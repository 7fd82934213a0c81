package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wavecrate/cuedex/internal/repositories"
	"github.com/wavecrate/cuedex/internal/score"
	"github.com/wavecrate/cuedex/internal/services"
	"github.com/wavecrate/cuedex/internal/shared"
	"github.com/wavecrate/cuedex/internal/tasks"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		loadedConfig, err := shared.LoadConfig("config.toml")
		if err != nil {
			logger.Fatalf("invalid config.toml: %v", err)
		}
		config = loadedConfig
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	cache := repositories.NewCacheRepository(db)
	if err := cache.Migrate(); err != nil {
		logger.Fatalf("failed to prepare cache schema: %v", err)
	}

	catalog := services.NewCatalogClient(config.Catalog, cache, config.Cache.TTL(), logger)
	engine := tasks.NewEngine(catalog, catalog, score.New(score.DefaultConfig()), config.Resolver, logger)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Engine: engine,
		Cache:  cache,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "cuedex",
		Usage:    "Resolve DJ playlist tracks against a release catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
