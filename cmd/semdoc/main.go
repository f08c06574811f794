// Command semdoc stores text documents as per-document vector indexes and
// answers similarity queries against them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/semdoc/internal/adapters/driven/config/file"
	"github.com/custodia-labs/semdoc/internal/adapters/driving/cli"
	"github.com/custodia-labs/semdoc/internal/app"
	"github.com/custodia-labs/semdoc/internal/core/services"
	"github.com/custodia-labs/semdoc/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// homeEnv overrides the data directory, which also holds config.toml.
const homeEnv = "SEMDOC_HOME"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap runs before flag parsing.
	logger.SetVerbose(verboseRequested(os.Args[1:]))

	if err := file.LoadDotEnv(".env"); err != nil {
		logger.Warn("loading .env: %v", err)
	}

	home := os.Getenv(homeEnv)
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		logger.Error("opening config: %v", err)
		return 1
	}

	settingsService := services.NewSettingsService(configStore, home)
	cli.SetVersion(version)

	// Settings commands stay available when startup fails so the
	// configuration can be fixed.
	deps := cli.Services{Settings: settingsService}
	if a, err := start(ctx, settingsService); err != nil {
		logger.Error("starting semdoc: %v", err)
	} else {
		defer func() {
			if err := a.Close(); err != nil {
				logger.Warn("shutdown: %v", err)
			}
		}()
		deps.Ingest = a.Ingest
		deps.Search = a.Search
		deps.Document = a.Document
		deps.Staging = a.Staging
	}
	cli.SetServices(deps)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// start loads settings and builds the services, including the embedding model.
func start(ctx context.Context, settings *services.SettingsService) (*app.App, error) {
	cfg, err := settings.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return app.New(ctx, cfg, app.Options{})
}

func verboseRequested(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
