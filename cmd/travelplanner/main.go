package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/vbonduro/travelplanner/internal/catalog/artic"
	"github.com/vbonduro/travelplanner/internal/config"
	"github.com/vbonduro/travelplanner/internal/db"
	"github.com/vbonduro/travelplanner/internal/logging"
	"github.com/vbonduro/travelplanner/internal/service"
	"github.com/vbonduro/travelplanner/internal/store"
	"github.com/vbonduro/travelplanner/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	catalogClient := artic.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, logger)
	st := store.New(database, cfg.DBDriver)
	projectService := service.NewProjectService(st.Projects, st.Places, st, catalogClient, logger)
	server := web.NewServer(projectService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
