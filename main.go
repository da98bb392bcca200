// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"branch-locator/cmd"
	"branch-locator/internal/data/repository"
	"branch-locator/internal/wire"
	"branch-locator/pkg/cache"
	"branch-locator/pkg/database"
	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional token store backends
	var db database.PgxIface
	if database.Enabled(config.Database) {
		db, err = database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")
	}

	rdb, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected successfully")
	}

	// Initialize all repositories
	repos, err := repository.NewRepository(ctx, config.Zalo, db, rdb, logger)
	if err != nil {
		logger.Fatal("Failed to initialize repositories", zap.Error(err))
	}

	// Wire all dependencies
	app, err := wire.Wiring(ctx, repos, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(ctx, app, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
