// main.go
package main

import (
	"log"

	"estate-booking/cmd"
	"estate-booking/internal/data/cache"
	"estate-booking/internal/data/repository"
	"estate-booking/internal/gateway"
	"estate-booking/internal/queue"
	"estate-booking/internal/wire"
	pkgcache "estate-booking/pkg/cache"
	"estate-booking/pkg/database"
	"estate-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to Redis for the pending-draft store
	redisClient, err := pkgcache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	logger.Info("Redis connected successfully")

	// Initialize all repositories and stores
	repos := repository.NewRepository(db, logger)
	drafts := cache.NewDraftStore(redisClient, logger)
	gatewayClient := gateway.NewClient(config.Gateway, logger)
	enqueuer := queue.NewEnqueuer(config.Redis, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, drafts, gatewayClient, enqueuer, config, logger)

	// Queue worker: reconciliation retries and booking notifications
	worker := queue.NewWorker(config.Redis,
		app.Service.Reconcile.ProcessEscalation,
		app.Service.Notify.Deliver,
		logger,
	)
	worker.Start()
	defer worker.Shutdown()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
