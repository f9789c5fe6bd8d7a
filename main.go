package main

import (
	"context"
	"log"
	"os"

	"medpages/cmd"
	"medpages/internal/data/repository"
	"medpages/internal/render"
	"medpages/internal/usecase"
	"medpages/internal/wire"
	"medpages/pkg/database"
	"medpages/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	renderer, err := render.New(config.Static.OutputDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize renderer", zap.Error(err))
	}

	// Operator subcommands run against the store and exit.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "regen":
			// "regen <subdomain>" re-renders one page, bare "regen" all of them.
			if len(os.Args) > 2 {
				if err := cmd.RegenerateOne(context.Background(), repos, renderer, logger, os.Args[2]); err != nil {
					logger.Fatal("Regeneration failed", zap.Error(err))
				}
				return
			}
			failed, err := cmd.RegenerateAll(context.Background(), repos, renderer, logger)
			if err != nil {
				logger.Fatal("Regeneration failed", zap.Error(err))
			}
			if failed > 0 {
				os.Exit(1)
			}
			return
		case "requeue":
			var eventType string
			if len(os.Args) > 2 {
				eventType = os.Args[2]
			}
			if err := cmd.RequeueFailed(context.Background(), repos, eventType); err != nil {
				logger.Fatal("Requeue failed", zap.Error(err))
			}
			return
		}
	}

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	app := wire.Wiring(repos, config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := usecase.NewDispatcher(repos, renderer, config, logger)
	go dispatcher.Run(ctx)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
