package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/api"
	"github.com/backpackerjohn/braindump/api/handlers"
	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/capture"
	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/organizer"
	"github.com/backpackerjohn/braindump/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	store := repository.NewStore(db)

	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	})
	if err != nil {
		logger.Fatal("failed to create AI provider", zap.Error(err))
	}
	client := ai.NewClient(provider, cfg.AI, logger)

	org := organizer.New(store, client, cfg.Organizer, logger)
	cap := capture.NewService(store, client, cfg.Organizer, logger)

	h := handlers.New(org, cap, store, logger)
	router := api.NewRouter(h)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting API server", zap.String("addr", addr), zap.String("provider", provider.Name()))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
