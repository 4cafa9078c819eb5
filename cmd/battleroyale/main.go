package main

import (
	"errors"
	"io/fs"

	"github.com/dehierro/battleroyale/internal/api"
	"github.com/dehierro/battleroyale/internal/config"
	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/service"
	"github.com/dehierro/battleroyale/internal/session"
	"github.com/dehierro/battleroyale/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("failed to load .env file", err, nil)
	}
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment configuration", err, nil)
	}
	if env.OpenAIAPIKey == "" {
		logging.Warn("OPENAI_API_KEY not set; sessions must be started with an api_key", nil, nil)
	}

	cfg := loadConfigOrExit(env.ConfigPath)
	cfg.ApplyEnv(env)

	repo := createRepositoryOrExit(env.DBPath)
	sessions := session.NewMemoryStore[*service.Session]()
	startSessionSweeper(sessions, cfg.SessionTTL)

	handler := api.NewHandler(api.Options{
		Repo:     repo,
		Sessions: sessions,
		Deps: service.Deps{
			Planner:  engine.NewPlanner(cfg.Planner),
			Provider: newProvider(cfg.Narrative),
			Timeout:  cfg.Narrative.Timeout,
		},
		DefaultAPIKey: env.OpenAIAPIKey,
		RosterFile:    cfg.RosterFile,
	})

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr:  addr,
		constants.LogFieldModel: cfg.Narrative.Model,
		"version":               version.Current().String(),
	})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
