package main

import (
	"github.com/dehierro/battleroyale/internal/config"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/narrative"
	"github.com/dehierro/battleroyale/internal/openaiclient"
	"github.com/dehierro/battleroyale/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Invalid battle royale configuration", err, logging.Fields{"config_path": path, "hint": "keys: server.address, roster_file, narrative{model,base_url,structured,system_prompt,user_prompt,max_tokens,temperature,timeout_seconds}, planner{narrative_band,injury_band,min_damage,max_damage}, session_ttl_minutes"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

func newProvider(cfg config.NarrativeConfig) narrative.Provider {
	return &narrative.OpenAIProvider{
		Client:             openaiclient.New(cfg.BaseURL, cfg.Timeout),
		Model:              cfg.Model,
		MaxTokens:          cfg.MaxTokens,
		Temperature:        cfg.Temperature,
		Structured:         cfg.Structured,
		SystemPrompt:       cfg.SystemPrompt,
		UserPromptTemplate: cfg.UserPrompt,
	}
}
