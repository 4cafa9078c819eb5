package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings read from environment variables.
type Env struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	ConfigPath    string `env:"ROYALE_CONFIG" envDefault:"./royale_config.json"`
	DBPath        string `env:"ROYALE_DB" envDefault:"./data/royale.db"`
	ServerAddress string `env:"ROYALE_ADDR"`
}

// ParseEnv loads Env from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv lets environment variables override the file settings they
// share.
func (c *LoadedConfig) ApplyEnv(e Env) {
	if e.ServerAddress != "" {
		c.ServerAddress = e.ServerAddress
	}
	if e.OpenAIBaseURL != "" {
		c.Narrative.BaseURL = e.OpenAIBaseURL
	}
}
