package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/logging"
	"gopkg.in/yaml.v3"
)

type narrativeEntry struct {
	Model          string  `json:"model" yaml:"model"`
	BaseURL        string  `json:"base_url" yaml:"base_url"`
	Structured     bool    `json:"structured" yaml:"structured"`
	SystemPrompt   string  `json:"system_prompt" yaml:"system_prompt"`
	UserPrompt     string  `json:"user_prompt" yaml:"user_prompt"`
	MaxTokens      int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature    float64 `json:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type plannerEntry struct {
	NarrativeBand float64 `json:"narrative_band" yaml:"narrative_band"`
	InjuryBand    float64 `json:"injury_band" yaml:"injury_band"`
	MinDamage     int     `json:"min_damage" yaml:"min_damage"`
	MaxDamage     int     `json:"max_damage" yaml:"max_damage"`
}

type rawConfig struct {
	Server struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
	// Optional roster resource loaded at startup; JSON or YAML.
	RosterFile        string         `json:"roster_file" yaml:"roster_file"`
	Narrative         narrativeEntry `json:"narrative" yaml:"narrative"`
	Planner           plannerEntry   `json:"planner" yaml:"planner"`
	SessionTTLMinutes int            `json:"session_ttl_minutes" yaml:"session_ttl_minutes"`
}

// NarrativeConfig configures the narrative provider.
type NarrativeConfig struct {
	Model       string
	BaseURL     string
	Structured  bool
	// Optional prompt templates; see narrative.BuildUserPrompt for tokens.
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// LoadedConfig is the validated application configuration.
type LoadedConfig struct {
	ServerAddress string
	RosterFile    string
	Narrative     NarrativeConfig
	Planner       engine.PlannerConfig
	SessionTTL    time.Duration
}

func defaults() rawConfig {
	var rc rawConfig
	rc.Server.Address = constants.DefaultServerAddress
	rc.Narrative = narrativeEntry{
		Model:          constants.OpenAIChatModel,
		Structured:     true,
		MaxTokens:      constants.OpenAIMaxTokensDefault,
		Temperature:    constants.OpenAITemperatureDefault,
		TimeoutSeconds: constants.OpenAITimeoutDefault,
	}
	p := engine.DefaultPlannerConfig()
	rc.Planner = plannerEntry{NarrativeBand: p.NarrativeBand, InjuryBand: p.InjuryBand, MinDamage: p.MinDamage, MaxDamage: p.MaxDamage}
	rc.SessionTTLMinutes = 60
	return rc
}

// Default returns the configuration used when no file exists.
func Default() *LoadedConfig {
	cfg, _ := build(defaults(), "")
	return cfg
}

// LoadConfig reads the configuration file at path. Files ending in .yaml or
// .yml are decoded as YAML, anything else as JSON. Keys left out keep their
// defaults and a missing file yields the defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	rc := defaults()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn("config file not found; using defaults", nil, logging.Fields{constants.LogFieldPath: path})
		return build(rc, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return build(rc, path)
}

func build(rc rawConfig, path string) (*LoadedConfig, error) {
	planner := engine.PlannerConfig{
		NarrativeBand: rc.Planner.NarrativeBand,
		InjuryBand:    rc.Planner.InjuryBand,
		MinDamage:     rc.Planner.MinDamage,
		MaxDamage:     rc.Planner.MaxDamage,
	}
	if err := planner.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	n := rc.Narrative
	if n.MaxTokens < 0 {
		return nil, fmt.Errorf("config file %s: narrative.max_tokens must not be negative", path)
	}
	if n.Temperature < 0 || n.Temperature > 2 {
		return nil, fmt.Errorf("config file %s: narrative.temperature must be within [0, 2]", path)
	}
	if n.TimeoutSeconds <= 0 {
		n.TimeoutSeconds = constants.OpenAITimeoutDefault
	}
	if rc.SessionTTLMinutes < 0 {
		return nil, fmt.Errorf("config file %s: session_ttl_minutes must not be negative", path)
	}

	addr := strings.TrimSpace(rc.Server.Address)
	if addr == "" {
		addr = constants.DefaultServerAddress
	}
	model := strings.TrimSpace(n.Model)
	if model == "" {
		model = constants.OpenAIChatModel
	}

	return &LoadedConfig{
		ServerAddress: addr,
		RosterFile:    strings.TrimSpace(rc.RosterFile),
		Narrative: NarrativeConfig{
			Model:        model,
			BaseURL:      strings.TrimSpace(n.BaseURL),
			Structured:   n.Structured,
			SystemPrompt: strings.TrimSpace(n.SystemPrompt),
			UserPrompt:   strings.TrimSpace(n.UserPrompt),
			MaxTokens:    n.MaxTokens,
			Temperature:  n.Temperature,
			Timeout:      time.Duration(n.TimeoutSeconds) * time.Second,
		},
		Planner:    planner,
		SessionTTL: time.Duration(rc.SessionTTLMinutes) * time.Minute,
	}, nil
}
