package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dehierro/battleroyale/internal/constants"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != constants.DefaultServerAddress || cfg.Narrative.Model != constants.OpenAIChatModel {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Planner.NarrativeBand != 0.30 || cfg.Planner.InjuryBand != 0.80 {
		t.Fatalf("unexpected planner defaults %+v", cfg.Planner)
	}
	if cfg.Narrative.Timeout != 45*time.Second || cfg.SessionTTL != time.Hour {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestLoadConfig_JSONPartialOverride(t *testing.T) {
	p := writeFile(t, "royale_config.json", `{
		"server": {"address": ":9090"},
		"roster_file": "roster.yaml",
		"narrative": {"model": "gpt-test", "structured": false, "timeout_seconds": 10},
		"planner": {"narrative_band": 0.5}
	}`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" || cfg.RosterFile != "roster.yaml" {
		t.Fatalf("unexpected server/roster settings %+v", cfg)
	}
	if cfg.Narrative.Model != "gpt-test" || cfg.Narrative.Structured || cfg.Narrative.Timeout != 10*time.Second {
		t.Fatalf("unexpected narrative settings %+v", cfg.Narrative)
	}
	if cfg.Narrative.MaxTokens != constants.OpenAIMaxTokensDefault {
		t.Fatalf("omitted keys must keep defaults, got %d", cfg.Narrative.MaxTokens)
	}
	if cfg.Planner.NarrativeBand != 0.5 || cfg.Planner.InjuryBand != 0.80 {
		t.Fatalf("unexpected planner %+v", cfg.Planner)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	p := writeFile(t, "royale.yaml", "server:\n  address: \":7070\"\nplanner:\n  min_damage: 5\n  max_damage: 20\nsession_ttl_minutes: 5\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":7070" || cfg.Planner.MinDamage != 5 || cfg.Planner.MaxDamage != 20 || cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string]string{
		"bands out of order": `{"planner": {"narrative_band": 0.9, "injury_band": 0.5}}`,
		"damage range":       `{"planner": {"min_damage": 30, "max_damage": 10}}`,
		"temperature":        `{"narrative": {"temperature": 3}}`,
		"ttl":                `{"session_ttl_minutes": -1}`,
		"malformed":          `{"server": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, "c.json", body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv(constants.EnvOpenAIAPIKey, "sk-env")
	t.Setenv(constants.EnvServerAddress, ":6060")
	t.Setenv(constants.EnvOpenAIBaseURL, "http://localhost:1234")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.OpenAIAPIKey != "sk-env" || e.DBPath != constants.DefaultDBPath {
		t.Fatalf("unexpected env %+v", e)
	}

	cfg := Default()
	cfg.ApplyEnv(e)
	if cfg.ServerAddress != ":6060" || !strings.HasPrefix(cfg.Narrative.BaseURL, "http://localhost") {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}
