package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/logging"
)

var defaultEntries = []struct {
	name string
	bio  string
}{
	{"Alex", "A skilled archer with keen eyesight and steady hands. Known for precise long-range attacks."},
	{"Blake", "A former street fighter with quick reflexes and excellent close combat skills."},
	{"Casey", "A tech specialist who excels at finding and using advanced equipment."},
	{"Drew", "A natural leader with strong tactical awareness and team coordination abilities."},
	{"Ellis", "A survivalist with extensive wilderness knowledge and trap-setting expertise."},
	{"Finley", "An agile parkour expert capable of traversing difficult terrain with ease."},
	{"Gray", "A mysterious strategist who prefers stealth and psychological warfare."},
	{"Harper", "A medic with healing abilities and knowledge of battlefield medicine."},
	{"Iris", "A fierce warrior with exceptional melee combat skills and unwavering courage."},
	{"Jordan", "A versatile athlete with balanced skills across multiple combat disciplines."},
	{"Kai", "A martial artist with lightning-fast strikes and defensive techniques."},
	{"Logan", "A heavy weapons specialist with incredible strength and endurance."},
	{"Morgan", "A cunning tactician who excels at setting ambushes and traps."},
	{"Nico", "A scout with exceptional speed and reconnaissance abilities."},
	{"Oakley", "A defensive expert skilled in shield work and protective strategies."},
	{"Parker", "An engineer who can improvise weapons and tools from available materials."},
	{"Quinn", "A sniper with exceptional patience and long-range precision shooting."},
	{"River", "A fluid combatant who adapts their fighting style to any situation."},
	{"Sage", "A wise strategist with deep knowledge of combat theory and history."},
	{"Taylor", "An explosive specialist with expertise in demolitions and area denial."},
	{"Uma", "A stealthy assassin who strikes from the shadows with deadly precision."},
	{"Vale", "A support specialist who excels at team tactics and resource management."},
	{"Winter", "A cold and calculating fighter with ice-cold nerves under pressure."},
	{"Zara", "A fearless berserker who fights with wild intensity and raw power."},
}

// Default returns the built-in roster used when no configuration is
// available.
func Default() []game.Participant {
	out := make([]game.Participant, 0, len(defaultEntries))
	for i, e := range defaultEntries {
		out = append(out, game.Participant{
			ID:       i + 1,
			Name:     e.name,
			Bio:      e.bio,
			HP:       constants.DefaultHitPoints,
			MaxHP:    constants.DefaultHitPoints,
			Injuries: []string{},
			Status:   game.StatusAlive,
		})
	}
	return out
}

// LoadFile reads a roster resource from disk. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func LoadFile(path string) ([]game.Participant, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return Parse(b)
	}
}

// LoadFileOrDefault loads the roster resource at path and falls back to the
// built-in roster when the path is empty or the file cannot be used.
func LoadFileOrDefault(path string) []game.Participant {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	r, err := LoadFile(path)
	if err != nil {
		logging.Warn("roster file unavailable; using built-in roster", err, logging.Fields{constants.LogFieldPath: path})
		return Default()
	}
	logging.Info("roster loaded", logging.Fields{constants.LogFieldPath: path, constants.LogFieldCount: len(r)})
	return r
}
