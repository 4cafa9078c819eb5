package engine

import (
	"fmt"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
)

// --- Plan model ----------------------------------------------------------

// PlanKind is the category of a round's pre-committed outcome.
type PlanKind string

const (
	PlanNarrative   PlanKind = "narrative"
	PlanInjury      PlanKind = "injury"
	PlanElimination PlanKind = "elimination"
)

// Tone flavours narrative-only plans.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneLight   Tone = "light"
)

// Plan is the mechanical outcome of a round, decided before any narrative
// text exists. Which fields are meaningful depends on Kind:
//   - narrative: Tone, Participants (0..3 ids)
//   - injury: Target, Damage (1..hp-1), InjuryLabel, NewState
//   - elimination: Target
//
// For injury and elimination plans Participants always contains Target.
type Plan struct {
	Kind         PlanKind `json:"kind"`
	Tone         Tone     `json:"tone,omitempty"`
	Participants []int    `json:"participants"`
	Target       int      `json:"target,omitempty"`
	Damage       int      `json:"damage,omitempty"`
	InjuryLabel  string   `json:"injuryLabel,omitempty"`
	NewState     string   `json:"newState,omitempty"`
}

// Involves reports whether id belongs to the plan's participant group.
func (p Plan) Involves(id int) bool {
	for _, x := range p.Participants {
		if x == id {
			return true
		}
	}
	return false
}

// PlannerConfig holds the tunable thresholds of the planner. A roll in
// [0, NarrativeBand) yields a narrative plan, [NarrativeBand, InjuryBand) an
// injury plan and [InjuryBand, 1) an elimination plan.
type PlannerConfig struct {
	NarrativeBand float64
	InjuryBand    float64
	MinDamage     int
	MaxDamage     int
}

// DefaultPlannerConfig returns the default bands: 30% narrative, 50% injury,
// 20% elimination, injuries dealing 8..35 damage.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{NarrativeBand: 0.30, InjuryBand: 0.80, MinDamage: 8, MaxDamage: 35}
}

// Validate checks band ordering and damage range.
func (c PlannerConfig) Validate() error {
	if c.NarrativeBand < 0 || c.NarrativeBand > c.InjuryBand || c.InjuryBand > 1 {
		return fmt.Errorf("planner bands must satisfy 0 <= narrative_band <= injury_band <= 1 (got %.2f, %.2f)", c.NarrativeBand, c.InjuryBand)
	}
	if c.MinDamage < 1 || c.MaxDamage < c.MinDamage {
		return fmt.Errorf("planner damage range must satisfy 1 <= min_damage <= max_damage (got %d..%d)", c.MinDamage, c.MaxDamage)
	}
	if c.MaxDamage > constants.MaxHitPoints {
		return fmt.Errorf("planner max_damage must not exceed %d", constants.MaxHitPoints)
	}
	return nil
}

// Source is a uniform random source over [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

func intn(rnd Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(rnd.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func pick(rnd Source, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[intn(rnd, len(list))]
}

// Planner decides one Plan per round.
type Planner struct {
	Config PlannerConfig
}

// NewPlanner returns a planner with the given configuration.
func NewPlanner(cfg PlannerConfig) *Planner {
	return &Planner{Config: cfg}
}

var injuryLabels = []string{
	"sprained ankle",
	"deep cut",
	"cracked rib",
	"burned arm",
	"concussion",
	"twisted knee",
	"arrow graze",
	"bruised shoulder",
}

var injuryStates = []string{
	"limping",
	"bleeding",
	"shaken",
	"exhausted",
	"dizzy",
	"wary",
}

// TerminalState is written to an eliminated participant's state.
const TerminalState = "fallen"

// Plan picks the outcome category and the participants involved. pool must
// contain only non-dead participants; an empty pool yields a narrative plan
// with no participants.
func (pl *Planner) Plan(pool []game.Participant, rnd Source) Plan {
	if len(pool) == 0 {
		return Plan{Kind: PlanNarrative, Tone: ToneNeutral, Participants: []int{}}
	}
	cfg := pl.Config
	roll := rnd.Float64()

	switch {
	case roll < cfg.NarrativeBand:
		tone := ToneNeutral
		if rnd.Float64() >= 0.5 {
			tone = ToneLight
		}
		return Plan{Kind: PlanNarrative, Tone: tone, Participants: sampleGroup(pool, -1, rnd)}

	case roll < cfg.InjuryBand:
		victim := pool[intn(rnd, len(pool))]
		damage := cfg.MinDamage + intn(rnd, cfg.MaxDamage-cfg.MinDamage+1)
		if damage >= victim.HP {
			// an injury must leave the victim standing; a lethal roll is an elimination
			return Plan{Kind: PlanElimination, Target: victim.ID, Participants: sampleGroup(pool, victim.ID, rnd)}
		}
		return Plan{
			Kind:         PlanInjury,
			Target:       victim.ID,
			Damage:       damage,
			InjuryLabel:  pick(rnd, injuryLabels),
			NewState:     pick(rnd, injuryStates),
			Participants: sampleGroup(pool, victim.ID, rnd),
		}

	default:
		victim := pool[intn(rnd, len(pool))]
		return Plan{Kind: PlanElimination, Target: victim.ID, Participants: sampleGroup(pool, victim.ID, rnd)}
	}
}

// sampleGroup draws a group of 1..min(3,len(pool)) distinct participant ids.
// When required is a valid id it is always the first member.
func sampleGroup(pool []game.Participant, required int, rnd Source) []int {
	limit := len(pool)
	if limit > constants.MaxGroupSize {
		limit = constants.MaxGroupSize
	}
	size := 1 + intn(rnd, limit)

	ids := make([]int, 0, len(pool))
	group := make([]int, 0, size)
	for _, p := range pool {
		if p.ID == required {
			group = append(group, p.ID)
			continue
		}
		ids = append(ids, p.ID)
	}
	for len(group) < size && len(ids) > 0 {
		i := intn(rnd, len(ids))
		group = append(group, ids[i])
		ids = append(ids[:i], ids[i+1:]...)
	}
	return group
}
