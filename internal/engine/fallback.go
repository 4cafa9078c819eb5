package engine

import (
	"fmt"
	"strings"

	"github.com/dehierro/battleroyale/internal/game"
)

var fallbackEvents = []string{
	"A supply drop lands in the center of the arena, drawing several players into a tense standoff.",
	"The weather suddenly changes, creating dangerous conditions across the battlefield.",
	"Strange sounds echo through the arena, putting everyone on edge.",
	"A section of the arena becomes unstable, forcing players to relocate quickly.",
	"Mysterious fog rolls in, reducing visibility and creating opportunities for ambushes.",
}

var lightFallbackEvents = []string{
	"%s share a rare quiet moment, trading stories by a small fire.",
	"%s stumble upon an abandoned camp and spend the hour arguing over a can of beans.",
	"%s spot a flock of birds overhead and, for a moment, forget where they are.",
}

var injuryFallbackEvents = []string{
	"%s slips on loose rocks while crossing a ravine and comes away with a %s.",
	"A hidden snare catches %s off guard, leaving a %s behind.",
	"%s is ambushed near the river and escapes with a %s.",
}

var eliminationFallbackEvents = []string{
	"The arena's collapsing walls trap %s, and there is no way out.",
	"%s wanders into a minefield at dusk. The arena claims another contender.",
	"A desperate last stand ends badly for %s.",
}

// FallbackNarrative builds local event text consistent with plan. Injury and
// elimination texts always name the target so the log matches the mechanical
// outcome.
func FallbackNarrative(plan Plan, roster []game.Participant, rnd Source) string {
	switch plan.Kind {
	case PlanInjury:
		name := targetName(plan, roster)
		label := plan.InjuryLabel
		if label == "" {
			label = "nasty wound"
		}
		return fmt.Sprintf(pick(rnd, injuryFallbackEvents), name, label)
	case PlanElimination:
		return fmt.Sprintf(pick(rnd, eliminationFallbackEvents), targetName(plan, roster))
	default:
		names := displayNames(roster, plan.Participants)
		if plan.Tone == ToneLight && len(names) > 0 {
			return capitalize(fmt.Sprintf(pick(rnd, lightFallbackEvents), joinNames(names)))
		}
		text := pick(rnd, fallbackEvents)
		switch len(names) {
		case 0:
		case 1:
			text += " " + names[0] + " keeps a safe distance and waits it out."
		default:
			text += " " + joinNames(names) + " keep a safe distance and wait it out."
		}
		return text
	}
}

func targetName(plan Plan, roster []game.Participant) string {
	if p := game.FindByID(roster, plan.Target); p != nil {
		return p.Name
	}
	return "An unknown contender"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
