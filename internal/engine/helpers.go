package engine

import (
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
)

// addInjury appends label unless it is blank, already present or the
// participant already carries the maximum number of injuries (in which case
// the new injury is dropped).
func addInjury(p *game.Participant, label string) {
	label = strings.TrimSpace(label)
	if label == "" || p.HasInjury(label) {
		return
	}
	if len(p.Injuries) >= constants.MaxInjuries {
		return
	}
	p.Injuries = append(p.Injuries, label)
}

// eliminate marks p dead in the given round. It is a no-op for participants
// that are already dead so RoundEliminated is written exactly once.
func eliminate(p *game.Participant, round int) bool {
	if p.Status == game.StatusDead {
		return false
	}
	r := round
	p.HP = 0
	p.Status = game.StatusDead
	p.RoundEliminated = &r
	p.State = TerminalState
	return true
}

// displayNames returns the names for ids in the same order, skipping unknown
// ids.
func displayNames(roster []game.Participant, ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if p := game.FindByID(roster, id); p != nil {
			out = append(out, p.Name)
		}
	}
	return out
}

// joinNames renders names as "A", "A and B" or "A, B and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
