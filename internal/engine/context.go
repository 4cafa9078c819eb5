package engine

import (
	"strings"

	"github.com/dehierro/battleroyale/internal/game"
)

// --- Round context and helpers ----------------------------------------
type roundContext struct {
	round      int
	plan       Plan
	roster     []game.Participant
	summary    []string
	eliminated []int
}

func newRoundContext(round int, plan Plan, roster []game.Participant) *roundContext {
	return &roundContext{round: round, plan: plan, roster: roster, summary: make([]string, 0, 4)}
}

func (rc *roundContext) add(msg string) { rc.summary = append(rc.summary, msg) }

// participant returns the roster entry for id when it belongs to the plan's
// group; anything outside the group is off limits for this round.
func (rc *roundContext) participant(id int) *game.Participant {
	if !rc.plan.Involves(id) {
		return nil
	}
	return game.FindByID(rc.roster, id)
}

// joinSummary returns the accumulated summary as a single string.
func (rc *roundContext) joinSummary() string {
	return strings.Join(rc.summary, "\n")
}
