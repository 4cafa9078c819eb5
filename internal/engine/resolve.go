package engine

import (
	"fmt"
	"sync"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
)

// NoHarmSummary is the resolution text for rounds where nobody changed.
const NoHarmSummary = "No one was harmed in this event."

// Resolution is the mechanical result of applying one Plan.
type Resolution struct {
	EventID    int      `json:"eventId"`
	Lines      []string `json:"lines"`
	Summary    string   `json:"summary"`
	Eliminated []int    `json:"eliminated"`
	// UsedOutcome is true when a provider-supplied structured outcome was
	// applied on top of the plan.
	UsedOutcome bool `json:"usedOutcome"`
}

// Resolver applies plans to a roster. Each event id is resolved at most
// once; repeated calls return the first Resolution unchanged.
type Resolver struct {
	mu      sync.Mutex
	applied map[int]Resolution
}

func NewResolver() *Resolver {
	return &Resolver{applied: make(map[int]Resolution)}
}

// resolved reports whether eventID has already been applied.
func (r *Resolver) resolved(eventID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.applied[eventID]
	return ok
}

// Resolve mutates roster according to plan and, when present, the
// provider's structured outcome restricted to the plan's participants.
func (r *Resolver) Resolve(eventID, round int, plan Plan, roster []game.Participant, outcome *game.Outcome) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.applied[eventID]; ok {
		return res
	}

	rc := newRoundContext(round, plan, roster)
	before := rc.snapshotGroup()
	used := false
	if plan.Kind != PlanNarrative && outcome != nil && len(outcome.Effects) > 0 {
		used = rc.applyOutcome(outcome)
	}
	rc.applyPlan(used)
	rc.describe(before)

	res := Resolution{
		EventID:     eventID,
		Lines:       rc.summary,
		Summary:     rc.joinSummary(),
		Eliminated:  rc.eliminated,
		UsedOutcome: used,
	}
	if res.Summary == "" {
		res.Summary = NoHarmSummary
	}
	r.applied[eventID] = res
	return res
}

// Reset forgets every resolved event id. Sessions call it when the roster
// is rebuilt and event ids start over.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = make(map[int]Resolution)
}

type participantState struct {
	hp     int
	status game.Status
}

func (rc *roundContext) snapshotGroup() map[int]participantState {
	out := make(map[int]participantState, len(rc.plan.Participants))
	for _, id := range rc.plan.Participants {
		if p := game.FindByID(rc.roster, id); p != nil {
			out[id] = participantState{hp: p.HP, status: p.Status}
		}
	}
	return out
}

// applyOutcome applies provider effects to living plan participants. Only
// the plan's target may lose all of its HP; everybody else keeps at least 1.
// It returns true when an effect changed the plan target's HP or declared it
// dead, meaning the provider numbers replace the planned ones for that target.
func (rc *roundContext) applyOutcome(o *game.Outcome) bool {
	targetTouched := false
	seen := make(map[int]bool, len(o.Effects))
	for _, e := range o.Effects {
		if seen[e.ParticipantID] {
			continue
		}
		p := rc.participant(e.ParticipantID)
		if p == nil || !p.Alive() {
			continue
		}
		seen[e.ParticipantID] = true
		isTarget := p.ID == rc.plan.Target

		delta := clampDelta(e.HPDelta)
		if delta != 0 {
			p.HP = clampHP(p.HP+delta, p.MaxHP)
		}
		for _, in := range e.Injuries {
			addInjury(p, in)
		}
		if e.State != "" {
			p.State = e.State
		}

		switch {
		case isTarget && (e.Status == game.StatusDead || p.HP == 0):
			p.HP = 0
		case p.HP == 0 || e.Status == game.StatusDead:
			// bystanders survive the round
			if p.HP == 0 {
				p.HP = 1
			}
			p.Status = game.StatusInjured
		case e.Status == game.StatusInjured || e.Status == game.StatusAlive:
			p.Status = e.Status
		case delta < 0:
			p.Status = game.StatusInjured
		}
		// state or status alone do not replace the planned damage
		if isTarget && (delta != 0 || e.Status == game.StatusDead) {
			targetTouched = true
		}
	}
	return targetTouched
}

// applyPlan enforces the plan's commitment. When the provider already
// adjusted the target the planned damage is not applied a second time.
func (rc *roundContext) applyPlan(targetOverridden bool) {
	switch rc.plan.Kind {
	case PlanInjury:
		p := rc.participant(rc.plan.Target)
		if p == nil || !p.Alive() {
			return
		}
		if !targetOverridden {
			p.HP = clampHP(p.HP-rc.plan.Damage, p.MaxHP)
			addInjury(p, rc.plan.InjuryLabel)
			if rc.plan.NewState != "" {
				p.State = rc.plan.NewState
			}
			p.Status = game.StatusInjured
		}
		if p.HP == 0 {
			rc.eliminate(p)
		}
	case PlanElimination:
		if p := rc.participant(rc.plan.Target); p != nil {
			rc.eliminate(p)
		}
	}
}

func (rc *roundContext) eliminate(p *game.Participant) {
	if eliminate(p, rc.round) {
		rc.eliminated = append(rc.eliminated, p.ID)
	}
}

// describe emits one line per participant whose HP or life changed.
func (rc *roundContext) describe(before map[int]participantState) {
	for _, id := range rc.plan.Participants {
		prev, ok := before[id]
		p := game.FindByID(rc.roster, id)
		if !ok || p == nil {
			continue
		}
		switch {
		case prev.status != game.StatusDead && p.Status == game.StatusDead:
			rc.add(fmt.Sprintf("%s has been eliminated!", p.Name))
		case p.HP < prev.hp:
			rc.add(fmt.Sprintf("%s is injured (-%d HP).", p.Name, prev.hp-p.HP))
		case p.HP > prev.hp:
			rc.add(fmt.Sprintf("%s recovers %d HP.", p.Name, p.HP-prev.hp))
		}
	}
}

// clampDelta bounds a provider HP change to what a single roster entry can
// hold.
func clampDelta(d int) int {
	if d > constants.MaxHitPoints {
		return constants.MaxHitPoints
	}
	if d < -constants.MaxHitPoints {
		return -constants.MaxHitPoints
	}
	return d
}

func clampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}
