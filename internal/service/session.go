package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/narrative"
)

var (
	ErrEmptyRoster       = errors.New(constants.ErrEmptyRoster)
	ErrMissingCredential = errors.New(constants.ErrMissingAPIKey)
	ErrNotStarted        = errors.New(constants.ErrSessionNotStarted)
	ErrSessionFinished   = errors.New(constants.ErrSessionFinished)
	ErrAlreadyStarted    = errors.New(constants.ErrSessionAlreadyStarted)
	ErrRosterLocked      = errors.New(constants.ErrRosterLocked)
)

// State is the round controller's lifecycle state.
type State string

const (
	StateIdle              State = "idle"
	StateRunning           State = "running"
	StateAwaitingNarrative State = "awaiting_narrative"
	StateFinished          State = "finished"
)

// Deps are the collaborators a Session needs. Zero fields get defaults:
// the default planner, a time-seeded random source and no provider, which
// means every round is narrated by the local fallback.
type Deps struct {
	Planner  *engine.Planner
	Provider narrative.Provider
	Rand     engine.Source
	// Timeout bounds each provider call; zero means no extra deadline.
	Timeout time.Duration
}

// Counts summarises the roster by status.
type Counts struct {
	Alive   int `json:"alive"`
	Injured int `json:"injured"`
	Dead    int `json:"dead"`
}

// Snapshot is a copy of the session state safe to hand to callers.
type Snapshot struct {
	ID       string             `json:"id"`
	State    State              `json:"state"`
	Round    int                `json:"round"`
	Roster   []game.Participant `json:"roster"`
	Events   []game.RoundEvent  `json:"events"`
	Counts   Counts             `json:"counts"`
	InFlight bool               `json:"inFlight"`
	Winner   *game.Participant  `json:"winner"`
	Message  string             `json:"message,omitempty"`
}

// Session runs one battle royale. The mutex is only held around
// synchronous mutation; the provider call runs without it and its answer is
// dropped when the generation changed in the meantime.
type Session struct {
	mu sync.Mutex

	id       string
	deps     Deps
	resolver *engine.Resolver

	base    []game.Participant
	roster  []game.Participant
	events  []game.RoundEvent
	state   State
	round   int
	nextID  int
	gen     uint64
	apiKey  string
	winner  *game.Participant
	message string
}

// NewSession builds an idle session over a copy of roster.
func NewSession(id string, roster []game.Participant, deps Deps) *Session {
	if deps.Planner == nil {
		deps.Planner = engine.NewPlanner(engine.DefaultPlannerConfig())
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{id: id, deps: deps, resolver: engine.NewResolver()}
	s.resetLocked(roster)
	return s
}

func (s *Session) ID() string { return s.id }

// Start moves an idle session to running. The round counter goes back to 0
// and the event log is replaced by the intro event.
func (s *Session) Start(apiKey string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return s.snapshotLocked(), ErrAlreadyStarted
	}
	if len(s.roster) == 0 {
		return s.snapshotLocked(), ErrEmptyRoster
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return s.snapshotLocked(), ErrMissingCredential
	}

	s.apiKey = apiKey
	s.round = 0
	s.events = s.events[:0]
	s.winner = nil
	s.message = ""
	s.state = StateRunning
	s.appendEvent(game.RoundEvent{
		Kind: game.EventIntro,
		Text: fmt.Sprintf("Welcome to the Battle Royale! %d contenders enter the arena. Only one will walk out.", len(s.roster)),
	})
	logging.Info("session started", logging.Fields{
		constants.LogFieldSessionID: s.id,
		constants.LogFieldCount:     len(s.roster),
	})
	return s.snapshotLocked(), nil
}

// AdvanceRound plays one round. The bool result is true when the session
// state changed; a call made while another round is awaiting its narrative
// is a no-op and returns false with no error.
func (s *Session) AdvanceRound(ctx context.Context) (Snapshot, bool, error) {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		defer s.mu.Unlock()
		return s.snapshotLocked(), false, ErrNotStarted
	case StateFinished:
		defer s.mu.Unlock()
		return s.snapshotLocked(), false, ErrSessionFinished
	case StateAwaitingNarrative:
		defer s.mu.Unlock()
		return s.snapshotLocked(), false, nil
	}

	if v := engine.Evaluate(s.roster); v.Finished {
		defer s.mu.Unlock()
		s.finishLocked(v)
		return s.snapshotLocked(), true, nil
	}

	s.round++
	round := s.round
	gen := s.gen
	plan := s.deps.Planner.Plan(engine.Eligible(s.roster), s.deps.Rand)
	eventID := s.appendEvent(game.RoundEvent{
		Round:        round,
		Kind:         game.EventRound,
		Text:         fmt.Sprintf("Generating round %d...", round),
		IsLoading:    true,
		Participants: plan.Participants,
	})
	s.state = StateAwaitingNarrative
	req := narrative.Request{Round: round, Plan: plan, Roster: game.CloneRoster(s.roster), APIKey: s.apiKey}
	provider := s.deps.Provider
	s.mu.Unlock()

	var (
		res narrative.Result
		err error
	)
	if provider != nil {
		callCtx := ctx
		if s.deps.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.deps.Timeout)
			defer cancel()
		}
		res, err = provider.Generate(callCtx, req)
	} else {
		err = errNoProvider
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := logging.Fields{
		constants.LogFieldSessionID:  s.id,
		constants.LogFieldRound:      round,
		constants.LogFieldGeneration: gen,
		constants.LogFieldPlanKind:   string(plan.Kind),
	}
	if s.gen != gen {
		logging.Info("discarding narrative from a previous generation", fields)
		return s.snapshotLocked(), false, nil
	}
	s.removeLoading(eventID)

	fallback := false
	if err != nil {
		if !errors.Is(err, errNoProvider) {
			logging.Warn("narrative provider failed; using fallback", err, fields)
		}
		res = narrative.Result{Text: engine.FallbackNarrative(plan, s.roster, s.deps.Rand)}
		fallback = true
	}

	resolution := s.resolver.Resolve(eventID, round, plan, s.roster, res.Outcome)
	s.events = append(s.events, game.RoundEvent{
		ID:           eventID,
		Round:        round,
		Kind:         game.EventRound,
		Text:         res.Text,
		Resolution:   resolution.Summary,
		Participants: plan.Participants,
		Fallback:     fallback,
	})
	s.state = StateRunning

	fields[constants.LogFieldEventID] = eventID
	if plan.Kind != engine.PlanNarrative {
		fields[constants.LogFieldTarget] = plan.Target
	}
	fields[constants.LogFieldSurvivors] = len(game.Survivors(s.roster))
	fields[constants.LogFieldSource] = sourceLabel(fallback, resolution.UsedOutcome)
	logging.Info("round resolved", fields)

	if v := engine.Evaluate(s.roster); v.Finished {
		s.finishLocked(v)
	}
	return s.snapshotLocked(), true, nil
}

var errNoProvider = errors.New("no narrative provider configured")

func sourceLabel(fallback, structured bool) string {
	switch {
	case fallback:
		return "fallback"
	case structured:
		return "provider_outcome"
	default:
		return "provider"
	}
}

// Reset returns the session to idle with a fresh copy of roster, or of the
// last applied roster when roster is nil. Any in-flight provider answer is
// discarded when it arrives.
func (s *Session) Reset(roster []game.Participant) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if roster == nil {
		roster = s.base
	}
	s.resetLocked(roster)
	logging.Info("session reset", logging.Fields{
		constants.LogFieldSessionID:  s.id,
		constants.LogFieldGeneration: s.gen,
	})
	return s.snapshotLocked()
}

// ApplyRoster replaces the roster of a session that is idle or finished.
func (s *Session) ApplyRoster(roster []game.Participant) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning || s.state == StateAwaitingNarrative {
		return s.snapshotLocked(), ErrRosterLocked
	}
	s.resetLocked(roster)
	return s.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) resetLocked(roster []game.Participant) {
	s.gen++
	s.base = game.CloneRoster(roster)
	s.roster = game.CloneRoster(roster)
	s.events = nil
	s.state = StateIdle
	s.round = 0
	s.nextID = 0
	s.winner = nil
	s.message = ""
	s.resolver.Reset()
}

func (s *Session) appendEvent(ev game.RoundEvent) int {
	s.nextID++
	ev.ID = s.nextID
	s.events = append(s.events, ev)
	return ev.ID
}

func (s *Session) removeLoading(id int) {
	out := s.events[:0]
	for _, ev := range s.events {
		if ev.IsLoading && ev.ID == id {
			continue
		}
		out = append(out, ev)
	}
	s.events = out
}

func (s *Session) finishLocked(v engine.Verdict) {
	s.state = StateFinished
	s.message = v.Message
	if v.Winner != nil {
		w := v.Winner.Clone()
		s.winner = &w
	}
	ev := game.RoundEvent{Round: s.round, Kind: game.EventFinale, Text: v.Message}
	if s.winner != nil {
		ev.Participants = []int{s.winner.ID}
	}
	s.appendEvent(ev)
	logging.Info("session finished", logging.Fields{
		constants.LogFieldSessionID: s.id,
		constants.LogFieldRound:     s.round,
		constants.LogFieldStatus:    v.Message,
	})
}

func (s *Session) snapshotLocked() Snapshot {
	alive, injured, dead := game.CountByStatus(s.roster)
	snap := Snapshot{
		ID:       s.id,
		State:    s.state,
		Round:    s.round,
		Roster:   game.CloneRoster(s.roster),
		Events:   append([]game.RoundEvent(nil), s.events...),
		Counts:   Counts{Alive: alive, Injured: injured, Dead: dead},
		InFlight: s.state == StateAwaitingNarrative,
		Message:  s.message,
	}
	if s.winner != nil {
		w := s.winner.Clone()
		snap.Winner = &w
	}
	return snap
}
