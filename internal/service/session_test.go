package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/narrative"
	"github.com/dehierro/battleroyale/internal/openaiclient"
)

func participants(n int) []game.Participant {
	out := make([]game.Participant, n)
	for i := range out {
		out[i] = game.Participant{
			ID:     i + 1,
			Name:   fmt.Sprintf("P%d", i+1),
			HP:     100,
			MaxHP:  100,
			Status: game.StatusAlive,
		}
	}
	return out
}

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (p *stubProvider) Generate(_ context.Context, req narrative.Request) (narrative.Result, error) {
	p.calls++
	if p.err != nil {
		return narrative.Result{}, p.err
	}
	return narrative.Result{Text: p.text}, nil
}

// blockingProvider parks every call until release is closed.
type blockingProvider struct {
	called  chan struct{}
	release chan struct{}
}

func (p *blockingProvider) Generate(ctx context.Context, req narrative.Request) (narrative.Result, error) {
	p.called <- struct{}{}
	<-p.release
	return narrative.Result{Text: "late answer"}, nil
}

func eliminationOnly() *engine.Planner {
	return engine.NewPlanner(engine.PlannerConfig{NarrativeBand: 0, InjuryBand: 0, MinDamage: 8, MaxDamage: 35})
}

func roundEvents(snap Snapshot) []game.RoundEvent {
	var out []game.RoundEvent
	for _, ev := range snap.Events {
		if ev.Kind == game.EventRound {
			out = append(out, ev)
		}
	}
	return out
}

func TestStart_Errors(t *testing.T) {
	s := NewSession("s1", nil, Deps{})
	if _, err := s.Start("key"); !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster, got %v", err)
	}
	s = NewSession("s1", participants(3), Deps{})
	if _, err := s.Start("   "); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if _, _, err := s.AdvanceRound(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	snap, err := s.Start("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.State != StateRunning || snap.Round != 0 || len(snap.Events) != 1 || snap.Events[0].Kind != game.EventIntro {
		t.Fatalf("unexpected snapshot after start: %+v", snap)
	}
	if _, err := s.Start("key"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	if _, err := s.ApplyRoster(participants(2)); !errors.Is(err, ErrRosterLocked) {
		t.Fatalf("expected ErrRosterLocked, got %v", err)
	}
}

func TestAdvance_ProviderHTTP500UsesOneFallbackEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := &narrative.OpenAIProvider{Client: openaiclient.New(srv.URL, time.Second)}
	s := NewSession("s1", participants(5), Deps{Provider: provider, Rand: rand.New(rand.NewSource(7))})
	if _, err := s.Start("sk-test"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, changed, err := s.AdvanceRound(context.Background())
	if err != nil || !changed {
		t.Fatalf("advance: changed=%v err=%v", changed, err)
	}
	rounds := roundEvents(snap)
	if len(rounds) != 1 {
		t.Fatalf("expected exactly one round event, got %d", len(rounds))
	}
	if !rounds[0].Fallback || rounds[0].Text == "" || rounds[0].IsLoading {
		t.Fatalf("expected a resolved fallback event, got %+v", rounds[0])
	}
	if snap.State != StateRunning && snap.State != StateFinished {
		t.Fatalf("controller must not stay awaiting, got %s", snap.State)
	}
}

func TestAdvance_TwoParticipantsFinishWithWinner(t *testing.T) {
	s := NewSession("s1", participants(2), Deps{
		Planner:  eliminationOnly(),
		Provider: &stubProvider{text: "A duel at dawn."},
		Rand:     rand.New(rand.NewSource(3)),
	})
	if _, err := s.Start("key"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, changed, err := s.AdvanceRound(context.Background())
	if err != nil || !changed {
		t.Fatalf("advance: changed=%v err=%v", changed, err)
	}
	if snap.State != StateFinished {
		t.Fatalf("expected finished, got %s", snap.State)
	}
	if snap.Winner == nil || snap.Winner.Status == game.StatusDead {
		t.Fatalf("expected a living winner, got %+v", snap.Winner)
	}
	if snap.Counts.Dead != 1 {
		t.Fatalf("expected one elimination, got %+v", snap.Counts)
	}
	last := snap.Events[len(snap.Events)-1]
	if last.Kind != game.EventFinale || last.Text != snap.Winner.Name+" is the winner of the Battle Royale!" {
		t.Fatalf("unexpected finale %+v", last)
	}
	if _, _, err := s.AdvanceRound(context.Background()); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
}

func TestAdvance_SingleParticipantFinishesImmediately(t *testing.T) {
	provider := &stubProvider{text: "unused"}
	s := NewSession("s1", participants(1), Deps{Provider: provider})
	if _, err := s.Start("key"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, changed, err := s.AdvanceRound(context.Background())
	if err != nil || !changed {
		t.Fatalf("advance: changed=%v err=%v", changed, err)
	}
	if snap.State != StateFinished || snap.Winner == nil || snap.Winner.ID != 1 {
		t.Fatalf("expected P1 to win, got %+v", snap)
	}
	if snap.Round != 0 || provider.calls != 0 {
		t.Fatalf("no round should be played, round=%d calls=%d", snap.Round, provider.calls)
	}
}

func TestAdvance_NeverFinishesWithSeveralSurvivors(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		provider := &stubProvider{text: "Something happens."}
		if seed%2 == 0 {
			provider.err = &narrative.ProviderError{StatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}
		}
		s := NewSession("s", participants(6), Deps{Provider: provider, Rand: rand.New(rand.NewSource(seed))})
		if _, err := s.Start("key"); err != nil {
			t.Fatalf("start: %v", err)
		}
		var snap Snapshot
		for i := 0; i < 5000; i++ {
			var err error
			snap, _, err = s.AdvanceRound(context.Background())
			if err != nil {
				t.Fatalf("seed %d: advance: %v", seed, err)
			}
			survivors := snap.Counts.Alive + snap.Counts.Injured
			if snap.State == StateFinished {
				if survivors > 1 {
					t.Fatalf("seed %d: finished with %d survivors", seed, survivors)
				}
				break
			}
			if survivors < 2 {
				t.Fatalf("seed %d: running with %d survivors", seed, survivors)
			}
			for _, p := range snap.Roster {
				if p.Status == game.StatusInjured && p.HP == 0 {
					t.Fatalf("seed %d: injured participant at 0 HP", seed)
				}
				if (p.Status == game.StatusDead) != (p.HP == 0 && p.RoundEliminated != nil) {
					t.Fatalf("seed %d: inconsistent participant %+v", seed, p)
				}
			}
		}
		if snap.State != StateFinished {
			t.Fatalf("seed %d: session never finished", seed)
		}
		if snap.Winner == nil {
			t.Fatalf("seed %d: eliminations remove one contender at a time, a winner must remain", seed)
		}
	}
}

func TestAdvance_ReentrantCallIsNoop(t *testing.T) {
	bp := &blockingProvider{called: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSession("s1", participants(4), Deps{Provider: bp})
	if _, err := s.Start("key"); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan Snapshot, 1)
	go func() {
		snap, _, _ := s.AdvanceRound(context.Background())
		done <- snap
	}()
	<-bp.called

	snap, changed, err := s.AdvanceRound(context.Background())
	if err != nil || changed || !snap.InFlight {
		t.Fatalf("expected no-op while in flight, changed=%v err=%v inFlight=%v", changed, err, snap.InFlight)
	}
	loading := 0
	for _, ev := range snap.Events {
		if ev.IsLoading {
			loading++
		}
	}
	if loading != 1 {
		t.Fatalf("expected exactly one loading event, got %d", loading)
	}

	close(bp.release)
	final := <-done
	if len(roundEvents(final)) != 1 || final.InFlight {
		t.Fatalf("expected one resolved round, got %+v", final.Events)
	}
	for _, ev := range final.Events {
		if ev.IsLoading {
			t.Fatalf("loading event must be removed once resolved")
		}
	}
}

func TestReset_DiscardsStaleNarrative(t *testing.T) {
	bp := &blockingProvider{called: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSession("s1", participants(4), Deps{Planner: eliminationOnly(), Provider: bp})
	if _, err := s.Start("key"); err != nil {
		t.Fatalf("start: %v", err)
	}

	type result struct {
		changed bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		_, changed, err := s.AdvanceRound(context.Background())
		done <- result{changed, err}
	}()
	<-bp.called

	snap := s.Reset(nil)
	if snap.State != StateIdle || len(snap.Events) != 0 {
		t.Fatalf("unexpected snapshot after reset: %+v", snap)
	}

	close(bp.release)
	res := <-done
	if res.err != nil || res.changed {
		t.Fatalf("stale answer must be discarded, got %+v", res)
	}

	after := s.Snapshot()
	if after.State != StateIdle || len(after.Events) != 0 || after.Round != 0 {
		t.Fatalf("stale answer leaked into the reset session: %+v", after)
	}
	for _, p := range after.Roster {
		if p.Status != game.StatusAlive || p.HP != 100 {
			t.Fatalf("roster mutated by stale answer: %+v", p)
		}
	}
}

func TestApplyRoster_WhenIdle(t *testing.T) {
	s := NewSession("s1", participants(2), Deps{})
	snap, err := s.ApplyRoster(participants(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Roster) != 5 || snap.Counts.Alive != 5 {
		t.Fatalf("roster not applied: %+v", snap.Counts)
	}
	// Reset without a roster reuses the applied one.
	if got := s.Reset(nil); len(got.Roster) != 5 {
		t.Fatalf("reset should reuse the applied roster, got %d", len(got.Roster))
	}
}

func TestAdvance_NoProviderUsesFallback(t *testing.T) {
	s := NewSession("s1", participants(3), Deps{Rand: rand.New(rand.NewSource(11))})
	if _, err := s.Start("key"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap, _, err := s.AdvanceRound(context.Background())
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if rounds := roundEvents(snap); len(rounds) != 1 || !rounds[0].Fallback {
		t.Fatalf("expected one fallback round, got %+v", rounds)
	}
}
