package roster

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
)

func TestParse_Defaults(t *testing.T) {
	r, err := Parse([]byte(`[{}, {"name":"  "}, {"name":"Zed","bio":"Quiet.","hp":"40","maxHp":50}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(r))
	}
	if r[0].Name != "Participant 1" || r[1].Name != "Participant 2" {
		t.Fatalf("unexpected placeholder names: %q %q", r[0].Name, r[1].Name)
	}
	if r[0].Bio != defaultBio {
		t.Fatalf("expected default bio, got %q", r[0].Bio)
	}
	if r[0].HP != 100 || r[0].MaxHP != 100 {
		t.Fatalf("expected default hp 100/100, got %d/%d", r[0].HP, r[0].MaxHP)
	}
	if r[2].HP != 40 || r[2].MaxHP != 50 {
		t.Fatalf("expected 40/50, got %d/%d", r[2].HP, r[2].MaxHP)
	}
	for i, p := range r {
		if p.ID != i+1 {
			t.Fatalf("expected id %d, got %d", i+1, p.ID)
		}
	}
}

func TestParse_Clamps(t *testing.T) {
	r, err := Parse([]byte(`[
		{"hp": 500, "maxHp": 900},
		{"hp": -3, "maxHp": 0},
		{"maxHp": 30},
		{"hp": "abc", "maxHp": true}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][2]int{{120, 120}, {0, 1}, {30, 30}, {100, 100}}
	for i, w := range want {
		if r[i].HP != w[0] || r[i].MaxHP != w[1] {
			t.Fatalf("entry %d: expected %d/%d, got %d/%d", i, w[0], w[1], r[i].HP, r[i].MaxHP)
		}
	}
}

func TestParse_ForcesLifecycleFields(t *testing.T) {
	r, err := Parse([]byte(`[{"name":"A","status":"dead","roundEliminated":4,"hp":0}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r[0].Status != game.StatusAlive {
		t.Fatalf("expected status alive, got %s", r[0].Status)
	}
	if r[0].RoundEliminated != nil {
		t.Fatalf("expected roundEliminated nil")
	}
}

func TestParse_Injuries(t *testing.T) {
	r, err := Parse([]byte(`[
		{"injuries": "broken arm"},
		{"injuries": ["a", "b", "A", 3, "", "c", "d", "e", "f"]}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r[0].Injuries) != 0 {
		t.Fatalf("expected no injuries for non-array input, got %v", r[0].Injuries)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if len(r[1].Injuries) != len(want) {
		t.Fatalf("expected %v, got %v", want, r[1].Injuries)
	}
	for i := range want {
		if r[1].Injuries[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, r[1].Injuries)
		}
	}
}

func TestParse_LegacyDescription(t *testing.T) {
	r, err := Parse([]byte(`[{"name":"Old","description":"From the first version."}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r[0].Bio != "From the first version." {
		t.Fatalf("expected description to populate bio, got %q", r[0].Bio)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := []string{`[]`, `{}`, `"x"`, `null`, `[{`}
	for _, c := range cases {
		_, err := Parse([]byte(c))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("input %s: expected ValidationError, got %v", c, err)
		}
	}
}

func TestNormalize_RandomEntriesKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	values := []any{nil, "x", true, -50.0, 0.0, 33.7, 119.5, 500.0, "80", []any{"cut"}, map[string]any{}}
	for n := 0; n < 200; n++ {
		size := 1 + rnd.Intn(6)
		entries := make([]any, size)
		for i := range entries {
			if rnd.Intn(5) == 0 {
				entries[i] = values[rnd.Intn(len(values))]
				continue
			}
			entries[i] = map[string]any{
				"name":     values[rnd.Intn(len(values))],
				"hp":       values[rnd.Intn(len(values))],
				"maxHp":    values[rnd.Intn(len(values))],
				"injuries": values[rnd.Intn(len(values))],
				"state":    values[rnd.Intn(len(values))],
			}
		}
		r, err := Normalize(entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(r) != size {
			t.Fatalf("expected %d participants, got %d", size, len(r))
		}
		for i, p := range r {
			if p.ID != i+1 {
				t.Fatalf("id mismatch: %d vs %d", p.ID, i+1)
			}
			if p.MaxHP < 1 || p.MaxHP > constants.MaxHitPoints || p.HP < 0 || p.HP > p.MaxHP {
				t.Fatalf("hp invariants violated: %+v", p)
			}
			if len(p.Injuries) > constants.MaxInjuries {
				t.Fatalf("too many injuries: %v", p.Injuries)
			}
			if p.Name == "" || p.Status != game.StatusAlive || p.RoundEliminated != nil {
				t.Fatalf("lifecycle invariants violated: %+v", p)
			}
		}
	}
}

func TestLoadFile_YAMLAndFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	body := "- name: Ana\n  hp: 70\n  maxHp: 90\n- name: Bo\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r) != 2 || r[0].Name != "Ana" || r[0].HP != 70 || r[0].MaxHP != 90 {
		t.Fatalf("unexpected roster: %+v", r)
	}

	fallback := LoadFileOrDefault(filepath.Join(dir, "missing.json"))
	if len(fallback) != len(Default()) {
		t.Fatalf("expected built-in roster, got %d entries", len(fallback))
	}
}
