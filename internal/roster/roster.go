package roster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
)

const defaultBio = "No biography available."

// ValidationError reports a roster configuration that cannot produce a
// roster at all. Individual malformed fields never cause it; they are
// normalized instead.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "invalid roster: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid roster: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Parse decodes a JSON roster configuration and normalizes it.
func Parse(data []byte) ([]game.Participant, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Reason: "malformed JSON", Err: err}
	}
	return normalizeValue(raw)
}

// ParseYAML decodes a YAML roster configuration and normalizes it.
func ParseYAML(data []byte) ([]game.Participant, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Reason: "malformed YAML", Err: err}
	}
	return normalizeValue(raw)
}

func normalizeValue(raw any) ([]game.Participant, error) {
	entries, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Reason: "expected an array of participants"}
	}
	return Normalize(entries)
}

// Normalize builds a fresh roster from arbitrary decoded entries. Output
// order matches input order and IDs are assigned as position+1.
func Normalize(entries []any) ([]game.Participant, error) {
	if len(entries) == 0 {
		return nil, &ValidationError{Reason: "at least one participant is required"}
	}
	out := make([]game.Participant, 0, len(entries))
	for i, e := range entries {
		obj := asObject(e)
		out = append(out, normalizeEntry(i, obj))
	}
	return out, nil
}

func normalizeEntry(index int, obj map[string]any) game.Participant {
	name := stringField(obj, "name")
	if name == "" {
		name = fmt.Sprintf("Participant %d", index+1)
	}
	bio := stringField(obj, "bio")
	if bio == "" {
		bio = stringField(obj, "description")
	}
	if bio == "" {
		bio = defaultBio
	}

	maxHP := clamp(numberField(obj, "maxHp", constants.DefaultHitPoints), 1, constants.MaxHitPoints)
	hp := clamp(numberField(obj, "hp", constants.DefaultHitPoints), 0, maxHP)

	return game.Participant{
		ID:              index + 1,
		Name:            name,
		Bio:             bio,
		Image:           stringField(obj, "image"),
		HP:              hp,
		MaxHP:           maxHP,
		Injuries:        injuriesField(obj["injuries"]),
		State:           stringField(obj, "state"),
		Status:          game.StatusAlive,
		RoundEliminated: nil,
	}
}

func asObject(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return map[string]any{}
}

func stringField(obj map[string]any, key string) string {
	s, ok := obj[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// numberField returns the integer value stored under key, or def when the
// value is missing or not numeric. Numeric strings are accepted.
func numberField(obj map[string]any, key string, def int) int {
	var f float64
	switch v := obj[key].(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	// keep the conversion inside int range before clamping
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	if f < math.MinInt32 {
		f = math.MinInt32
	}
	return int(math.Round(f))
}

func injuriesField(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, constants.MaxInjuries)
	for _, item := range list {
		if len(out) == constants.MaxInjuries {
			break
		}
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || containsFold(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, x := range list {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
