package narrative

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/jsonrepair"
)

// ErrNoNarrativeText is wrapped by PayloadParseError when the payload parses
// but carries no usable event text.
var ErrNoNarrativeText = errors.New("payload has no narrative text")

// PayloadParseError reports a structured answer that could not be used even
// after repair.
type PayloadParseError struct {
	Content string
	Err     error
}

func (e *PayloadParseError) Error() string {
	return "failed to parse narrative payload: " + e.Err.Error()
}

func (e *PayloadParseError) Unwrap() error { return e.Err }

var (
	narrativeTextKeys = []string{"eventText", "event_text", "narrative", "text", "story"}
	outcomeKeys       = []string{"eventOutcome", "event_outcome", "outcome"}
)

// ParseStructured decodes a structured event payload. The content is parsed
// strictly first and run through jsonrepair only when that fails. A missing
// or malformed outcome yields a nil Outcome rather than an error.
func ParseStructured(content string) (Result, error) {
	doc, err := decodeObject(content)
	if err != nil {
		return Result{}, &PayloadParseError{Content: content, Err: err}
	}
	text, ok := findNarrativeText(doc)
	if !ok {
		return Result{}, &PayloadParseError{Content: content, Err: ErrNoNarrativeText}
	}
	return Result{Text: text, Outcome: findOutcome(doc)}, nil
}

func decodeObject(content string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	stripped := jsonrepair.StripFences(content)
	if err := json.Unmarshal([]byte(stripped), &doc); err == nil && doc != nil {
		return doc, nil
	}
	repaired, err := jsonrepair.Repair(content)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, errors.New("payload is not a JSON object")
	}
	return doc, nil
}

// findNarrativeText returns the first non-blank string under one of the
// accepted narrative keys.
func findNarrativeText(doc map[string]interface{}) (string, bool) {
	for _, k := range narrativeTextKeys {
		if s, ok := doc[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func findOutcome(doc map[string]interface{}) *game.Outcome {
	for _, k := range outcomeKeys {
		raw, ok := doc[k].(map[string]interface{})
		if !ok {
			continue
		}
		out := &game.Outcome{}
		if s, ok := raw["summary"].(string); ok {
			out.Summary = strings.TrimSpace(s)
		}
		if list, ok := raw["effects"].([]interface{}); ok {
			for _, item := range list {
				if eff, ok := decodeEffect(item); ok {
					out.Effects = append(out.Effects, eff)
				}
			}
		}
		return out
	}
	return nil
}

// decodeEffect is lenient about numeric types and casing; entries without a
// usable participant id are dropped.
func decodeEffect(v interface{}) (game.Effect, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return game.Effect{}, false
	}
	id, ok := toInt(firstOf(m, "participantId", "participant_id", "id"), math.MaxInt32)
	if !ok {
		return game.Effect{}, false
	}
	eff := game.Effect{ParticipantID: id}
	if s, ok := m["status"].(string); ok {
		st := game.Status(strings.ToLower(strings.TrimSpace(s)))
		if st.Valid() {
			eff.Status = st
		}
	}
	if d, ok := toInt(firstOf(m, "hpDelta", "hp_delta"), constants.MaxHitPoints); ok {
		eff.HPDelta = d
	}
	switch inj := m["injuries"].(type) {
	case []interface{}:
		for _, x := range inj {
			if s, ok := x.(string); ok && strings.TrimSpace(s) != "" {
				eff.Injuries = append(eff.Injuries, strings.TrimSpace(s))
			}
		}
	case string:
		if strings.TrimSpace(inj) != "" {
			eff.Injuries = []string{strings.TrimSpace(inj)}
		}
	}
	if s, ok := m["state"].(string); ok {
		eff.State = strings.TrimSpace(s)
	}
	return eff, true
}

func firstOf(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// toInt rounds a JSON number or numeric string, clamping it to
// [-limit, limit] before the conversion so huge values cannot overflow.
func toInt(v interface{}, limit int) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Max(-float64(limit), math.Min(float64(limit), f))
	return int(math.Round(f)), true
}
