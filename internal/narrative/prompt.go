package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/game"
)

const defaultSystemPrompt = "You are a battle royale narrator. Generate exciting, dramatic events that are appropriate for all audiences."

// defaultUserPrompt supports the tokens {{round}}, {{alive}}, {{injured}},
// {{roster}}, {{bios}}, {{plan}} and {{format}}.
const defaultUserPrompt = `Generate a single battle royale event for round {{round}}.
Current status: {{alive}} alive, {{injured}} injured.
Contenders still in the arena:
{{roster}}

Biographies:
{{bios}}

What must happen this round:
{{plan}}

Keep it under 150 words and make it exciting. Only mention the contenders listed in the plan.
{{format}}`

const structuredFormat = `Reply with a single JSON object and nothing else, using this shape:
{"eventText": string, "eventOutcome": {"summary": string, "effects": [{"participantId": number, "status": "alive"|"injured"|"dead", "hpDelta": integer, "injuries": [string], "state": string}]}}
Only include effects for the participant ids named in the plan.`

const freeTextFormat = "Reply with the event text only."

// BuildUserPrompt renders tmpl (or the built-in prompt when tmpl is blank)
// for req.
func BuildUserPrompt(tmpl string, req Request, structured bool) string {
	prompt := strings.TrimSpace(tmpl)
	if prompt == "" {
		prompt = defaultUserPrompt
	}
	alive, injured, _ := game.CountByStatus(req.Roster)
	format := freeTextFormat
	if structured {
		format = structuredFormat
	}
	r := strings.NewReplacer(
		"{{round}}", strconv.Itoa(req.Round),
		"{{alive}}", strconv.Itoa(alive),
		"{{injured}}", strconv.Itoa(injured),
		"{{roster}}", rosterSummary(req.Roster),
		"{{bios}}", bioExcerpts(req.Roster, req.Plan),
		"{{plan}}", describePlan(req.Plan, req.Roster),
		"{{format}}", format,
	)
	return r.Replace(prompt)
}

func rosterSummary(roster []game.Participant) string {
	var b strings.Builder
	for i := range roster {
		p := &roster[i]
		if !p.Alive() {
			continue
		}
		fmt.Fprintf(&b, "- #%d %s (%s, %d/%d HP", p.ID, p.Name, p.Status, p.HP, p.MaxHP)
		if len(p.Injuries) > 0 {
			fmt.Fprintf(&b, ", injuries: %s", strings.Join(p.Injuries, ", "))
		}
		if p.State != "" {
			fmt.Fprintf(&b, ", %s", p.State)
		}
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// bioExcerpts lists the biographies of the plan's participants, each cut to
// a short excerpt.
func bioExcerpts(roster []game.Participant, plan engine.Plan) string {
	var b strings.Builder
	for _, id := range plan.Participants {
		p := game.FindByID(roster, id)
		if p == nil {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, excerpt(p.Bio, constants.BioExcerptLength))
	}
	if b.Len() == 0 {
		return "- (none)"
	}
	return strings.TrimRight(b.String(), "\n")
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func describePlan(plan engine.Plan, roster []game.Participant) string {
	name := func(id int) string {
		if p := game.FindByID(roster, id); p != nil {
			return fmt.Sprintf("%s (id %d)", p.Name, p.ID)
		}
		return fmt.Sprintf("id %d", id)
	}
	others := func() string {
		names := make([]string, 0, len(plan.Participants))
		for _, id := range plan.Participants {
			if id != plan.Target {
				names = append(names, name(id))
			}
		}
		if len(names) == 0 {
			return ""
		}
		return " Also present: " + strings.Join(names, ", ") + "."
	}

	switch plan.Kind {
	case engine.PlanInjury:
		return fmt.Sprintf("%s is injured (%s, about %d HP lost) but survives and ends up %s.%s",
			name(plan.Target), plan.InjuryLabel, plan.Damage, plan.NewState, others())
	case engine.PlanElimination:
		return fmt.Sprintf("%s is eliminated from the battle royale.%s", name(plan.Target), others())
	default:
		if len(plan.Participants) == 0 {
			return "Nobody is involved; describe the arena itself. Nobody is harmed."
		}
		names := make([]string, 0, len(plan.Participants))
		for _, id := range plan.Participants {
			names = append(names, name(id))
		}
		return fmt.Sprintf("A %s moment involving %s. Nobody is harmed.", plan.Tone, strings.Join(names, ", "))
	}
}
