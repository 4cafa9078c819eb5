package game

import "strings"

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Survivors returns pointers to the non-dead participants of roster, in
// roster order.
func Survivors(roster []Participant) []*Participant {
	out := make([]*Participant, 0, len(roster))
	for i := range roster {
		if roster[i].Alive() {
			out = append(out, &roster[i])
		}
	}
	return out
}

// CountByStatus returns how many participants are alive, injured and dead.
func CountByStatus(roster []Participant) (alive, injured, dead int) {
	for i := range roster {
		switch roster[i].Status {
		case StatusInjured:
			injured++
		case StatusDead:
			dead++
		default:
			alive++
		}
	}
	return
}

// FindByID returns the participant with the given id or nil.
func FindByID(roster []Participant, id int) *Participant {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}

// CloneRoster deep-copies a roster.
func CloneRoster(roster []Participant) []Participant {
	out := make([]Participant, len(roster))
	for i := range roster {
		out[i] = roster[i].Clone()
	}
	return out
}
