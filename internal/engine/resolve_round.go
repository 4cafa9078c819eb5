package engine

import "github.com/dehierro/battleroyale/internal/game"

// Verdict is the win-condition check performed after each round.
type Verdict struct {
	Finished bool
	Winner   *game.Participant
	Message  string
}

// Evaluate inspects the roster and reports whether the session is over. A
// session ends only when at most one non-dead participant remains.
func Evaluate(roster []game.Participant) Verdict {
	survivors := game.Survivors(roster)
	switch len(survivors) {
	case 0:
		return Verdict{Finished: true, Message: "No survivors remain! The arena claims all!"}
	case 1:
		w := survivors[0]
		return Verdict{Finished: true, Winner: w, Message: w.Name + " is the winner of the Battle Royale!"}
	default:
		return Verdict{}
	}
}

// Eligible returns copies of the non-dead participants, the planner's pool.
func Eligible(roster []game.Participant) []game.Participant {
	out := make([]game.Participant, 0, len(roster))
	for i := range roster {
		if roster[i].Alive() {
			out = append(out, roster[i])
		}
	}
	return out
}
