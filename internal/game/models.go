package game

import (
	"gorm.io/gorm"
)

// Participant is one roster entry tracked through a session. Participants are
// never removed from the roster; eliminated ones are marked dead.
type Participant struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Image    string   `json:"image,omitempty"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"maxHp"`
	Injuries []string `json:"injuries"`
	State    string   `json:"state"`
	Status   Status   `json:"status"`
	// RoundEliminated is set exactly once, when Status becomes dead.
	RoundEliminated *int `json:"roundEliminated"`
}

// Alive reports whether the participant can still be involved in events
// (status alive or injured).
func (p *Participant) Alive() bool {
	return p.Status != StatusDead
}

// HasInjury reports whether label is already recorded (case-insensitive).
func (p *Participant) HasInjury(label string) bool {
	for _, in := range p.Injuries {
		if equalFold(in, label) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so snapshots never alias roster slices.
func (p Participant) Clone() Participant {
	c := p
	if p.Injuries != nil {
		c.Injuries = append([]string(nil), p.Injuries...)
	}
	if p.RoundEliminated != nil {
		r := *p.RoundEliminated
		c.RoundEliminated = &r
	}
	return c
}

type Status string

const (
	StatusAlive   Status = "alive"
	StatusInjured Status = "injured"
	StatusDead    Status = "dead"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAlive, StatusInjured, StatusDead:
		return true
	}
	return false
}

// EventKind distinguishes the session intro, regular rounds and the finale.
type EventKind string

const (
	EventIntro  EventKind = "intro"
	EventRound  EventKind = "round"
	EventFinale EventKind = "finale"
)

// RoundEvent is one entry of a session's event log.
type RoundEvent struct {
	ID           int       `json:"id"`
	Round        int       `json:"round"`
	Kind         EventKind `json:"kind"`
	Text         string    `json:"text"`
	IsLoading    bool      `json:"isLoading"`
	Resolution   string    `json:"resolution,omitempty"`
	Participants []int     `json:"participants,omitempty"`
	// Fallback is true when the narrative text was produced locally because
	// the provider failed.
	Fallback bool `json:"fallback,omitempty"`
}

// Outcome is the structured result a narrative provider may return alongside
// the event text.
type Outcome struct {
	Summary string   `json:"summary"`
	Effects []Effect `json:"effects"`
}

// Effect describes the provider-asserted change for a single participant.
// Zero values mean "no change" for that field.
type Effect struct {
	ParticipantID int      `json:"participantId"`
	Status        Status   `json:"status"`
	HPDelta       int      `json:"hpDelta"`
	Injuries      []string `json:"injuries"`
	State         string   `json:"state"`
}

// RosterConfig stores the roster configuration text last applied by the
// user. It is the only state persisted across restarts.
type RosterConfig struct {
	gorm.Model
	Body string `json:"body" gorm:"type:text"`
}

// TableName overrides the default GORM table name so the persisted table is
// `roster_configs`.
func (RosterConfig) TableName() string { return "roster_configs" }
