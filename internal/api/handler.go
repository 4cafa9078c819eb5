package api

import (
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/roster"
	"github.com/dehierro/battleroyale/internal/service"
	"github.com/dehierro/battleroyale/internal/session"
	"github.com/dehierro/battleroyale/internal/storage"
)

// Handler groups the HTTP handlers of the battle royale API.
type Handler struct {
	repo     storage.Repository
	sessions session.Store[*service.Session]
	deps     service.Deps
	// defaultAPIKey is used when a start request carries no key.
	defaultAPIKey string
	rosterFile    string
}

// Options configure a Handler. Deps are shared by every session, so Rand
// should stay nil to give each session its own random source.
type Options struct {
	Repo          storage.Repository
	Sessions      session.Store[*service.Session]
	Deps          service.Deps
	DefaultAPIKey string
	RosterFile    string
}

func NewHandler(opts Options) *Handler {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore[*service.Session]()
	}
	return &Handler{
		repo:          opts.Repo,
		sessions:      sessions,
		deps:          opts.Deps,
		defaultAPIKey: opts.DefaultAPIKey,
		rosterFile:    opts.RosterFile,
	}
}

// Roster sources reported by GET /api/roster.
const (
	rosterSourceConfig  = "config"
	rosterSourceDefault = "default"
)

// defaultRoster returns the stored roster configuration when there is a
// usable one, else the roster resource (or the built-in list).
func (h *Handler) defaultRoster() ([]game.Participant, string) {
	if h.repo != nil {
		cfg, err := h.repo.GetRosterConfig()
		switch {
		case err != nil:
			logging.Error("failed to read stored roster configuration", err, nil)
		case cfg != nil:
			r, perr := roster.Parse([]byte(cfg.Body))
			if perr == nil {
				return r, rosterSourceConfig
			}
			logging.Warn("stored roster configuration is invalid; ignoring it", perr, nil)
		}
	}
	return roster.LoadFileOrDefault(h.rosterFile), rosterSourceDefault
}
