package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/dedupe"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/service"
	"github.com/gin-gonic/gin"
)

type rosterRequest struct {
	Roster []interface{} `json:"roster"`
}

type startRequest struct {
	APIKey string `json:"api_key"`
}

// lookup resolves the :sessionID parameter, writing a 404 when unknown.
func (h *Handler) lookup(c *gin.Context) (*service.Session, bool) {
	id := strings.TrimSpace(c.Param(constants.ParamSessionID))
	s, ok, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil || !ok || s == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return nil, false
	}
	return s, true
}

// CreateSession creates an idle session over the inline roster, or the
// default roster when none is sent.
func (h *Handler) CreateSession(c *gin.Context) {
	var req rosterRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	r, ok := rosterFromRequest(c, req.Roster)
	if !ok {
		return
	}
	if r == nil {
		r, _ = h.defaultRoster()
	}

	id := h.sessions.NewID()
	s := service.NewSession(id, r, h.deps)
	if err := h.sessions.Put(c.Request.Context(), id, s); err != nil {
		logging.Error("failed to store session", err, logging.Fields{constants.LogFieldSessionID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	logging.Info("session created", logging.Fields{constants.LogFieldSessionID: id, constants.LogFieldCount: len(r)})
	c.JSON(http.StatusCreated, gin.H{"id": id, "session": s.Snapshot()})
}

func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Snapshot()})
}

// StartSession starts a session. The request key wins over the server-wide
// OPENAI_API_KEY.
func (h *Handler) StartSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req startRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		key = h.defaultAPIKey
	}
	snap, err := s.Start(key)
	if err != nil {
		writeServiceError(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap})
}

type advanceResult struct {
	snap    service.Snapshot
	changed bool
}

// AdvanceSession plays one round. Concurrent calls for the same session
// share a single advance.
func (h *Handler) AdvanceSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	// the shared advance must outlive the request that happened to start it
	ctx := context.WithoutCancel(c.Request.Context())
	v, err, shared := dedupe.AdvanceGroup.Do(s.ID(), func() (interface{}, error) {
		snap, changed, err := s.AdvanceRound(ctx)
		return advanceResult{snap: snap, changed: changed}, err
	})
	res, _ := v.(advanceResult)
	if err != nil {
		writeServiceError(c, err, res.snap)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": res.changed, "shared": shared, "session": res.snap})
}

// ResetSession returns a session to idle with the inline roster, or with
// the roster it was last given.
func (h *Handler) ResetSession(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req rosterRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	r, ok := rosterFromRequest(c, req.Roster)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s.Reset(r)})
}

// ApplySessionRoster replaces the roster of an idle or finished session.
// Running sessions answer 409.
func (h *Handler) ApplySessionRoster(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Roster == nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	r, ok := rosterFromRequest(c, req.Roster)
	if !ok {
		return
	}
	snap, err := s.ApplyRoster(r)
	if err != nil {
		writeServiceError(c, err, snap)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap})
}
