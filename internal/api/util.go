package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/roster"
	"github.com/dehierro/battleroyale/internal/service"
	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes the request body into v; an empty body is
// accepted and leaves v untouched. It writes a 400 and returns false on
// malformed input.
func bindOptionalJSON(c *gin.Context, v interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest, constants.JSONKeyDetails: err.Error()})
		return false
	}
	return true
}

// rosterFromRequest normalizes an optional inline roster. A nil entries
// slice means the caller did not send one.
func rosterFromRequest(c *gin.Context, entries []interface{}) ([]game.Participant, bool) {
	if entries == nil {
		return nil, true
	}
	r, err := roster.Normalize(entries)
	if err != nil {
		writeRosterError(c, err)
		return nil, false
	}
	return r, true
}

func writeRosterError(c *gin.Context, err error) {
	var verr *roster.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRoster, constants.JSONKeyDetails: verr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLoadRoster})
}

// writeServiceError maps controller errors to HTTP statuses.
func writeServiceError(c *gin.Context, err error, snap service.Snapshot) {
	switch {
	case errors.Is(err, service.ErrEmptyRoster):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmptyRoster})
	case errors.Is(err, service.ErrMissingCredential):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingAPIKey})
	case errors.Is(err, service.ErrNotStarted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotStarted, "session": snap})
	case errors.Is(err, service.ErrSessionFinished):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionFinished, "session": snap})
	case errors.Is(err, service.ErrAlreadyStarted):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionAlreadyStarted, "session": snap})
	case errors.Is(err, service.ErrRosterLocked):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRosterLocked})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedAdvanceRound})
	}
}
