package api

import (
	"net/http"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/roster"
	"github.com/gin-gonic/gin"
)

// GetRoster returns the roster new sessions start from.
func (h *Handler) GetRoster(c *gin.Context) {
	r, source := h.defaultRoster()
	c.JSON(http.StatusOK, gin.H{"roster": r, "source": source})
}

type rosterConfigRequest struct {
	Body string `json:"body"`
}

// GetRosterConfig returns the stored roster configuration text, empty when
// none was saved.
func (h *Handler) GetRosterConfig(c *gin.Context) {
	cfg, err := h.repo.GetRosterConfig()
	if err != nil {
		logging.Error("failed to read roster configuration", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLoadRoster})
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"body": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"body": cfg.Body, "updated_at": cfg.UpdatedAt})
}

// PutRosterConfig validates and stores a roster configuration. An invalid
// configuration leaves the stored one untouched.
func (h *Handler) PutRosterConfig(c *gin.Context) {
	var req rosterConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	r, err := roster.Parse([]byte(req.Body))
	if err != nil {
		writeRosterError(c, err)
		return
	}
	if err := h.repo.SaveRosterConfig(req.Body); err != nil {
		logging.Error("failed to save roster configuration", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveRoster})
		return
	}
	logging.Info("roster configuration saved", logging.Fields{constants.LogFieldCount: len(r)})
	c.JSON(http.StatusOK, gin.H{"roster": r})
}
