package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/presence"
)

// PresenceHandler serves one-shot presence reads; live watches run over the
// websocket.
type PresenceHandler struct {
	tracker *presence.Tracker
}

// NewPresenceHandler builds a PresenceHandler.
func NewPresenceHandler(tracker *presence.Tracker) *PresenceHandler {
	return &PresenceHandler{tracker: tracker}
}

// GetPresence returns the current presence record for a user. Unknown users
// read as offline.
func (h *PresenceHandler) GetPresence(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	record, err := h.tracker.Get(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load presence"})
		return
	}
	c.JSON(http.StatusOK, record)
}
