package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/repositories"
)

// AdminHandler serves role management. Routes using it must be guarded by
// the admin middleware.
type AdminHandler struct {
	profileRepo repositories.ProfileRepository
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(profileRepo repositories.ProfileRepository) *AdminHandler {
	return &AdminHandler{profileRepo: profileRepo}
}

// SetRole changes a user's role.
func (h *AdminHandler) SetRole(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profileRepo.SetRole(c.Request.Context(), targetID, req.Role); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update role"})
		return
	}
	c.Status(http.StatusNoContent)
}
