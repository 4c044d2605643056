package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/repositories"
)

// ProfileHandler serves profile reads and edits.
type ProfileHandler struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// GetMyProfile returns the caller's profile with relationship sets.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID := c.GetInt("userID")
	view, err := h.profileRepo.GetProfileView(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateMyProfile applies an edit to the caller's profile.
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name" binding:"required"`
		AvatarURL   string `json:"avatar_url"`
		Bio         string `json:"bio"`
		IsPrivate   bool   `json:"is_private"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	err := h.profileRepo.UpdateProfile(c.Request.Context(), userID, req.DisplayName, req.AvatarURL, req.Bio, req.IsPrivate)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update profile"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers returns public summaries of all users.
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	users, err := h.profileRepo.ListProfiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser returns one user's public profile view.
func (h *ProfileHandler) GetUser(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	view, err := h.profileRepo.GetProfileView(c.Request.Context(), targetID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}
	view.Email = ""
	c.JSON(http.StatusOK, view)
}
