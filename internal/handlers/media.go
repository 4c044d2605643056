package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/models"
	"realtyshare/internal/repositories"
)

// MediaHandler serves the shared media catalog.
type MediaHandler struct {
	mediaRepo   repositories.MediaRepository
	profileRepo repositories.ProfileRepository
}

// NewMediaHandler builds a MediaHandler.
func NewMediaHandler(mediaRepo repositories.MediaRepository, profileRepo repositories.ProfileRepository) *MediaHandler {
	return &MediaHandler{mediaRepo: mediaRepo, profileRepo: profileRepo}
}

// ListMedia returns every media item, newest first, with like state for the
// caller.
func (h *MediaHandler) ListMedia(c *gin.Context) {
	userID := c.GetInt("userID")
	items, err := h.mediaRepo.ListMedia(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load media"})
		return
	}
	if items == nil {
		items = []models.MediaItemView{}
	}
	c.JSON(http.StatusOK, gin.H{"media": items})
}

// CreateMedia records an already-uploaded media item owned by the caller.
func (h *MediaHandler) CreateMedia(c *gin.Context) {
	var req struct {
		MediaURL  string `json:"media_url" binding:"required,url"`
		MediaType string `json:"media_type" binding:"required,oneof=image video other"`
		FileName  string `json:"file_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	item, err := h.mediaRepo.CreateMedia(c.Request.Context(), userID, req.MediaURL, req.MediaType, req.FileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store media"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ToggleLike likes the item if the caller has not liked it yet, unlikes it
// otherwise.
func (h *MediaHandler) ToggleLike(c *gin.Context) {
	mediaID, ok := parseMediaID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if _, err := h.mediaRepo.GetMedia(c.Request.Context(), mediaID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMediaNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "media not found"})
		return
	}

	liked, err := h.mediaRepo.ToggleLike(c.Request.Context(), mediaID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update like"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// DeleteMedia removes a media item. Only the owner or an admin may delete.
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	mediaID, ok := parseMediaID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	item, err := h.mediaRepo.GetMedia(c.Request.Context(), mediaID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrMediaNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "media not found"})
		return
	}

	if item.OwnerID != userID {
		profile, err := h.profileRepo.GetProfile(c.Request.Context(), userID)
		if err != nil || profile.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
			return
		}
	}

	if err := h.mediaRepo.DeleteMedia(c.Request.Context(), mediaID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete media"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseMediaID(c *gin.Context) (int, bool) {
	mediaID, err := strconv.Atoi(c.Param("media_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return 0, false
	}
	return mediaID, true
}
