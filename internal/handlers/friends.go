package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/models"
	"realtyshare/internal/observability"
	"realtyshare/internal/repositories"
)

// FriendsHandler exposes the friend-request transitions.
type FriendsHandler struct {
	friendRepo repositories.FriendRepository
}

// NewFriendsHandler builds a FriendsHandler.
func NewFriendsHandler(friendRepo repositories.FriendRepository) *FriendsHandler {
	return &FriendsHandler{friendRepo: friendRepo}
}

// SendRequest sends a friend request to the user named in the body.
func (h *FriendsHandler) SendRequest(c *gin.Context) {
	var req struct {
		UserID int `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	err := h.friendRepo.SendRequest(c.Request.Context(), userID, req.UserID)
	h.finishTransition(c, "send", err)
}

// AcceptRequest accepts a pending request from the user in the path.
func (h *FriendsHandler) AcceptRequest(c *gin.Context) {
	senderID, ok := parseUserID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")
	err := h.friendRepo.AcceptRequest(c.Request.Context(), userID, senderID)
	h.finishTransition(c, "accept", err)
}

// RejectRequest rejects a pending request from the user in the path.
func (h *FriendsHandler) RejectRequest(c *gin.Context) {
	senderID, ok := parseUserID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")
	err := h.friendRepo.RejectRequest(c.Request.Context(), userID, senderID)
	h.finishTransition(c, "reject", err)
}

// RemoveFriend removes the friendship with the user in the path. Removing a
// non-friend succeeds without error.
func (h *FriendsHandler) RemoveFriend(c *gin.Context) {
	otherID, ok := parseUserID(c)
	if !ok {
		return
	}
	userID := c.GetInt("userID")
	err := h.friendRepo.RemoveFriend(c.Request.Context(), userID, otherID)
	h.finishTransition(c, "remove", err)
}

// ListFriends returns the caller's friends.
func (h *FriendsHandler) ListFriends(c *gin.Context) {
	h.list(c, h.friendRepo.ListFriends)
}

// ListSentRequests returns users awaiting the other party's decision.
func (h *FriendsHandler) ListSentRequests(c *gin.Context) {
	h.list(c, h.friendRepo.ListSentRequests)
}

// ListReceivedRequests returns users awaiting the caller's decision.
func (h *FriendsHandler) ListReceivedRequests(c *gin.Context) {
	h.list(c, h.friendRepo.ListReceivedRequests)
}

func (h *FriendsHandler) list(c *gin.Context, load func(ctx context.Context, userID int) ([]models.UserSummary, error)) {
	userID := c.GetInt("userID")
	users, err := load(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// finishTransition maps a relationship-engine result onto the HTTP response
// and records the transition metric.
func (h *FriendsHandler) finishTransition(c *gin.Context, operation string, err error) {
	if err == nil {
		observability.IncFriendTransition(operation, "ok")
		c.Status(http.StatusNoContent)
		return
	}

	observability.IncFriendTransition(operation, "error")
	switch {
	case errors.Is(err, repositories.ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrAlreadyFriends),
		errors.Is(err, repositories.ErrAlreadyRequested),
		errors.Is(err, repositories.ErrReciprocalPending),
		errors.Is(err, repositories.ErrNoSuchRequest):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
	}
}

func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}
