package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/models"
	"realtyshare/internal/notify"
	"realtyshare/internal/repositories"
	"realtyshare/internal/ws"
)

// ChatHandler manages the chat room directory and the message log.
type ChatHandler struct {
	roomRepo    repositories.RoomRepository
	messageRepo repositories.MessageRepository
	friendRepo  repositories.FriendRepository
	profileRepo repositories.ProfileRepository
	hub         *ws.Hub
	router      *notify.Router
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(roomRepo repositories.RoomRepository, messageRepo repositories.MessageRepository, friendRepo repositories.FriendRepository, profileRepo repositories.ProfileRepository, hub *ws.Hub, router *notify.Router) *ChatHandler {
	return &ChatHandler{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
		hub:         hub,
		router:      router,
	}
}

// StartChat returns the single room for the caller and a friend, creating
// it on first contact. Either participant may call this concurrently; both
// get the same room.
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req struct {
		FriendID int `json:"friend_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if userID == req.FriendID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
		return
	}

	friends, err := h.friendRepo.AreFriends(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate friendship"})
		return
	}
	if !friends {
		c.JSON(http.StatusForbidden, gin.H{"error": "users are not friends"})
		return
	}

	room, err := h.roomRepo.GetOrCreateRoom(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_id": room.ID})
}

// ListRooms returns the caller's rooms, most recent activity first, with
// last-message summaries.
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID := c.GetInt("userID")
	rooms, err := h.roomRepo.ListRoomsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat rooms"})
		return
	}
	if rooms == nil {
		rooms = []models.RoomSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetMessages returns the full ordered log for a room.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	member, err := h.roomRepo.IsParticipant(c.Request.Context(), roomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a room participant"})
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage appends a message to the room's log, pushes the refreshed
// snapshot to room subscribers, and routes a notification to the receiver.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "chat room not found"})
		return
	}
	if !room.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a room participant"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), roomID, userID, room.Other(userID), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmptyMessage),
			errors.Is(err, repositories.ErrMessageTooLong),
			errors.Is(err, repositories.ErrMessageHasLink):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	if msgs, listErr := h.messageRepo.ListMessages(c.Request.Context(), roomID); listErr == nil {
		h.hub.BroadcastRoomSnapshot(roomID, msgs)
	}

	senderName := ""
	if sender, profErr := h.profileRepo.GetProfile(c.Request.Context(), userID); profErr == nil {
		senderName = sender.DisplayName
	}
	h.router.Route(c.Request.Context(), msg, senderName)

	c.JSON(http.StatusCreated, msg)
}

func parseRoomID(c *gin.Context) (int, bool) {
	roomID, err := strconv.Atoi(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return 0, false
	}
	return roomID, true
}
