package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"realtyshare/internal/models"
	"realtyshare/internal/observability"
	"realtyshare/internal/presence"
	"realtyshare/internal/repositories"
)

// SocketHandler serves the user-level websocket: room snapshot feeds,
// open-room tracking for notification suppression, presence signals and
// presence watches.
type SocketHandler struct {
	hub         *Hub
	roomRepo    repositories.RoomRepository
	messageRepo repositories.MessageRepository
	tokenRepo   repositories.TokenRepository
	tracker     *presence.Tracker
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, roomRepo repositories.RoomRepository, messageRepo repositories.MessageRepository, tokenRepo repositories.TokenRepository, tracker *presence.Tracker) *SocketHandler {
	return &SocketHandler{hub: hub, roomRepo: roomRepo, messageRepo: messageRepo, tokenRepo: tokenRepo, tracker: tracker}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientFrame is what clients send over the socket.
type clientFrame struct {
	Type   string `json:"type"`
	RoomID int    `json:"room_id,omitempty"`
	UserID int    `json:"user_id,omitempty"`
	State  string `json:"state,omitempty"`
}

// Handle upgrades the connection, registers the session, and runs the frame loop.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("realtyshare/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		// browsers cannot set headers on websocket dials
		token = "Bearer " + c.Query("token")
	}
	userID, err := h.validateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	if h.hub.AddClient(userID, conn, info) == 1 {
		// first session: the user just came online
		_ = h.tracker.Set(ctx, userID, models.PresenceOnline)
	}

	observability.IncWSActive("user")
	observability.IncWSEvent("user", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.users", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(info, "ws_connect", 0, ""),
	}, observability.BuildHeaders(info.RequestID, info.TraceID))

	go h.readLoop(conn, info)
}

func (h *SocketHandler) readLoop(conn *websocket.Conn, info ConnInfo) {
	connCtx, cancel := context.WithCancel(context.Background())
	watches := make(map[int]context.CancelFunc)

	var closeReason string
	defer func() {
		cancel()
		if h.hub.RemoveClient(info.UserID, conn) == 0 {
			// last session gone: ungraceful or graceful, the user is offline
			_ = h.tracker.Set(context.Background(), info.UserID, models.PresenceOffline)
		}
		observability.DecWSActive("user")
		observability.IncWSEvent("user", "ws_disconnect")
		_ = observability.PublishEvent(context.Background(), "ws_events.users", observability.EventEnvelope{
			EventType: "ws_events",
			EventName: "ws_disconnect",
			Payload:   wsEventPayload(info, "ws_disconnect", time.Since(info.ConnectedAt), closeReason),
		}, observability.BuildHeaders(info.RequestID, info.TraceID))
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("user", "ws_error")
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Type {
		case "subscribe":
			member, err := h.roomRepo.IsParticipant(connCtx, frame.RoomID, info.UserID)
			if err != nil || !member {
				continue
			}
			h.hub.SubscribeRoom(conn, frame.RoomID)
			if msgs, err := h.messageRepo.ListMessages(connCtx, frame.RoomID); err == nil {
				h.hub.BroadcastRoomSnapshot(frame.RoomID, msgs)
			}
		case "unsubscribe":
			h.hub.UnsubscribeRoom(conn)
		case "open_room":
			h.hub.SetOpenRoom(conn, frame.RoomID)
		case "close_room":
			h.hub.ClearOpenRoom(conn)
		case "presence":
			if frame.State == models.PresenceOnline || frame.State == models.PresenceAway {
				_ = h.tracker.Set(connCtx, info.UserID, frame.State)
			}
		case "watch_presence":
			if prior, ok := watches[frame.UserID]; ok {
				prior()
			}
			watchCtx, stop := context.WithCancel(connCtx)
			watches[frame.UserID] = stop
			stream, err := h.tracker.Watch(watchCtx, frame.UserID)
			if err != nil {
				stop()
				delete(watches, frame.UserID)
				continue
			}
			go func(uid int) {
				for record := range stream {
					h.hub.SendPresence(conn, uid, record)
				}
			}(frame.UserID)
		case "unwatch_presence":
			if prior, ok := watches[frame.UserID]; ok {
				prior()
				delete(watches, frame.UserID)
			}
		}
	}
}

func (h *SocketHandler) validateToken(ctx context.Context, header string) (int, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return 0, repositories.ErrTokenNotFound
	}
	return h.tokenRepo.ResolveToken(ctx, parts[1])
}
