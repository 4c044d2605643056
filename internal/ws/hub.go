package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"realtyshare/internal/models"
	"realtyshare/internal/observability"
)

// Hub maintains active user sessions, their room subscriptions, and which
// room each session currently has open in the client.
type Hub struct {
	mu        sync.RWMutex
	userConns map[int]map[*websocket.Conn]ConnInfo
	roomSubs  map[int]map[*websocket.Conn]bool
	connRoom  map[*websocket.Conn]int
	openRoom  map[*websocket.Conn]int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		userConns: make(map[int]map[*websocket.Conn]ConnInfo),
		roomSubs:  make(map[int]map[*websocket.Conn]bool),
		connRoom:  make(map[*websocket.Conn]int),
		openRoom:  make(map[*websocket.Conn]int),
	}
}

// AddClient registers a websocket connection for a user. It returns the
// number of connections the user now holds.
func (h *Hub) AddClient(userID int, conn *websocket.Conn, info ConnInfo) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userConns[userID]; !ok {
		h.userConns[userID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.userConns[userID][conn] = info
	return len(h.userConns[userID])
}

// RemoveClient drops a connection, releasing its room subscription and
// open-room state. It returns the number of connections the user still holds.
func (h *Hub) RemoveClient(userID int, conn *websocket.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(conn)
	delete(h.openRoom, conn)
	if conns, ok := h.userConns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConns, userID)
			return 0
		}
		return len(conns)
	}
	return 0
}

// SubscribeRoom attaches the connection to a room's snapshot feed. A
// connection follows at most one room; subscribing again replaces the prior
// subscription instead of stacking a duplicate listener.
func (h *Hub) SubscribeRoom(conn *websocket.Conn, roomID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(conn)
	if _, ok := h.roomSubs[roomID]; !ok {
		h.roomSubs[roomID] = make(map[*websocket.Conn]bool)
	}
	h.roomSubs[roomID][conn] = true
	h.connRoom[conn] = roomID
}

// UnsubscribeRoom detaches the connection from its room feed.
func (h *Hub) UnsubscribeRoom(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(conn)
}

func (h *Hub) unsubscribeLocked(conn *websocket.Conn) {
	if roomID, ok := h.connRoom[conn]; ok {
		if subs, ok := h.roomSubs[roomID]; ok {
			delete(subs, conn)
			if len(subs) == 0 {
				delete(h.roomSubs, roomID)
			}
		}
		delete(h.connRoom, conn)
	}
}

// SetOpenRoom records the room currently open in this session's client,
// which suppresses notifications for that room.
func (h *Hub) SetOpenRoom(conn *websocket.Conn, roomID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.openRoom[conn] = roomID
}

// ClearOpenRoom clears the open-room flag when the chat view closes.
func (h *Hub) ClearOpenRoom(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.openRoom, conn)
}

// BroadcastRoomSnapshot sends the full ordered message log to every
// subscriber of the room. Consumers re-render the whole list, so the event
// carries the snapshot rather than a delta.
func (h *Hub) BroadcastRoomSnapshot(roomID int, msgs []models.Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.roomSubs[roomID]))
	for conn := range h.roomSubs[roomID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "snapshot", RoomID: roomID, Snapshot: msgs}
	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.dropDeadConn(conn, err)
		}
	}
}

// SendNotification delivers a new-message notification to every session of
// the receiver whose open room is not the message's room. It reports how
// many sessions were notified.
func (h *Hub) SendNotification(receiverID int, notif models.NewMessageNotification) int {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.userConns[receiverID]))
	for conn := range h.userConns[receiverID] {
		if open, ok := h.openRoom[conn]; ok && open == notif.RoomID {
			continue
		}
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(struct {
		Type string                        `json:"type"`
		Data models.NewMessageNotification `json:"data"`
	}{Type: "notification", Data: notif})

	sent := 0
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.dropDeadConn(conn, err)
			continue
		}
		sent++
	}
	return sent
}

// SendPresence pushes a presence change to a single session.
func (h *Hub) SendPresence(conn *websocket.Conn, uid int, record models.PresenceRecord) {
	payload, _ := json.Marshal(struct {
		Type   string                `json:"type"`
		UserID int                   `json:"user_id"`
		Data   models.PresenceRecord `json:"data"`
	}{Type: "presence", UserID: uid, Data: record})
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.dropDeadConn(conn, err)
	}
}

func (h *Hub) dropDeadConn(conn *websocket.Conn, err error) {
	log.Printf("websocket write error: %v", err)
	conn.Close()

	h.mu.Lock()
	var info ConnInfo
	var userID int
	found := false
	for uid, conns := range h.userConns {
		if ci, ok := conns[conn]; ok {
			info, userID, found = ci, uid, true
			break
		}
	}
	h.unsubscribeLocked(conn)
	delete(h.openRoom, conn)
	if found {
		delete(h.userConns[userID], conn)
		if len(h.userConns[userID]) == 0 {
			delete(h.userConns, userID)
		}
	}
	h.mu.Unlock()

	if !found {
		return
	}
	observability.DecWSActive("user")
	observability.IncWSEvent("user", "ws_error")
	_ = observability.PublishEvent(context.Background(), "ws_events.users", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload: wsEventPayload(info, "ws_error", time.Since(info.ConnectedAt), err.Error()),
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

func wsEventPayload(info ConnInfo, event string, lifetime time.Duration, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        "user",
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": lifetime.Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
