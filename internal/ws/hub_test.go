package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"realtyshare/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	if got := hub.AddClient(1, nil, ConnInfo{UserID: 1}); got != 1 {
		t.Fatalf("expected 1 connection, got %d", got)
	}
	if len(hub.userConns) != 1 {
		t.Fatalf("expected user entry to be created")
	}

	if got := hub.RemoveClient(1, nil); got != 0 {
		t.Fatalf("expected 0 remaining connections, got %d", got)
	}
	if len(hub.userConns) != 0 {
		t.Fatalf("expected user entry to be removed")
	}
}

func TestHubSubscribeReplacesPriorRoom(t *testing.T) {
	hub := NewHub()

	hub.SubscribeRoom(nil, 5)
	hub.SubscribeRoom(nil, 6)

	if _, ok := hub.roomSubs[5]; ok {
		t.Fatalf("expected old room subscription to be dropped")
	}
	if len(hub.roomSubs[6]) != 1 {
		t.Fatalf("expected exactly one subscriber on the new room")
	}
	if hub.connRoom[nil] != 6 {
		t.Fatalf("expected connection to follow room 6")
	}
}

func TestHubRemoveClientReleasesState(t *testing.T) {
	hub := NewHub()

	hub.AddClient(1, nil, ConnInfo{UserID: 1})
	hub.SubscribeRoom(nil, 5)
	hub.SetOpenRoom(nil, 5)

	hub.RemoveClient(1, nil)

	if len(hub.roomSubs) != 0 {
		t.Fatalf("expected room subscription to be released")
	}
	if len(hub.openRoom) != 0 {
		t.Fatalf("expected open-room state to be released")
	}
}

func TestHubNotificationSuppressedForOpenRoom(t *testing.T) {
	hub := NewHub()

	hub.AddClient(2, nil, ConnInfo{UserID: 2})
	hub.SetOpenRoom(nil, 5)

	notif := models.NewMessageNotification{RoomID: 5, SenderID: 1, Text: "hi"}
	if sent := hub.SendNotification(2, notif); sent != 0 {
		t.Fatalf("expected notification to be suppressed, sent=%d", sent)
	}
}

func TestHubNotificationToAbsentUser(t *testing.T) {
	hub := NewHub()

	notif := models.NewMessageNotification{RoomID: 5, SenderID: 1, Text: "hi"}
	if sent := hub.SendNotification(2, notif); sent != 0 {
		t.Fatalf("expected no deliveries for absent user, sent=%d", sent)
	}
}

// dialTestConn returns a connected server-side websocket and its client peer.
func dialTestConn(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverSide <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-serverSide:
		t.Cleanup(func() { conn.Close() })
		return conn, client
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server side of websocket")
		return nil, nil
	}
}

func TestHubNotificationDeliveredToIdleSession(t *testing.T) {
	hub := NewHub()
	server, client := dialTestConn(t)

	hub.AddClient(2, server, ConnInfo{UserID: 2})
	hub.SetOpenRoom(server, 7) // a different room is open

	notif := models.NewMessageNotification{RoomID: 5, SenderID: 1, SenderName: "alice", Text: "hi"}
	if sent := hub.SendNotification(2, notif); sent != 1 {
		t.Fatalf("expected 1 delivery, got %d", sent)
	}

	client.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var frame struct {
		Type string                        `json:"type"`
		Data models.NewMessageNotification `json:"data"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if frame.Type != "notification" || frame.Data.RoomID != 5 || frame.Data.SenderName != "alice" {
		t.Fatalf("unexpected frame: %s", payload)
	}
}

func TestHubBroadcastRoomSnapshot(t *testing.T) {
	hub := NewHub()
	server, client := dialTestConn(t)

	hub.AddClient(2, server, ConnInfo{UserID: 2})
	hub.SubscribeRoom(server, 5)

	msgs := []models.Message{
		{ID: 1, RoomID: 5, SenderID: 1, ReceiverID: 2, Content: "first"},
		{ID: 2, RoomID: 5, SenderID: 2, ReceiverID: 1, Content: "second"},
	}
	hub.BroadcastRoomSnapshot(5, msgs)

	client.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var event models.ChatEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if event.Type != "snapshot" || event.RoomID != 5 {
		t.Fatalf("unexpected event: %s", payload)
	}
	if len(event.Snapshot) != 2 || event.Snapshot[0].Content != "first" {
		t.Fatalf("expected full ordered snapshot, got %s", payload)
	}
}
