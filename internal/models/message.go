package models

import "time"

// Message is one entry in a room's append-only log. CreatedAt is assigned
// by the database, never by clients, and orders the log.
type Message struct {
	ID         int       `db:"id" json:"id"`
	RoomID     int       `db:"room_id" json:"room_id"`
	SenderID   int       `db:"sender_id" json:"sender_id"`
	ReceiverID int       `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChatEvent is broadcast through websockets to room subscribers. Snapshot
// carries the full ordered log so clients re-render the whole list.
type ChatEvent struct {
	Type     string    `json:"type"`
	RoomID   int       `json:"room_id"`
	Snapshot []Message `json:"snapshot,omitempty"`
}

// NewMessageNotification is delivered to a user whose addressed room is not
// the one currently open in their client.
type NewMessageNotification struct {
	RoomID     int    `json:"room_id"`
	SenderID   int    `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
}

// PresenceState values tracked per user.
const (
	PresenceOnline  = "online"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

// PresenceRecord is the last-write-wins presence entry for a user.
type PresenceRecord struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}
