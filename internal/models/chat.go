package models

import "time"

// ChatRoom represents the single private room between two users.
// UserLo < UserHi; the sorted pair is unique, so at most one room exists
// per unordered pair and get-or-create is race-safe.
type ChatRoom struct {
	ID              int       `db:"id" json:"id"`
	UserLo          int       `db:"user_lo" json:"user_lo"`
	UserHi          int       `db:"user_hi" json:"user_hi"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	LastMessageAt   time.Time `db:"last_message_at" json:"last_message_at"`
	LastMessageText string    `db:"last_message_text" json:"last_message_text"`
}

// Other returns the room participant that is not uid.
func (r ChatRoom) Other(uid int) int {
	if r.UserLo == uid {
		return r.UserHi
	}
	return r.UserLo
}

// HasParticipant reports whether uid belongs to the room.
func (r ChatRoom) HasParticipant(uid int) bool {
	return r.UserLo == uid || r.UserHi == uid
}

// RoomSummary provides the API-friendly view of a room for one user.
type RoomSummary struct {
	RoomID          int       `json:"room_id"`
	FriendID        int       `json:"friend_id"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageAt   time.Time `json:"last_message_at"`
	LastMessageText string    `json:"last_message_text"`
}
