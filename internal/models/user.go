package models

import "time"

// Role values stored on a profile.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the stored user record.
type Profile struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	AvatarURL    string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio          string    `db:"bio" json:"bio"`
	IsPrivate    bool      `db:"is_private" json:"is_private"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProfileView is a profile together with its assembled relationship sets.
// The sets are derived from the friend edge table and room participation,
// not stored on the profile row.
type ProfileView struct {
	Profile
	Friends          []int `json:"friends"`
	SentRequests     []int `json:"sent_requests"`
	ReceivedRequests []int `json:"received_requests"`
	ChatRooms        []int `json:"chat_rooms"`
}

// UserSummary is the public slice of a profile shown in listings.
type UserSummary struct {
	ID          int    `db:"id" json:"id"`
	DisplayName string `db:"display_name" json:"display_name"`
	AvatarURL   string `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio         string `db:"bio" json:"bio"`
	IsPrivate   bool   `db:"is_private" json:"is_private"`
}

// UserToken is a persisted bearer token.
type UserToken struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"user_id"`
	Token  string `db:"token" json:"token"`
}
