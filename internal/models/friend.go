package models

import (
	"database/sql"
	"time"
)

// Friend edge statuses. A single edge row exists per unordered user pair,
// which keeps the friendship symmetric and makes every transition atomic.
const (
	EdgePending  = "pending"
	EdgeAccepted = "accepted"
)

// FriendEdge is the relationship record for an unordered user pair.
// UserLo < UserHi always; RequesterID records which side sent the request.
type FriendEdge struct {
	UserLo      int          `db:"user_lo" json:"user_lo"`
	UserHi      int          `db:"user_hi" json:"user_hi"`
	Status      string       `db:"status" json:"status"`
	RequesterID int          `db:"requester_id" json:"requester_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	AcceptedAt  sql.NullTime `db:"accepted_at" json:"accepted_at,omitempty"`
}

// Other returns the edge participant that is not uid.
func (e FriendEdge) Other(uid int) int {
	if e.UserLo == uid {
		return e.UserHi
	}
	return e.UserLo
}
