package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"realtyshare/internal/models"
)

var (
	ErrSelfRequest       = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends    = errors.New("already friends")
	ErrAlreadyRequested  = errors.New("friend request already sent")
	ErrReciprocalPending = errors.New("this user already sent you a request")
	ErrNoSuchRequest     = errors.New("no pending request from this user")
)

// FriendRepository applies friend-request transitions. A single edge row per
// unordered pair keeps the friendship symmetric and every transition atomic;
// the row is locked for the duration of a transition, so two sides racing on
// the same pair resolve deterministically: first write wins, the loser sees
// the committed row and fails with the matching conflict error.
type FriendRepository interface {
	SendRequest(ctx context.Context, selfID, otherID int) error
	AcceptRequest(ctx context.Context, selfID, senderID int) error
	RejectRequest(ctx context.Context, selfID, senderID int) error
	RemoveFriend(ctx context.Context, selfID, otherID int) error
	ListFriends(ctx context.Context, userID int) ([]models.UserSummary, error)
	ListSentRequests(ctx context.Context, userID int) ([]models.UserSummary, error)
	ListReceivedRequests(ctx context.Context, userID int) ([]models.UserSummary, error)
	AreFriends(ctx context.Context, userID, otherID int) (bool, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

func sortPair(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// SendRequest records a pending request from self to other.
func (r *FriendRepo) SendRequest(ctx context.Context, selfID, otherID int) error {
	if selfID == otherID {
		return ErrSelfRequest
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		lo, hi := sortPair(selfID, otherID)
		var edge models.FriendEdge
		err := tx.GetContext(ctx, &edge,
			`SELECT user_lo, user_hi, status, requester_id, created_at, accepted_at
             FROM friend_edges WHERE user_lo=$1 AND user_hi=$2 FOR UPDATE`, lo, hi)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// no edge yet, fall through to insert
		case err != nil:
			return err
		case edge.Status == models.EdgeAccepted:
			return ErrAlreadyFriends
		case edge.RequesterID == selfID:
			return ErrAlreadyRequested
		default:
			return ErrReciprocalPending
		}

		// both users must exist
		var count int
		if err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM profiles WHERE id IN ($1, $2)`, selfID, otherID); err != nil {
			return err
		}
		if count != 2 {
			return ErrProfileNotFound
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO friend_edges (user_lo, user_hi, status, requester_id) VALUES ($1, $2, $3, $4)`,
			lo, hi, models.EdgePending, selfID)
		return err
	})
}

// AcceptRequest turns a pending request from sender into a friendship.
func (r *FriendRepo) AcceptRequest(ctx context.Context, selfID, senderID int) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		lo, hi := sortPair(selfID, senderID)
		res, err := tx.ExecContext(ctx,
			`UPDATE friend_edges SET status=$4, accepted_at=NOW()
             WHERE user_lo=$1 AND user_hi=$2 AND status=$3 AND requester_id=$5`,
			lo, hi, models.EdgePending, models.EdgeAccepted, senderID)
		if err != nil {
			return err
		}
		return requireRow(res, ErrNoSuchRequest)
	})
}

// RejectRequest drops a pending request from sender. The edge is deleted
// outright, so a later re-send starts clean.
func (r *FriendRepo) RejectRequest(ctx context.Context, selfID, senderID int) error {
	lo, hi := sortPair(selfID, senderID)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friend_edges WHERE user_lo=$1 AND user_hi=$2 AND status=$3 AND requester_id=$4`,
		lo, hi, models.EdgePending, senderID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrNoSuchRequest)
}

// RemoveFriend deletes the friendship between two users. Removing a
// non-friend is a no-op success.
func (r *FriendRepo) RemoveFriend(ctx context.Context, selfID, otherID int) error {
	lo, hi := sortPair(selfID, otherID)
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM friend_edges WHERE user_lo=$1 AND user_hi=$2 AND status=$3`,
		lo, hi, models.EdgeAccepted)
	return err
}

// ListFriends returns the user's friends.
func (r *FriendRepo) ListFriends(ctx context.Context, userID int) ([]models.UserSummary, error) {
	return r.listCounterparts(ctx, userID,
		`SELECT p.id, p.display_name, p.avatar_url, p.bio, p.is_private
         FROM profiles p
         JOIN friend_edges e ON (e.user_lo = p.id OR e.user_hi = p.id)
         WHERE (e.user_lo=$1 OR e.user_hi=$1) AND p.id <> $1 AND e.status='accepted'
         ORDER BY p.display_name, p.id`)
}

// ListSentRequests returns users the caller has a pending request to.
func (r *FriendRepo) ListSentRequests(ctx context.Context, userID int) ([]models.UserSummary, error) {
	return r.listCounterparts(ctx, userID,
		`SELECT p.id, p.display_name, p.avatar_url, p.bio, p.is_private
         FROM profiles p
         JOIN friend_edges e ON (e.user_lo = p.id OR e.user_hi = p.id)
         WHERE (e.user_lo=$1 OR e.user_hi=$1) AND p.id <> $1
           AND e.status='pending' AND e.requester_id=$1
         ORDER BY p.display_name, p.id`)
}

// ListReceivedRequests returns users awaiting the caller's decision.
func (r *FriendRepo) ListReceivedRequests(ctx context.Context, userID int) ([]models.UserSummary, error) {
	return r.listCounterparts(ctx, userID,
		`SELECT p.id, p.display_name, p.avatar_url, p.bio, p.is_private
         FROM profiles p
         JOIN friend_edges e ON (e.user_lo = p.id OR e.user_hi = p.id)
         WHERE (e.user_lo=$1 OR e.user_hi=$1) AND p.id <> $1
           AND e.status='pending' AND e.requester_id <> $1
         ORDER BY p.display_name, p.id`)
}

// AreFriends reports whether an accepted edge exists between two users.
func (r *FriendRepo) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	lo, hi := sortPair(userID, otherID)
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM friend_edges WHERE user_lo=$1 AND user_hi=$2 AND status=$3)`,
		lo, hi, models.EdgeAccepted)
	return exists, err
}

func (r *FriendRepo) listCounterparts(ctx context.Context, userID int, query string) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID)
	return users, err
}

func (r *FriendRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
