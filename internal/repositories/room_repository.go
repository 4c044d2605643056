package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtyshare/internal/models"
)

var (
	ErrRoomNotFound = errors.New("chat room not found")
	ErrSelfRoom     = errors.New("cannot open a chat room with yourself")
)

const roomColumns = `id, user_lo, user_hi, created_at, last_message_at, last_message_text`

// RoomRepository abstracts chat room persistence.
type RoomRepository interface {
	GetOrCreateRoom(ctx context.Context, userID, otherID int) (models.ChatRoom, error)
	GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error)
	IsParticipant(ctx context.Context, roomID, userID int) (bool, error)
	ListRoomsForUser(ctx context.Context, userID int) ([]models.RoomSummary, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// GetOrCreateRoom returns the single room for the unordered user pair,
// creating it on first contact. The sorted-pair unique constraint is the
// concurrency guard: both participants may call this at once and still end
// up with the same room.
func (r *RoomRepo) GetOrCreateRoom(ctx context.Context, userID, otherID int) (models.ChatRoom, error) {
	if userID == otherID {
		return models.ChatRoom{}, ErrSelfRoom
	}
	lo, hi := sortPair(userID, otherID)

	var room models.ChatRoom
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO chat_rooms (user_lo, user_hi) VALUES ($1, $2)
         ON CONFLICT (user_lo, user_hi) DO NOTHING
         RETURNING `+roomColumns, lo, hi).StructScan(&room)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, err
	}
	// lost the insert race or the room already existed; read it back
	err = r.db.GetContext(ctx, &room,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE user_lo=$1 AND user_hi=$2`, lo, hi)
	return room, err
}

// GetRoom fetches a room by id.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM chat_rooms WHERE id=$1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	return room, err
}

// IsParticipant checks whether a user belongs to the room.
func (r *RoomRepo) IsParticipant(ctx context.Context, roomID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_rooms WHERE id=$1 AND (user_lo=$2 OR user_hi=$2))`, roomID, userID)
	return exists, err
}

// ListRoomsForUser returns the user's rooms, most recent activity first.
func (r *RoomRepo) ListRoomsForUser(ctx context.Context, userID int) ([]models.RoomSummary, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT `+roomColumns+` FROM chat_rooms WHERE user_lo=$1 OR user_hi=$1
         ORDER BY last_message_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.RoomSummary
	for rows.Next() {
		var room models.ChatRoom
		if err := rows.StructScan(&room); err != nil {
			return nil, err
		}
		result = append(result, models.RoomSummary{
			RoomID:          room.ID,
			FriendID:        room.Other(userID),
			CreatedAt:       room.CreatedAt,
			LastMessageAt:   room.LastMessageAt,
			LastMessageText: room.LastMessageText,
		})
	}
	return result, rows.Err()
}
