package repositories

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"realtyshare/internal/models"
)

// MaxMessageLen is the upper bound on message text length, in characters.
const MaxMessageLen = 500

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrMessageTooLong = errors.New("message text exceeds 500 characters")
	ErrMessageHasLink = errors.New("message text may not contain links")
)

// Matches http(s) and bare www links.
var linkPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

// ValidateContent applies the message content rules: non-empty after
// trimming, at most MaxMessageLen characters, no URLs.
func ValidateContent(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLen {
		return ErrMessageTooLong
	}
	if linkPattern.MatchString(trimmed) {
		return ErrMessageHasLink
	}
	return nil
}

// MessageRepository persists the append-only per-room message log.
type MessageRepository interface {
	CreateMessage(ctx context.Context, roomID, senderID, receiverID int, content string) (models.Message, error)
	ListMessages(ctx context.Context, roomID int) ([]models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage validates the content, appends the message with a
// server-assigned timestamp, and refreshes the room's last-message summary
// in the same transaction.
func (r *MessageRepo) CreateMessage(ctx context.Context, roomID, senderID, receiverID int, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if err := ValidateContent(content); err != nil {
		return models.Message{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	var msg models.Message
	if err := tx.QueryRowxContext(ctx,
		`INSERT INTO messages (room_id, sender_id, receiver_id, content) VALUES ($1, $2, $3, $4)
         RETURNING id, room_id, sender_id, receiver_id, content, created_at`,
		roomID, senderID, receiverID, content).StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_rooms SET last_message_at=$2, last_message_text=$3 WHERE id=$1`,
		roomID, msg.CreatedAt, msg.Content); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListMessages returns the full ordered log for a room, oldest first.
func (r *MessageRepo) ListMessages(ctx context.Context, roomID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, room_id, sender_id, receiver_id, content, created_at
         FROM messages WHERE room_id=$1 ORDER BY created_at ASC, id ASC`, roomID)
	return msgs, err
}
