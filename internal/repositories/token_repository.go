package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenRepository persists bearer tokens.
type TokenRepository interface {
	StoreToken(ctx context.Context, userID int, token string) error
	ResolveToken(ctx context.Context, token string) (int, error)
	RevokeTokens(ctx context.Context, userID int) error
}

// TokenRepo is a sqlx implementation of TokenRepository.
type TokenRepo struct {
	db *sqlx.DB
}

// NewTokenRepo constructs a TokenRepo.
func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) StoreToken(ctx context.Context, userID int, token string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`, userID, token)
	return err
}

// ResolveToken maps a bearer token to the owning user id.
func (r *TokenRepo) ResolveToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM user_tokens WHERE token=$1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotFound
	}
	return userID, err
}

// RevokeTokens drops every token the user holds.
func (r *TokenRepo) RevokeTokens(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id=$1`, userID)
	return err
}
