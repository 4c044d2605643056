package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"realtyshare/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already in use")
)

const profileColumns = `id, email, password_hash, display_name, avatar_url, bio, is_private, role, created_at`

// ProfileRepository abstracts profile persistence.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, email, passwordHash, displayName string) (models.Profile, error)
	GetProfile(ctx context.Context, userID int) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	GetProfileView(ctx context.Context, userID int) (models.ProfileView, error)
	ListProfiles(ctx context.Context) ([]models.UserSummary, error)
	UpdateProfile(ctx context.Context, userID int, displayName, avatarURL, bio string, isPrivate bool) error
	SetRole(ctx context.Context, userID int, role string) error
	DeleteProfile(ctx context.Context, userID int) error
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// CreateProfile inserts a new profile with default role and empty optional fields.
func (r *ProfileRepo) CreateProfile(ctx context.Context, email, passwordHash, displayName string) (models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO profiles (email, password_hash, display_name) VALUES ($1, $2, $3)
         ON CONFLICT (email) DO NOTHING
         RETURNING `+profileColumns,
		email, passwordHash, displayName).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrEmailTaken
	}
	return p, err
}

// GetProfile fetches a profile by id.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// GetProfileByEmail fetches a profile by email.
func (r *ProfileRepo) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// GetProfileView returns the profile with its relationship sets assembled
// from the friend edge table and room participation.
func (r *ProfileRepo) GetProfileView(ctx context.Context, userID int) (models.ProfileView, error) {
	profile, err := r.GetProfile(ctx, userID)
	if err != nil {
		return models.ProfileView{}, err
	}
	view := models.ProfileView{
		Profile:          profile,
		Friends:          []int{},
		SentRequests:     []int{},
		ReceivedRequests: []int{},
		ChatRooms:        []int{},
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT user_lo, user_hi, status, requester_id FROM friend_edges WHERE user_lo=$1 OR user_hi=$1`, userID)
	if err != nil {
		return models.ProfileView{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var lo, hi, requester int
		var status string
		if err := rows.Scan(&lo, &hi, &status, &requester); err != nil {
			return models.ProfileView{}, err
		}
		other := lo
		if other == userID {
			other = hi
		}
		switch {
		case status == models.EdgeAccepted:
			view.Friends = append(view.Friends, other)
		case requester == userID:
			view.SentRequests = append(view.SentRequests, other)
		default:
			view.ReceivedRequests = append(view.ReceivedRequests, other)
		}
	}
	if err := rows.Err(); err != nil {
		return models.ProfileView{}, err
	}

	if err := r.db.SelectContext(ctx, &view.ChatRooms,
		`SELECT id FROM chat_rooms WHERE user_lo=$1 OR user_hi=$1 ORDER BY id`, userID); err != nil {
		return models.ProfileView{}, err
	}
	return view, nil
}

// ListProfiles returns public summaries of every profile.
func (r *ProfileRepo) ListProfiles(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, display_name, avatar_url, bio, is_private FROM profiles ORDER BY display_name, id`)
	return users, err
}

// UpdateProfile applies an edit to the mutable profile fields.
func (r *ProfileRepo) UpdateProfile(ctx context.Context, userID int, displayName, avatarURL, bio string, isPrivate bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET display_name=$2, avatar_url=$3, bio=$4, is_private=$5 WHERE id=$1`,
		userID, displayName, avatarURL, bio, isPrivate)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProfileNotFound)
}

// SetRole updates the role field.
func (r *ProfileRepo) SetRole(ctx context.Context, userID int, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET role=$2 WHERE id=$1`, userID, role)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProfileNotFound)
}

// DeleteProfile removes the profile record. Tokens and friend edges cascade;
// chat history is deliberately retained.
func (r *ProfileRepo) DeleteProfile(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrProfileNotFound)
}

func requireRow(res sql.Result, missing error) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return missing
	}
	return nil
}
