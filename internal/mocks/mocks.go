package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"realtyshare/internal/models"
	"realtyshare/internal/repositories"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) CreateProfile(ctx context.Context, email, passwordHash, displayName string) (models.Profile, error) {
	args := m.Called(ctx, email, passwordHash, displayName)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	args := m.Called(ctx, email)
	var p models.Profile
	if val := args.Get(0); val != nil {
		p = val.(models.Profile)
	}
	return p, args.Error(1)
}

func (m *ProfileRepositoryMock) GetProfileView(ctx context.Context, userID int) (models.ProfileView, error) {
	args := m.Called(ctx, userID)
	var v models.ProfileView
	if val := args.Get(0); val != nil {
		v = val.(models.ProfileView)
	}
	return v, args.Error(1)
}

func (m *ProfileRepositoryMock) ListProfiles(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *ProfileRepositoryMock) UpdateProfile(ctx context.Context, userID int, displayName, avatarURL, bio string, isPrivate bool) error {
	args := m.Called(ctx, userID, displayName, avatarURL, bio, isPrivate)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) SetRole(ctx context.Context, userID int, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) DeleteProfile(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type TokenRepositoryMock struct {
	mock.Mock
}

func (m *TokenRepositoryMock) StoreToken(ctx context.Context, userID int, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *TokenRepositoryMock) ResolveToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func (m *TokenRepositoryMock) RevokeTokens(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) SendRequest(ctx context.Context, selfID, otherID int) error {
	args := m.Called(ctx, selfID, otherID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) AcceptRequest(ctx context.Context, selfID, senderID int) error {
	args := m.Called(ctx, selfID, senderID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RejectRequest(ctx context.Context, selfID, senderID int) error {
	args := m.Called(ctx, selfID, senderID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) RemoveFriend(ctx context.Context, selfID, otherID int) error {
	args := m.Called(ctx, selfID, otherID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, userID int) ([]models.UserSummary, error) {
	args := m.Called(ctx, userID)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *FriendRepositoryMock) ListSentRequests(ctx context.Context, userID int) ([]models.UserSummary, error) {
	args := m.Called(ctx, userID)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *FriendRepositoryMock) ListReceivedRequests(ctx context.Context, userID int) ([]models.UserSummary, error) {
	args := m.Called(ctx, userID)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *FriendRepositoryMock) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) GetOrCreateRoom(ctx context.Context, userID, otherID int) (models.ChatRoom, error) {
	args := m.Called(ctx, userID, otherID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomID int) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) IsParticipant(ctx context.Context, roomID, userID int) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepositoryMock) ListRoomsForUser(ctx context.Context, userID int) ([]models.RoomSummary, error) {
	args := m.Called(ctx, userID)
	var rooms []models.RoomSummary
	if val := args.Get(0); val != nil {
		rooms = val.([]models.RoomSummary)
	}
	return rooms, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, roomID, senderID, receiverID int, content string) (models.Message, error) {
	args := m.Called(ctx, roomID, senderID, receiverID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, roomID int) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type MediaRepositoryMock struct {
	mock.Mock
}

func (m *MediaRepositoryMock) CreateMedia(ctx context.Context, ownerID int, mediaURL, mediaType, fileName string) (models.MediaItem, error) {
	args := m.Called(ctx, ownerID, mediaURL, mediaType, fileName)
	var item models.MediaItem
	if val := args.Get(0); val != nil {
		item = val.(models.MediaItem)
	}
	return item, args.Error(1)
}

func (m *MediaRepositoryMock) GetMedia(ctx context.Context, mediaID int) (models.MediaItem, error) {
	args := m.Called(ctx, mediaID)
	var item models.MediaItem
	if val := args.Get(0); val != nil {
		item = val.(models.MediaItem)
	}
	return item, args.Error(1)
}

func (m *MediaRepositoryMock) ListMedia(ctx context.Context, viewerID int) ([]models.MediaItemView, error) {
	args := m.Called(ctx, viewerID)
	var items []models.MediaItemView
	if val := args.Get(0); val != nil {
		items = val.([]models.MediaItemView)
	}
	return items, args.Error(1)
}

func (m *MediaRepositoryMock) ToggleLike(ctx context.Context, mediaID, userID int) (bool, error) {
	args := m.Called(ctx, mediaID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MediaRepositoryMock) DeleteMedia(ctx context.Context, mediaID int) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}

var _ repositories.ProfileRepository = (*ProfileRepositoryMock)(nil)
var _ repositories.TokenRepository = (*TokenRepositoryMock)(nil)
var _ repositories.FriendRepository = (*FriendRepositoryMock)(nil)
var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.MediaRepository = (*MediaRepositoryMock)(nil)
