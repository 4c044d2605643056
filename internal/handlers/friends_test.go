package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtyshare/internal/mocks"
	"realtyshare/internal/models"
	"realtyshare/internal/repositories"
)

func setupFriendsRouter(handler *FriendsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/friends", handler.ListFriends)
	r.GET("/friends/requests/sent", handler.ListSentRequests)
	r.GET("/friends/requests/received", handler.ListReceivedRequests)
	r.POST("/friends/requests", handler.SendRequest)
	r.POST("/friends/requests/:user_id/accept", handler.AcceptRequest)
	r.POST("/friends/requests/:user_id/reject", handler.RejectRequest)
	r.DELETE("/friends/:user_id", handler.RemoveFriend)
	return r
}

func TestSendRequestSuccess(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("SendRequest", mock.Anything, 1, 2).Return(nil).Once()

	body := bytes.NewBufferString(`{"user_id":2}`)
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestSendRequestToSelf(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("SendRequest", mock.Anything, 1, 1).Return(repositories.ErrSelfRequest).Once()

	body := bytes.NewBufferString(`{"user_id":1}`)
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestSendRequestConflicts(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already friends", repositories.ErrAlreadyFriends},
		{"already requested", repositories.ErrAlreadyRequested},
		{"reciprocal pending", repositories.ErrReciprocalPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			friendRepo := new(mocks.FriendRepositoryMock)
			router := setupFriendsRouter(NewFriendsHandler(friendRepo))

			friendRepo.On("SendRequest", mock.Anything, 1, 2).Return(tc.err).Once()

			body := bytes.NewBufferString(`{"user_id":2}`)
			req := httptest.NewRequest(http.MethodPost, "/friends/requests", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusConflict, rec.Code)
			friendRepo.AssertExpectations(t)
		})
	}
}

func TestSendRequestUnknownUser(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("SendRequest", mock.Anything, 1, 99).Return(repositories.ErrProfileNotFound).Once()

	body := bytes.NewBufferString(`{"user_id":99}`)
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestSendRequestBadBody(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	friendRepo.AssertNotCalled(t, "SendRequest")
}

func TestAcceptRequestSuccess(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("AcceptRequest", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/2/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestAcceptRequestNotPending(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("AcceptRequest", mock.Anything, 1, 2).Return(repositories.ErrNoSuchRequest).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/2/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestRejectRequestSuccess(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("RejectRequest", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/2/reject", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	friendRepo.AssertExpectations(t)
}

func TestRemoveFriendIdempotent(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	// removing a non-friend is a no-op success at the repo level
	friendRepo.On("RemoveFriend", mock.Anything, 1, 2).Return(nil).Twice()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/friends/2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	friendRepo.AssertExpectations(t)
}

func TestRemoveFriendBadID(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	req := httptest.NewRequest(http.MethodDelete, "/friends/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	friendRepo.AssertNotCalled(t, "RemoveFriend")
}

func TestListFriendsSuccess(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("ListFriends", mock.Anything, 1).
		Return([]models.UserSummary{{ID: 2, DisplayName: "bob"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users []models.UserSummary `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, 2, resp.Users[0].ID)
	friendRepo.AssertExpectations(t)
}

func TestListFriendsEmpty(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("ListFriends", mock.Anything, 1).Return(([]models.UserSummary)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[]}`, rec.Body.String())
	friendRepo.AssertExpectations(t)
}

func TestListReceivedRequestsRepoError(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	router := setupFriendsRouter(NewFriendsHandler(friendRepo))

	friendRepo.On("ListReceivedRequests", mock.Anything, 1).
		Return(([]models.UserSummary)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/friends/requests/received", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	friendRepo.AssertExpectations(t)
}
