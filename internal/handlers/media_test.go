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

func setupMediaRouter(mediaRepo *mocks.MediaRepositoryMock, profileRepo *mocks.ProfileRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewMediaHandler(mediaRepo, profileRepo)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/media", handler.ListMedia)
	r.POST("/media", handler.CreateMedia)
	r.POST("/media/:media_id/like", handler.ToggleLike)
	r.DELETE("/media/:media_id", handler.DeleteMedia)
	return r
}

func TestListMediaSuccess(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	mediaRepo.On("ListMedia", mock.Anything, 1).Return([]models.MediaItemView{
		{MediaItem: models.MediaItem{ID: 3, OwnerID: 2}, LikesCount: 4, LikedByMe: true},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Media []models.MediaItemView `json:"media"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Media, 1)
	assert.True(t, resp.Media[0].LikedByMe)
	mediaRepo.AssertExpectations(t)
}

func TestCreateMediaSuccess(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	mediaRepo.On("CreateMedia", mock.Anything, 1, "https://cdn.example.com/pic.jpg", "image", "pic.jpg").
		Return(models.MediaItem{ID: 3, OwnerID: 1}, nil).Once()

	body := bytes.NewBufferString(`{"media_url":"https://cdn.example.com/pic.jpg","media_type":"image","file_name":"pic.jpg"}`)
	req := httptest.NewRequest(http.MethodPost, "/media", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	mediaRepo.AssertExpectations(t)
}

func TestCreateMediaRejectsBadType(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	body := bytes.NewBufferString(`{"media_url":"https://cdn.example.com/x","media_type":"gif","file_name":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/media", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	mediaRepo.AssertNotCalled(t, "CreateMedia")
}

func TestToggleLikeFlips(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	mediaRepo.On("GetMedia", mock.Anything, 3).Return(models.MediaItem{ID: 3}, nil).Twice()
	mediaRepo.On("ToggleLike", mock.Anything, 3, 1).Return(true, nil).Once()
	mediaRepo.On("ToggleLike", mock.Anything, 3, 1).Return(false, nil).Once()

	for _, want := range []string{`{"liked":true}`, `{"liked":false}`} {
		req := httptest.NewRequest(http.MethodPost, "/media/3/like", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, want, rec.Body.String())
	}
	mediaRepo.AssertExpectations(t)
}

func TestToggleLikeMissingMedia(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	mediaRepo.On("GetMedia", mock.Anything, 99).
		Return(models.MediaItem{}, repositories.ErrMediaNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/media/99/like", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	mediaRepo.AssertNotCalled(t, "ToggleLike")
}

func TestDeleteMediaOwner(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	router := setupMediaRouter(mediaRepo, new(mocks.ProfileRepositoryMock))

	mediaRepo.On("GetMedia", mock.Anything, 3).Return(models.MediaItem{ID: 3, OwnerID: 1}, nil).Once()
	mediaRepo.On("DeleteMedia", mock.Anything, 3).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/media/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	mediaRepo.AssertExpectations(t)
}

func TestDeleteMediaForbiddenForStranger(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	router := setupMediaRouter(mediaRepo, profileRepo)

	mediaRepo.On("GetMedia", mock.Anything, 3).Return(models.MediaItem{ID: 3, OwnerID: 2}, nil).Once()
	profileRepo.On("GetProfile", mock.Anything, 1).Return(models.Profile{ID: 1, Role: models.RoleUser}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/media/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	mediaRepo.AssertNotCalled(t, "DeleteMedia")
}

func TestDeleteMediaAdminOverride(t *testing.T) {
	mediaRepo := new(mocks.MediaRepositoryMock)
	profileRepo := new(mocks.ProfileRepositoryMock)
	router := setupMediaRouter(mediaRepo, profileRepo)

	mediaRepo.On("GetMedia", mock.Anything, 3).Return(models.MediaItem{ID: 3, OwnerID: 2}, nil).Once()
	profileRepo.On("GetProfile", mock.Anything, 1).Return(models.Profile{ID: 1, Role: models.RoleAdmin}, nil).Once()
	mediaRepo.On("DeleteMedia", mock.Anything, 3).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/media/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	mediaRepo.AssertExpectations(t)
}
