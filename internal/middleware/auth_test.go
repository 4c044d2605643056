package middleware

import (
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

func setupAuthMiddlewareRouter(tokenRepo *mocks.TokenRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(tokenRepo))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("userID")})
	})
	return r
}

func TestAuthMiddlewareResolvesToken(t *testing.T) {
	tokenRepo := new(mocks.TokenRepositoryMock)
	router := setupAuthMiddlewareRouter(tokenRepo)

	tokenRepo.On("ResolveToken", mock.Anything, "abc123").Return(7, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
	tokenRepo.AssertExpectations(t)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthMiddlewareRouter(new(mocks.TokenRepositoryMock))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	tokenRepo := new(mocks.TokenRepositoryMock)
	router := setupAuthMiddlewareRouter(tokenRepo)

	tokenRepo.On("ResolveToken", mock.Anything, "stale").
		Return(0, repositories.ErrTokenNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddlewareBlocksNonAdmins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profileRepo := new(mocks.ProfileRepositoryMock)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.Use(AdminMiddleware(profileRepo))
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	profileRepo.On("GetProfile", mock.Anything, 1).
		Return(models.Profile{ID: 1, Role: models.RoleUser}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	profileRepo.AssertExpectations(t)
}
