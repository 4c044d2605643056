package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtyshare/internal/auth"
	"realtyshare/internal/models"
	"realtyshare/internal/observability"
	"realtyshare/internal/presence"
	"realtyshare/internal/repositories"
	"realtyshare/internal/telemetry"
)

// AuthHandler manages signup, login, logout and account deletion.
type AuthHandler struct {
	profileRepo repositories.ProfileRepository
	tokenRepo   repositories.TokenRepository
	tracker     *presence.Tracker
	audit       *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(profileRepo repositories.ProfileRepository, tokenRepo repositories.TokenRepository, tracker *presence.Tracker, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{profileRepo: profileRepo, tokenRepo: tokenRepo, tracker: tracker, audit: audit}
}

// SignUp creates the profile on first successful authentication and logs
// the new user in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		DisplayName string `json:"display_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	profile, err := h.profileRepo.CreateProfile(c.Request.Context(), req.Email, hash, req.DisplayName)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	token, err := h.issueToken(c, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.emitAudit(c, "info", "user signed up", profile.ID)
	c.JSON(http.StatusCreated, gin.H{"user_id": profile.ID, "token": token})
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileRepo.GetProfileByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if err := auth.VerifyPassword(profile.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.issueToken(c, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.emitAudit(c, "info", "user logged in", profile.ID)
	c.JSON(http.StatusOK, gin.H{"user_id": profile.ID, "token": token, "role": profile.Role})
}

// Logout revokes the caller's tokens and marks them offline.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetInt("userID")
	if err := h.tokenRepo.RevokeTokens(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	if h.tracker != nil {
		_ = h.tracker.Set(c.Request.Context(), userID, models.PresenceOffline)
	}
	h.emitAudit(c, "info", "user logged out", userID)
	c.Status(http.StatusNoContent)
}

// DeleteAccount re-verifies the password and removes the profile. Tokens
// and friend edges cascade; chat history is retained.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	profile, err := h.profileRepo.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if err := auth.VerifyPassword(profile.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.profileRepo.DeleteProfile(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	if h.tracker != nil {
		_ = h.tracker.Set(c.Request.Context(), userID, models.PresenceOffline)
	}
	h.emitAudit(c, "warn", "account deleted", userID)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(c *gin.Context, userID int) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}
	if err := h.tokenRepo.StoreToken(c.Request.Context(), userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string, userID int) {
	uid := strconv.Itoa(userID)
	h.audit.Emit(c.Request.Context(), level, text, observability.RequestIDFromRequest(c.Request), &uid)
}
