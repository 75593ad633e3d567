package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ristorante/site/internal/auth"
	"github.com/ristorante/site/internal/sessions"
	"github.com/ristorante/site/internal/tokens"
	"github.com/ristorante/site/pkg/logger"
	"github.com/ristorante/site/pkg/middleware"
)

// LoginRequest carries the static admin credential.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	creds     auth.Credentials
	issuer    *tokens.Issuer
	sessions  *sessions.Service
	blacklist *sessions.Blacklist
}

func NewAuthHandler(creds auth.Credentials, issuer *tokens.Issuer, s *sessions.Service, bl *sessions.Blacklist) *AuthHandler {
	return &AuthHandler{creds: creds, issuer: issuer, sessions: s, blacklist: bl}
}

// Register routes under /auth. limit, when given, guards the login route.
func (h *AuthHandler) Register(rg gin.IRouter, limit ...gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", append(limit, h.Login)...)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
}

// Login checks the admin credential and opens a refresh session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.creds.Check(req.Username, req.Password); err != nil {
		logger.Warnf("failed admin login for %q from %s", req.Username, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenziali non valide / Invalid credentials"})
		return
	}
	rft, err := h.sessions.CreateSession(c.Request.Context(), req.Username)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, _, err := h.issuer.Issue(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": rft,
		"expiresIn":    int(h.issuer.TTL().Seconds()),
		"user":         gin.H{"username": req.Username},
	})
}

// Refresh rotates the refresh token and returns a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, next, err := h.sessions.Rotate(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, sessions.ErrInvalidRefresh) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if err != nil {
		logger.Errorf("refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	access, _, err := h.issuer.Issue(sess.Sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": next, "expires_in": int(h.issuer.TTL().Seconds())})
}

// Logout drops the refresh session and blacklists the presented access token
// for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if at, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		if exp, err := tokens.ExpiresAt(at); err == nil {
			if err := h.blacklist.Revoke(c.Request.Context(), at, time.Until(exp)); err != nil {
				logger.Errorf("failed to blacklist access token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
				return
			}
		}
	}
	if err := h.sessions.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
