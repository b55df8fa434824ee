package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/relyexchange/internal/handlers/dto"
	"github.com/thereayou/relyexchange/internal/services"
	"github.com/thereayou/relyexchange/pkg/auth"
)

// TokenRevoker blacklists a token for the rest of its lifetime.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AuthHandler struct {
	users      *services.UserService
	jwtManager *auth.JWTManager
	revoker    TokenRevoker
}

func NewAuthHandler(users *services.UserService, jwtMgr *auth.JWTManager, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtMgr, revoker: revoker}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		LoginBy:  req.LoginBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if services.IsNotFoundOrUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)})
}

// Logout blacklists the presented token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.revoker.Revoke(c.Request.Context(), rawToken, time.Until(exp)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
		return
	}

	c.Status(http.StatusOK)
}
