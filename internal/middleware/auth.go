package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/relyexchange/pkg/auth"
)

const UserIDKey = "userID"

// RevocationChecker reports whether a token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware requires a bearer token in the Authorization header.
func AuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		authenticate(c, jwtManager, revoked, token)
	}
}

// WSAuthMiddleware also accepts the token as a query parameter, since
// browsers cannot set headers on websocket upgrades.
func WSAuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = parts[1]
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		authenticate(c, jwtManager, revoked, token)
	}
}

func authenticate(c *gin.Context, jwtManager *auth.JWTManager, revoked RevocationChecker, token string) {
	isRevoked, err := revoked.IsRevoked(c.Request.Context(), token)
	if err != nil || isRevoked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
		return
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		return
	}

	c.Set(UserIDKey, userID)
	c.Next()
}

// RequireSelf lets a request through only when the path parameter names the
// authenticated user.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathID, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id format. Must be a UUID."})
			return
		}
		if pathID != CurrentUserID(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the id set by AuthMiddleware, or uuid.Nil.
func CurrentUserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
