package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"reminderx/database/repository"
	"reminderx/models"
	"reminderx/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Context keys set by FirebaseAuthMiddleware.
const (
	ContextFirebaseUID = "firebaseUID"
	ContextUserID      = "userID"
)

// TokenVerifier is the subset of *auth.Client used to verify ID tokens.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type UserLookup interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
}

// FirebaseAuthMiddleware verifies the bearer ID token and resolves the
// caller's user id, caching uid -> id in Redis. With allowUnregistered, a
// verified caller without a user record passes with only the uid set.
func FirebaseAuthMiddleware(verifier TokenVerifier, users UserLookup, cache *redis.Client, allowUnregistered bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			logger.Debug("ID token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(ContextFirebaseUID, token.UID)

		if userID := cachedUserID(c.Request.Context(), cache, token.UID); userID != "" {
			c.Set(ContextUserID, userID)
			c.Next()
			return
		}

		user, err := users.GetByFirebaseUID(c.Request.Context(), token.UID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if allowUnregistered {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		case err != nil:
			logger.Error("user lookup failed", zap.String("uid", token.UID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate user"})
			return
		}

		if cache != nil {
			if err := cache.Set(c.Request.Context(), utils.AuthCachePrefix+token.UID, user.ID, utils.AuthCacheTTL).Err(); err != nil {
				logger.Warn("failed to cache auth session", zap.Error(err))
			}
		}
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

func cachedUserID(ctx context.Context, cache *redis.Client, uid string) string {
	if cache == nil {
		return ""
	}
	id, err := cache.Get(ctx, utils.AuthCachePrefix+uid).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("auth cache unavailable", zap.Error(err))
		}
		return ""
	}
	return id
}
