package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"shop-backend/internal/domain"
	usersvc "shop-backend/internal/service/user"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const userCtxKey ctxKey = "shop/user"

func authMiddleware(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorPayload("Unauthorized", "missing bearer token", ""))
			return
		}
		u, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorPayload("Unauthorized", "invalid or expired token", ""))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorPayload("Internal", "token lookup failed", ""))
			return
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userCtxKey, u))
		c.Next()
	}
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	u, ok := c.Request.Context().Value(userCtxKey).(*domain.User)
	return u, ok
}

// rateLimitMiddleware applies the shared fixed-window budget per user.
// A broken counter backend fails open.
func rateLimitMiddleware(logger *log.Logger, limiter rateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		scope := c.ClientIP()
		if u, ok := currentUser(c); ok {
			scope = u.ID
		}
		allowed, err := limiter.Allow(c.Request.Context(), scope)
		if err != nil {
			logger.Printf("rate limiter: %v", err)
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorPayload("RateLimited", "request rate exceeded, slow down", ""))
			return
		}
		c.Next()
	}
}
