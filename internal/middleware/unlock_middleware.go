package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffrevenue/revenue-manager/pkg/jwt"
)

// UnlockScopeKey is the gin context key holding the scope opened by the request's token
const UnlockScopeKey = "unlock_scope"

// RequireUnlock creates a middleware that lets a request through only when it
// carries a valid unlock token for scope. The token is issued by the payroll
// password and expenses PIN check endpoints.
func RequireUnlock(jwtService *jwt.Service, scope jwt.Scope, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"ip":    c.ClientIP(),
			"scope": scope,
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("UNLOCK FAILED: Missing authorization header")
			abortUnauthorized(c, "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		// Check Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("UNLOCK FAILED: Invalid auth format")
			abortUnauthorized(c, "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			log.Warn("UNLOCK FAILED: Empty token")
			abortUnauthorized(c, "Token cannot be empty", "INVALID_AUTH_FORMAT")
			return
		}

		claims, err := jwtService.ValidateUnlockToken(tokenString, scope)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				log.Info("UNLOCK FAILED: Token expired")
				abortUnauthorized(c, "Unlock token has expired. Please enter the password again.", "TOKEN_EXPIRED")
				return
			}
			log.WithError(err).Warn("UNLOCK FAILED: Invalid token")
			abortUnauthorized(c, "Invalid unlock token", "INVALID_TOKEN")
			return
		}

		c.Set(UnlockScopeKey, claims.Scope)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
		"code":    code,
	})
}

// Readiness is implemented by the store
type Readiness interface {
	IsReady() bool
}

// RequireStore answers 503 while the store is not ready to serve queries
func RequireStore(store Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.IsReady() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "store_unavailable",
				"message": "Database is not ready",
			})
			return
		}
		c.Next()
	}
}
