// Package middleware provides HTTP middleware for the ledger gateway.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/billie-crm/backend/internal/infrastructure/auth"
	"github.com/billie-crm/backend/internal/infrastructure/logger"
	"github.com/billie-crm/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated request data
const (
	AuthClaimsKey   = "auth_claims"
	AuthUserIDKey   = "auth_user_id"
	AuthUsernameKey = "auth_username"

	authHeaderKey = "Authorization"
	apiKeyHeader  = "X-API-Key"
	bearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware.
type AuthConfig struct {
	// Verifier validates bearer tokens issued by the identity service.
	Verifier *auth.TokenVerifier
	// APIKeys optionally allows machine callers in via X-API-Key.
	APIKeys *auth.APIKeyVerifier
	// SkipPaths are exact paths that never require authentication.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that never require authentication.
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultAuthConfig returns the middleware configuration with the standard
// unauthenticated surface: health probes, metrics and API docs.
func DefaultAuthConfig(verifier *auth.TokenVerifier) AuthConfig {
	return AuthConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/healthz",
			"/readyz",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
	}
}

// RequireAuth creates the gateway authentication middleware. Requests carry
// either a bearer token from the identity service or a configured service
// API key; everything else is rejected with 401.
func RequireAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if cfg.APIKeys != nil && cfg.APIKeys.Enabled() {
			if key := c.GetHeader(apiKeyHeader); key != "" {
				if cfg.APIKeys.Verify(key) {
					c.Set(AuthUserIDKey, "service")
					c.Next()
					return
				}
				rejectUnauthorized(c, cfg, nil, "invalid API key")
				return
			}
		}

		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			rejectUnauthorized(c, cfg, nil, "missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			rejectUnauthorized(c, cfg, nil, "authorization header is not a bearer token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := cfg.Verifier.Verify(tokenString)
		if err != nil {
			rejectUnauthorized(c, cfg, err, "token verification failed")
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func rejectUnauthorized(c *gin.Context, cfg AuthConfig, err error, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("request rejected",
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	message := "authentication required"
	switch err {
	case auth.ErrExpiredToken:
		message = "session has expired"
	case auth.ErrWrongIssuer, auth.ErrInvalidToken, auth.ErrInvalidClaims:
		message = "invalid session token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
}

// GetAuthClaims retrieves verified claims from the request context.
func GetAuthClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(AuthClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAuthUserID retrieves the authenticated user ID, or "" when absent.
func GetAuthUserID(c *gin.Context) string {
	if v, exists := c.Get(AuthUserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetAuthUsername retrieves the authenticated username, or "" when absent.
func GetAuthUsername(c *gin.Context) string {
	if v, exists := c.Get(AuthUsernameKey); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
