package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/bloodbank/backend/internal/infrastructure/auth"
	"github.com/bloodbank/backend/internal/infrastructure/logger"
	"github.com/bloodbank/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
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

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithCode(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithCode(c, dto.ErrCodeTokenInvalid, "Token validation failed")
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			abortWithCode(c, dto.ErrCodeTokenInvalid, "Token carries no usable identity")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)

		// Propagate identity to the request-scoped logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("authenticated request",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.String("path", path),
			)
		}

		c.Next()
	}
}

// GetActor returns the authenticated actor stored by the JWT middleware.
// The zero Actor is returned for unauthenticated requests.
func GetActor(c *gin.Context) stock.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(stock.Actor); ok {
			return actor
		}
	}
	return stock.Actor{}
}

// GetClaims returns the validated JWT claims, if any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithCode(c, dto.ErrCodeUnauthorized, message)
}

func abortWithCode(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
