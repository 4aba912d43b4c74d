package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTEmailKey   = "jwt_email"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth creates JWT authentication middleware. Requests without a valid
// bearer token are rejected with 401.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, jwtService)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth parses a bearer token when one is present but never
// rejects the request. Used for endpoints that serve both guests and
// authenticated users.
func OptionalJWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) != "" {
			claims, err := claimsFromRequest(c, jwtService)
			if err != nil {
				abortUnauthorized(c, err)
				return
			}
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin access required"))
			return
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		return nil, auth.ErrInvalidToken
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return nil, auth.ErrInvalidToken
	}
	return jwtService.ValidateToken(tokenString)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTEmailKey, claims.Email)
	c.Set(JWTRoleKey, claims.Role)

	// Propagate the user ID into the request context for logging
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeTokenInvalid
	message := "Invalid or missing authentication token"
	if errors.Is(err, auth.ErrExpiredToken) {
		code = dto.ErrCodeTokenExpired
		message = "Authentication token has expired"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetJWTClaims returns the validated claims set by the auth middleware,
// or nil when the request is unauthenticated
func GetJWTClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetJWTUserID returns the authenticated user ID, or "" for guests
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTRole returns the authenticated user's role, or "" for guests
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
