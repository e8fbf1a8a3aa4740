package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"procura/internal/core/apperror"
	appctx "procura/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth requires a valid bearer token and stores the caller in the request context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		user, verr := validator.ValidateToken(token)
		if verr != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token").WithCause(verr))
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth stores the caller when a valid bearer token is sent.
// Missing or invalid tokens leave the request anonymous.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c.GetHeader("Authorization")); err == nil {
			if user, verr := validator.ValidateToken(token); verr == nil && user != nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, *apperror.AppError) {
	if header == "" {
		return "", apperror.NewUnauthorized("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", apperror.NewUnauthorized("invalid authorization header format")
	}
	return token, nil
}

func setUser(c *gin.Context, user *appctx.UserContext) {
	c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
	c.Set("user_id", user.UserID)
}

// RequireRole middleware checks if user has required role.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			if slices.Contains(user.Roles, required) {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}
