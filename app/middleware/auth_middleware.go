// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// Authenticate validates the operator access token and stores its claims in locals
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", "MISSING_AUTHORIZATION_HEADER")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'", "INVALID_AUTHORIZATION_FORMAT")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return unauthorized(c, "Access token is required", "MISSING_ACCESS_TOKEN")
		}

		// Validation also checks revocation
		claims, err := m.tokenService.ValidateOperatorToken(token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				return unauthorized(c, "Access token has expired", "TOKEN_EXPIRED")
			case errors.Is(err, services.ErrTokenRevoked):
				return unauthorized(c, "Access token has been revoked", "TOKEN_REVOKED")
			default:
				return unauthorized(c, "Invalid access token", "TOKEN_INVALID")
			}
		}
		if claims.TokenType != services.TokenTypeAccess {
			return unauthorized(c, "Invalid access token", "TOKEN_INVALID")
		}

		c.Locals(utils.LocalOperatorID, claims.OperatorID)
		c.Locals(utils.LocalUsername, claims.Username)
		c.Locals(utils.LocalRoleID, claims.RoleID)
		c.Locals(utils.LocalTokenID, claims.TokenID)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals(utils.LocalRequestID, requestID)
		}

		return c.Next()
	}
}

// GetOperatorIDFromContext extracts the operator ID set by Authenticate
func GetOperatorIDFromContext(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(utils.LocalOperatorID).(uint)
	return id, ok && id != 0
}

// GetRoleIDFromContext extracts the role ID set by Authenticate
func GetRoleIDFromContext(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(utils.LocalRoleID).(uint)
	return id, ok && id != 0
}

// GetUsernameFromContext extracts the username set by Authenticate
func GetUsernameFromContext(c fiber.Ctx) (string, bool) {
	name, ok := c.Locals(utils.LocalUsername).(string)
	return name, ok && name != ""
}
