package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
)

// PermissionChecker resolves whether a role holds a menu permission
type PermissionChecker interface {
	HasPermission(ctx context.Context, roleID uint, code string) (bool, error)
}

// PermissionMiddleware guards routes by menu permission codes. It must run after Authenticate.
type PermissionMiddleware struct {
	checker PermissionChecker
	logger  *zap.Logger
}

func NewPermissionMiddleware(checker PermissionChecker, logger *zap.Logger) *PermissionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionMiddleware{checker: checker, logger: logger}
}

// Require rejects the request with 403 unless the caller's role was granted code
func (m *PermissionMiddleware) Require(code string) fiber.Handler {
	return func(c fiber.Ctx) error {
		roleID, ok := GetRoleIDFromContext(c)
		if !ok {
			return unauthorized(c, "Authentication required", "AUTHENTICATION_REQUIRED")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		allowed, err := m.checker.HasPermission(ctx, roleID, code)
		if err != nil {
			m.logger.Error("permission check failed",
				zap.Uint("role_id", roleID),
				zap.String("permission", code),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
				Success: false,
				Message: "Failed to check permissions",
				Error:   dto.ErrorDetail{Code: "PERMISSION_CHECK_FAILED"},
			})
		}
		if !allowed {
			permissionDenials.WithLabelValues(code).Inc()
			return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
				Success: false,
				Message: "You do not have permission to perform this action",
				Error:   dto.ErrorDetail{Code: "PERMISSION_DENIED", Details: fiber.Map{"permission": code}},
			})
		}
		return c.Next()
	}
}
