package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// AuthHandlerInterface defines the operator authentication endpoints
type AuthHandlerInterface interface {
	InitCaptcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

type AuthHandler struct {
	baseHandler
	flow businessflow.OperatorAuthFlow
}

func NewAuthHandler(flow businessflow.OperatorAuthFlow, logger *zap.Logger) AuthHandlerInterface {
	return &AuthHandler{
		baseHandler: newBaseHandler(logger),
		flow:        flow,
	}
}

// InitCaptcha starts the operator login by returning a rotate captcha challenge
// @Summary Captcha init
// @Description Initialize rotate captcha for operator login (returns base64 images and challenge ID)
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CaptchaInitResponse} "Captcha initialized"
// @Failure 500 {object} dto.APIResponse "Failed to initialize captcha"
// @Router /api/v1/admin/auth/captcha [get]
func (h *AuthHandler) InitCaptcha(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/captcha")
	defer cancel()

	resp, err := h.flow.InitCaptcha(ctx)
	if err != nil {
		h.logger.Error("captcha init failed", zap.Error(err))
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Captcha init failed", "CAPTCHA_INIT_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Captcha initialized", resp)
}

// Login verifies the captcha and the operator credentials
// @Summary Operator login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.OperatorLoginRequest true "Login data"
// @Success 200 {object} dto.APIResponse{data=dto.OperatorLoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request or captcha"
// @Failure 401 {object} dto.APIResponse "Incorrect credentials"
// @Failure 403 {object} dto.APIResponse "Operator inactive"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.OperatorLoginRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/login")
	defer cancel()

	result, err := h.flow.Login(ctx, &req, h.clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsInvalidCaptcha(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid captcha", "INVALID_CAPTCHA", nil)
		case businessflow.IsOperatorNotFound(err), businessflow.IsIncorrectPassword(err):
			// same answer for an unknown username and a wrong password
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect username or password", "INVALID_CREDENTIALS", nil)
		case businessflow.IsOperatorInactive(err):
			return h.ErrorResponse(c, fiber.StatusForbidden, "Operator inactive", "OPERATOR_INACTIVE", nil)
		}
		h.logger.Error("operator login failed", zap.String("username", req.Username), zap.Error(err))
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.OperatorSessionDTO} "Tokens refreshed"
// @Failure 401 {object} dto.APIResponse "Invalid refresh token"
// @Router /api/v1/admin/auth/refresh [post]
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/refresh")
	defer cancel()

	session, err := h.flow.Refresh(ctx, &req)
	if err != nil {
		if businessflow.IsOperatorInactive(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Operator inactive", "OPERATOR_INACTIVE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", "TOKEN_INVALID", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Tokens refreshed", session)
}

// Logout revokes the caller's access token
// @Summary Operator logout
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/admin/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/logout")
	defer cancel()

	if err := h.flow.Logout(ctx, token); err != nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid access token", "TOKEN_INVALID", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}
