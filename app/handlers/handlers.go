// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/utils"
)

const (
	requestTimeout  = 30 * time.Second
	defaultPageSize = 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// baseHandler carries the response helpers shared by every handler
type baseHandler struct {
	validator *validator.Validate
	logger    *zap.Logger
}

func newBaseHandler(logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{validator: validator.New(), logger: logger}
}

// ErrorResponse standard JSON error
func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *baseHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// bindJSON decodes and validates the body. When ok is false the error response was already written.
func (h *baseHandler) bindJSON(c fiber.Ctx, req any) (ok bool, err error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, getValidationErrorMessage(fe))
		}
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", messages)
	}
	return true, nil
}

// flowError maps a business flow error onto an HTTP status
func (h *baseHandler) flowError(c fiber.Ctx, err error, message string) error {
	code := "INTERNAL_ERROR"
	clientMessage := message
	var be *businessflow.BusinessError
	if errors.As(err, &be) {
		code = be.Code
		clientMessage = be.Message
	}

	switch {
	case businessflow.IsValidationError(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, clientMessage, code, nil)
	case businessflow.IsNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, clientMessage, code, nil)
	case businessflow.IsConflict(err):
		return h.ErrorResponse(c, fiber.StatusConflict, clientMessage, code, nil)
	case businessflow.IsPermissionDenied(err):
		return h.ErrorResponse(c, fiber.StatusForbidden, clientMessage, code, nil)
	}

	h.logger.Error(message,
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Any("request_id", c.Locals("requestid")),
		zap.Error(err),
	)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// createRequestContext builds the request-scoped context handed to flows
func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, requestTimeout)
}

func (h *baseHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	if id, ok := c.Locals(utils.LocalOperatorID).(uint); ok {
		ctx = context.WithValue(ctx, utils.OperatorIDKey, id)
	}
	if name, ok := c.Locals(utils.LocalUsername).(string); ok {
		ctx = context.WithValue(ctx, utils.UsernameKey, name)
	}
	return ctx, cancel
}

func (h *baseHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	return metadata
}

// operator returns the authenticated operator id and username
func (h *baseHandler) operator(c fiber.Ctx) (uint, string, bool) {
	id, ok := c.Locals(utils.LocalOperatorID).(uint)
	if !ok || id == 0 {
		return 0, "", false
	}
	name, _ := c.Locals(utils.LocalUsername).(string)
	return id, name, true
}

func (h *baseHandler) missingOperator(c fiber.Ctx) error {
	return h.ErrorResponse(c, fiber.StatusUnauthorized, "Operator ID not found in context", "MISSING_OPERATOR_ID", nil)
}

// paramID parses a positive numeric path parameter
func paramID(c fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}

// pageQuery reads page and page_size, defaulting to the first page of defaultPageSize
func pageQuery(c fiber.Ctx) (int, int, error) {
	page, pageSize := 1, defaultPageSize
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page")
		}
		page = n
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page_size")
		}
		pageSize = n
	}
	return page, pageSize, nil
}

func optionalString(c fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func optionalBool(c fiber.Ctx, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &b, nil
}

func optionalInt(c fiber.Ctx, key string) (*int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &n, nil
}

func optionalUint(c fiber.Ctx, key string) (*uint, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	id := uint(n)
	return &id, nil
}

// optionalTime accepts RFC3339 or a plain date
func optionalTime(c fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid %s format", key)
}

// invalidQuery answers a malformed query parameter
func (h *baseHandler) invalidQuery(c fiber.Ctx, err error) error {
	return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
}

func sendWorkbook(c fiber.Ctx, fileName string, content []byte) error {
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", "attachment; filename="+fileName)
	return c.Send(content)
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "numeric":
		return err.Field() + " must contain only numbers"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
