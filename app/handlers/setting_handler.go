package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// SettingHandlerInterface defines runtime setting endpoints
type SettingHandlerInterface interface {
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Upsert(c fiber.Ctx) error
}

type SettingHandler struct {
	baseHandler
	flow businessflow.SettingFlow
}

func NewSettingHandler(flow businessflow.SettingFlow, logger *zap.Logger) SettingHandlerInterface {
	return &SettingHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// List returns every setting
// @Summary List settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.SystemSettingDTO} "Settings"
// @Router /api/v1/admin/settings [get]
func (h *SettingHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/settings")
	defer cancel()

	result, err := h.flow.ListSettings(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to list settings")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Settings retrieved", result)
}

// Get returns one setting
// @Summary Get setting
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} dto.APIResponse{data=dto.SystemSettingDTO} "Setting"
// @Failure 404 {object} dto.APIResponse "Setting not found"
// @Router /api/v1/admin/settings/{key} [get]
func (h *SettingHandler) Get(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/settings/:key")
	defer cancel()

	result, err := h.flow.GetSetting(ctx, c.Params("key"))
	if err != nil {
		return h.flowError(c, err, "Failed to get setting")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Setting retrieved", result)
}

// Upsert creates or replaces a setting
// @Summary Save setting
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body dto.UpsertSettingRequest true "Value"
// @Success 200 {object} dto.APIResponse{data=dto.SystemSettingDTO} "Setting saved"
// @Failure 400 {object} dto.APIResponse "Invalid value"
// @Router /api/v1/admin/settings/{key} [put]
func (h *SettingHandler) Upsert(c fiber.Ctx) error {
	operatorID, username, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	var req dto.UpsertSettingRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/settings/:key")
	defer cancel()

	result, err := h.flow.UpsertSetting(ctx, c.Params("key"), &req, operatorID, username, h.clientMetadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to save setting")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Setting saved", result)
}
