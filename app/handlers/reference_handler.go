package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// ReferenceHandlerInterface defines the dictionary endpoints
type ReferenceHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

type ReferenceHandler struct {
	baseHandler
	flow businessflow.ReferenceFlow
}

func NewReferenceHandler(flow businessflow.ReferenceFlow, logger *zap.Logger) ReferenceHandlerInterface {
	return &ReferenceHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Create adds an item to a reference list
// @Summary Create reference item
// @Tags Reference Lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReferenceItemRequest true "Item"
// @Success 201 {object} dto.APIResponse{data=dto.ReferenceItemDTO} "Item created"
// @Failure 409 {object} dto.APIResponse "Code already exists in list"
// @Router /api/v1/admin/reference-items [post]
func (h *ReferenceHandler) Create(c fiber.Ctx) error {
	var req dto.CreateReferenceItemRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/reference-items")
	defer cancel()

	result, err := h.flow.CreateItem(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to create reference item")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Reference item created", result)
}

// Update edits a reference item
// @Summary Update reference item
// @Tags Reference Lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Item ID"
// @Param request body dto.UpdateReferenceItemRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.ReferenceItemDTO} "Item updated"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Router /api/v1/admin/reference-items/{id} [put]
func (h *ReferenceHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	var req dto.UpdateReferenceItemRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/reference-items/:id")
	defer cancel()

	result, err := h.flow.UpdateItem(ctx, id, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to update reference item")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Reference item updated", result)
}

// Delete removes a reference item
// @Summary Delete reference item
// @Tags Reference Lists
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Item ID"
// @Success 200 {object} dto.APIResponse "Item deleted"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Router /api/v1/admin/reference-items/{id} [delete]
func (h *ReferenceHandler) Delete(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/reference-items/:id")
	defer cancel()

	if err := h.flow.DeleteItem(ctx, id); err != nil {
		return h.flowError(c, err, "Failed to delete reference item")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Reference item deleted", nil)
}

// List pages through reference items
// @Summary List reference items
// @Tags Reference Lists
// @Produce json
// @Security BearerAuth
// @Param list_code query string false "List code, e.g. VALVE_TYPE"
// @Param keyword query string false "Matches code or name"
// @Param is_active query boolean false "Active flag"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListReferenceItemsResponse} "Items"
// @Router /api/v1/admin/reference-items [get]
func (h *ReferenceHandler) List(c fiber.Ctx) error {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}
	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		return h.invalidQuery(c, err)
	}
	req := &dto.ListReferenceItemsRequest{
		ListCode: optionalString(c, "list_code"),
		Keyword:  optionalString(c, "keyword"),
		IsActive: isActive,
		Page:     page,
		PageSize: pageSize,
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/reference-items")
	defer cancel()

	result, err := h.flow.ListItems(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Failed to list reference items")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Reference items retrieved", result)
}
