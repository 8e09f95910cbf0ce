package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// MenuHandlerInterface defines menu, role and grant endpoints
type MenuHandlerInterface interface {
	MyMenus(c fiber.Ctx) error
	Tree(c fiber.Ctx) error
	CreateMenu(c fiber.Ctx) error
	UpdateMenu(c fiber.Ctx) error
	DeleteMenu(c fiber.Ctx) error
	ListRoles(c fiber.Ctx) error
	CreateRole(c fiber.Ctx) error
	ReplaceRoleMenus(c fiber.Ctx) error
}

type MenuHandler struct {
	baseHandler
	flow businessflow.MenuFlow
}

func NewMenuHandler(flow businessflow.MenuFlow, logger *zap.Logger) MenuHandlerInterface {
	return &MenuHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// MyMenus returns the visible menu tree granted to the caller's role
// @Summary My menus
// @Tags Menus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MenuNode} "Menu tree"
// @Router /api/v1/admin/me/menus [get]
func (h *MenuHandler) MyMenus(c fiber.Ctx) error {
	roleID, ok := c.Locals(utils.LocalRoleID).(uint)
	if !ok || roleID == 0 {
		return h.missingOperator(c)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/me/menus")
	defer cancel()

	tree, err := h.flow.MenuTreeForRole(ctx, roleID)
	if err != nil {
		return h.flowError(c, err, "Failed to load menus")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Menus retrieved", tree)
}

// Tree returns every menu as a tree
// @Summary Menu tree
// @Tags Menus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MenuNode} "Menu tree"
// @Router /api/v1/admin/menus [get]
func (h *MenuHandler) Tree(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/menus")
	defer cancel()

	tree, err := h.flow.MenuTree(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to load menus")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Menus retrieved", tree)
}

// CreateMenu adds a menu
// @Summary Create menu
// @Tags Menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMenuRequest true "Menu"
// @Success 201 {object} dto.APIResponse{data=dto.MenuDTO} "Menu created"
// @Failure 400 {object} dto.APIResponse "Invalid parent"
// @Failure 409 {object} dto.APIResponse "Menu code already exists"
// @Router /api/v1/admin/menus [post]
func (h *MenuHandler) CreateMenu(c fiber.Ctx) error {
	var req dto.CreateMenuRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/menus")
	defer cancel()

	result, err := h.flow.CreateMenu(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to create menu")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Menu created", result)
}

// UpdateMenu edits a menu
// @Summary Update menu
// @Tags Menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Menu ID"
// @Param request body dto.UpdateMenuRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.MenuDTO} "Menu updated"
// @Failure 400 {object} dto.APIResponse "Invalid parent"
// @Failure 404 {object} dto.APIResponse "Menu not found"
// @Router /api/v1/admin/menus/{id} [put]
func (h *MenuHandler) UpdateMenu(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	var req dto.UpdateMenuRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/menus/:id")
	defer cancel()

	result, err := h.flow.UpdateMenu(ctx, id, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to update menu")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Menu updated", result)
}

// DeleteMenu removes a menu and its grants
// @Summary Delete menu
// @Tags Menus
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Menu ID"
// @Success 200 {object} dto.APIResponse "Menu deleted"
// @Failure 404 {object} dto.APIResponse "Menu not found"
// @Router /api/v1/admin/menus/{id} [delete]
func (h *MenuHandler) DeleteMenu(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/menus/:id")
	defer cancel()

	if err := h.flow.DeleteMenu(ctx, id); err != nil {
		return h.flowError(c, err, "Failed to delete menu")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Menu deleted", nil)
}

// ListRoles returns every role with its granted menu ids
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RoleDTO} "Roles"
// @Router /api/v1/admin/roles [get]
func (h *MenuHandler) ListRoles(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/roles")
	defer cancel()

	roles, err := h.flow.ListRoles(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to list roles")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Roles retrieved", roles)
}

// CreateRole adds a role without grants
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoleRequest true "Role"
// @Success 201 {object} dto.APIResponse{data=dto.RoleDTO} "Role created"
// @Failure 409 {object} dto.APIResponse "Role code already exists"
// @Router /api/v1/admin/roles [post]
func (h *MenuHandler) CreateRole(c fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/roles")
	defer cancel()

	result, err := h.flow.CreateRole(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to create role")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Role created", result)
}

// ReplaceRoleMenus sets the full list of menus granted to a role
// @Summary Replace role grants
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Role ID"
// @Param request body dto.UpdateRoleMenusRequest true "Menu IDs"
// @Success 200 {object} dto.APIResponse{data=dto.RoleDTO} "Grants replaced"
// @Failure 404 {object} dto.APIResponse "Role or menu not found"
// @Router /api/v1/admin/roles/{id}/menus [put]
func (h *MenuHandler) ReplaceRoleMenus(c fiber.Ctx) error {
	operatorID, _, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	var req dto.UpdateRoleMenusRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/roles/:id/menus")
	defer cancel()

	result, err := h.flow.ReplaceRoleMenus(ctx, id, &req, operatorID, h.clientMetadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to update role menus")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Role menus updated", result)
}
