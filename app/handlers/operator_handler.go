package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// OperatorHandlerInterface defines operator administration endpoints
type OperatorHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
}

type OperatorHandler struct {
	baseHandler
	flow businessflow.OperatorFlow
}

func NewOperatorHandler(flow businessflow.OperatorFlow, logger *zap.Logger) OperatorHandlerInterface {
	return &OperatorHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Create adds an operator account
// @Summary Create operator
// @Tags Operators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOperatorRequest true "Operator"
// @Success 201 {object} dto.APIResponse{data=dto.OperatorDTO} "Operator created"
// @Failure 404 {object} dto.APIResponse "Role not found"
// @Failure 409 {object} dto.APIResponse "Username already exists"
// @Router /api/v1/admin/operators [post]
func (h *OperatorHandler) Create(c fiber.Ctx) error {
	var req dto.CreateOperatorRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/operators")
	defer cancel()

	result, err := h.flow.CreateOperator(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to create operator")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Operator created", result)
}

// List pages through operators
// @Summary List operators
// @Tags Operators
// @Produce json
// @Security BearerAuth
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListOperatorsResponse} "Operators"
// @Router /api/v1/admin/operators [get]
func (h *OperatorHandler) List(c fiber.Ctx) error {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/operators")
	defer cancel()

	result, err := h.flow.ListOperators(ctx, page, pageSize)
	if err != nil {
		return h.flowError(c, err, "Failed to list operators")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Operators retrieved", result)
}

// Get returns one operator
// @Summary Get operator
// @Tags Operators
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Operator ID"
// @Success 200 {object} dto.APIResponse{data=dto.OperatorDTO} "Operator"
// @Failure 404 {object} dto.APIResponse "Operator not found"
// @Router /api/v1/admin/operators/{id} [get]
func (h *OperatorHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/operators/:id")
	defer cancel()

	result, err := h.flow.GetOperator(ctx, id)
	if err != nil {
		return h.flowError(c, err, "Failed to get operator")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Operator retrieved", result)
}
