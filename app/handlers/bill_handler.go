package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// BillHandlerInterface defines the quote request endpoints
type BillHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

type BillHandler struct {
	baseHandler
	flow businessflow.BillFlow
}

func NewBillHandler(flow businessflow.BillFlow, logger *zap.Logger) BillHandlerInterface {
	return &BillHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Create opens a quote request with its detail lines
// @Summary Create bill
// @Tags Bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBillRequest true "Bill with lines"
// @Success 201 {object} dto.APIResponse{data=dto.BillDTO} "Bill created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Bill number already exists"
// @Router /api/v1/admin/bills [post]
func (h *BillHandler) Create(c fiber.Ctx) error {
	_, username, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	var req dto.CreateBillRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/bills")
	defer cancel()

	result, err := h.flow.CreateBill(ctx, &req, username)
	if err != nil {
		return h.flowError(c, err, "Failed to create bill")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Bill created", result)
}

// Get returns a bill with its detail lines
// @Summary Get bill
// @Tags Bills
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Bill ID"
// @Success 200 {object} dto.APIResponse{data=dto.BillDTO} "Bill"
// @Failure 404 {object} dto.APIResponse "Bill not found"
// @Router /api/v1/admin/bills/{id} [get]
func (h *BillHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/bills/:id")
	defer cancel()

	result, err := h.flow.GetBill(ctx, id)
	if err != nil {
		return h.flowError(c, err, "Failed to get bill")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Bill retrieved", result)
}

// List pages through bills
// @Summary List bills
// @Tags Bills
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Matches bill number or title"
// @Param pre_production_no query string false "Pre-production number"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListBillsResponse} "Bills"
// @Router /api/v1/admin/bills [get]
func (h *BillHandler) List(c fiber.Ctx) error {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}
	req := &dto.ListBillsRequest{
		Keyword:         optionalString(c, "keyword"),
		PreProductionNo: optionalString(c, "pre_production_no"),
		Page:            page,
		PageSize:        pageSize,
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/bills")
	defer cancel()

	result, err := h.flow.ListBills(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Failed to list bills")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Bills retrieved", result)
}
