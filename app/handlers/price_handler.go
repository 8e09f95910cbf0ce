package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// PriceHandlerInterface defines the price record endpoints
type PriceHandlerInterface interface {
	SetPriceStatus(c fiber.Ctx) error
	ListPrices(c fiber.Ctx) error
	ExportPrices(c fiber.Ctx) error
	SubmitQuote(c fiber.Ctx) error
	UpdateRemark(c fiber.Ctx) error
}

type PriceHandler struct {
	baseHandler
	lifecycle businessflow.PriceLifecycleFlow
	query     businessflow.PriceQueryFlow
	quotes    businessflow.QuoteFlow
}

func NewPriceHandler(
	lifecycle businessflow.PriceLifecycleFlow,
	query businessflow.PriceQueryFlow,
	quotes businessflow.QuoteFlow,
	logger *zap.Logger,
) PriceHandlerInterface {
	return &PriceHandler{
		baseHandler: newBaseHandler(logger),
		lifecycle:   lifecycle,
		query:       query,
		quotes:      quotes,
	}
}

// SetPriceStatus moves price records between sets or extends their validity
// @Summary Change price status
// @Description Apply SETVALID, SETEXPIRED or EXTENDVALID to a batch of price records. Always answers 200; check success.
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetPriceStatusRequest true "Status change"
// @Success 200 {object} dto.SetPriceStatusResponse "Outcome of the status change"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Permission denied"
// @Router /api/v1/admin/prices/status [post]
func (h *PriceHandler) SetPriceStatus(c fiber.Ctx) error {
	var req dto.SetPriceStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusOK).JSON(dto.SetPriceStatusResponse{Success: false, Message: "Invalid request body"})
	}

	var currentUser *string
	if _, username, ok := h.operator(c); ok {
		currentUser = utils.NilIfEmpty(username)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/prices/status")
	defer cancel()

	resp := h.lifecycle.SetPriceStatus(ctx, req.IDs, req.Action, req.ExtendDays, currentUser, req.EntityType)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func listPricesRequest(c fiber.Ctx) (*dto.ListPricesRequest, error) {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return nil, err
	}
	req := &dto.ListPricesRequest{
		Category: c.Params("category"),
		Set:      c.Params("set"),
		Keyword:  optionalString(c, "keyword"),
		Page:     page,
		PageSize: pageSize,
	}
	if req.SupplierID, err = optionalUint(c, "supplier_id"); err != nil {
		return nil, err
	}
	if req.BillDetailID, err = optionalUint(c, "bill_detail_id"); err != nil {
		return nil, err
	}
	if req.AskDateFrom, err = optionalTime(c, "ask_date_from"); err != nil {
		return nil, err
	}
	if req.AskDateTo, err = optionalTime(c, "ask_date_to"); err != nil {
		return nil, err
	}
	if req.IsPreProBind, err = optionalInt(c, "is_pre_pro_bind"); err != nil {
		return nil, err
	}
	return req, nil
}

// ListPrices lists one price set of one category
// @Summary List price records
// @Tags Prices
// @Produce json
// @Security BearerAuth
// @Param category path string true "ValveBody or Attachment"
// @Param set path string true "active or expired"
// @Param supplier_id query integer false "Supplier ID"
// @Param bill_detail_id query integer false "Bill detail ID"
// @Param is_pre_pro_bind query integer false "0 or 1"
// @Param ask_date_from query string false "RFC3339 or YYYY-MM-DD"
// @Param ask_date_to query string false "RFC3339 or YYYY-MM-DD"
// @Param keyword query string false "Matches the part description"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListPricesResponse} "Prices retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid category, set or filter"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/prices/{category}/{set} [get]
func (h *PriceHandler) ListPrices(c fiber.Ctx) error {
	req, err := listPricesRequest(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/prices/:category/:set")
	defer cancel()

	result, err := h.query.ListPrices(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Failed to list prices")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Prices retrieved successfully", result)
}

// ExportPrices downloads the filtered price set as an Excel workbook
// @Summary Export price records
// @Tags Prices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param category path string true "ValveBody or Attachment"
// @Param set path string true "active or expired"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse "Invalid category, set or filter"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/prices/{category}/{set}/export [get]
func (h *PriceHandler) ExportPrices(c fiber.Ctx) error {
	req, err := listPricesRequest(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/admin/prices/:category/:set/export", 2*requestTimeout)
	defer cancel()

	export, err := h.query.ExportPrices(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Failed to export prices")
	}
	return sendWorkbook(c, export.FileName, export.Content)
}

// SubmitQuote records a supplier price against a bill line
// @Summary Submit quote
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitQuoteRequest true "Quote"
// @Success 201 {object} dto.APIResponse{data=dto.PriceRecordDTO} "Quote recorded"
// @Failure 400 {object} dto.APIResponse "Validation error or inactive supplier"
// @Failure 404 {object} dto.APIResponse "Bill detail or supplier not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/prices/quote [post]
func (h *PriceHandler) SubmitQuote(c fiber.Ctx) error {
	operatorID, username, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	var req dto.SubmitQuoteRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/prices/quote")
	defer cancel()

	result, err := h.quotes.SubmitQuote(ctx, &req, operatorID, username, h.clientMetadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to submit quote")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Quote recorded", result)
}

// UpdateRemark replaces the remark of an active price record
// @Summary Update price remark
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "ValveBody or Attachment"
// @Param id path integer true "Price record ID"
// @Param request body dto.UpdatePriceRemarkRequest true "Remark"
// @Success 200 {object} dto.APIResponse{data=dto.PriceRecordDTO} "Remark updated"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Price record not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/prices/{category}/{id}/remark [put]
func (h *PriceHandler) UpdateRemark(c fiber.Ctx) error {
	operatorID, _, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	var req dto.UpdatePriceRemarkRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/prices/:category/:id/remark")
	defer cancel()

	result, err := h.quotes.UpdateRemark(ctx, c.Params("category"), id, &req, operatorID, h.clientMetadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to update remark")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Remark updated", result)
}
