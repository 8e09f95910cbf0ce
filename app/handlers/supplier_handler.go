package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

// SupplierHandlerInterface defines the supplier register endpoints
type SupplierHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Import(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

type SupplierHandler struct {
	baseHandler
	flow businessflow.SupplierFlow
}

func NewSupplierHandler(flow businessflow.SupplierFlow, logger *zap.Logger) SupplierHandlerInterface {
	return &SupplierHandler{baseHandler: newBaseHandler(logger), flow: flow}
}

// Create registers a supplier
// @Summary Create supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSupplierRequest true "Supplier"
// @Success 201 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Supplier code already exists"
// @Router /api/v1/admin/suppliers [post]
func (h *SupplierHandler) Create(c fiber.Ctx) error {
	var req dto.CreateSupplierRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/suppliers")
	defer cancel()

	result, err := h.flow.CreateSupplier(ctx, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to create supplier")
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Supplier created", result)
}

// Update edits a supplier
// @Summary Update supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Supplier ID"
// @Param request body dto.UpdateSupplierRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier updated"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Router /api/v1/admin/suppliers/{id} [put]
func (h *SupplierHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	var req dto.UpdateSupplierRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/suppliers/:id")
	defer cancel()

	result, err := h.flow.UpdateSupplier(ctx, id, &req)
	if err != nil {
		return h.flowError(c, err, "Failed to update supplier")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Supplier updated", result)
}

// Delete deactivates a supplier; its price records keep referring to it
// @Summary Deactivate supplier
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Supplier ID"
// @Success 200 {object} dto.APIResponse "Supplier deactivated"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Router /api/v1/admin/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/suppliers/:id")
	defer cancel()

	if err := h.flow.DeactivateSupplier(ctx, id); err != nil {
		return h.flowError(c, err, "Failed to deactivate supplier")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Supplier deactivated", nil)
}

// Get returns one supplier
// @Summary Get supplier
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Supplier ID"
// @Success 200 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Router /api/v1/admin/suppliers/{id} [get]
func (h *SupplierHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_ID", nil)
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/suppliers/:id")
	defer cancel()

	result, err := h.flow.GetSupplier(ctx, id)
	if err != nil {
		return h.flowError(c, err, "Failed to get supplier")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Supplier retrieved", result)
}

// List pages through suppliers
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param keyword query string false "Matches code or name"
// @Param is_active query boolean false "Active flag"
// @Param page query integer false "Page number (default: 1)"
// @Param page_size query integer false "Items per page (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSuppliersResponse} "Suppliers"
// @Router /api/v1/admin/suppliers [get]
func (h *SupplierHandler) List(c fiber.Ctx) error {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return h.invalidQuery(c, err)
	}
	isActive, err := optionalBool(c, "is_active")
	if err != nil {
		return h.invalidQuery(c, err)
	}
	req := &dto.ListSuppliersRequest{
		Keyword:  optionalString(c, "keyword"),
		IsActive: isActive,
		Page:     page,
		PageSize: pageSize,
	}
	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/suppliers")
	defer cancel()

	result, err := h.flow.ListSuppliers(ctx, req)
	if err != nil {
		return h.flowError(c, err, "Failed to list suppliers")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Suppliers retrieved", result)
}

// Import upserts suppliers from an uploaded workbook
// @Summary Import suppliers
// @Description First sheet, header row code,name,contact,phone,email,address,remark
// @Tags Suppliers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Excel workbook"
// @Success 200 {object} dto.APIResponse{data=dto.SupplierImportResult} "Import summary"
// @Failure 400 {object} dto.APIResponse "Invalid workbook"
// @Router /api/v1/admin/suppliers/import [post]
func (h *SupplierHandler) Import(c fiber.Ctx) error {
	operatorID, _, ok := h.operator(c)
	if !ok {
		return h.missingOperator(c)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_REQUEST", nil)
	}
	fh, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer fh.Close()

	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/admin/suppliers/import", 2*requestTimeout)
	defer cancel()

	result, err := h.flow.ImportSuppliers(ctx, fh, operatorID, h.clientMetadata(c))
	if err != nil {
		return h.flowError(c, err, "Failed to import suppliers")
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Suppliers imported", result)
}

// Export downloads every supplier in the import layout
// @Summary Export suppliers
// @Tags Suppliers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {string} string "Excel file"
// @Router /api/v1/admin/suppliers/export [get]
func (h *SupplierHandler) Export(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContextWithTimeout(c, "/api/v1/admin/suppliers/export", 2*requestTimeout)
	defer cancel()

	name, content, err := h.flow.ExportSuppliers(ctx)
	if err != nil {
		return h.flowError(c, err, "Failed to export suppliers")
	}
	return sendWorkbook(c, name, content)
}
