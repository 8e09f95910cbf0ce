package businessflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// SupplierImportHeader is the column order of supplier workbooks
var SupplierImportHeader = []string{"code", "name", "contact", "phone", "email", "address", "remark"}

// SupplierFlow maintains the supplier register
type SupplierFlow interface {
	CreateSupplier(ctx context.Context, req *dto.CreateSupplierRequest) (*dto.SupplierDTO, error)
	UpdateSupplier(ctx context.Context, id uint, req *dto.UpdateSupplierRequest) (*dto.SupplierDTO, error)
	// DeactivateSupplier keeps the row so existing prices still resolve their supplier
	DeactivateSupplier(ctx context.Context, id uint) error
	GetSupplier(ctx context.Context, id uint) (*dto.SupplierDTO, error)
	ListSuppliers(ctx context.Context, req *dto.ListSuppliersRequest) (*dto.ListSuppliersResponse, error)
	ImportSuppliers(ctx context.Context, r io.Reader, operatorID uint, metadata *ClientMetadata) (*dto.SupplierImportResult, error)
	ExportSuppliers(ctx context.Context) (string, []byte, error)
}

type SupplierFlowImpl struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditLogRepository
	txManager    repository.TxManager
	logger       *zap.Logger
}

func NewSupplierFlow(
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditLogRepository,
	txManager repository.TxManager,
	logger *zap.Logger,
) SupplierFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierFlowImpl{
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (f *SupplierFlowImpl) CreateSupplier(ctx context.Context, req *dto.CreateSupplierRequest) (*dto.SupplierDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	code := strings.TrimSpace(req.Code)
	existing, err := f.supplierRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("GET_SUPPLIER_FAILED", "Failed to check supplier code", err)
	}
	if existing != nil {
		return nil, NewBusinessError("SUPPLIER_CODE_EXISTS", "Supplier code already exists", ErrSupplierCodeExists)
	}

	supplier := &models.Supplier{
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Contact:  req.Contact,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Remark:   req.Remark,
		IsActive: utils.ToPtr(true),
	}
	if err := f.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, NewBusinessError("CREATE_SUPPLIER_FAILED", "Failed to create supplier", err)
	}
	out := ToSupplierDTO(*supplier)
	return &out, nil
}

func (f *SupplierFlowImpl) load(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := f.supplierRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_SUPPLIER_FAILED", "Failed to get supplier", err)
	}
	if supplier == nil {
		return nil, NewBusinessError("SUPPLIER_NOT_FOUND", "Supplier not found", ErrSupplierNotFound)
	}
	return supplier, nil
}

func (f *SupplierFlowImpl) UpdateSupplier(ctx context.Context, id uint, req *dto.UpdateSupplierRequest) (*dto.SupplierDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	supplier, err := f.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = strings.TrimSpace(*req.Name)
	}
	if req.Contact != nil {
		supplier.Contact = req.Contact
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.Remark != nil {
		supplier.Remark = req.Remark
	}
	if req.IsActive != nil {
		supplier.IsActive = utils.ToPtr(*req.IsActive)
	}
	supplier.UpdatedAt = utils.UTCNow()

	if err := f.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, NewBusinessError("UPDATE_SUPPLIER_FAILED", "Failed to update supplier", err)
	}
	out := ToSupplierDTO(*supplier)
	return &out, nil
}

func (f *SupplierFlowImpl) DeactivateSupplier(ctx context.Context, id uint) error {
	supplier, err := f.load(ctx, id)
	if err != nil {
		return err
	}
	if !utils.IsTrue(supplier.IsActive) {
		return nil
	}
	supplier.IsActive = utils.ToPtr(false)
	supplier.UpdatedAt = utils.UTCNow()
	if err := f.supplierRepo.Update(ctx, supplier); err != nil {
		return NewBusinessError("UPDATE_SUPPLIER_FAILED", "Failed to deactivate supplier", err)
	}
	return nil
}

func (f *SupplierFlowImpl) GetSupplier(ctx context.Context, id uint) (*dto.SupplierDTO, error) {
	supplier, err := f.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToSupplierDTO(*supplier)
	return &out, nil
}

func (f *SupplierFlowImpl) ListSuppliers(ctx context.Context, req *dto.ListSuppliersRequest) (*dto.ListSuppliersResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	limit, offset, err := pageWindow(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	filter := models.SupplierFilter{Keyword: req.Keyword, IsActive: req.IsActive}

	total, err := f.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("COUNT_SUPPLIERS_FAILED", "Failed to count suppliers", err)
	}
	rows, err := f.supplierRepo.ByFilter(ctx, filter, "code ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_SUPPLIERS_FAILED", "Failed to list suppliers", err)
	}
	return &dto.ListSuppliersResponse{
		Items:      lo.Map(rows, func(s *models.Supplier, _ int) dto.SupplierDTO { return ToSupplierDTO(*s) }),
		Pagination: newPagination(total, req.Page, req.PageSize),
	}, nil
}

// ImportSuppliers upserts suppliers by code from the first sheet of a workbook.
// Rows without a code are skipped; a code repeated in the file keeps its last row.
func (f *SupplierFlowImpl) ImportSuppliers(ctx context.Context, r io.Reader, operatorID uint, metadata *ClientMetadata) (*dto.SupplierImportResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, NewBusinessError("INVALID_IMPORT_FILE", "Failed to read workbook", fmt.Errorf("%w: %v", ErrInvalidImportFile, err))
	}
	if len(rows) == 0 || !headerMatches(rows[0], SupplierImportHeader) {
		return nil, NewBusinessErrorf("IMPORT_HEADER_MISMATCH", "Header must be %s", ErrImportHeaderMismatch, strings.Join(SupplierImportHeader, ","))
	}

	result := &dto.SupplierImportResult{}
	incoming := make(map[string]*models.Supplier)
	order := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if lo.EveryBy(row, func(c string) bool { return c == "" }) {
			continue
		}
		result.Total++
		code := cell(row, 0)
		if code == "" || cell(row, 1) == "" {
			result.Skipped++
			continue
		}
		if _, seen := incoming[code]; !seen {
			order = append(order, code)
		}
		incoming[code] = &models.Supplier{
			Code:    code,
			Name:    cell(row, 1),
			Contact: utils.NilIfEmpty(cell(row, 2)),
			Phone:   utils.NilIfEmpty(cell(row, 3)),
			Email:   utils.NilIfEmpty(cell(row, 4)),
			Address: utils.NilIfEmpty(cell(row, 5)),
			Remark:  utils.NilIfEmpty(cell(row, 6)),
		}
	}
	result.Skipped += result.Total - result.Skipped - len(order)

	err = f.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := f.supplierRepo.ByCodes(txCtx, order)
		if err != nil {
			return err
		}
		byCode := lo.KeyBy(existing, func(s *models.Supplier) string { return s.Code })

		now := utils.UTCNow()
		var created []*models.Supplier
		for _, code := range order {
			in := incoming[code]
			if cur, ok := byCode[code]; ok {
				cur.Name = in.Name
				cur.Contact = in.Contact
				cur.Phone = in.Phone
				cur.Email = in.Email
				cur.Address = in.Address
				cur.Remark = in.Remark
				cur.UpdatedAt = now
				if err := f.supplierRepo.Update(txCtx, cur); err != nil {
					return err
				}
				result.Updated++
				continue
			}
			in.IsActive = utils.ToPtr(true)
			created = append(created, in)
		}
		if err := f.supplierRepo.SaveBatch(txCtx, created); err != nil {
			return err
		}
		result.Created = len(created)

		audit := newAuditLog(&operatorID, models.AuditActionSupplierImported, "supplier", nil,
			"supplier workbook imported", metadata,
			map[string]any{"total": result.Total, "created": result.Created, "updated": result.Updated, "skipped": result.Skipped})
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("IMPORT_SUPPLIERS_FAILED", "Failed to import suppliers", err)
	}

	f.logger.Info("suppliers imported",
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (f *SupplierFlowImpl) ExportSuppliers(ctx context.Context) (string, []byte, error) {
	rows, err := f.supplierRepo.ByFilter(ctx, models.SupplierFilter{}, "code ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("LIST_SUPPLIERS_FAILED", "Failed to list suppliers", err)
	}

	w, err := newSheetWriter("suppliers", SupplierImportHeader)
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	for _, s := range rows {
		record := []string{
			s.Code,
			s.Name,
			utils.Deref(s.Contact),
			utils.Deref(s.Phone),
			utils.Deref(s.Email),
			utils.Deref(s.Address),
			utils.Deref(s.Remark),
		}
		if err := w.writeRow(record); err != nil {
			return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
		}
	}
	content, err := w.bytes()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return fmt.Sprintf("suppliers_%s.xlsx", utils.UTCNow().Format("20060102")), content, nil
}

func headerMatches(got, want []string) bool {
	if len(got) < len(want) {
		return false
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), col) {
			return false
		}
	}
	return true
}
