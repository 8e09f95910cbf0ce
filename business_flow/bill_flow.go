package businessflow

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// BillFlow manages quote request bills and their detail lines
type BillFlow interface {
	CreateBill(ctx context.Context, req *dto.CreateBillRequest, username string) (*dto.BillDTO, error)
	GetBill(ctx context.Context, id uint) (*dto.BillDTO, error)
	ListBills(ctx context.Context, req *dto.ListBillsRequest) (*dto.ListBillsResponse, error)
}

type BillFlowImpl struct {
	billRepo repository.BillRepository
}

func NewBillFlow(billRepo repository.BillRepository) BillFlow {
	return &BillFlowImpl{billRepo: billRepo}
}

// CreateBill stores the bill and its lines in one insert; gorm writes the
// association in the same transaction.
func (f *BillFlowImpl) CreateBill(ctx context.Context, req *dto.CreateBillRequest, username string) (*dto.BillDTO, error) {
	if req == nil || len(req.Details) == 0 {
		return nil, NewBusinessError("INVALID_REQUEST", "a bill needs at least one line", nil)
	}
	billNo := strings.TrimSpace(req.BillNo)
	exists, err := f.billRepo.Exists(ctx, models.BillFilter{BillNo: &billNo})
	if err != nil {
		return nil, NewBusinessError("CHECK_BILL_FAILED", "Failed to check bill number", err)
	}
	if exists {
		return nil, NewBusinessError("BILL_NO_EXISTS", "Bill number already exists", ErrBillNoExists)
	}

	details := make([]models.BillDetail, 0, len(req.Details))
	for _, d := range req.Details {
		category := models.PartCategory(d.Category)
		if !category.Valid() {
			return nil, NewBusinessError("INVALID_CATEGORY", "invalid category", ErrInvalidPartCategory)
		}
		details = append(details, models.BillDetail{
			Category:       category,
			ItemType:       strings.TrimSpace(d.ItemType),
			Version:        d.Version,
			DN:             d.DN,
			PN:             d.PN,
			Material:       d.Material,
			ConnectionType: d.ConnectionType,
			DriveMode:      d.DriveMode,
			Model:          d.Model,
			Brand:          d.Brand,
			Specification:  d.Specification,
			Quantity:       d.Quantity,
		})
	}

	bill := &models.Bill{
		BillNo:          billNo,
		Title:           strings.TrimSpace(req.Title),
		Requester:       req.Requester,
		PreProductionNo: req.PreProductionNo,
		CreatedBy:       utils.NilIfEmpty(username),
		Details:         details,
	}
	if err := f.billRepo.Save(ctx, bill); err != nil {
		return nil, NewBusinessError("CREATE_BILL_FAILED", "Failed to create bill", err)
	}
	out := ToBillDTO(*bill)
	return &out, nil
}

func (f *BillFlowImpl) GetBill(ctx context.Context, id uint) (*dto.BillDTO, error) {
	bill, err := f.billRepo.ByIDWithDetails(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_BILL_FAILED", "Failed to get bill", err)
	}
	if bill == nil {
		return nil, NewBusinessError("BILL_NOT_FOUND", "Bill not found", ErrBillNotFound)
	}
	out := ToBillDTO(*bill)
	return &out, nil
}

func (f *BillFlowImpl) ListBills(ctx context.Context, req *dto.ListBillsRequest) (*dto.ListBillsResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	limit, offset, err := pageWindow(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	filter := models.BillFilter{Keyword: req.Keyword, PreProductionNo: req.PreProductionNo}

	total, err := f.billRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("COUNT_BILLS_FAILED", "Failed to count bills", err)
	}
	rows, err := f.billRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_BILLS_FAILED", "Failed to list bills", err)
	}
	return &dto.ListBillsResponse{
		Items:      lo.Map(rows, func(b *models.Bill, _ int) dto.BillDTO { return ToBillDTO(*b) }),
		Pagination: newPagination(total, req.Page, req.PageSize),
	}, nil
}
