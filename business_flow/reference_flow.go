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

// ReferenceFlow maintains the dictionary lists behind the quoting drop-downs
type ReferenceFlow interface {
	CreateItem(ctx context.Context, req *dto.CreateReferenceItemRequest) (*dto.ReferenceItemDTO, error)
	UpdateItem(ctx context.Context, id uint, req *dto.UpdateReferenceItemRequest) (*dto.ReferenceItemDTO, error)
	DeleteItem(ctx context.Context, id uint) error
	ListItems(ctx context.Context, req *dto.ListReferenceItemsRequest) (*dto.ListReferenceItemsResponse, error)
}

type ReferenceFlowImpl struct {
	itemRepo repository.ReferenceItemRepository
}

func NewReferenceFlow(itemRepo repository.ReferenceItemRepository) ReferenceFlow {
	return &ReferenceFlowImpl{itemRepo: itemRepo}
}

func (f *ReferenceFlowImpl) CreateItem(ctx context.Context, req *dto.CreateReferenceItemRequest) (*dto.ReferenceItemDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	listCode := strings.ToUpper(strings.TrimSpace(req.ListCode))
	code := strings.TrimSpace(req.Code)

	exists, err := f.itemRepo.Exists(ctx, models.ReferenceItemFilter{ListCode: &listCode, Code: &code})
	if err != nil {
		return nil, NewBusinessError("CHECK_REFERENCE_ITEM_FAILED", "Failed to check reference item", err)
	}
	if exists {
		return nil, NewBusinessError("REFERENCE_ITEM_EXISTS", "Reference item already exists in list", ErrReferenceItemExists)
	}

	item := &models.ReferenceItem{
		ListCode: listCode,
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Sort:     req.Sort,
		IsActive: utils.ToPtr(true),
	}
	if err := f.itemRepo.Save(ctx, item); err != nil {
		return nil, NewBusinessError("CREATE_REFERENCE_ITEM_FAILED", "Failed to create reference item", err)
	}
	out := ToReferenceItemDTO(*item)
	return &out, nil
}

func (f *ReferenceFlowImpl) UpdateItem(ctx context.Context, id uint, req *dto.UpdateReferenceItemRequest) (*dto.ReferenceItemDTO, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	item, err := f.itemRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_REFERENCE_ITEM_FAILED", "Failed to get reference item", err)
	}
	if item == nil {
		return nil, NewBusinessError("REFERENCE_ITEM_NOT_FOUND", "Reference item not found", ErrReferenceItemNotFound)
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Sort != nil {
		item.Sort = *req.Sort
	}
	if req.IsActive != nil {
		item.IsActive = utils.ToPtr(*req.IsActive)
	}
	item.UpdatedAt = utils.UTCNow()

	if err := f.itemRepo.Update(ctx, item); err != nil {
		return nil, NewBusinessError("UPDATE_REFERENCE_ITEM_FAILED", "Failed to update reference item", err)
	}
	out := ToReferenceItemDTO(*item)
	return &out, nil
}

func (f *ReferenceFlowImpl) DeleteItem(ctx context.Context, id uint) error {
	item, err := f.itemRepo.ByID(ctx, id)
	if err != nil {
		return NewBusinessError("GET_REFERENCE_ITEM_FAILED", "Failed to get reference item", err)
	}
	if item == nil {
		return NewBusinessError("REFERENCE_ITEM_NOT_FOUND", "Reference item not found", ErrReferenceItemNotFound)
	}
	if err := f.itemRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("DELETE_REFERENCE_ITEM_FAILED", "Failed to delete reference item", err)
	}
	return nil
}

func (f *ReferenceFlowImpl) ListItems(ctx context.Context, req *dto.ListReferenceItemsRequest) (*dto.ListReferenceItemsResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	limit, offset, err := pageWindow(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := models.ReferenceItemFilter{Keyword: req.Keyword, IsActive: req.IsActive}
	if req.ListCode != nil && strings.TrimSpace(*req.ListCode) != "" {
		filter.ListCode = utils.ToPtr(strings.ToUpper(strings.TrimSpace(*req.ListCode)))
	}

	total, err := f.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("COUNT_REFERENCE_ITEMS_FAILED", "Failed to count reference items", err)
	}
	rows, err := f.itemRepo.ByFilter(ctx, filter, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_REFERENCE_ITEMS_FAILED", "Failed to list reference items", err)
	}
	return &dto.ListReferenceItemsResponse{
		Items:      lo.Map(rows, func(item *models.ReferenceItem, _ int) dto.ReferenceItemDTO { return ToReferenceItemDTO(*item) }),
		Pagination: newPagination(total, req.Page, req.PageSize),
	}, nil
}
