package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// PriceQueryFlow lists and exports price records with their status decoration
type PriceQueryFlow interface {
	ListPrices(ctx context.Context, req *dto.ListPricesRequest) (*dto.ListPricesResponse, error)
	ExportPrices(ctx context.Context, req *dto.ListPricesRequest) (*dto.PriceExport, error)
}

type PriceQueryFlowImpl struct {
	priceRepos    repository.PriceRepositories
	exportMaxRows int
	now           func() time.Time
}

func NewPriceQueryFlow(priceRepos repository.PriceRepositories, exportMaxRows int) PriceQueryFlow {
	if exportMaxRows <= 0 {
		exportMaxRows = 10000
	}
	return &PriceQueryFlowImpl{
		priceRepos:    priceRepos,
		exportMaxRows: exportMaxRows,
		now:           utils.UTCNow,
	}
}

func (f *PriceQueryFlowImpl) resolve(req *dto.ListPricesRequest) (repository.PriceSetRepository, models.PriceSet, models.PricedPartFilter, error) {
	var filter models.PricedPartFilter
	if req == nil {
		return nil, "", filter, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}
	category := models.PartCategory(req.Category)
	repo, ok := f.priceRepos.For(category)
	if !ok {
		return nil, "", filter, NewBusinessError("INVALID_CATEGORY", "invalid category", ErrInvalidPartCategory)
	}
	set := models.PriceSet(req.Set)
	if !set.Valid() {
		return nil, "", filter, NewBusinessError("INVALID_PRICE_SET", "price set must be active or expired", ErrInvalidPriceSet)
	}
	if req.AskDateFrom != nil && req.AskDateTo != nil && req.AskDateFrom.After(*req.AskDateTo) {
		return nil, "", filter, NewBusinessError("INVALID_DATE_RANGE", "Start date cannot be after end date", ErrInvalidDateRange)
	}

	filter = models.PricedPartFilter{
		SupplierID:   req.SupplierID,
		BillDetailID: req.BillDetailID,
		IsPreProBind: req.IsPreProBind,
		AskDateFrom:  req.AskDateFrom,
		AskDateTo:    req.AskDateTo,
		Keyword:      req.Keyword,
	}
	return repo, set, filter, nil
}

func (f *PriceQueryFlowImpl) ListPrices(ctx context.Context, req *dto.ListPricesRequest) (*dto.ListPricesResponse, error) {
	repo, set, filter, err := f.resolve(req)
	if err != nil {
		return nil, err
	}
	limit, offset, err := pageWindow(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	total, err := repo.Count(ctx, set, filter)
	if err != nil {
		return nil, NewBusinessError("COUNT_PRICES_FAILED", "Failed to count price records", err)
	}
	rows, err := repo.ByFilter(ctx, set, filter, "id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_PRICES_FAILED", "Failed to list price records", err)
	}

	items := make([]dto.PriceRecordDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToPriceRecordDTO(row))
	}
	return &dto.ListPricesResponse{
		Items:      items,
		Pagination: newPagination(total, req.Page, req.PageSize),
	}, nil
}

// ExportPrices renders every matching record, newest first, into one sheet
func (f *PriceQueryFlowImpl) ExportPrices(ctx context.Context, req *dto.ListPricesRequest) (*dto.PriceExport, error) {
	repo, set, filter, err := f.resolve(req)
	if err != nil {
		return nil, err
	}

	rows, err := repo.ByFilter(ctx, set, filter, "id DESC", f.exportMaxRows, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_PRICES_FAILED", "Failed to list price records", err)
	}

	category := repo.Category()
	header := append([]string{"id"}, specHeader(category)...)
	header = append(header,
		"supplier_id", "bill_detail_id", "ask_date", "price", "basics_price", "add_price",
		"timeout", "price_status", "binding", "do_user", "do_date", "remark",
	)

	w, err := newSheetWriter(fmt.Sprintf("%s %s", category, set), header)
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	for _, row := range rows {
		record := append([]string{strconv.FormatUint(uint64(row.ID), 10)}, specValues(row)...)
		record = append(record,
			formatUintPtr(row.SupplierID),
			formatUintPtr(row.BillDetailID),
			utils.FormatTimePtr(row.AskDate, time.RFC3339),
			formatFloatPtr(row.Price),
			formatFloatPtr(row.BasicsPrice),
			formatFloatPtr(row.AddPrice),
			strconv.Itoa(row.Timeout),
			PriceStatusText(row.Timeout),
			BindingText(row.IsPreProBind),
			utils.Deref(row.DoUser),
			utils.FormatTimePtr(row.DoDate, time.RFC3339),
			utils.Deref(row.Remark),
		)
		if err := w.writeRow(record); err != nil {
			return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
		}
	}

	content, err := w.bytes()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return &dto.PriceExport{
		FileName: PriceExportFileName(category, set, f.now()),
		Content:  content,
		Rows:     len(rows),
	}, nil
}

// PriceExportFileName names an export after its category, set and day
func PriceExportFileName(category models.PartCategory, set models.PriceSet, at time.Time) string {
	return fmt.Sprintf("%s_%s_prices_%s.xlsx", category, set, at.UTC().Format("20060102"))
}

func specHeader(category models.PartCategory) []string {
	if category == models.PartCategoryAttachment {
		return []string{"attachment_type", "model", "brand", "specification", "quantity"}
	}
	return []string{"valve_type", "version", "dn", "pn", "body_material", "connection_type", "drive_mode", "quantity"}
}

func specValues(p models.PricedPart) []string {
	if p.Category == models.PartCategoryAttachment {
		a := utils.Deref(p.Attachment)
		return []string{a.AttachmentType, a.Model, a.Brand, a.Specification, strconv.Itoa(a.Quantity)}
	}
	v := utils.Deref(p.ValveBody)
	return []string{v.ValveType, v.Version, v.DN, v.PN, v.BodyMaterial, v.ConnectionType, v.DriveMode, strconv.Itoa(v.Quantity)}
}

func formatUintPtr(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
