package businessflow

import (
	"encoding/json"
	"time"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// newAuditLog fills the request columns of an audit entry from metadata
func newAuditLog(operatorID *uint, action, entityType string, entityID *uint, description string, metadata *ClientMetadata, extra map[string]any) *models.AuditLog {
	entry := &models.AuditLog{
		OperatorID:  operatorID,
		Action:      action,
		EntityType:  utils.NilIfEmpty(entityType),
		EntityID:    entityID,
		Description: utils.NilIfEmpty(description),
		Success:     utils.ToPtr(true),
	}
	if metadata != nil {
		entry.IPAddress = utils.NilIfEmpty(metadata.IPAddress)
		entry.UserAgent = utils.NilIfEmpty(metadata.UserAgent)
		entry.RequestID = utils.NilIfEmpty(metadata.RequestID)
	}
	if len(extra) > 0 {
		if raw, err := json.Marshal(extra); err == nil {
			entry.Metadata = raw
		}
	}
	return entry
}

func ToOperatorDTO(op models.Operator) dto.OperatorDTO {
	out := dto.OperatorDTO{
		ID:          op.ID,
		UUID:        op.UUID.String(),
		Username:    op.Username,
		DisplayName: op.DisplayName,
		RoleID:      op.RoleID,
		IsActive:    utils.IsTrue(op.IsActive),
		CreatedAt:   op.CreatedAt.Format(time.RFC3339),
		LastLoginAt: utils.FormatTimePtr(op.LastLoginAt, time.RFC3339),
	}
	if op.Role != nil {
		out.RoleCode = op.Role.Code
	}
	return out
}

func ToSupplierDTO(s models.Supplier) dto.SupplierDTO {
	return dto.SupplierDTO{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Contact:   s.Contact,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Remark:    s.Remark,
		IsActive:  utils.IsTrue(s.IsActive),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

func ToReferenceItemDTO(item models.ReferenceItem) dto.ReferenceItemDTO {
	return dto.ReferenceItemDTO{
		ID:       item.ID,
		ListCode: item.ListCode,
		Code:     item.Code,
		Name:     item.Name,
		Sort:     item.Sort,
		IsActive: utils.IsTrue(item.IsActive),
	}
}

func ToBillDTO(b models.Bill) dto.BillDTO {
	out := dto.BillDTO{
		ID:              b.ID,
		BillNo:          b.BillNo,
		Title:           b.Title,
		Requester:       b.Requester,
		PreProductionNo: b.PreProductionNo,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	for _, d := range b.Details {
		out.Details = append(out.Details, ToBillDetailDTO(d))
	}
	return out
}

func ToBillDetailDTO(d models.BillDetail) dto.BillDetailDTO {
	return dto.BillDetailDTO{
		ID:             d.ID,
		BillID:         d.BillID,
		Category:       string(d.Category),
		ItemType:       d.ItemType,
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
	}
}

func ToMenuDTO(m models.Menu) dto.MenuDTO {
	return dto.MenuDTO{
		ID:        m.ID,
		ParentID:  m.ParentID,
		Code:      m.Code,
		Title:     m.Title,
		Path:      m.Path,
		Icon:      m.Icon,
		Sort:      m.Sort,
		IsVisible: utils.IsTrue(m.IsVisible),
	}
}

func ToSystemSettingDTO(s models.SystemSetting) dto.SystemSettingDTO {
	return dto.SystemSettingDTO{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPriceRecordDTO decorates a priced part with its status labels
func ToPriceRecordDTO(p models.PricedPart) dto.PriceRecordDTO {
	out := dto.PriceRecordDTO{
		ID:               p.ID,
		Category:         string(p.Category),
		Set:              string(p.Set()),
		BillDetailID:     p.BillDetailID,
		SupplierID:       p.SupplierID,
		AskDate:          utils.FormatTimePtr(p.AskDate, time.RFC3339),
		Price:            p.Price,
		BasicsPrice:      p.BasicsPrice,
		AddPrice:         p.AddPrice,
		Timeout:          p.Timeout,
		IsPreProBind:     p.IsPreProBind,
		DoUser:           p.DoUser,
		DoDate:           utils.FormatTimePtr(p.DoDate, time.RFC3339),
		Remark:           p.Remark,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
		PriceStatusText:  PriceStatusText(p.Timeout),
		AvailableActions: AvailableActions(p.Timeout),
		BindingText:      BindingText(p.IsPreProBind),
	}
	if vb := p.ValveBody; vb != nil {
		out.ValveBody = &dto.ValveBodySpecDTO{
			ValveType:      vb.ValveType,
			Version:        vb.Version,
			DN:             vb.DN,
			PN:             vb.PN,
			BodyMaterial:   vb.BodyMaterial,
			ConnectionType: vb.ConnectionType,
			DriveMode:      vb.DriveMode,
			Quantity:       vb.Quantity,
		}
	}
	if att := p.Attachment; att != nil {
		out.Attachment = &dto.AttachmentSpecDTO{
			AttachmentType: att.AttachmentType,
			Model:          att.Model,
			Brand:          att.Brand,
			Specification:  att.Specification,
			Quantity:       att.Quantity,
		}
	}
	return out
}

// pageWindow validates page and size and returns limit and offset
func pageWindow(page, pageSize int) (int, int, error) {
	if page < 1 {
		return 0, 0, NewBusinessError("INVALID_PAGE", "Page must be at least 1", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > utils.MaxPageSize {
		return 0, 0, NewBusinessError("INVALID_PAGE_SIZE", "Page size must be between 1 and 100", ErrInvalidPageSize)
	}
	return pageSize, (page - 1) * pageSize, nil
}

func newPagination(total int64, page, pageSize int) dto.PaginationInfo {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.PaginationInfo{
		Total:      total,
		Page:       page,
		Limit:      pageSize,
		TotalPages: totalPages,
	}
}
