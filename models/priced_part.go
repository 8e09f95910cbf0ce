package models

import (
	"time"
)

// ValveBodySpec is the descriptive payload of a valve body quote line.
type ValveBodySpec struct {
	ValveType      string `json:"valve_type"`
	Version        string `json:"version"`
	DN             string `json:"dn"`
	PN             string `json:"pn"`
	BodyMaterial   string `json:"body_material"`
	ConnectionType string `json:"connection_type"`
	DriveMode      string `json:"drive_mode"`
	Quantity       int    `json:"quantity"`
}

// AttachmentSpec is the descriptive payload of an attachment quote line.
type AttachmentSpec struct {
	AttachmentType string `json:"attachment_type"`
	Model          string `json:"model"`
	Brand          string `json:"brand"`
	Specification  string `json:"specification"`
	Quantity       int    `json:"quantity"`
}

// PricedPart is the storage-neutral view of a price record, independent of which
// table (active or expired, valve body or attachment) currently holds it.
//
// Timeout <= 0 means the record is valid and its magnitude is the number of days
// granted when last set; Timeout > 0 is the expired sentinel.
type PricedPart struct {
	ID           uint
	Category     PartCategory
	BillDetailID *uint
	SupplierID   *uint
	AskDate      *time.Time
	Price        *float64
	BasicsPrice  *float64
	AddPrice     *float64
	Timeout      int
	IsPreProBind int
	DoUser       *string
	DoDate       *time.Time
	Remark       *string
	CreatedAt    time.Time

	ValveBody  *ValveBodySpec
	Attachment *AttachmentSpec
}

// IsActive reports whether the timeout encodes a valid record.
func (p PricedPart) IsActive() bool {
	return p.Timeout <= 0
}

// Set returns the record set the timeout belongs to.
func (p PricedPart) Set() PriceSet {
	if p.IsActive() {
		return PriceSetActive
	}
	return PriceSetExpired
}

// MigrateTo builds the copy of p that is inserted into dest. The copy has no id,
// carries the direction's timeout sentinel and is stamped with the acting user.
func (p PricedPart) MigrateTo(dest PriceSet, actingUser *string, at time.Time) PricedPart {
	moved := p
	moved.ID = 0
	moved.CreatedAt = time.Time{}
	if dest == PriceSetActive {
		moved.Timeout = ActiveTimeoutSentinel
	} else {
		moved.Timeout = ExpiredTimeoutSentinel
	}
	moved.DoUser = actingUser
	moved.DoDate = &at
	if p.ValveBody != nil {
		vb := *p.ValveBody
		moved.ValveBody = &vb
	}
	if p.Attachment != nil {
		att := *p.Attachment
		moved.Attachment = &att
	}
	return moved
}

// PricedPartFilter represents filter criteria for price record queries
type PricedPartFilter struct {
	IDs           []uint
	SupplierID    *uint
	BillDetailID  *uint
	IsPreProBind  *int
	AskDateFrom   *time.Time
	AskDateTo     *time.Time
	Keyword       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
