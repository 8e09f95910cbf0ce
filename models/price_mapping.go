package models

// Field-by-field mappings between the storage-neutral PricedPart and the four
// price tables. The expired tables keep money as float32, so moving a record into
// the expired set narrows its prices and moving it back widens them again.

func narrowPrice(v *float64) *float32 {
	if v == nil {
		return nil
	}
	f := float32(*v)
	return &f
}

func widenPrice(v *float32) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func recordColumns(p PricedPart) PriceRecordColumns {
	return PriceRecordColumns{
		BillDetailID: p.BillDetailID,
		SupplierID:   p.SupplierID,
		AskDate:      p.AskDate,
		Timeout:      p.Timeout,
		IsPreProBind: p.IsPreProBind,
		DoUser:       p.DoUser,
		DoDate:       p.DoDate,
		Remark:       p.Remark,
		CreatedAt:    p.CreatedAt,
	}
}

func applyRecordColumns(p *PricedPart, c PriceRecordColumns) {
	p.BillDetailID = c.BillDetailID
	p.SupplierID = c.SupplierID
	p.AskDate = c.AskDate
	p.Timeout = c.Timeout
	p.IsPreProBind = c.IsPreProBind
	p.DoUser = c.DoUser
	p.DoDate = c.DoDate
	p.Remark = c.Remark
	p.CreatedAt = c.CreatedAt
}

func valveBodyColumns(spec *ValveBodySpec) ValveBodyColumns {
	if spec == nil {
		return ValveBodyColumns{}
	}
	return ValveBodyColumns{
		ValveType:      spec.ValveType,
		Version:        spec.Version,
		DN:             spec.DN,
		PN:             spec.PN,
		BodyMaterial:   spec.BodyMaterial,
		ConnectionType: spec.ConnectionType,
		DriveMode:      spec.DriveMode,
		Quantity:       spec.Quantity,
	}
}

func (c ValveBodyColumns) spec() *ValveBodySpec {
	return &ValveBodySpec{
		ValveType:      c.ValveType,
		Version:        c.Version,
		DN:             c.DN,
		PN:             c.PN,
		BodyMaterial:   c.BodyMaterial,
		ConnectionType: c.ConnectionType,
		DriveMode:      c.DriveMode,
		Quantity:       c.Quantity,
	}
}

func attachmentColumns(spec *AttachmentSpec) AttachmentColumns {
	if spec == nil {
		return AttachmentColumns{}
	}
	return AttachmentColumns{
		AttachmentType: spec.AttachmentType,
		Model:          spec.Model,
		Brand:          spec.Brand,
		Specification:  spec.Specification,
		Quantity:       spec.Quantity,
	}
}

func (c AttachmentColumns) spec() *AttachmentSpec {
	return &AttachmentSpec{
		AttachmentType: c.AttachmentType,
		Model:          c.Model,
		Brand:          c.Brand,
		Specification:  c.Specification,
		Quantity:       c.Quantity,
	}
}

// NewValveBodyPrice maps a part onto the active valve body table.
func NewValveBodyPrice(p PricedPart) *ValveBodyPrice {
	return &ValveBodyPrice{
		ID:                 p.ID,
		Price:              p.Price,
		BasicsPrice:        p.BasicsPrice,
		AddPrice:           p.AddPrice,
		PriceRecordColumns: recordColumns(p),
		ValveBodyColumns:   valveBodyColumns(p.ValveBody),
	}
}

// ToPricedPart maps an active valve body row back to the neutral view.
func (r *ValveBodyPrice) ToPricedPart() PricedPart {
	p := PricedPart{
		ID:          r.ID,
		Category:    PartCategoryValveBody,
		Price:       r.Price,
		BasicsPrice: r.BasicsPrice,
		AddPrice:    r.AddPrice,
		ValveBody:   r.ValveBodyColumns.spec(),
	}
	applyRecordColumns(&p, r.PriceRecordColumns)
	return p
}

// NewValveBodyPriceOut maps a part onto the expired valve body table.
func NewValveBodyPriceOut(p PricedPart) *ValveBodyPriceOut {
	return &ValveBodyPriceOut{
		ID:                 p.ID,
		Price:              narrowPrice(p.Price),
		BasicsPrice:        narrowPrice(p.BasicsPrice),
		AddPrice:           narrowPrice(p.AddPrice),
		PriceRecordColumns: recordColumns(p),
		ValveBodyColumns:   valveBodyColumns(p.ValveBody),
	}
}

// ToPricedPart maps an expired valve body row back to the neutral view.
func (r *ValveBodyPriceOut) ToPricedPart() PricedPart {
	p := PricedPart{
		ID:          r.ID,
		Category:    PartCategoryValveBody,
		Price:       widenPrice(r.Price),
		BasicsPrice: widenPrice(r.BasicsPrice),
		AddPrice:    widenPrice(r.AddPrice),
		ValveBody:   r.ValveBodyColumns.spec(),
	}
	applyRecordColumns(&p, r.PriceRecordColumns)
	return p
}

// NewAttachmentPrice maps a part onto the active attachment table.
func NewAttachmentPrice(p PricedPart) *AttachmentPrice {
	return &AttachmentPrice{
		ID:                 p.ID,
		Price:              p.Price,
		BasicsPrice:        p.BasicsPrice,
		AddPrice:           p.AddPrice,
		PriceRecordColumns: recordColumns(p),
		AttachmentColumns:  attachmentColumns(p.Attachment),
	}
}

// ToPricedPart maps an active attachment row back to the neutral view.
func (r *AttachmentPrice) ToPricedPart() PricedPart {
	p := PricedPart{
		ID:          r.ID,
		Category:    PartCategoryAttachment,
		Price:       r.Price,
		BasicsPrice: r.BasicsPrice,
		AddPrice:    r.AddPrice,
		Attachment:  r.AttachmentColumns.spec(),
	}
	applyRecordColumns(&p, r.PriceRecordColumns)
	return p
}

// NewAttachmentPriceOut maps a part onto the expired attachment table.
func NewAttachmentPriceOut(p PricedPart) *AttachmentPriceOut {
	return &AttachmentPriceOut{
		ID:                 p.ID,
		Price:              narrowPrice(p.Price),
		BasicsPrice:        narrowPrice(p.BasicsPrice),
		AddPrice:           narrowPrice(p.AddPrice),
		PriceRecordColumns: recordColumns(p),
		AttachmentColumns:  attachmentColumns(p.Attachment),
	}
}

// ToPricedPart maps an expired attachment row back to the neutral view.
func (r *AttachmentPriceOut) ToPricedPart() PricedPart {
	p := PricedPart{
		ID:          r.ID,
		Category:    PartCategoryAttachment,
		Price:       widenPrice(r.Price),
		BasicsPrice: widenPrice(r.BasicsPrice),
		AddPrice:    widenPrice(r.AddPrice),
		Attachment:  r.AttachmentColumns.spec(),
	}
	applyRecordColumns(&p, r.PriceRecordColumns)
	return p
}
