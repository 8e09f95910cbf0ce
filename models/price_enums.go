// Package models contains domain entities and persistence models for the quoting back-office
package models

import (
	"database/sql/driver"
	"fmt"
)

// PartCategory identifies which family of priced parts a record belongs to.
type PartCategory string

const (
	PartCategoryValveBody  PartCategory = "ValveBody"
	PartCategoryAttachment PartCategory = "Attachment"
)

// Valid checks if the category is known.
func (c PartCategory) Valid() bool {
	switch c {
	case PartCategoryValveBody, PartCategoryAttachment:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PartCategory.
func (c *PartCategory) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*c = PartCategory(v)
	case []byte:
		*c = PartCategory(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PartCategory", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PartCategory.
func (c PartCategory) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid PartCategory: %s", c)
	}
	return string(c), nil
}

// PartCategories lists every supported category in display order.
func PartCategories() []PartCategory {
	return []PartCategory{PartCategoryValveBody, PartCategoryAttachment}
}

// PriceSet names one of the two physically separate record sets of a category.
type PriceSet string

const (
	PriceSetActive  PriceSet = "active"
	PriceSetExpired PriceSet = "expired"
)

// Valid checks if the set is known.
func (s PriceSet) Valid() bool {
	return s == PriceSetActive || s == PriceSetExpired
}

// Opposite returns the other set.
func (s PriceSet) Opposite() PriceSet {
	if s == PriceSetActive {
		return PriceSetExpired
	}
	return PriceSetActive
}

// PriceAction is an operator lifecycle action on price records.
type PriceAction string

const (
	PriceActionSetValid    PriceAction = "SETVALID"
	PriceActionSetExpired  PriceAction = "SETEXPIRED"
	PriceActionExtendValid PriceAction = "EXTENDVALID"
)

// Valid checks if the action is known.
func (a PriceAction) Valid() bool {
	switch a {
	case PriceActionSetValid, PriceActionSetExpired, PriceActionExtendValid:
		return true
	default:
		return false
	}
}

// Timeout sentinels written by set migrations.
const (
	ActiveTimeoutSentinel  = -1
	ExpiredTimeoutSentinel = 1
)

// Pre-production binding flag values.
const (
	PreProBindNone  = 0
	PreProBindBound = 1
)
