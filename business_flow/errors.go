// Package businessflow contains the core business logic and use cases of the quoting back office
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Price lifecycle errors
	ErrInvalidPriceAction   = errors.New("invalid action")
	ErrInvalidPartCategory  = errors.New("invalid category")
	ErrInvalidPriceSet      = errors.New("invalid price set")
	ErrPriceIDsRequired     = errors.New("ids are required")
	ErrInvalidExtendDays    = errors.New("extend days must be at least 1")
	ErrNoActivePriceRecords = errors.New("no active price records to extend")
	ErrPriceRecordNotFound  = errors.New("price record not found")

	// Quote errors
	ErrBillNotFound       = errors.New("bill not found")
	ErrBillDetailNotFound = errors.New("bill detail not found")
	ErrBillNoExists       = errors.New("bill number already exists")
	ErrInvalidValidity    = errors.New("validity days must be at least 1")

	// Supplier and reference errors
	ErrSupplierNotFound       = errors.New("supplier not found")
	ErrSupplierInactive       = errors.New("supplier is inactive")
	ErrSupplierCodeExists     = errors.New("supplier code already exists")
	ErrReferenceItemNotFound  = errors.New("reference item not found")
	ErrReferenceItemExists    = errors.New("reference item already exists in list")
	ErrInvalidImportFile      = errors.New("invalid import file")
	ErrImportHeaderMismatch   = errors.New("import header does not match the expected columns")
	ErrSettingNotFound        = errors.New("setting not found")
	ErrInvalidSettingValue    = errors.New("invalid setting value")
	ErrMenuNotFound           = errors.New("menu not found")
	ErrMenuCodeExists         = errors.New("menu code already exists")
	ErrMenuParentInvalid      = errors.New("menu parent is invalid")
	ErrRoleNotFound           = errors.New("role not found")
	ErrRoleCodeExists         = errors.New("role code already exists")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrOperatorNotFound       = errors.New("operator not found")
	ErrOperatorInactive       = errors.New("operator is inactive")
	ErrOperatorUsernameExists = errors.New("operator username already exists")

	// Auth errors
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidCaptcha    = errors.New("invalid captcha")
	ErrCacheNotAvailable = errors.New("cache not available")

	// Filter errors
	ErrInvalidPage      = errors.New("page must be at least 1")
	ErrInvalidPageSize  = errors.New("page size must be between 1 and 100")
	ErrInvalidDateRange = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// IsValidationError reports whether err is a caller mistake rather than a failure
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidPriceAction,
		ErrInvalidPartCategory,
		ErrInvalidPriceSet,
		ErrPriceIDsRequired,
		ErrInvalidExtendDays,
		ErrNoActivePriceRecords,
		ErrInvalidValidity,
		ErrInvalidImportFile,
		ErrImportHeaderMismatch,
		ErrInvalidSettingValue,
		ErrMenuParentInvalid,
		ErrSupplierInactive,
		ErrInvalidPage,
		ErrInvalidPageSize,
		ErrInvalidDateRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err names a missing entity
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrPriceRecordNotFound,
		ErrBillNotFound,
		ErrBillDetailNotFound,
		ErrSupplierNotFound,
		ErrReferenceItemNotFound,
		ErrSettingNotFound,
		ErrMenuNotFound,
		ErrRoleNotFound,
		ErrOperatorNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrBillNoExists) ||
		errors.Is(err, ErrSupplierCodeExists) ||
		errors.Is(err, ErrReferenceItemExists) ||
		errors.Is(err, ErrMenuCodeExists) ||
		errors.Is(err, ErrRoleCodeExists) ||
		errors.Is(err, ErrOperatorUsernameExists)
}

func IsInvalidPriceAction(err error) bool {
	return errors.Is(err, ErrInvalidPriceAction)
}

func IsInvalidPartCategory(err error) bool {
	return errors.Is(err, ErrInvalidPartCategory)
}

func IsInvalidExtendDays(err error) bool {
	return errors.Is(err, ErrInvalidExtendDays)
}

func IsNoActivePriceRecords(err error) bool {
	return errors.Is(err, ErrNoActivePriceRecords)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsOperatorNotFound(err error) bool {
	return errors.Is(err, ErrOperatorNotFound)
}

func IsOperatorInactive(err error) bool {
	return errors.Is(err, ErrOperatorInactive)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
