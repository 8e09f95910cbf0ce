package businessflow

import "github.com/valvedesk/quoting-backoffice/models"

// Status and binding labels shown next to price records
const (
	PriceStatusExpired = "expired"
	PriceStatusValid   = "valid"

	BindingBound   = "bound to pre-production run"
	BindingNone    = "not bound"
	BindingUnknown = "other"
)

// PriceStatusText labels a record by its timeout.
func PriceStatusText(timeout int) string {
	if timeout > 0 {
		return PriceStatusExpired
	}
	return PriceStatusValid
}

// AvailableActions lists the lifecycle actions an operator may apply to a record.
func AvailableActions(timeout int) []string {
	if timeout > 0 {
		return []string{string(models.PriceActionSetValid)}
	}
	return []string{string(models.PriceActionExtendValid), string(models.PriceActionSetExpired)}
}

func BindingText(isPreProBind int) string {
	switch isPreProBind {
	case models.PreProBindBound:
		return BindingBound
	case models.PreProBindNone:
		return BindingNone
	default:
		return BindingUnknown
	}
}
