package dto

type SystemSettingDTO struct {
	Key         string  `json:"key" example:"price.default_validity_days"`
	Value       string  `json:"value" example:"30"`
	Description *string `json:"description,omitempty"`
	UpdatedBy   *string `json:"updated_by,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

type UpsertSettingRequest struct {
	Value       string  `json:"value" validate:"required,max=4000"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
