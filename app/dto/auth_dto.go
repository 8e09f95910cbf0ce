package dto

type OperatorDTO struct {
	ID          uint   `json:"id" example:"1"`
	UUID        string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Username    string `json:"username" example:"buyer01"`
	DisplayName string `json:"display_name"`
	RoleID      uint   `json:"role_id"`
	RoleCode    string `json:"role_code,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

type OperatorSessionDTO struct {
	AccessToken  string `json:"access_token" example:"jwt"`
	RefreshToken string `json:"refresh_token" example:"jwt"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
	TokenType    string `json:"token_type" example:"Bearer"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type CaptchaInitResponse struct {
	ChallengeID       string `json:"challenge_id"`
	MasterImageBase64 string `json:"master_image_base64"`
	ThumbImageBase64  string `json:"thumb_image_base64"`
}

type OperatorLoginRequest struct {
	ChallengeID string  `json:"challenge_id" validate:"required"`
	Username    string  `json:"username" validate:"required,min=3,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=100"`
	UserAngle   float64 `json:"user_angle" validate:"required"`
}

type OperatorLoginResponse struct {
	Operator OperatorDTO        `json:"operator"`
	Session  OperatorSessionDTO `json:"session"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateOperatorRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=100"`
	DisplayName string `json:"display_name" validate:"max=255"`
	RoleID      uint   `json:"role_id" validate:"required,gt=0"`
}

type ListOperatorsResponse struct {
	Items      []OperatorDTO  `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
