package utils

import (
	"time"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Pricing constants
const (
	// DefaultPriceValidityDays is used when the validity setting is missing or malformed
	DefaultPriceValidityDays = 30

	// PriceValidityDaysSettingKey is the system setting holding the default validity window
	PriceValidityDaysSettingKey = "price.default_validity_days"

	// MaxPageSize caps every paginated listing
	MaxPageSize = 100
)

// Captcha defaults
const (
	CaptchaChallengeTTL = 2 * time.Minute
	CaptchaAnglePadding = 15
	CaptchaImageSize    = 220
)

type contextKey string

// Request-scoped context keys set by handlers
const (
	RequestIDKey  contextKey = "request_id"
	UserAgentKey  contextKey = "user_agent"
	IPAddressKey  contextKey = "ip_address"
	EndpointKey   contextKey = "endpoint"
	TimeoutKey    contextKey = "timeout"
	OperatorIDKey contextKey = "operator_id"
	UsernameKey   contextKey = "username"
)

// Fiber locals populated by the authentication middleware
const (
	LocalOperatorID = "operator_id"
	LocalUsername   = "username"
	LocalRoleID     = "role_id"
	LocalTokenID    = "token_id"
	LocalRequestID  = "request_id"
)
