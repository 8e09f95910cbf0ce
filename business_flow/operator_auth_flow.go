package businessflow

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/repository"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// OperatorAuthFlow represents the operator authentication flow used by handlers
type OperatorAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.CaptchaInitResponse, error)
	Login(ctx context.Context, req *dto.OperatorLoginRequest, metadata *ClientMetadata) (*dto.OperatorLoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.OperatorSessionDTO, error)
	Logout(ctx context.Context, accessToken string) error
}

// OperatorAuthFlowImpl provides captcha-init and operator credential verification
type OperatorAuthFlowImpl struct {
	operatorRepo repository.OperatorRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	captchaSvc   services.CaptchaService
	logger       *zap.Logger
}

func NewOperatorAuthFlow(
	operatorRepo repository.OperatorRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaSvc services.CaptchaService,
	logger *zap.Logger,
) OperatorAuthFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperatorAuthFlowImpl{
		operatorRepo: operatorRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		captchaSvc:   captchaSvc,
		logger:       logger,
	}
}

func (af *OperatorAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.CaptchaInitResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrCacheNotAvailable)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.CaptchaInitResponse{
		ChallengeID:       ch.ID,
		MasterImageBase64: ch.MasterImageBase64,
		ThumbImageBase64:  ch.ThumbImageBase64,
	}, nil
}

func (af *OperatorAuthFlowImpl) Login(ctx context.Context, req *dto.OperatorLoginRequest, metadata *ClientMetadata) (*dto.OperatorLoginResponse, error) {
	if req == nil || len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrIncorrectPassword)
	}
	if len(req.ChallengeID) == 0 {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha challenge missing", ErrInvalidCaptcha)
	}

	// Captcha first, so credentials cannot be probed without solving it
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, req.ChallengeID, req.UserAngle) {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrInvalidCaptcha)
	}

	username := strings.TrimSpace(req.Username)
	operator, err := af.operatorRepo.ByUsername(ctx, username)
	if err != nil {
		return nil, NewBusinessError("OPERATOR_LOOKUP_FAILED", "Failed to lookup operator", err)
	}
	if operator == nil {
		af.auditFailure(ctx, nil, username, "unknown username", metadata)
		return nil, NewBusinessError("OPERATOR_NOT_FOUND", "Operator not found", ErrOperatorNotFound)
	}
	if !utils.IsTrue(operator.IsActive) {
		af.auditFailure(ctx, &operator.ID, username, "inactive operator", metadata)
		return nil, NewBusinessError("OPERATOR_INACTIVE", "Operator account is inactive", ErrOperatorInactive)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		af.auditFailure(ctx, &operator.ID, username, "incorrect password", metadata)
		return nil, NewBusinessError("INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateOperatorTokens(operator.ID, operator.Username, operator.RoleID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := af.operatorRepo.UpdateLastLogin(ctx, operator.ID, now); err != nil {
		af.logger.Warn("last login update failed", zap.Uint("operator_id", operator.ID), zap.Error(err))
	}
	operator.LastLoginAt = &now

	audit := newAuditLog(&operator.ID, models.AuditActionLoginSuccess, "operator", &operator.ID, "operator logged in", metadata, nil)
	if err := af.auditRepo.Save(ctx, audit); err != nil {
		af.logger.Warn("login audit failed", zap.Uint("operator_id", operator.ID), zap.Error(err))
	}

	return &dto.OperatorLoginResponse{
		Operator: ToOperatorDTO(*operator),
		Session:  af.session(accessToken, refreshToken),
	}, nil
}

func (af *OperatorAuthFlowImpl) auditFailure(ctx context.Context, operatorID *uint, username, reason string, metadata *ClientMetadata) {
	audit := newAuditLog(operatorID, models.AuditActionLoginFailed, "operator", operatorID, "operator login failed", metadata,
		map[string]any{"username": username, "reason": reason})
	audit.Success = utils.ToPtr(false)
	audit.ErrorMessage = &reason
	if err := af.auditRepo.Save(ctx, audit); err != nil {
		af.logger.Warn("login audit failed", zap.String("username", username), zap.Error(err))
	}
}

func (af *OperatorAuthFlowImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.OperatorSessionDTO, error) {
	if req == nil || strings.TrimSpace(req.RefreshToken) == "" {
		return nil, NewBusinessError("REFRESH_TOKEN_REQUIRED", "Refresh token is required", nil)
	}
	claims, err := af.tokenService.ValidateOperatorToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_INVALID", "Invalid refresh token", err)
	}

	operator, err := af.operatorRepo.ByID(ctx, claims.OperatorID)
	if err != nil {
		return nil, NewBusinessError("OPERATOR_LOOKUP_FAILED", "Failed to lookup operator", err)
	}
	if operator == nil {
		return nil, NewBusinessError("OPERATOR_NOT_FOUND", "Operator not found", ErrOperatorNotFound)
	}
	if !utils.IsTrue(operator.IsActive) {
		return nil, NewBusinessError("OPERATOR_INACTIVE", "Operator account is inactive", ErrOperatorInactive)
	}

	accessToken, refreshToken, err := af.tokenService.RefreshOperatorToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_INVALID", "Invalid refresh token", err)
	}
	session := af.session(accessToken, refreshToken)
	return &session, nil
}

func (af *OperatorAuthFlowImpl) Logout(ctx context.Context, accessToken string) error {
	if err := af.tokenService.RevokeToken(accessToken); err != nil {
		return NewBusinessError("TOKEN_INVALID", "Invalid access token", err)
	}
	return nil
}

func (af *OperatorAuthFlowImpl) session(accessToken, refreshToken string) dto.OperatorSessionDTO {
	return dto.OperatorSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(af.tokenService.AccessTokenTTL().Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    utils.UTCNow().Format(time.RFC3339),
	}
}
