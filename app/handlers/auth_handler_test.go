package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
)

type stubAuthFlow struct {
	loginErr   error
	refreshErr error
	logoutErr  error

	loggedOut string
}

func (s *stubAuthFlow) InitCaptcha(context.Context) (*dto.CaptchaInitResponse, error) {
	return &dto.CaptchaInitResponse{ChallengeID: "challenge-1"}, nil
}

func (s *stubAuthFlow) Login(context.Context, *dto.OperatorLoginRequest, *businessflow.ClientMetadata) (*dto.OperatorLoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.OperatorLoginResponse{Session: dto.OperatorSessionDTO{AccessToken: "access", TokenType: "Bearer"}}, nil
}

func (s *stubAuthFlow) Refresh(context.Context, *dto.RefreshTokenRequest) (*dto.OperatorSessionDTO, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &dto.OperatorSessionDTO{AccessToken: "access-2", TokenType: "Bearer"}, nil
}

func (s *stubAuthFlow) Logout(_ context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return s.logoutErr
}

func newAuthApp(flow businessflow.OperatorAuthFlow) *fiber.App {
	h := NewAuthHandler(flow, nil)
	app := fiber.New()
	app.Get("/auth/captcha", h.InitCaptcha)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.Refresh)
	app.Post("/auth/logout", h.Logout)
	return app
}

const validLogin = `{"challenge_id":"challenge-1","username":"buyer","password":"s3cret-passw0rd","user_angle":42}`

func loginBody(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/auth/login", validLogin)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestLoginCredentialFailuresAreIndistinguishable(t *testing.T) {
	unknown := &stubAuthFlow{loginErr: businessflow.NewBusinessError("OPERATOR_NOT_FOUND", "Operator not found", businessflow.ErrOperatorNotFound)}
	wrong := &stubAuthFlow{loginErr: businessflow.NewBusinessError("INCORRECT_PASSWORD", "Incorrect password", businessflow.ErrIncorrectPassword)}

	unknownStatus, unknownBody := loginBody(t, newAuthApp(unknown))
	wrongStatus, wrongBody := loginBody(t, newAuthApp(wrong))

	assert.Equal(t, fiber.StatusUnauthorized, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknownBody, wrongBody)
	assert.Contains(t, unknownBody, `"INVALID_CREDENTIALS"`)
}

func TestLoginStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"success", nil, fiber.StatusOK, ""},
		{"captcha", businessflow.NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", businessflow.ErrInvalidCaptcha), fiber.StatusBadRequest, "INVALID_CAPTCHA"},
		{"inactive", businessflow.NewBusinessError("OPERATOR_INACTIVE", "Operator account is inactive", businessflow.ErrOperatorInactive), fiber.StatusForbidden, "OPERATOR_INACTIVE"},
		{"storage", businessflow.NewBusinessError("OPERATOR_LOOKUP_FAILED", "Failed to lookup operator", assert.AnError), fiber.StatusInternalServerError, "LOGIN_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := loginBody(t, newAuthApp(&stubAuthFlow{loginErr: tt.err}))
			assert.Equal(t, tt.status, status)
			if tt.code != "" {
				assert.Contains(t, body, `"`+tt.code+`"`)
			}
		})
	}
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	app := newAuthApp(&stubAuthFlow{})

	resp := doJSON(t, app, http.MethodPost, "/auth/login", `{"username":"buyer"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRefreshAndLogoutHandlers(t *testing.T) {
	flow := &stubAuthFlow{}
	app := newAuthApp(flow)

	resp := doJSON(t, app, http.MethodPost, "/auth/refresh", `{"refresh_token":"r"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	flow.refreshErr = businessflow.NewBusinessError("TOKEN_INVALID", "Invalid refresh token", assert.AnError)
	resp = doJSON(t, app, http.MethodPost, "/auth/refresh", `{"refresh_token":"r"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer access-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "access-token", flow.loggedOut)
}
