package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
)

func newTokenService(t *testing.T) services.TokenService {
	t.Helper()
	svc, err := services.NewTokenService(15*time.Minute, time.Hour, "test", "test", false, "", "", "middleware-test-secret-key-0123456789")
	require.NoError(t, err)
	return svc
}

type stubChecker struct {
	granted map[uint][]string
	err     error
}

func (s stubChecker) HasPermission(_ context.Context, roleID uint, code string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, c := range s.granted[roleID] {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

func newTestApp(tokens services.TokenService, checker PermissionChecker) *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware(tokens)
	perms := NewPermissionMiddleware(checker, nil)

	app.Get("/me", auth.Authenticate(), func(c fiber.Ctx) error {
		id, _ := GetOperatorIDFromContext(c)
		name, _ := GetUsernameFromContext(c)
		role, _ := GetRoleIDFromContext(c)
		return c.JSON(fiber.Map{"operator_id": id, "username": name, "role_id": role})
	})
	app.Get("/prices", auth.Authenticate(), perms.Require("quote:price"), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error dto.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokenService(t)
	app := newTestApp(tokens, stubChecker{})

	access, refresh, err := tokens.GenerateOperatorTokens(7, "alice", 3)
	require.NoError(t, err)

	revoked, _, err := tokens.GenerateOperatorTokens(7, "alice", 3)
	require.NoError(t, err)
	require.NoError(t, tokens.RevokeToken(revoked))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{name: "missing header", code: "MISSING_AUTHORIZATION_HEADER"},
		{name: "not bearer", header: "Basic abc", code: "INVALID_AUTHORIZATION_FORMAT"},
		{name: "garbage token", header: "Bearer not-a-jwt", code: "TOKEN_INVALID"},
		{name: "refresh token", header: "Bearer " + refresh, code: "TOKEN_INVALID"},
		{name: "revoked token", header: "Bearer " + revoked, code: "TOKEN_REVOKED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}

	t.Run("valid access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			OperatorID uint   `json:"operator_id"`
			Username   string `json:"username"`
			RoleID     uint   `json:"role_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint(7), body.OperatorID)
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, uint(3), body.RoleID)
	})
}

func TestRequirePermission(t *testing.T) {
	tokens := newTokenService(t)
	buyer, _, err := tokens.GenerateOperatorTokens(1, "buyer", 2)
	require.NoError(t, err)
	viewer, _, err := tokens.GenerateOperatorTokens(2, "viewer", 3)
	require.NoError(t, err)

	checker := stubChecker{granted: map[uint][]string{2: {"quote:price"}}}
	app := newTestApp(tokens, checker)

	call := func(app *fiber.App, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/prices", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusNoContent, call(app, buyer).StatusCode)

	resp := call(app, viewer)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", errorCode(t, resp))

	failing := newTestApp(tokens, stubChecker{err: errors.New("redis down")})
	resp = call(failing, buyer)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "PERMISSION_CHECK_FAILED", errorCode(t, resp))
}
