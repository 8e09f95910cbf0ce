package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

type stubLifecycle struct {
	resp dto.SetPriceStatusResponse

	ids        []uint
	action     string
	extendDays *int
	user       *string
	entityType string
}

func (s *stubLifecycle) SetPriceStatus(_ context.Context, ids []uint, action string, extendDays *int, currentUser *string, entityType string) dto.SetPriceStatusResponse {
	s.ids, s.action, s.extendDays, s.user, s.entityType = ids, action, extendDays, currentUser, entityType
	return s.resp
}

func (s *stubLifecycle) Migrate(context.Context, models.PartCategory, []uint, bool, *string) (int64, error) {
	return 0, nil
}

func (s *stubLifecycle) Extend(context.Context, models.PartCategory, []uint, int, *string) (int64, error) {
	return 0, nil
}

type stubQuery struct {
	req *dto.ListPricesRequest
	err error
}

func (s *stubQuery) ListPrices(_ context.Context, req *dto.ListPricesRequest) (*dto.ListPricesResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ListPricesResponse{Items: []dto.PriceRecordDTO{}}, nil
}

func (s *stubQuery) ExportPrices(_ context.Context, req *dto.ListPricesRequest) (*dto.PriceExport, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PriceExport{FileName: "ValveBody_active_prices_20240101.xlsx", Content: []byte("xlsx")}, nil
}

type stubQuotes struct {
	err error
}

func (s *stubQuotes) SubmitQuote(_ context.Context, req *dto.SubmitQuoteRequest, _ uint, _ string, _ *businessflow.ClientMetadata) (*dto.PriceRecordDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PriceRecordDTO{ID: 1, Price: req.Price}, nil
}

func (s *stubQuotes) UpdateRemark(_ context.Context, _ string, id uint, req *dto.UpdatePriceRemarkRequest, _ uint, _ *businessflow.ClientMetadata) (*dto.PriceRecordDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PriceRecordDTO{ID: id, Remark: req.Remark}, nil
}

func newPriceApp(h PriceHandlerInterface, withOperator bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		if withOperator {
			c.Locals(utils.LocalOperatorID, uint(5))
			c.Locals(utils.LocalUsername, "alice")
			c.Locals(utils.LocalRoleID, uint(2))
		}
		return c.Next()
	})
	app.Post("/prices/status", h.SetPriceStatus)
	app.Post("/prices/quote", h.SubmitQuote)
	app.Get("/prices/:category/:set/export", h.ExportPrices)
	app.Get("/prices/:category/:set", h.ListPrices)
	app.Put("/prices/:category/:id/remark", h.UpdateRemark)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSetPriceStatusAlwaysAnswers200(t *testing.T) {
	lifecycle := &stubLifecycle{resp: dto.SetPriceStatusResponse{Success: false, Message: "Failed to update price status"}}
	app := newPriceApp(NewPriceHandler(lifecycle, &stubQuery{}, &stubQuotes{}, nil), true)

	resp := doJSON(t, app, http.MethodPost, "/prices/status", `{"ids":[3,4],"action":"EXTENDVALID","extend_days":10,"entity_type":"ValveBody"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.SetPriceStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to update price status", body.Message)

	assert.Equal(t, []uint{3, 4}, lifecycle.ids)
	assert.Equal(t, "EXTENDVALID", lifecycle.action)
	require.NotNil(t, lifecycle.extendDays)
	assert.Equal(t, 10, *lifecycle.extendDays)
	require.NotNil(t, lifecycle.user)
	assert.Equal(t, "alice", *lifecycle.user)
	assert.Equal(t, "ValveBody", lifecycle.entityType)

	resp = doJSON(t, app, http.MethodPost, "/prices/status", `{"ids":`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
}

func TestSetPriceStatusWithoutOperatorPassesNilUser(t *testing.T) {
	lifecycle := &stubLifecycle{resp: dto.SetPriceStatusResponse{Success: true, Count: 1}}
	app := newPriceApp(NewPriceHandler(lifecycle, &stubQuery{}, &stubQuotes{}, nil), false)

	resp := doJSON(t, app, http.MethodPost, "/prices/status", `{"ids":[1],"action":"SETVALID","entity_type":"Attachment"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, lifecycle.user)
	assert.Nil(t, lifecycle.extendDays)
}

func TestListPricesQueryAndErrors(t *testing.T) {
	query := &stubQuery{}
	app := newPriceApp(NewPriceHandler(&stubLifecycle{}, query, &stubQuotes{}, nil), true)

	resp := doJSON(t, app, http.MethodGet, "/prices/ValveBody/expired?supplier_id=9&is_pre_pro_bind=1&ask_date_from=2024-01-01&page=2&page_size=50", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, query.req)
	assert.Equal(t, "ValveBody", query.req.Category)
	assert.Equal(t, "expired", query.req.Set)
	assert.Equal(t, uint(9), *query.req.SupplierID)
	assert.Equal(t, 1, *query.req.IsPreProBind)
	assert.Equal(t, 2024, query.req.AskDateFrom.Year())
	assert.Equal(t, 2, query.req.Page)
	assert.Equal(t, 50, query.req.PageSize)

	query.err = businessflow.NewBusinessError("INVALID_CATEGORY", "invalid category", businessflow.ErrInvalidPartCategory)
	resp = doJSON(t, app, http.MethodGet, "/prices/Pipe/active", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	query.err = businessflow.NewBusinessError("LIST_PRICES_FAILED", "Failed to list prices", assert.AnError)
	resp = doJSON(t, app, http.MethodGet, "/prices/ValveBody/active", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestListPricesRejectsMalformedFilters(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		field string
	}{
		{"supplier id", "/prices/ValveBody/active?supplier_id=abc", "supplier_id"},
		{"bill detail id", "/prices/ValveBody/active?bill_detail_id=-1", "bill_detail_id"},
		{"ask date", "/prices/ValveBody/active?ask_date_from=yesterday", "ask_date_from"},
		{"binding flag", "/prices/ValveBody/active?is_pre_pro_bind=yes", "is_pre_pro_bind"},
		{"page", "/prices/ValveBody/active?page=x", "page"},
		{"export filter", "/prices/ValveBody/active/export?ask_date_to=soon", "ask_date_to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &stubQuery{}
			app := newPriceApp(NewPriceHandler(&stubLifecycle{}, query, &stubQuotes{}, nil), true)

			resp := doJSON(t, app, http.MethodGet, tt.path, "")
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body dto.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Message, tt.field)
			errBody, ok := body.Error.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
			assert.Nil(t, query.req, "the query must not run without its filter")
		})
	}
}

func TestExportPricesSendsWorkbook(t *testing.T) {
	app := newPriceApp(NewPriceHandler(&stubLifecycle{}, &stubQuery{}, &stubQuotes{}, nil), true)

	resp := doJSON(t, app, http.MethodGet, "/prices/ValveBody/active/export", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ValveBody_active_prices_20240101.xlsx")
}

func TestSubmitQuoteHandler(t *testing.T) {
	quotes := &stubQuotes{}
	app := newPriceApp(NewPriceHandler(&stubLifecycle{}, &stubQuery{}, quotes, nil), true)

	resp := doJSON(t, app, http.MethodPost, "/prices/quote", `{"bill_detail_id":1,"supplier_id":2,"price":120.5}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/prices/quote", `{"bill_detail_id":1,"supplier_id":2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	quotes.err = businessflow.NewBusinessError("BILL_DETAIL_NOT_FOUND", "Bill detail not found", businessflow.ErrBillDetailNotFound)
	resp = doJSON(t, app, http.MethodPost, "/prices/quote", `{"bill_detail_id":1,"supplier_id":2,"price":1}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	anonymous := newPriceApp(NewPriceHandler(&stubLifecycle{}, &stubQuery{}, &stubQuotes{}, nil), false)
	resp = doJSON(t, anonymous, http.MethodPost, "/prices/quote", `{"bill_detail_id":1,"supplier_id":2,"price":1}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateRemarkHandler(t *testing.T) {
	app := newPriceApp(NewPriceHandler(&stubLifecycle{}, &stubQuery{}, &stubQuotes{}, nil), true)

	resp := doJSON(t, app, http.MethodPut, "/prices/ValveBody/abc/remark", `{"remark":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/prices/ValveBody/7/remark", `{"remark":"check flange"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.PriceRecordDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(7), body.Data.ID)
	assert.Equal(t, "check flange", *body.Data.Remark)
}
