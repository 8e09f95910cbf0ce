package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/app/services"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

type quoteFixture struct {
	*priceFixture
	bills     *memBillRepo
	suppliers *memSupplierRepo
	audit     *memAuditRepo
	settings  *memSettingRepo
	flow      *QuoteFlowImpl
	valveLine uint
	attLine   uint
	supplier  uint
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()
	fx := &quoteFixture{
		priceFixture: newPriceFixture(),
		bills:        newMemBillRepo(),
		suppliers:    newMemSupplierRepo(),
		audit:        &memAuditRepo{},
		settings:     newMemSettingRepo(),
	}
	fx.tx.stores = append(fx.tx.stores, fx.audit)

	bill := &models.Bill{
		BillNo: "RFQ-001",
		Title:  "Pump station",
		Details: []models.BillDetail{
			{Category: models.PartCategoryValveBody, ItemType: "Gate", DN: "DN80", PN: "PN25", Material: "CF8M", Quantity: 4},
			{Category: models.PartCategoryAttachment, ItemType: "Actuator", Model: "IQ10", Brand: "Rotork", Quantity: 1},
		},
	}
	require.NoError(t, fx.bills.Save(context.Background(), bill))
	fx.valveLine = bill.Details[0].ID
	fx.attLine = bill.Details[1].ID

	supplier := &models.Supplier{Code: "SUP01", Name: "Acme", IsActive: utils.ToPtr(true)}
	require.NoError(t, fx.suppliers.Save(context.Background(), supplier))
	fx.supplier = supplier.ID

	settingFlow := NewSettingFlow(fx.settings, fx.audit, fx.tx, services.NewSettingCache(time.Minute), nil)
	fx.flow = NewQuoteFlow(fx.repos, fx.bills, fx.suppliers, fx.audit, fx.tx, settingFlow, 30, nil).(*QuoteFlowImpl)
	fx.flow.now = func() time.Time { return fixedNow }
	return fx
}

func TestSubmitQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("valve body line starts active with default validity", func(t *testing.T) {
		fx := newQuoteFixture(t)
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1520.5)}

		out, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, "valid", out.PriceStatusText)
		assert.Equal(t, "not bound", out.BindingText)
		assert.Equal(t, -30, out.Timeout)

		active := fx.valve.all(models.PriceSetActive)
		require.Len(t, active, 1)
		p := active[0]
		assert.True(t, p.IsActive())
		require.NotNil(t, p.ValveBody)
		assert.Equal(t, "Gate", p.ValveBody.ValveType)
		assert.Equal(t, "DN80", p.ValveBody.DN)
		assert.Equal(t, "CF8M", p.ValveBody.BodyMaterial)
		assert.Equal(t, 4, p.ValveBody.Quantity)
		require.NotNil(t, p.AskDate)
		assert.True(t, fixedNow.Equal(*p.AskDate))
		assert.Equal(t, []string{models.AuditActionQuoteSubmitted}, fx.audit.actions())
	})

	t.Run("setting overrides configured default", func(t *testing.T) {
		fx := newQuoteFixture(t)
		fx.settings.rows[utils.PriceValidityDaysSettingKey] = models.SystemSetting{Key: utils.PriceValidityDaysSettingKey, Value: "45"}
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.attLine, SupplierID: fx.supplier, Price: utils.ToPtr(300.0), IsPreProBind: true}

		out, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, -45, out.Timeout)
		assert.Equal(t, "bound to pre-production run", out.BindingText)
		require.Len(t, fx.attachment.all(models.PriceSetActive), 1)
		assert.Empty(t, fx.valve.all(models.PriceSetActive))
	})

	t.Run("malformed setting falls back", func(t *testing.T) {
		fx := newQuoteFixture(t)
		fx.settings.rows[utils.PriceValidityDaysSettingKey] = models.SystemSetting{Key: utils.PriceValidityDaysSettingKey, Value: "soon"}
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1.0)}

		out, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, -30, out.Timeout)
	})

	t.Run("requested validity wins", func(t *testing.T) {
		fx := newQuoteFixture(t)
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1.0), ValidityDays: utils.ToPtr(7)}

		out, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.NoError(t, err)
		assert.Equal(t, -7, out.Timeout)
	})

	t.Run("zero requested validity is rejected", func(t *testing.T) {
		fx := newQuoteFixture(t)
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1.0), ValidityDays: utils.ToPtr(0)}

		_, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Empty(t, fx.valve.all(models.PriceSetActive))
	})

	t.Run("unknown bill line", func(t *testing.T) {
		fx := newQuoteFixture(t)
		req := &dto.SubmitQuoteRequest{BillDetailID: 99, SupplierID: fx.supplier, Price: utils.ToPtr(1.0)}

		_, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		assert.True(t, IsNotFound(err))
	})

	t.Run("inactive supplier", func(t *testing.T) {
		fx := newQuoteFixture(t)
		s, _ := fx.suppliers.ByID(ctx, fx.supplier)
		s.IsActive = utils.ToPtr(false)
		require.NoError(t, fx.suppliers.Update(ctx, s))
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1.0)}

		_, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		assert.ErrorIs(t, err, ErrSupplierInactive)
	})

	t.Run("audit failure rolls back the insert", func(t *testing.T) {
		fx := newQuoteFixture(t)
		fx.audit.fail = errStorage
		req := &dto.SubmitQuoteRequest{BillDetailID: fx.valveLine, SupplierID: fx.supplier, Price: utils.ToPtr(1.0)}

		_, err := fx.flow.SubmitQuote(ctx, req, 1, "alice", nil)
		require.Error(t, err)
		assert.Empty(t, fx.valve.all(models.PriceSetActive))
	})
}

func TestUpdateRemark(t *testing.T) {
	ctx := context.Background()
	fx := newQuoteFixture(t)
	activeID := fx.valve.seed(valvePart(-1, 0))
	expiredID := fx.valve.seed(valvePart(1, 0))

	out, err := fx.flow.UpdateRemark(ctx, "ValveBody", activeID, &dto.UpdatePriceRemarkRequest{Remark: utils.ToPtr("confirmed by phone")}, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, out.Remark)
	assert.Equal(t, "confirmed by phone", *out.Remark)

	p, _ := fx.valve.get(models.PriceSetActive, activeID)
	assert.Equal(t, "confirmed by phone", *p.Remark)

	require.Len(t, fx.audit.entries, 1)
	entry := fx.audit.entries[0]
	assert.Equal(t, models.AuditActionPriceRemarkUpdated, entry.Action)
	assert.Equal(t, "ValveBody", *entry.EntityType)
	assert.Equal(t, activeID, *entry.EntityID)

	_, err = fx.flow.UpdateRemark(ctx, "ValveBody", expiredID, &dto.UpdatePriceRemarkRequest{Remark: utils.ToPtr("x")}, 2, nil)
	assert.True(t, IsNotFound(err))

	_, err = fx.flow.UpdateRemark(ctx, "Flange", activeID, &dto.UpdatePriceRemarkRequest{}, 2, nil)
	assert.True(t, IsInvalidPartCategory(err))
	assert.Len(t, fx.audit.entries, 1)
}
