package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newLifecycleFlow(fx *priceFixture) *PriceLifecycleFlowImpl {
	f := NewPriceLifecycleFlow(fx.repos, fx.tx, nil).(*PriceLifecycleFlowImpl)
	f.now = func() time.Time { return fixedNow }
	return f
}

// assertPartitioned checks that every stored record sits in the set its timeout implies
func assertPartitioned(t *testing.T, repo *memPriceRepo) {
	t.Helper()
	ids := map[uint]models.PriceSet{}
	for _, set := range []models.PriceSet{models.PriceSetActive, models.PriceSetExpired} {
		for _, p := range repo.all(set) {
			assert.Equal(t, set, p.Set(), "record %d has timeout %d in %s set", p.ID, p.Timeout, set)
			_, dup := ids[p.ID]
			assert.False(t, dup, "record %d stored in both sets", p.ID)
			ids[p.ID] = set
		}
	}
}

func TestSetPriceStatusValidation(t *testing.T) {
	days := 30
	zero := 0
	tests := []struct {
		name       string
		ids        []uint
		action     string
		extendDays *int
		entityType string
		message    string
	}{
		{"unknown action", []uint{1}, "BOGUS", nil, "ValveBody", "invalid action"},
		{"empty action", []uint{1}, "", &days, "ValveBody", "invalid action"},
		{"unknown category", []uint{1}, "SETVALID", nil, "Flange", "invalid category"},
		{"action checked before category", []uint{1}, "BOGUS", nil, "Flange", "invalid action"},
		{"no ids", nil, "SETEXPIRED", nil, "ValveBody", "ids are required"},
		{"extend without days", []uint{1}, "EXTENDVALID", nil, "ValveBody", "extend days must be at least 1"},
		{"extend with zero days", []uint{1}, "EXTENDVALID", &zero, "Attachment", "extend days must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newPriceFixture()
			id := fx.valve.seed(valvePart(-1, 0))
			before := fx.valve.all(models.PriceSetActive)

			flow := newLifecycleFlow(fx)
			res := flow.SetPriceStatus(context.Background(), tt.ids, tt.action, tt.extendDays, utils.ToPtr("alice"), tt.entityType)

			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Zero(t, res.Count)

			after := fx.valve.all(models.PriceSetActive)
			assert.Equal(t, before, after)
			assert.Empty(t, fx.valve.all(models.PriceSetExpired))
			_, ok := fx.valve.get(models.PriceSetActive, id)
			assert.True(t, ok)
		})
	}
}

func TestSetPriceStatusRevalidatesExpiredRecord(t *testing.T) {
	fx := newPriceFixture()
	expired := valvePart(10, 1)
	id := fx.valve.seed(expired)

	before, _ := fx.valve.get(models.PriceSetExpired, id)
	assert.Equal(t, "expired", PriceStatusText(before.Timeout))
	assert.Equal(t, []string{"SETVALID"}, AvailableActions(before.Timeout))

	flow := newLifecycleFlow(fx)
	res := flow.SetPriceStatus(context.Background(), []uint{id}, "SETVALID", nil, utils.ToPtr("alice"), "ValveBody")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, int64(1), res.Count)

	assert.Empty(t, fx.valve.all(models.PriceSetExpired))
	active := fx.valve.all(models.PriceSetActive)
	require.Len(t, active, 1)

	moved := active[0]
	assert.NotEqual(t, id, moved.ID)
	assert.Equal(t, -1, moved.Timeout)
	assert.Equal(t, "valid", PriceStatusText(moved.Timeout))
	assert.Equal(t, []string{"EXTENDVALID", "SETEXPIRED"}, AvailableActions(moved.Timeout))
	require.NotNil(t, moved.DoUser)
	assert.Equal(t, "alice", *moved.DoUser)
	require.NotNil(t, moved.DoDate)
	assert.True(t, fixedNow.Equal(*moved.DoDate))
	assert.Equal(t, before.ValveBody, moved.ValveBody)
	assert.Equal(t, before.Price, moved.Price)
	assert.Equal(t, 1, moved.IsPreProBind)
	assertPartitioned(t, fx.valve)
}

func TestMigrateRoundTripResetsTimeout(t *testing.T) {
	fx := newPriceFixture()
	id := fx.valve.seed(valvePart(5, 0))
	original, _ := fx.valve.get(models.PriceSetExpired, id)
	flow := newLifecycleFlow(fx)
	ctx := context.Background()

	n, err := flow.Migrate(ctx, models.PartCategoryValveBody, []uint{id}, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assertPartitioned(t, fx.valve)

	active := fx.valve.all(models.PriceSetActive)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].DoUser)

	n, err = flow.Migrate(ctx, models.PartCategoryValveBody, []uint{active[0].ID}, false, utils.ToPtr("bob"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assertPartitioned(t, fx.valve)

	assert.Empty(t, fx.valve.all(models.PriceSetActive))
	expired := fx.valve.all(models.PriceSetExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, 1, expired[0].Timeout)
	assert.NotEqual(t, 5, expired[0].Timeout)
	assert.Equal(t, original.ValveBody, expired[0].ValveBody)
	assert.Equal(t, original.SupplierID, expired[0].SupplierID)
}

func TestMigrateWithoutMatchesIsNoOp(t *testing.T) {
	fx := newPriceFixture()
	activeID := fx.valve.seed(valvePart(-1, 0))
	flow := newLifecycleFlow(fx)

	// the id exists, but in the active set, so SETVALID finds nothing to move
	res := flow.SetPriceStatus(context.Background(), []uint{activeID, 999}, "SETVALID", nil, nil, "ValveBody")
	assert.True(t, res.Success)
	assert.Zero(t, res.Count)

	_, ok := fx.valve.get(models.PriceSetActive, activeID)
	assert.True(t, ok)
	assert.Empty(t, fx.valve.all(models.PriceSetExpired))
}

func TestMigrateBatchKeepsCategoriesApart(t *testing.T) {
	fx := newPriceFixture()
	a := fx.valve.seed(valvePart(-1, 0))
	b := fx.valve.seed(valvePart(-7, 1))
	attID := fx.attachment.seed(models.PricedPart{Timeout: -1, Attachment: &models.AttachmentSpec{AttachmentType: "Actuator"}})
	flow := newLifecycleFlow(fx)

	res := flow.SetPriceStatus(context.Background(), []uint{a, b}, "SETEXPIRED", nil, utils.ToPtr("carol"), "ValveBody")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, int64(2), res.Count)

	expired := fx.valve.all(models.PriceSetExpired)
	require.Len(t, expired, 2)
	for _, p := range expired {
		assert.Equal(t, 1, p.Timeout)
		assert.Equal(t, "carol", *p.DoUser)
	}
	assert.Empty(t, fx.valve.all(models.PriceSetActive))

	_, ok := fx.attachment.get(models.PriceSetActive, attID)
	assert.True(t, ok)
	assertPartitioned(t, fx.valve)
	assertPartitioned(t, fx.attachment)
}

func TestMigrateRollsBackOnFailure(t *testing.T) {
	fx := newPriceFixture()
	id := fx.valve.seed(valvePart(-1, 0))
	fx.valve.failDelete = errStorage
	flow := newLifecycleFlow(fx)

	res := flow.SetPriceStatus(context.Background(), []uint{id}, "SETEXPIRED", nil, nil, "ValveBody")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to update price status", res.Message)
	assert.NotContains(t, res.Message, errStorage.Error())

	_, ok := fx.valve.get(models.PriceSetActive, id)
	assert.True(t, ok)
	assert.Empty(t, fx.valve.all(models.PriceSetExpired))
	assertPartitioned(t, fx.valve)
}

func TestExtendAppliesFirstBindingToWholeBatch(t *testing.T) {
	fx := newPriceFixture()
	a := fx.valve.seed(valvePart(-1, 1))
	b := fx.valve.seed(valvePart(-10, 0))
	flow := newLifecycleFlow(fx)

	n, err := flow.Extend(context.Background(), models.PartCategoryValveBody, []uint{b, a}, 3, utils.ToPtr("dave"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	pa, _ := fx.valve.get(models.PriceSetActive, a)
	pb, _ := fx.valve.get(models.PriceSetActive, b)
	assert.Equal(t, pa.IsPreProBind, pb.IsPreProBind)
	// lowest id comes first
	assert.Equal(t, 1, pa.IsPreProBind)
	for _, p := range []models.PricedPart{pa, pb} {
		assert.Equal(t, -3, p.Timeout)
		assert.Equal(t, "dave", *p.DoUser)
		assert.True(t, fixedNow.Equal(*p.DoDate))
	}
	assertPartitioned(t, fx.valve)
}

func TestExtendSingleRecordKeepsBinding(t *testing.T) {
	fx := newPriceFixture()
	id := fx.valve.seed(valvePart(-1, 0))
	flow := newLifecycleFlow(fx)

	res := flow.SetPriceStatus(context.Background(), []uint{id}, "EXTENDVALID", utils.ToPtr(30), utils.ToPtr("erin"), "ValveBody")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, int64(1), res.Count)

	p, ok := fx.valve.get(models.PriceSetActive, id)
	require.True(t, ok)
	assert.Equal(t, -30, p.Timeout)
	assert.Equal(t, 0, p.IsPreProBind)
}

func TestExtendEmptyBatch(t *testing.T) {
	fx := newPriceFixture()
	expiredID := fx.valve.seed(valvePart(4, 0))
	flow := newLifecycleFlow(fx)

	t.Run("no ids", func(t *testing.T) {
		_, err := flow.Extend(context.Background(), models.PartCategoryValveBody, nil, 3, nil)
		require.Error(t, err)
		assert.True(t, IsNoActivePriceRecords(err))
	})

	t.Run("only expired ids", func(t *testing.T) {
		res := flow.SetPriceStatus(context.Background(), []uint{expiredID}, "EXTENDVALID", utils.ToPtr(3), nil, "ValveBody")
		assert.False(t, res.Success)
		assert.Equal(t, ErrNoActivePriceRecords.Error(), res.Message)

		p, _ := fx.valve.get(models.PriceSetExpired, expiredID)
		assert.Equal(t, 4, p.Timeout)
	})
}

func TestExtendRollsBackOnFailure(t *testing.T) {
	fx := newPriceFixture()
	id := fx.valve.seed(valvePart(-2, 0))
	fx.valve.failUpdate = errStorage
	flow := newLifecycleFlow(fx)

	res := flow.SetPriceStatus(context.Background(), []uint{id}, "EXTENDVALID", utils.ToPtr(9), nil, "ValveBody")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to update price status", res.Message)

	p, _ := fx.valve.get(models.PriceSetActive, id)
	assert.Equal(t, -2, p.Timeout)
}
