package businessflow

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valvedesk/quoting-backoffice/app/dto"
	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

func newSupplierFlowForTest() (*SupplierFlowImpl, *memSupplierRepo, *memAuditRepo) {
	suppliers := newMemSupplierRepo()
	audit := &memAuditRepo{}
	tx := &memTxManager{stores: []interface{ snapshot() func() }{suppliers, audit}}
	return NewSupplierFlow(suppliers, audit, tx, nil).(*SupplierFlowImpl), suppliers, audit
}

func workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	w, err := newSheetWriter("suppliers", rows[0])
	require.NoError(t, err)
	for _, row := range rows[1:] {
		require.NoError(t, w.writeRow(row))
	}
	content, err := w.bytes()
	require.NoError(t, err)
	return content
}

func TestSupplierExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _, _ := newSupplierFlowForTest()
	for _, req := range []*dto.CreateSupplierRequest{
		{Code: "S-002", Name: "Beta Castings", Phone: utils.ToPtr("+49 30 1234")},
		{Code: "S-001", Name: "Alpha Valves", Contact: utils.ToPtr("Ines"), Email: utils.ToPtr("sales@alpha.example"), Address: utils.ToPtr("Dock 4, Hamburg")},
	} {
		_, err := source.CreateSupplier(ctx, req)
		require.NoError(t, err)
	}

	name, content, err := source.ExportSuppliers(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "suppliers_"))

	rows, err := readFirstSheetBytes(content)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SupplierImportHeader, rows[0])
	assert.Equal(t, "S-001", rows[1][0])

	target, targetRepo, audit := newSupplierFlowForTest()
	result, err := target.ImportSuppliers(ctx, bytes.NewReader(content), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, dto.SupplierImportResult{Total: 2, Created: 2}, *result)
	assert.Equal(t, []string{models.AuditActionSupplierImported}, audit.actions())

	got, err := targetRepo.ByCode(ctx, "S-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alpha Valves", got.Name)
	assert.Equal(t, "Ines", utils.Deref(got.Contact))
	assert.Equal(t, "sales@alpha.example", utils.Deref(got.Email))
	assert.Equal(t, "Dock 4, Hamburg", utils.Deref(got.Address))
	assert.Nil(t, got.Phone)
	assert.True(t, utils.IsTrue(got.IsActive))

	beta, _ := targetRepo.ByCode(ctx, "S-002")
	require.NotNil(t, beta)
	assert.Equal(t, "+49 30 1234", utils.Deref(beta.Phone))
}

func TestImportSuppliersUpdatesAndSkips(t *testing.T) {
	ctx := context.Background()
	flow, repo, _ := newSupplierFlowForTest()
	_, err := flow.CreateSupplier(ctx, &dto.CreateSupplierRequest{Code: "S-001", Name: "Old name"})
	require.NoError(t, err)

	content := workbook(t,
		SupplierImportHeader,
		[]string{"S-001", "New name", "", "", "", "", "preferred"},
		[]string{"", "No code", "", "", "", "", ""},
		[]string{"S-003", "Gamma", "", "", "", "", ""},
		[]string{"S-003", "Gamma Ltd", "", "", "", "", ""},
	)

	result, err := flow.ImportSuppliers(ctx, bytes.NewReader(content), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, result.Total, result.Created+result.Updated+result.Skipped)

	updated, _ := repo.ByCode(ctx, "S-001")
	assert.Equal(t, "New name", updated.Name)
	assert.Equal(t, "preferred", utils.Deref(updated.Remark))

	gamma, _ := repo.ByCode(ctx, "S-003")
	require.NotNil(t, gamma)
	assert.Equal(t, "Gamma Ltd", gamma.Name)
}

func TestImportSuppliersRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	flow, repo, _ := newSupplierFlowForTest()

	_, err := flow.ImportSuppliers(ctx, strings.NewReader("not a workbook"), 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImportFile)

	content := workbook(t, []string{"name", "code"}, []string{"Alpha", "S-001"})
	_, err = flow.ImportSuppliers(ctx, bytes.NewReader(content), 1, nil)
	assert.ErrorIs(t, err, ErrImportHeaderMismatch)

	n, _ := repo.Count(ctx, models.SupplierFilter{})
	assert.Zero(t, n)
}

func TestSupplierCodeIsUnique(t *testing.T) {
	ctx := context.Background()
	flow, _, _ := newSupplierFlowForTest()
	_, err := flow.CreateSupplier(ctx, &dto.CreateSupplierRequest{Code: "S-001", Name: "Alpha"})
	require.NoError(t, err)

	_, err = flow.CreateSupplier(ctx, &dto.CreateSupplierRequest{Code: " S-001 ", Name: "Alpha again"})
	assert.True(t, IsConflict(err))
}

func TestDeactivateSupplier(t *testing.T) {
	ctx := context.Background()
	flow, _, _ := newSupplierFlowForTest()
	created, err := flow.CreateSupplier(ctx, &dto.CreateSupplierRequest{Code: "S-001", Name: "Alpha"})
	require.NoError(t, err)

	require.NoError(t, flow.DeactivateSupplier(ctx, created.ID))
	got, err := flow.GetSupplier(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.True(t, IsNotFound(flow.DeactivateSupplier(ctx, 404)))
}
