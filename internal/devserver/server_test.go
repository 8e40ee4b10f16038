package devserver

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/config"
	"github.com/sheetdesk/sheetdesk/internal/core"
	_ "github.com/sheetdesk/sheetdesk/internal/core/entities"
)

const testToken = "dev-token"

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	server := NewServer(config.DevServerConfig{Token: testToken}, NewStore())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return api.New(ts.URL, api.WithTokenSource(func() string { return testToken }))
}

func TestRejectsMissingCredential(t *testing.T) {
	server := NewServer(config.DevServerConfig{Token: testToken}, NewStore())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	client := api.New(ts.URL)
	_, err := client.List(context.Background(), core.EntityTP)
	require.Error(t, err)

	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestRejectsWrongCredential(t *testing.T) {
	server := NewServer(config.DevServerConfig{Token: testToken}, NewStore())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	client := api.New(ts.URL, api.WithTokenSource(func() string { return "wrong" }))
	_, err := client.List(context.Background(), core.EntityTP)
	require.Error(t, err)
	assert.Equal(t, 403, api.AsError(err).Status)
}

func TestListSeededEntities(t *testing.T) {
	client := newTestClient(t)

	rows, err := client.List(context.Background(), core.EntityTP)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.NotEmpty(t, rows[0].String("pklTpId"))

	_, err = client.List(context.Background(), "bogus")
	require.Error(t, err)
	assert.Equal(t, 404, api.AsError(err).Status)
}

func TestCreateMapsPayloadKeys(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	before, err := client.List(ctx, core.EntityTP)
	require.NoError(t, err)

	err = client.Create(ctx, core.EntityTP, map[string]string{
		"tpId":   "TP-9999",
		"tpName": "New Partner",
		"state":  "Karnataka",
	})
	require.NoError(t, err)

	after, err := client.List(ctx, core.EntityTP)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	created := after[len(after)-1]
	assert.Equal(t, "TP-9999", created.String("tpId"))
	assert.Equal(t, "Karnataka", created.String("tpState"), "submit key maps to the record key")
	assert.True(t, created.Bool("bEnable"), "new records start enabled")
}

func TestUpdateExistingRecord(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	rows, err := client.List(ctx, core.EntityTarget)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	id := rows[0].String("pklTargetId")

	require.NoError(t, client.Update(ctx, core.EntityTarget, id,
		map[string]string{"sanctionNo": "SAN-999"}))

	rows, err = client.List(ctx, core.EntityTarget)
	require.NoError(t, err)
	assert.Equal(t, "SAN-999", rows[0].String("sanctionNo"))
}

func TestUpdateUnknownRecord(t *testing.T) {
	client := newTestClient(t)

	err := client.Update(context.Background(), core.EntityTarget, "missing",
		map[string]string{"sanctionNo": "x"})
	require.Error(t, err)
	assert.Equal(t, 404, api.AsError(err).Status)
}

func TestSetEnabledFlipsToggle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	rows, err := client.List(ctx, core.EntityTP)
	require.NoError(t, err)
	id := rows[0].String("pklTpId")

	require.NoError(t, client.SetEnabled(ctx, core.EntityTP, id, 0))

	rows, err = client.List(ctx, core.EntityTP)
	require.NoError(t, err)
	assert.False(t, rows[0].Bool("bEnable"))
}

func TestBulkImportValidSheet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	before, err := client.List(ctx, core.EntityTarget)
	require.NoError(t, err)

	sheet := strings.Join([]string{
		"sanctionNo,sanctionDate,schemeCode,totalTarget",
		"SAN-101,2025-05-01,SCH-01,100",
		"SAN-102,2025-05-02,SCH-01,200",
	}, "\n")

	err = client.BulkUpload(ctx, core.SheetTarget, "targets.xlsx", strings.NewReader(sheet))
	require.NoError(t, err)

	after, err := client.List(ctx, core.EntityTarget)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+2)
}

func TestBulkImportReportsRowErrors(t *testing.T) {
	client := newTestClient(t)

	sheet := strings.Join([]string{
		"sanctionNo,sanctionDate,schemeCode,totalTarget",
		"SAN-101,2025-05-01,SCH-01,100",
		",2025-05-02,SCH-01,200",
	}, "\n")

	err := client.BulkUpload(context.Background(), core.SheetTarget,
		"targets.xlsx", strings.NewReader(sheet))
	require.Error(t, err)

	apiErr := api.AsError(err)
	require.NotNil(t, apiErr)
	require.Len(t, apiErr.Errors, 1)
	assert.Contains(t, apiErr.Errors[0], "Row 3")
}

func TestBulkImportRejectsWrongHeader(t *testing.T) {
	client := newTestClient(t)

	err := client.BulkUpload(context.Background(), core.SheetTarget,
		"targets.xlsx", strings.NewReader("wrong,header\n1,2"))
	require.Error(t, err)
	assert.NotNil(t, api.AsError(err))
}

func TestBulkImportUnknownSheet(t *testing.T) {
	client := newTestClient(t)

	err := client.BulkUpload(context.Background(), core.SheetLegacy,
		"x.xlsx", strings.NewReader("a"))
	require.Error(t, err)
	assert.Equal(t, 404, api.AsError(err).Status)
}

func TestTemplateHeaderMatchesFields(t *testing.T) {
	client := newTestClient(t)

	body, err := client.Template(context.Background(), core.EntityTarget)
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "sanctionNo,sanctionDate,schemeCode,totalTarget",
		strings.TrimSpace(string(raw)))
}

func TestLookupCascade(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	states, err := client.States(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, states)

	districts, err := client.Districts(ctx, states[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, districts)

	blocks, err := client.Blocks(ctx, districts[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, blocks)
}

func TestListSubresource(t *testing.T) {
	client := newTestClient(t)

	rows, err := client.ListSub(context.Background(), core.EntityTC, "batches")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "B-01", rows[0].String("batchId"))

	_, err = client.ListSub(context.Background(), core.EntityTC, "nope")
	require.Error(t, err)
}
