package form

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/modal"
	"github.com/sheetdesk/sheetdesk/internal/notify"
)

type fakeLookup struct{}

func (fakeLookup) States(context.Context) ([]api.Ref, error) {
	return []api.Ref{{ID: "1", Name: "Karnataka"}}, nil
}

func (fakeLookup) Districts(_ context.Context, stateID string) ([]api.Ref, error) {
	if stateID == "1" {
		return []api.Ref{{ID: "11", Name: "Mysuru"}}, nil
	}
	return nil, nil
}

func (fakeLookup) Blocks(_ context.Context, districtID string) ([]api.Ref, error) {
	if districtID == "11" {
		return []api.Ref{{ID: "111", Name: "Nanjangud"}}, nil
	}
	return nil, nil
}

func cascadeDef() core.EntityDefinition {
	return core.EntityDefinition{
		Kind:       core.EntityTP,
		Label:      "Training Partner",
		Modal:      core.ModalAddTP,
		PrimaryKey: "pklTpId",
		Fields: []core.FieldSpec{
			{Key: "state", Label: "State", Kind: core.FieldSelect, Lookup: core.LookupState},
			{Key: "district", Label: "District", Kind: core.FieldSelect, Lookup: core.LookupDistrict},
			{Key: "block", Label: "Block", Kind: core.FieldSelect, Lookup: core.LookupBlock},
		},
	}
}

func newCascadeHarness(t *testing.T) (*Form, *Cascade) {
	t.Helper()
	coord := modal.NewCoordinator()
	frm, err := New(cascadeDef(), coord, &fakeSubmitter{}, notify.NewBuffer(nil),
		WithScheduler(func(time.Duration, func()) {}))
	require.NoError(t, err)
	return frm, NewCascade(fakeLookup{}, frm)
}

func TestCascadeSelectState(t *testing.T) {
	frm, c := newCascadeHarness(t)
	ctx := context.Background()

	require.NoError(t, c.LoadStates(ctx))
	require.Len(t, c.States(), 1)

	require.NoError(t, c.SelectState(ctx, c.States()[0]))
	assert.Equal(t, "Karnataka", frm.Value("state"))
	assert.Len(t, c.Districts(), 1)
	assert.Empty(t, c.Blocks())
}

func TestCascadeStateChangeClearsLowerLevels(t *testing.T) {
	frm, c := newCascadeHarness(t)
	ctx := context.Background()

	require.NoError(t, c.LoadStates(ctx))
	require.NoError(t, c.SelectState(ctx, api.Ref{ID: "1", Name: "Karnataka"}))
	require.NoError(t, c.SelectDistrict(ctx, api.Ref{ID: "11", Name: "Mysuru"}))
	c.SelectBlock(api.Ref{ID: "111", Name: "Nanjangud"})

	require.Equal(t, "Mysuru", frm.Value("district"))
	require.Equal(t, "Nanjangud", frm.Value("block"))

	// Re-selecting a state clears district and block, value and options.
	require.NoError(t, c.SelectState(ctx, api.Ref{ID: "2", Name: "Maharashtra"}))
	assert.Equal(t, "Maharashtra", frm.Value("state"))
	assert.Equal(t, "", frm.Value("district"))
	assert.Equal(t, "", frm.Value("block"))
	assert.Empty(t, c.Blocks())
}

func TestCascadeDistrictChangeClearsBlock(t *testing.T) {
	frm, c := newCascadeHarness(t)
	ctx := context.Background()

	require.NoError(t, c.SelectState(ctx, api.Ref{ID: "1", Name: "Karnataka"}))
	require.NoError(t, c.SelectDistrict(ctx, api.Ref{ID: "11", Name: "Mysuru"}))
	c.SelectBlock(api.Ref{ID: "111", Name: "Nanjangud"})

	require.NoError(t, c.SelectDistrict(ctx, api.Ref{ID: "12", Name: "Hassan"}))
	assert.Equal(t, "Hassan", frm.Value("district"))
	assert.Equal(t, "", frm.Value("block"))
}
