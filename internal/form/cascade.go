package form

import (
	"context"
	"fmt"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
)

// LookupClient is the slice of the API client the cascade needs.
type LookupClient interface {
	States(ctx context.Context) ([]api.Ref, error)
	Districts(ctx context.Context, stateID string) ([]api.Ref, error)
	Blocks(ctx context.Context, districtID string) ([]api.Ref, error)
}

// Cascade drives the state → district → block reference lookups of a
// form. Selecting a level clears every level below it, both the selected
// value and the loaded option list, before the next list loads.
type Cascade struct {
	client LookupClient
	form   *Form

	states    []api.Ref
	districts []api.Ref
	blocks    []api.Ref

	stateID    string
	districtID string
}

// NewCascade wires a cascade to a form. The form's fields tagged with
// LookupState/LookupDistrict/LookupBlock receive the selected names.
func NewCascade(client LookupClient, f *Form) *Cascade {
	return &Cascade{client: client, form: f}
}

// LoadStates fetches the top-level option list.
func (c *Cascade) LoadStates(ctx context.Context) error {
	states, err := c.client.States(ctx)
	if err != nil {
		return fmt.Errorf("load states: %w", err)
	}
	c.states = states
	return nil
}

// SelectState picks a state, clears any previously selected district and
// block, and loads the district options for the new state.
func (c *Cascade) SelectState(ctx context.Context, ref api.Ref) error {
	c.stateID = ref.ID
	c.districtID = ""
	c.districts = nil
	c.blocks = nil
	c.setLookupValue(core.LookupState, ref.Name)
	c.setLookupValue(core.LookupDistrict, "")
	c.setLookupValue(core.LookupBlock, "")

	districts, err := c.client.Districts(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("load districts: %w", err)
	}
	c.districts = districts
	return nil
}

// SelectDistrict picks a district, clears any selected block, and loads
// the block options.
func (c *Cascade) SelectDistrict(ctx context.Context, ref api.Ref) error {
	c.districtID = ref.ID
	c.blocks = nil
	c.setLookupValue(core.LookupDistrict, ref.Name)
	c.setLookupValue(core.LookupBlock, "")

	blocks, err := c.client.Blocks(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	c.blocks = blocks
	return nil
}

// SelectBlock picks the leaf level.
func (c *Cascade) SelectBlock(ref api.Ref) {
	c.setLookupValue(core.LookupBlock, ref.Name)
}

// States returns the loaded state options.
func (c *Cascade) States() []api.Ref { return c.states }

// Districts returns the options of the selected state.
func (c *Cascade) Districts() []api.Ref { return c.districts }

// Blocks returns the options of the selected district.
func (c *Cascade) Blocks() []api.Ref { return c.blocks }

func (c *Cascade) setLookupValue(kind core.LookupKind, name string) {
	for _, spec := range c.form.def.Fields {
		if spec.Lookup == kind {
			c.form.SetValue(spec.Key, name)
			return
		}
	}
}
