package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

func TestOpenLastWriterWins(t *testing.T) {
	c := NewCoordinator()

	c.Open(core.ModalAddTP)
	c.Open(core.ModalAddCourse)

	s := c.Session()
	assert.True(t, s.Open)
	assert.Equal(t, core.ModalAddCourse, s.Kind)
	assert.False(t, c.IsActive(core.ModalAddTP))
	assert.True(t, c.IsActive(core.ModalAddCourse))
}

func TestOpenDefaults(t *testing.T) {
	c := NewCoordinator()
	c.Open(core.ModalAddTarget)

	s := c.Session()
	assert.Equal(t, core.WorkflowCreate, s.Mode)
	assert.Nil(t, s.Payload)
	assert.Equal(t, core.SheetNull, s.Sheet)
}

func TestOpenDropsPayloadOutsideUpdateMode(t *testing.T) {
	c := NewCoordinator()

	// WithUpdate then a plain re-open: the payload must not survive.
	c.Open(core.ModalAddTP, WithUpdate(core.Record{"pklTpId": "1"}))
	require.NotNil(t, c.Session().Payload)

	c.Open(core.ModalAddTP)
	assert.Nil(t, c.Session().Payload)
	assert.Equal(t, core.WorkflowCreate, c.Session().Mode)
}

func TestCloseResetsSession(t *testing.T) {
	c := NewCoordinator()
	c.Open(core.ModalUploadSheet, WithSheet(core.SheetTP))
	c.Close()

	s := c.Session()
	assert.False(t, s.Open)
	assert.Equal(t, core.WorkflowCreate, s.Mode)
	assert.Nil(t, s.Payload)
	assert.Equal(t, core.SheetNull, s.Sheet)
}

func TestBumpRefreshChangesToken(t *testing.T) {
	c := NewCoordinator()
	before := c.Refresh()

	c.BumpRefresh()
	after := c.Refresh()

	assert.Equal(t, before.Seq+1, after.Seq)
	assert.NotEqual(t, before.Nonce, after.Nonce)
}

func TestOnRefreshFiresOncePerBump(t *testing.T) {
	c := NewCoordinator()
	var tokens []RefreshToken
	c.OnRefresh(func(tok RefreshToken) { tokens = append(tokens, tok) })

	c.BumpRefresh()
	require.Len(t, tokens, 1)
	assert.Equal(t, uint64(1), tokens[0].Seq)

	c.BumpRefresh()
	assert.Len(t, tokens, 2)
}

func TestOnSessionUnsubscribe(t *testing.T) {
	c := NewCoordinator()
	calls := 0
	unsubscribe := c.OnSession(func(Session) { calls++ })

	c.Open(core.ModalAddTP)
	require.Equal(t, 1, calls)

	unsubscribe()
	c.Close()
	assert.Equal(t, 1, calls)
}

func TestRegisterConsumerRejectsDuplicate(t *testing.T) {
	c := NewCoordinator()

	require.NoError(t, c.RegisterConsumer(core.ModalAddTP, "tp form"))
	err := c.RegisterConsumer(core.ModalAddTP, "second tp form")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tp form")

	assert.NoError(t, c.RegisterConsumer(core.ModalAddTC, "tc form"))
}
