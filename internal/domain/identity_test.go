package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_CatalogRef(t *testing.T) {
	id := CatalogRef("7")
	require.NoError(t, id.Validate())
	assert.False(t, id.IsManual())
	assert.Equal(t, "7", id.CatalogID())
	assert.Empty(t, id.ManualName())
}

func TestIdentity_Manual(t *testing.T) {
	id := Manual("Jean Tremblay")
	require.NoError(t, id.Validate())
	assert.True(t, id.IsManual())
	assert.Equal(t, "Jean Tremblay", id.ManualName())
	assert.Empty(t, id.CatalogID())
}

func TestIdentity_NeitherSide(t *testing.T) {
	var id Identity
	err := id.Validate()
	require.ErrorIs(t, err, ErrMissingIdentity)
}

func TestIdentity_BothSides(t *testing.T) {
	id := Identity{catalogRef: "7", manualName: "Jean"}
	err := id.Validate()
	require.ErrorIs(t, err, ErrConflictingIdentity)
}
