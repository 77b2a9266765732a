package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTetherCap(t *testing.T) {
	var ts Tethers
	_, err := ts.Link(1, 2, TetherStrength)
	require.NoError(t, err)
	tt, err := ts.Link(3, 1, TetherStrength)
	require.NoError(t, err)
	assert.Equal(t, TetherRestLength, tt.RestLength)

	_, err = ts.Link(1, 4, TetherStrength)
	assert.ErrorIs(t, err, ErrTetherLimit)
	_, err = ts.Link(4, 1, TetherStrength)
	assert.ErrorIs(t, err, ErrTetherLimit)
	assert.Len(t, ts, 2)
	assert.Equal(t, 2, ts.Count(1))
}

func TestTetherSymmetricDuplicate(t *testing.T) {
	var ts Tethers
	_, err := ts.Link(1, 2, TetherStrength)
	require.NoError(t, err)
	assert.True(t, ts.Linked(2, 1))

	_, err = ts.Link(2, 1, TetherStrength)
	assert.ErrorIs(t, err, ErrAlreadyTethered)

	_, err = ts.Link(3, 3, TetherStrength)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestTetherUnlink(t *testing.T) {
	var ts Tethers
	_, _ = ts.Link(1, 2, TetherStrength)
	_, _ = ts.Link(2, 3, TetherStrength)
	_, _ = ts.Link(3, 4, TetherStrength)

	assert.Equal(t, 2, ts.Unlink(2))
	assert.Len(t, ts, 1)
	assert.Equal(t, ID(4), ts[0].Other(3))
}
