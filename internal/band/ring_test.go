package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sized(id ID, rx, ry float64) *Band {
	p := props(440, 20, 10)
	p.RadiusX, p.RadiusY = rx, ry
	p.OriginalRadiusX, p.OriginalRadiusY = rx, ry
	return New(id, p, Vec2{X: float64(id) * 10, Y: 5}, Vec2{})
}

func TestRingRolesPicksLarger(t *testing.T) {
	small := sized(1, 20, 20)
	large := sized(2, 50, 40)
	outer, member := RingRoles(small, large)
	assert.Equal(t, large, outer)
	assert.Equal(t, small, member)
}

func TestJoinRingScalesAndCentres(t *testing.T) {
	outer := sized(1, 60, 50)
	member := sized(2, 30, 20)
	require.NoError(t, JoinRing(outer, member))

	assert.Equal(t, []ID{1, 2}, outer.Ring)
	assert.True(t, outer.IsOuter)
	assert.True(t, member.InRing)
	assert.Equal(t, ID(1), member.RingParent)
	assert.InDelta(t, 42, member.Props.OriginalRadiusX, 1e-9)
	assert.InDelta(t, 35, member.Props.OriginalRadiusY, 1e-9)
	assert.Equal(t, outer.Position, member.Position)

	third := sized(3, 25, 20)
	require.NoError(t, JoinRing(outer, third))
	assert.InDelta(t, 36, third.Props.OriginalRadiusX, 1e-9)
}

func TestRingCapacity(t *testing.T) {
	outer := sized(1, 80, 60)
	for id := ID(2); id <= RingCapacity; id++ {
		require.NoError(t, JoinRing(outer, sized(id, 10, 10)))
	}
	require.Equal(t, RingCapacity, outer.RingSize())

	extra := sized(99, 10, 10)
	assert.ErrorIs(t, JoinRing(outer, extra), ErrRingFull)
	assert.Equal(t, RingCapacity, outer.RingSize())
	assert.False(t, extra.InRing)
}

func TestJoinRingRejectsIneligible(t *testing.T) {
	outer := sized(1, 60, 50)
	hosting := sized(2, 30, 20)
	require.NoError(t, JoinRing(hosting, sized(3, 10, 10)))
	assert.ErrorIs(t, JoinRing(outer, hosting), ErrNotEligible)

	osc := sized(4, 10, 10)
	osc.Oscillating = true
	assert.ErrorIs(t, JoinRing(outer, osc), ErrNotEligible)
}

func TestLeaveRing(t *testing.T) {
	outer := sized(1, 60, 50)
	m := sized(2, 30, 20)
	require.NoError(t, JoinRing(outer, m))
	LeaveRing(outer, m)
	assert.False(t, m.InRing)
	assert.False(t, outer.IsOuter)
	assert.Empty(t, outer.Ring)
}
