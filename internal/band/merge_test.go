package band

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilar(t *testing.T) {
	a := props(440, 20, 10)
	b := a
	b.Frequency += 50
	b.Amplitude -= 3
	b.RadiusX += 5
	assert.True(t, Similar(a, b))

	b.Elasticity += 0.06
	assert.False(t, Similar(a, b))
}

func TestMergeAdditiveConservesMass(t *testing.T) {
	a := props(440, 20, 12)
	b := props(460, 22, 9.5)
	res := MergeProps(a, b, &seqRand{}, DefaultMergeParams())

	require.True(t, res.Additive)
	assert.Nil(t, res.Delta)
	assert.Equal(t, a.Mass+b.Mass, res.Merged.Mass)
	assert.Equal(t, 900.0, res.Merged.Frequency)
	assert.Equal(t, 42.0, res.Merged.Amplitude)
	assert.Equal(t, 2.0, res.Merged.Charge)
}

func TestMergeAdditiveClamps(t *testing.T) {
	a := props(1500, 30, 5)
	a.RadiusX, a.RadiusY = 60, 50
	a.OriginalRadiusX, a.OriginalRadiusY = 60, 50
	a.Elasticity = 0.3
	b := a
	res := MergeProps(a, b, &seqRand{}, DefaultMergeParams())

	require.True(t, res.Additive)
	assert.Equal(t, MaxFrequency, res.Merged.Frequency)
	assert.Equal(t, MaxAmplitude, res.Merged.Amplitude)
	assert.Equal(t, MaxElasticity, res.Merged.Elasticity)
	assert.Equal(t, MaxRadiusX, res.Merged.RadiusX)
	assert.Equal(t, MaxRadiusY, res.Merged.RadiusY)
	assert.Equal(t, 10.0, res.Merged.Mass)
}

func TestMergeAveragingSpawnsDelta(t *testing.T) {
	a := props(300, 10, 12)
	b := props(900, 40, 8)
	b.Charge = -2
	b.PhaseOffset = 3
	res := MergeProps(a, b, &seqRand{vals: []float64{0.5}}, DefaultMergeParams())

	require.False(t, res.Additive)
	require.NotNil(t, res.Delta)
	assert.InDelta(t, 600, res.Merged.Frequency, 1e-9)
	assert.InDelta(t, 25, res.Merged.Amplitude, 1e-9)
	assert.InDelta(t, 14, res.Merged.Mass, 1e-9)

	d := res.Delta
	assert.InDelta(t, 600, d.Frequency, 1e-9)
	assert.InDelta(t, 30, d.Amplitude, 1e-9)
	assert.InDelta(t, 2, d.PhaseOffset, 1e-9)
	assert.InDelta(t, 3, d.Charge, 1e-9)
	assert.InDelta(t, 0.1, d.Elasticity, 1e-9)
	assert.InDelta(t, 6, d.Mass, 1e-9)
	assert.Equal(t, 30.0, d.RadiusX)
	assert.Equal(t, 25.0, d.RadiusY)
	assert.InDelta(t, a.Mass+b.Mass, res.TotalMass(), 1e-9)
}

func TestMergeDeltaFloorsOnZeroDifferences(t *testing.T) {
	a := props(300, 10, 50)
	b := props(300, 10, 50)
	b.RadiusX = 80 // dissimilar in size only
	res := MergeProps(a, b, &seqRand{vals: []float64{0.25}}, DefaultMergeParams())

	require.NotNil(t, res.Delta)
	assert.Equal(t, 200.0, res.Delta.Frequency)
	assert.Equal(t, 10.0, res.Delta.Amplitude)
	assert.Equal(t, 1.0, res.Delta.Charge)
	assert.InDelta(t, 0.5*math.Pi, res.Delta.PhaseOffset, 1e-9)
	// 30 mass -> sqrt(3000) ≈ 54.8
	assert.InDelta(t, math.Sqrt(3000)*0.8, res.Delta.RadiusX, 1e-9)
	assert.InDelta(t, math.Sqrt(3000)*0.6, res.Delta.RadiusY, 1e-9)
}

func TestMergeSuppressedDeltaKeepsFullMass(t *testing.T) {
	p := DefaultMergeParams()
	p.DeltaMinRadiusX = 10
	p.DeltaMinRadiusY = 10
	a := props(300, 10, 1)
	b := props(900, 40, 1)
	res := MergeProps(a, b, &seqRand{}, p)

	assert.True(t, res.DeltaSuppressed)
	assert.Nil(t, res.Delta)
	assert.Equal(t, 2.0, res.Merged.Mass)
	assert.Equal(t, a.Mass+b.Mass, res.TotalMass())
}

func TestCombinedVelocity(t *testing.T) {
	v := CombinedVelocity(Vec2{4, 0}, Vec2{0, 4}, 3, 1, &seqRand{}, 0.5)
	assert.InDelta(t, 3, v.X, 1e-9)
	assert.InDelta(t, 1, v.Y, 1e-9)

	slow := CombinedVelocity(Vec2{0.1, 0}, Vec2{-0.1, 0}, 1, 1, &seqRand{vals: []float64{0.25}}, 0.5)
	assert.InDelta(t, 0.5, slow.Len(), 1e-9)
	assert.InDelta(t, 0, slow.X, 1e-9)
	assert.InDelta(t, 0.5, slow.Y, 1e-9)
}

func TestCentroid(t *testing.T) {
	c := Centroid(Vec2{0, 0}, Vec2{10, 0}, 1, 3)
	assert.Equal(t, Vec2{7.5, 0}, c)
}

func TestDeltaLaunch(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	p := DefaultMergeParams()

	pos, kick := DeltaLaunch(Vec2{400, 300}, bounds, 10, &seqRand{vals: []float64{0, 0.5}}, p)
	assert.InDelta(t, 480, pos.X, 1e-9)
	assert.InDelta(t, 300, pos.Y, 1e-9)
	assert.InDelta(t, 2.5, kick.Len(), 1e-9)

	pos, _ = DeltaLaunch(Vec2{20, 20}, bounds, 10, &seqRand{vals: []float64{0.5, 0.5}}, p)
	assert.Equal(t, 60.0, pos.X)
	assert.Equal(t, 60.0, pos.Y)

	_, kick = DeltaLaunch(Vec2{400, 300}, bounds, 3, &seqRand{vals: []float64{0, 1}}, p)
	assert.InDelta(t, 1.8, kick.Len(), 1e-9)
}
