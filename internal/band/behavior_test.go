package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBehavior(t *testing.T) {
	always := Chances{HarmonizeChance: 1, HarmonizeBehavior: HarmonizeRandom, MergeChance: 1, MergeMode: MergeAll}

	tests := []struct {
		name       string
		harmonious bool
		inRing     bool
		chances    Chances
		rolls      []float64
		want       Behavior
		wantCalls  int
	}{
		{
			name: "ring member aborts before rolling", harmonious: true, inRing: true,
			chances: always, rolls: []float64{0}, want: BehaviorNone, wantCalls: 0,
		},
		{
			name: "fixed rings skips merge roll", harmonious: true,
			chances: Chances{HarmonizeChance: 0.5, HarmonizeBehavior: HarmonizeRings, MergeChance: 1},
			rolls:   []float64{0.1}, want: BehaviorRing, wantCalls: 1,
		},
		{
			name: "fixed tether skips merge roll", harmonious: true,
			chances: Chances{HarmonizeChance: 0.5, HarmonizeBehavior: HarmonizeTether, MergeChance: 1},
			rolls:   []float64{0.1}, want: BehaviorTether, wantCalls: 1,
		},
		{
			name: "random pick oscillate", harmonious: true, chances: always,
			rolls: []float64{0, 0.6}, want: BehaviorOscillate, wantCalls: 2,
		},
		{
			name: "random pick merge falls through to merge roll", harmonious: true, chances: always,
			rolls: []float64{0, 0.99, 0}, want: BehaviorMerge, wantCalls: 3,
		},
		{
			name: "harmonize merge still needs merge roll", harmonious: true,
			chances: Chances{HarmonizeChance: 1, HarmonizeBehavior: HarmonizeMerge, MergeChance: 0.2},
			rolls:   []float64{0, 0.5}, want: BehaviorNone, wantCalls: 2,
		},
		{
			name: "harmonize roll misses then merges", harmonious: true,
			chances: Chances{HarmonizeChance: 0.1, HarmonizeBehavior: HarmonizeRings, MergeChance: 0.5},
			rolls:   []float64{0.9, 0.2}, want: BehaviorMerge, wantCalls: 2,
		},
		{
			name: "non harmonious always consumes the first roll",
			chances: Chances{HarmonizeChance: 1, MergeChance: 0.5},
			rolls:   []float64{0, 0.4}, want: BehaviorMerge, wantCalls: 2,
		},
		{
			name: "merge mode harmonize blocks dissonant pairs",
			chances: Chances{MergeChance: 1, MergeMode: MergeHarmonize},
			rolls:   []float64{0, 0}, want: BehaviorNone, wantCalls: 2,
		},
		{
			name: "merge mode non-harmonize blocks harmonious pairs", harmonious: true,
			chances: Chances{HarmonizeChance: 0, MergeChance: 1, MergeMode: MergeNonHarmonize},
			rolls:   []float64{0.5, 0}, want: BehaviorNone, wantCalls: 2,
		},
		{
			name: "merge roll at chance boundary is a miss",
			chances: Chances{MergeChance: 0.3},
			rolls:   []float64{0.9, 0.3}, want: BehaviorNone, wantCalls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &seqRand{vals: tt.rolls}
			got := SelectBehavior(tt.harmonious, tt.inRing, rng, tt.chances)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, rng.calls)
		})
	}
}

func TestRandomHarmonizeCoversAllBehaviors(t *testing.T) {
	seen := map[Behavior]bool{}
	for _, pick := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		rng := &seqRand{vals: []float64{0, pick, 0}}
		seen[SelectBehavior(true, false, rng, Chances{HarmonizeChance: 1, MergeChance: 1})] = true
	}
	assert.Len(t, seen, 4)
}

func TestParseModes(t *testing.T) {
	m, err := ParseHarmonizeMode(" Rings ")
	require.NoError(t, err)
	assert.Equal(t, HarmonizeRings, m)

	m, err = ParseHarmonizeMode("")
	require.NoError(t, err)
	assert.Equal(t, HarmonizeRandom, m)

	_, err = ParseHarmonizeMode("explode")
	assert.Error(t, err)

	mm, err := ParseMergeMode("non-harmonize")
	require.NoError(t, err)
	assert.Equal(t, MergeNonHarmonize, mm)

	_, err = ParseMergeMode("some")
	assert.Error(t, err)
}
