package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"wigglybands/internal/band"
	"wigglybands/internal/config"
	"wigglybands/internal/sim"
)

func newReloadGame(t *testing.T, overrides func(*config.Config)) *Game {
	t.Helper()
	world, err := sim.NewWorld(sim.DefaultSettings(), 1)
	require.NoError(t, err)
	t.Cleanup(world.Close)
	return &Game{
		world:     world,
		cfg:       config.DefaultConfig(),
		log:       zaptest.NewLogger(t),
		reloads:   make(chan *config.Config, 1),
		overrides: overrides,
	}
}

func TestApplyReloadsKeepsFlagOverrides(t *testing.T) {
	g := newReloadGame(t, func(c *config.Config) { c.Render.ShowOverlay = false })

	reloaded := config.DefaultConfig()
	reloaded.Render.ShowOverlay = true
	reloaded.Simulation.MergeChance = 0.9
	reloaded.Simulation.AutoSpawnInterval = "5s"
	g.reloads <- reloaded
	g.applyReloads()

	assert.Same(t, reloaded, g.cfg)
	assert.False(t, g.cfg.Render.ShowOverlay)
	assert.Equal(t, 0.9, g.world.Settings().MergeChance)
	assert.Equal(t, 5*time.Second, g.autoSpawnEvery)
}

func TestApplyReloadsRejectsBadInterval(t *testing.T) {
	g := newReloadGame(t, nil)
	before := g.cfg

	bad := config.DefaultConfig()
	bad.Simulation.AutoSpawnInterval = "soon"
	bad.Simulation.MergeChance = 0.9
	g.reloads <- bad
	g.applyReloads()

	assert.Same(t, before, g.cfg)
	assert.Equal(t, sim.DefaultSettings().MergeChance, g.world.Settings().MergeChance)
	assert.Equal(t, "config rejected", g.status)
}

func TestApplyFlagOverridesOnlyChangedFlags(t *testing.T) {
	prevDebug, prevSeed := debugFlag, seedFlag
	t.Cleanup(func() { debugFlag, seedFlag = prevDebug, prevSeed })

	cmd := &cobra.Command{}
	cmd.Flags().BoolVar(&debugFlag, "debug", true, "")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--debug=false"}))

	c := config.DefaultConfig()
	c.Render.ShowOverlay = true
	c.Simulation.Seed = 42
	applyFlagOverrides(c, cmd)

	assert.False(t, c.Render.ShowOverlay)
	assert.Equal(t, int64(42), c.Simulation.Seed)
}

func TestTetherControlSagsWithSlack(t *testing.T) {
	a := band.Vec2{X: 100, Y: 200}
	b := band.Vec2{X: 200, Y: 200}

	taut := tetherControl(a, b, 80)
	assert.Equal(t, band.Vec2{X: 150, Y: 200}, taut)

	slack := tetherControl(a, b, 150)
	assert.InDelta(t, 150, slack.X, 1e-9)
	assert.InDelta(t, 200+50*tetherSag, slack.Y, 1e-9)

	// reversed endpoints still bow downward
	rev := tetherControl(b, a, 150)
	assert.InDelta(t, slack.Y, rev.Y, 1e-9)

	assert.Equal(t, a, tetherControl(a, a, 150))
}
