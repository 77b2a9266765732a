package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"wigglybands/internal/band"
	"wigglybands/internal/sim"
)

var (
	harmonizeCycle = []band.HarmonizeMode{
		band.HarmonizeRandom, band.HarmonizeRings, band.HarmonizeTether,
		band.HarmonizeOscillate, band.HarmonizeMerge,
	}
	mergeCycle = []band.MergeMode{band.MergeAll, band.MergeHarmonize, band.MergeNonHarmonize}
)

// handleInput processes mouse and keyboard edits to the world.
func (g *Game) handleInput() {
	cursor := cursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.addBandAt(cursor)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if id, ok := g.world.BandAt(cursor); ok {
			g.world.RemoveBand(id)
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.world.AddRandomBand()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.world.Clear()
		g.flash("cleared")
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		if id, ok := g.world.BandAt(cursor); ok {
			if released := g.world.DissolveRing(id); len(released) > 0 {
				g.flash(fmt.Sprintf("released %d bands", len(released)))
			}
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.updateSettings(func(s *sim.Settings) { s.PhysicsEnabled = !s.PhysicsEnabled })
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.updateSettings(func(s *sim.Settings) {
			s.HarmonizeBehavior = nextMode(harmonizeCycle, s.HarmonizeBehavior)
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.updateSettings(func(s *sim.Settings) { s.MergeMode = nextMode(mergeCycle, s.MergeMode) })
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.cfg.Simulation.AutoSpawn = !g.cfg.Simulation.AutoSpawn
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.saveScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		g.loadLatestScene()
	}
}

// cursorPosition returns the cursor in field units.
func cursorPosition() band.Vec2 {
	x, y := ebiten.CursorPosition()
	return band.Vec2{X: float64(x), Y: float64(y)}
}

// addBandAt drops a random band at pos with a random heading.
func (g *Game) addBandAt(pos band.Vec2) band.ID {
	p := band.RandomProps(g.rand)
	vel := band.Polar(g.rand.Float64()*2*math.Pi, clickSpeed)
	return g.world.AddBand(p, pos, vel)
}

// updateSettings applies fn to a copy of the world settings.
func (g *Game) updateSettings(fn func(*sim.Settings)) {
	s := g.world.Settings()
	fn(&s)
	if err := g.world.SetSettings(s); err != nil {
		g.log.Warn("settings rejected", zap.Error(err))
	}
}

// nextMode returns the mode after cur in cycle, wrapping around.
func nextMode[T comparable](cycle []T, cur T) T {
	for i, m := range cycle {
		if m == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// saveScene stores the current world as a new scene.
func (g *Game) saveScene() {
	if g.scenes == nil {
		g.flash("scene store unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	name := time.Now().Format("2006-01-02 15:04:05")
	sc, err := g.scenes.SaveScene(ctx, name, g.world.Snapshot())
	if err != nil {
		g.log.Error("save scene failed", zap.Error(err))
		g.flash("save failed")
		return
	}
	g.log.Info("scene saved", zap.String("id", sc.ID), zap.Int("bands", sc.Bands))
	g.flash("saved " + shortID(sc.ID))
}

// loadLatestScene replaces the world with the newest stored scene.
func (g *Game) loadLatestScene() {
	if g.scenes == nil {
		g.flash("scene store unavailable")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sc, snap, err := g.scenes.Latest(ctx)
	if err == nil {
		err = g.world.Restore(snap)
	}
	if err != nil {
		g.log.Error("load scene failed", zap.Error(err))
		g.flash("load failed")
		return
	}
	g.flash("loaded " + shortID(sc.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// enableAutoPlay schedules scripted activity for a limited duration.
func (g *Game) enableAutoPlay(duration time.Duration) {
	g.autoPlay = true
	g.autoPlayDeadline = time.Now().Add(duration)
	g.autoPlayFrameCount = 0
}

// stepAutoPlay performs one random edit every few frames: mostly adding
// bands, sometimes removing one, dissolving a ring or clearing a crowded
// field.
func (g *Game) stepAutoPlay() {
	if time.Now().After(g.autoPlayDeadline) {
		g.autoPlay = false
		return
	}
	if g.autoPlayFrameCount > 0 {
		g.autoPlayFrameCount--
		return
	}
	g.autoPlayFrameCount = autoPlayActionFrames

	bands := g.world.Bands()
	roll := g.rand.Float64()
	switch {
	case len(bands) > g.cfg.Simulation.MaxBands && g.cfg.Simulation.MaxBands > 0:
		g.world.Clear()
	case roll < 0.65 || len(bands) == 0:
		b := g.world.Settings().Bounds
		g.addBandAt(band.Vec2{X: g.rand.Float64() * b.Width, Y: g.rand.Float64() * b.Height})
	case roll < 0.85:
		g.world.RemoveBand(bands[g.rand.Intn(len(bands))].ID)
	default:
		for _, b := range bands {
			if b.IsOuter {
				g.world.DissolveRing(b.ID)
				break
			}
		}
	}
}

// handleDebugControls processes overlay and simulation speed hotkeys.
func (g *Game) handleDebugControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.cfg.Render.ShowOverlay = !g.cfg.Render.ShowOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustSimMultiplier(-simMultiplierStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustSimMultiplier(simMultiplierStep)
	}
}

// adjustSimMultiplier clamps the per-frame step count within bounds.
func (g *Game) adjustSimMultiplier(delta int) {
	g.simStepMultiplier += delta
	if g.simStepMultiplier < minSimMultiplier {
		g.simStepMultiplier = minSimMultiplier
	} else if g.simStepMultiplier > maxSimMultiplier {
		g.simStepMultiplier = maxSimMultiplier
	}
}

// simStepsPerSecond returns the nominal simulation steps executed each second.
func (g *Game) simStepsPerSecond() float64 {
	return defaultTPS * float64(g.simStepMultiplier)
}
