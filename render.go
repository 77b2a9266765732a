package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"wigglybands/internal/band"
)

var (
	backgroundColor = color.RGBA{8, 10, 18, 255}
	tetherSlack     = colorful.Color{R: 0.75, G: 0.78, B: 0.85}
	tetherTaut      = colorful.Color{R: 0.95, G: 0.3, B: 0.25}
)

// Draw renders tethers, every band outline and the optional overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if g.cfg.Render.ShowTethers {
		g.drawTethers(screen)
	}
	segments := max(g.cfg.Render.Segments, 12)
	for _, b := range g.world.Bands() {
		drawBand(screen, b, segments)
	}

	if g.cfg.Render.ShowOverlay {
		ebitenutil.DebugPrint(screen, g.overlayText())
	}
}

// Layout reports the logical screen size, which is the field size.
func (g *Game) Layout(_, _ int) (int, int) {
	b := g.world.Settings().Bounds
	return int(b.Width), int(b.Height)
}

// drawBand strokes the wiggly outline of b.
func drawBand(screen *ebiten.Image, b *band.Band, segments int) {
	width := float32(outlineWidth)
	alpha := uint8(235)
	if b.InRing {
		width = memberOutlineWidth
		alpha = 170
	}
	if b.Oscillating {
		// pulse with the oscillation so alternating bands read as such
		alpha = uint8(150 + 100*band.OscillationT(b.OscElapsed))
	}
	clr := bandColor(b.Props.Frequency, alpha)

	pts := outlinePoints(b, segments)
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), width, clr, true)
	}
}

// outlinePoints samples the band's ellipse, modulated by a travelling wave
// whose lobe count grows with frequency and whose depth grows with
// amplitude.
func outlinePoints(b *band.Band, segments int) []band.Vec2 {
	p := b.Props
	lobes := float64(lobeCount(p.Frequency))
	depth := wiggleDepth * p.Amplitude / band.MaxAmplitude
	pts := make([]band.Vec2, segments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		m := 1 + depth*math.Sin(lobes*theta+b.WigglePhase+p.PhaseOffset)
		pts[i] = band.Vec2{
			X: b.Position.X + p.RadiusX*m*math.Cos(theta),
			Y: b.Position.Y + p.RadiusY*m*math.Sin(theta),
		}
	}
	return pts
}

// lobeCount maps frequency onto the number of outline ripples.
func lobeCount(freq float64) int {
	t := (freq - band.MinFrequency) / (band.MaxFrequency - band.MinFrequency)
	t = math.Max(0, math.Min(1, t))
	return minLobes + int(math.Round(t*float64(maxLobes-minLobes)))
}

// bandColor hues a band by frequency on a log scale, red at the bottom of
// the range through to violet at the top.
func bandColor(freq float64, alpha uint8) color.RGBA {
	return rgba(colorful.Hsv(frequencyHue(freq), 0.7, 0.95), alpha)
}

func frequencyHue(freq float64) float64 {
	f := math.Max(band.MinFrequency, math.Min(band.MaxFrequency, freq))
	t := math.Log(f/band.MinFrequency) / math.Log(band.MaxFrequency/band.MinFrequency)
	return 280 * t
}

func rgba(c colorful.Color, alpha uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	// ebiten expects premultiplied alpha
	a := float64(alpha) / 255
	return color.RGBA{uint8(float64(r) * a), uint8(float64(g) * a), uint8(float64(b) * a), alpha}
}

// drawTethers draws each tether as a curve that sags with its slack and
// reddens as it stretches past its rest length.
func (g *Game) drawTethers(screen *ebiten.Image) {
	for _, t := range g.world.Tethers() {
		a, okA := g.world.Band(t.A)
		b, okB := g.world.Band(t.B)
		if !okA || !okB {
			continue
		}
		stretch := 0.0
		if t.RestLength > 0 {
			stretch = math.Max(0, math.Min(1, a.Position.Dist(b.Position)/t.RestLength-1))
		}
		clr := rgba(tetherSlack.BlendLab(tetherTaut, stretch), 200)
		ctrl := tetherControl(a.Position, b.Position, t.RestLength)

		var path vector.Path
		path.MoveTo(float32(a.Position.X), float32(a.Position.Y))
		path.QuadTo(float32(ctrl.X), float32(ctrl.Y), float32(b.Position.X), float32(b.Position.Y))
		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(clr)
		vector.StrokePath(screen, &path, &vector.StrokeOptions{Width: tetherWidth}, op)
	}
}

// tetherControl returns the quadratic control point for a tether between a
// and b. The curve bows downward by tetherSag of the slack; a taut tether is
// straight.
func tetherControl(a, b band.Vec2, rest float64) band.Vec2 {
	mid := a.Add(b).Mul(0.5)
	d := b.Sub(a)
	dist := d.Len()
	slack := rest - dist
	if dist == 0 || slack <= 0 {
		return mid
	}
	n := band.Vec2{X: -d.Y / dist, Y: d.X / dist}
	if n.Y < 0 {
		n = n.Mul(-1)
	}
	return mid.Add(n.Mul(slack * tetherSag))
}

// overlayText formats the debug overlay.
func (g *Game) overlayText() string {
	tps := ebiten.ActualTPS()
	if tps < 0 {
		tps = 0
	}
	s := g.world.Settings()
	st := g.world.Stats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS: %.1f  TPS: %.1f\n", ebiten.ActualFPS(), tps)
	fmt.Fprintf(&sb, "Bands: %s  Tethers: %s  Spawned: %s\n",
		humanize.Comma(int64(g.world.Len())), humanize.Comma(int64(len(g.world.Tethers()))), humanize.Comma(int64(st.Spawned)))
	fmt.Fprintf(&sb, "Merges: %s  Rings: %s  Oscillators: %s  Released: %s\n",
		humanize.Comma(int64(st.Merges)), humanize.Comma(int64(st.Rings)),
		humanize.Comma(int64(st.Oscillations)), humanize.Comma(int64(st.Released)))
	fmt.Fprintf(&sb, "Sim steps: %.0f/s (mult %dx, +/-)  Sim: %.2f ms  Clock: %s\n",
		g.simStepsPerSecond(), g.simStepMultiplier, g.lastSimDuration.Seconds()*1000,
		time.Duration(g.world.Clock()*float64(time.Second)).Truncate(time.Second))
	fmt.Fprintf(&sb, "Harmonize: %.0f%% %s (H)  Merge: %.0f%% %s (M)\n",
		s.HarmonizeChance*100, s.HarmonizeBehavior, s.MergeChance*100, s.MergeMode)
	fmt.Fprintf(&sb, "Physics: %s (P)  Auto spawn: %s (A)  Seed: %d\n",
		onOff(s.PhysicsEnabled), onOff(g.cfg.Simulation.AutoSpawn), g.seed)
	if g.paused {
		sb.WriteString("PAUSED\n")
	}
	if g.status != "" && time.Now().Before(g.statusUntil) {
		sb.WriteString(g.status + "\n")
	}
	sb.WriteString("click add  right-click remove  R random  X dissolve ring  C clear  F5/F9 save/load")
	return sb.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
