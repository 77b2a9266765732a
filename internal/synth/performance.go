package synth

import (
	"time"

	"github.com/gopxl/beep"

	"wigglybands/internal/sim"
)

// Performance drives a world frame by frame and streams what its bands
// sound like. It ends after the requested duration.
type Performance struct {
	world     *sim.World
	bank      *Bank
	maxVoices int
	dt        float64
	frame     int // samples per frame
	left      int // samples left in the current frame
	remaining int
}

// NewPerformance prepares d worth of audio at fps world steps per second.
func NewPerformance(w *sim.World, bank *Bank, d time.Duration, fps, maxVoices int) *Performance {
	if fps <= 0 {
		fps = int(sim.TicksPerSecond)
	}
	frame := int(bank.SampleRate()) / fps
	if frame < 1 {
		frame = 1
	}
	return &Performance{
		world:     w,
		bank:      bank,
		maxVoices: maxVoices,
		dt:        1 / float64(fps),
		frame:     frame,
		remaining: bank.SampleRate().N(d),
	}
}

// Stream implements beep.Streamer.
func (p *Performance) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && p.remaining > 0 {
		if p.left == 0 {
			p.world.Step(p.dt)
			p.bank.SetVoices(VoicesFor(p.world.Bands(), p.maxVoices))
			p.left = p.frame
		}
		chunk := min(p.left, len(samples)-n, p.remaining)
		p.bank.Stream(samples[n : n+chunk])
		n += chunk
		p.left -= chunk
		p.remaining -= chunk
	}
	return n, n > 0
}

// Err implements beep.Streamer.
func (p *Performance) Err() error { return nil }

var _ beep.Streamer = (*Performance)(nil)
