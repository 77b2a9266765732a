// Package synth sonifies bands: every audible band drives one sine voice in
// a Bank, which streams mixed stereo samples through gopxl/beep.
package synth

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"github.com/gopxl/beep"

	"wigglybands/internal/band"
)

const (
	// gainSmoothing is the per-sample step toward a voice's target gain.
	gainSmoothing = 0.002
	silentGain    = 1e-4
)

// Voice is the audible state of one band.
type Voice struct {
	ID        band.ID
	Frequency float64
	Gain      float64
}

// VoicesFor picks the loudest max free or outer bands. Ring members are
// heard through their host.
func VoicesFor(bands []*band.Band, max int) []Voice {
	out := make([]Voice, 0, len(bands))
	for _, b := range bands {
		if b.InRing {
			continue
		}
		out = append(out, Voice{
			ID:        b.ID,
			Frequency: b.Props.Frequency,
			Gain:      b.Props.Amplitude / band.MaxAmplitude,
		})
	}
	slices.SortFunc(out, func(a, b Voice) int {
		if c := cmp.Compare(b.Gain, a.Gain); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

type voice struct {
	freq   float64
	gain   float64
	target float64
	phase  float64 // cycles, in [0, 1)
}

// Bank mixes sine voices. It is safe for concurrent use: the frame loop
// updates voices while the audio device pulls samples.
type Bank struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	voices map[band.ID]*voice
}

// NewBank creates a silent bank at the given sample rate.
func NewBank(rate beep.SampleRate, volume float64) *Bank {
	return &Bank{
		rate:   rate,
		volume: volume,
		voices: make(map[band.ID]*voice),
	}
}

// SampleRate returns the output rate.
func (b *Bank) SampleRate() beep.SampleRate { return b.rate }

// SetVolume sets the master volume.
func (b *Bank) SetVolume(v float64) {
	b.mu.Lock()
	b.volume = v
	b.mu.Unlock()
}

// SetVoices retargets the bank. Voices that persist keep their phase; new
// voices fade in and missing ones fade out.
func (b *Bank) SetVoices(vs []Voice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	live := make(map[band.ID]bool, len(vs))
	for _, v := range vs {
		live[v.ID] = true
		if cur, ok := b.voices[v.ID]; ok {
			cur.freq = v.Frequency
			cur.target = v.Gain
			continue
		}
		b.voices[v.ID] = &voice{freq: v.Frequency, target: v.Gain}
	}
	for id, v := range b.voices {
		if !live[id] {
			v.target = 0
		}
	}
}

// Active reports how many voices are still sounding or fading.
func (b *Bank) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.voices)
}

// Stream fills samples with the mix. It never ends.
func (b *Bank) Stream(samples [][2]float64) (n int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	step := 1 / float64(b.rate)
	for i := range samples {
		sum := 0.0
		for _, v := range b.voices {
			v.gain += (v.target - v.gain) * gainSmoothing
			sum += math.Sin(2*math.Pi*v.phase) * v.gain
			v.phase += v.freq * step
			v.phase -= math.Floor(v.phase)
		}
		out := math.Tanh(sum * b.volume)
		samples[i][0] = out
		samples[i][1] = out
	}
	for id, v := range b.voices {
		if v.target == 0 && v.gain < silentGain {
			delete(b.voices, id)
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (b *Bank) Err() error { return nil }

var _ beep.Streamer = (*Bank)(nil)
