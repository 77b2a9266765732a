package synth

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wigglybands/internal/band"
	"wigglybands/internal/sim"
)

const testRate = beep.SampleRate(8000)

func TestVoicesForPicksLoudestFreeBands(t *testing.T) {
	mk := func(id band.ID, amp float64, inRing bool) *band.Band {
		b := band.New(id, band.Props{Frequency: 100 * float64(id), Amplitude: amp, RadiusX: 10, RadiusY: 10}, band.Vec2{}, band.Vec2{})
		b.InRing = inRing
		return b
	}
	bands := []*band.Band{mk(1, 10, false), mk(2, 50, true), mk(3, 40, false), mk(4, 10, false)}

	got := VoicesFor(bands, 2)
	require.Len(t, got, 2)
	assert.Equal(t, band.ID(3), got[0].ID)
	assert.InDelta(t, 0.8, got[0].Gain, 1e-12)
	assert.Equal(t, band.ID(1), got[1].ID)

	assert.Len(t, VoicesFor(bands, 16), 3)
}

func TestBankSilentWithoutVoices(t *testing.T) {
	b := NewBank(testRate, 1)
	buf := make([][2]float64, 64)
	n, ok := b.Stream(buf)
	assert.Equal(t, 64, n)
	assert.True(t, ok)
	for _, s := range buf {
		assert.Zero(t, s[0])
		assert.Zero(t, s[1])
	}
	assert.NoError(t, b.Err())
}

func TestBankOutputBounded(t *testing.T) {
	b := NewBank(testRate, 1)
	var vs []Voice
	for i := 1; i <= 16; i++ {
		vs = append(vs, Voice{ID: band.ID(i), Frequency: 110 * float64(i), Gain: 1})
	}
	b.SetVoices(vs)
	buf := make([][2]float64, 4000)
	b.Stream(buf)
	for _, s := range buf {
		assert.LessOrEqual(t, math.Abs(s[0]), 1.0)
		assert.Equal(t, s[0], s[1])
	}
}

func TestBankKeepsPhaseAcrossRetargets(t *testing.T) {
	b := NewBank(testRate, 1)
	b.SetVoices([]Voice{{ID: 1, Frequency: 440, Gain: 0.5}})
	b.Stream(make([][2]float64, 100))
	before := b.voices[1].phase
	require.NotZero(t, before)

	b.SetVoices([]Voice{{ID: 1, Frequency: 440, Gain: 0.9}})
	assert.Equal(t, before, b.voices[1].phase)
	assert.Equal(t, 0.9, b.voices[1].target)
}

func TestBankFadesOutRemovedVoices(t *testing.T) {
	b := NewBank(testRate, 1)
	b.SetVoices([]Voice{{ID: 1, Frequency: 440, Gain: 1}, {ID: 2, Frequency: 660, Gain: 1}})
	b.Stream(make([][2]float64, 2000))

	b.SetVoices([]Voice{{ID: 2, Frequency: 660, Gain: 1}})
	assert.Equal(t, 2, b.Active())
	for i := 0; i < 10 && b.Active() > 1; i++ {
		b.Stream(make([][2]float64, 1000))
	}
	assert.Equal(t, 1, b.Active())
}

func TestPerformanceEncodesWAV(t *testing.T) {
	w, err := sim.NewWorld(sim.DefaultSettings(), 5)
	require.NoError(t, err)
	defer w.Close()
	for i := 0; i < 4; i++ {
		w.AddRandomBand()
	}

	bank := NewBank(testRate, 0.5)
	perf := NewPerformance(w, bank, 500*time.Millisecond, 20, 16)

	var out bytes.Buffer
	format := beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(&writeSeeker{buf: &out}, perf, format))

	// 44-byte header plus 4000 stereo 16-bit frames
	assert.Equal(t, 44+4000*4, out.Len())
	assert.InDelta(t, 0.5, w.Clock(), 1e-9)
	assert.Positive(t, bank.Active())
}

// writeSeeker adapts a buffer to io.WriteSeeker for the WAV encoder.
type writeSeeker struct {
	buf *bytes.Buffer
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > w.buf.Len() {
		w.buf.Write(make([]byte, end-w.buf.Len()))
	}
	copy(w.buf.Bytes()[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		w.pos = int(offset)
	case 1:
		w.pos += int(offset)
	case 2:
		w.pos = w.buf.Len() + int(offset)
	}
	return int64(w.pos), nil
}
