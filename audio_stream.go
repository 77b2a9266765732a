package main

import (
	"sync"

	"wigglybands/internal/synth"
)

// bandAudioStream adapts a synth bank to the 16-bit little-endian stereo
// stream ebiten's audio player reads.
type bandAudioStream struct {
	mu   sync.Mutex
	bank *synth.Bank
	buf  [][2]float64
}

func newBandAudioStream(bank *synth.Bank) *bandAudioStream {
	return &bandAudioStream{bank: bank}
}

// SetVoices retargets the underlying bank.
func (s *bandAudioStream) SetVoices(vs []synth.Voice) {
	s.bank.SetVoices(vs)
}

func (s *bandAudioStream) Read(p []byte) (int, error) {
	// Ensure we generate whole stereo frames (4 bytes per frame).
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	frames := frameBytes / 4

	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]
	s.bank.Stream(buf)

	for i, f := range buf {
		l, r := pcm16(f[0]), pcm16(f[1])
		base := i * 4
		p[base] = byte(l)
		p[base+1] = byte(l >> 8)
		p[base+2] = byte(r)
		p[base+3] = byte(r >> 8)
	}
	return frameBytes, nil
}

func (s *bandAudioStream) Close() error {
	return nil
}

// pcm16 converts a sample in [-1, 1] to a signed 16-bit value.
func pcm16(v float64) int16 {
	x := v * pcm16MaxValue
	if x > pcm16MaxValue {
		return pcm16MaxValue
	}
	if x < pcm16MinValue {
		return pcm16MinValue
	}
	return int16(x)
}
