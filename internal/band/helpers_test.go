package band

// seqRand replays a fixed sequence of values and counts how often it was read.
type seqRand struct {
	vals  []float64
	calls int
}

func (s *seqRand) Float64() float64 {
	if len(s.vals) == 0 {
		s.calls++
		return 0
	}
	v := s.vals[s.calls%len(s.vals)]
	s.calls++
	return v
}

func props(freq, amp, mass float64) Props {
	return Props{
		Frequency:       freq,
		Amplitude:       amp,
		PhaseOffset:     1,
		Charge:          1,
		Elasticity:      0.1,
		RadiusX:         40,
		RadiusY:         30,
		OriginalRadiusX: 40,
		OriginalRadiusY: 30,
		Mass:            mass,
	}
}
