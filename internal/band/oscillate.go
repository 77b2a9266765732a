package band

import "math"

// OscillationPeriod is the time in seconds for an oscillator to sweep from
// its midpoint through both parents and back.
const OscillationPeriod = 3.0

// OscillationT maps elapsed seconds onto the interpolation factor in [0, 1].
func OscillationT(elapsed float64) float64 {
	return (math.Sin(2*math.Pi*elapsed/OscillationPeriod) + 1) / 2
}

// Lerp interpolates every scalar property between a and b.
func Lerp(a, b Props, t float64) Props {
	mix := func(x, y float64) float64 { return x + (y-x)*t }
	return Props{
		Frequency:       mix(a.Frequency, b.Frequency),
		Amplitude:       mix(a.Amplitude, b.Amplitude),
		PhaseOffset:     mix(a.PhaseOffset, b.PhaseOffset),
		Charge:          mix(a.Charge, b.Charge),
		Elasticity:      mix(a.Elasticity, b.Elasticity),
		RadiusX:         mix(a.RadiusX, b.RadiusX),
		RadiusY:         mix(a.RadiusY, b.RadiusY),
		OriginalRadiusX: mix(a.OriginalRadiusX, b.OriginalRadiusX),
		OriginalRadiusY: mix(a.OriginalRadiusY, b.OriginalRadiusY),
		Mass:            mix(a.Mass, b.Mass),
	}
}

// NewOscillator builds a band that alternates between the properties of a
// and b. It starts with a's properties and sits at their mass centroid.
func NewOscillator(id ID, a, b *Band, rng Rand, minSpeed float64) *Band {
	pos := Centroid(a.Position, b.Position, a.Props.Mass, b.Props.Mass)
	vel := CombinedVelocity(a.Velocity, b.Velocity, a.Props.Mass, b.Props.Mass, rng, minSpeed)
	o := New(id, a.Props, pos, vel)
	o.Oscillating = true
	o.OscA = a.Props
	o.OscB = b.Props
	return o
}

// Advance moves the band's animation clock forward by dt seconds. Oscillators
// re-derive their properties; every band relaxes toward its rest radii and
// advances its outline phase. Only the creation frame of an oscillator holds
// a's properties exactly: OscillationT is 0.5 at every whole period, so from
// the first Advance on the band cycles around the a/b midpoint.
func (b *Band) Advance(dt float64) {
	if b.Oscillating {
		b.OscElapsed += dt
		b.Props = Lerp(b.OscA, b.OscB, OscillationT(b.OscElapsed))
	} else {
		b.Relax()
	}
	b.WigglePhase = math.Mod(b.WigglePhase+2*math.Pi*b.Props.Frequency/MaxFrequency*dt*wiggleRate, 2*math.Pi)
}

// wiggleRate scales the outline animation so the top of the frequency range
// completes a few cycles per second.
const wiggleRate = 4.0
