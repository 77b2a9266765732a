package band

import "math"

// MassPerArea converts rest half extents into mass for generated bands.
const MassPerArea = 0.01

// RandomProps draws a property set from the documented ranges.
func RandomProps(rng Rand) Props {
	span := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	charge := span(MinCharge, MaxCharge)
	if rng.Float64() < 0.5 {
		charge = -charge
	}
	rx := span(30, 60)
	ry := span(20, 45)
	return Props{
		Frequency:       span(MinFrequency, MaxFrequency),
		Amplitude:       span(MinAmplitude, MaxAmplitude),
		PhaseOffset:     span(0, 2*math.Pi),
		Charge:          charge,
		Elasticity:      span(MinElasticity, MaxElasticity),
		RadiusX:         rx,
		RadiusY:         ry,
		OriginalRadiusX: rx,
		OriginalRadiusY: ry,
		Mass:            rx * ry * MassPerArea,
	}
}
