package band

import "math"

// Similarity thresholds: two bands merge additively only when every listed
// property differs by no more than its threshold.
const (
	similarFrequency  = 50.0
	similarAmplitude  = 3.0
	similarPhase      = 0.5
	similarCharge     = 0.5
	similarElasticity = 0.05
	similarRadius     = 5.0
)

// Similar reports whether a and b are close enough for an additive merge.
func Similar(a, b Props) bool {
	return math.Abs(a.Frequency-b.Frequency) <= similarFrequency &&
		math.Abs(a.Amplitude-b.Amplitude) <= similarAmplitude &&
		math.Abs(a.PhaseOffset-b.PhaseOffset) <= similarPhase &&
		math.Abs(a.Charge-b.Charge) <= similarCharge &&
		math.Abs(a.Elasticity-b.Elasticity) <= similarElasticity &&
		math.Abs(a.RadiusX-b.RadiusX) <= similarRadius &&
		math.Abs(a.RadiusY-b.RadiusY) <= similarRadius
}

// MergeParams tunes the averaging merge and delta spawn.
type MergeParams struct {
	MassKeep           float64 // share of total mass kept by the merged band
	DeltaMinFrequency  float64
	DeltaMinAmplitude  float64
	DeltaMinElasticity float64
	DeltaMinRadiusX    float64
	DeltaMinRadiusY    float64
	DeltaSuppressBelow float64 // delta dropped when radiusX+radiusY is below this
	SpawnDistance      float64
	SpawnMargin        float64
	KickSpeed          float64
	KickJitter         float64
	KickCapFraction    float64 // of the global speed limit
	MinSpeed           float64
}

// DefaultMergeParams returns the stock merge tuning.
func DefaultMergeParams() MergeParams {
	return MergeParams{
		MassKeep:           0.7,
		DeltaMinFrequency:  200,
		DeltaMinAmplitude:  10,
		DeltaMinElasticity: 0.1,
		DeltaMinRadiusX:    30,
		DeltaMinRadiusY:    25,
		DeltaSuppressBelow: 55,
		SpawnDistance:      80,
		SpawnMargin:        60,
		KickSpeed:          2.5,
		KickJitter:         0.5,
		KickCapFraction:    0.6,
		MinSpeed:           0.5,
	}
}

// MergeResult is the property outcome of merging two bands. Delta is nil when
// the merge was additive or the delta band was suppressed.
type MergeResult struct {
	Merged          Props
	Delta           *Props
	Additive        bool
	DeltaSuppressed bool
}

// TotalMass is the mass carried by the merged band plus any delta band.
func (r MergeResult) TotalMass() float64 {
	m := r.Merged.Mass
	if r.Delta != nil {
		m += r.Delta.Mass
	}
	return m
}

// MergeProps combines a and b. Similar bands sum every property and clamp;
// dissimilar bands average and shed part of their mass into a delta band.
func MergeProps(a, b Props, rng Rand, p MergeParams) MergeResult {
	if Similar(a, b) {
		return MergeResult{Merged: additive(a, b), Additive: true}
	}

	total := a.Mass + b.Mass
	merged := Props{
		Frequency:       (a.Frequency + b.Frequency) / 2,
		Amplitude:       (a.Amplitude + b.Amplitude) / 2,
		PhaseOffset:     (a.PhaseOffset + b.PhaseOffset) / 2,
		Charge:          (a.Charge + b.Charge) / 2,
		Elasticity:      (a.Elasticity + b.Elasticity) / 2,
		RadiusX:         (a.RadiusX + b.RadiusX) / 2,
		RadiusY:         (a.RadiusY + b.RadiusY) / 2,
		OriginalRadiusX: (a.OriginalRadiusX + b.OriginalRadiusX) / 2,
		OriginalRadiusY: (a.OriginalRadiusY + b.OriginalRadiusY) / 2,
		Mass:            p.MassKeep * total,
	}

	deltaMass := (1 - p.MassKeep) * total
	phase := math.Abs(a.PhaseOffset - b.PhaseOffset)
	if phase == 0 {
		phase = rng.Float64() * 2 * math.Pi
	}
	charge := math.Abs(a.Charge - b.Charge)
	if charge == 0 {
		charge = 1
	}
	size := math.Sqrt(deltaMass * 100)
	delta := Props{
		Frequency:   math.Max(math.Abs(a.Frequency-b.Frequency), p.DeltaMinFrequency),
		Amplitude:   math.Max(math.Abs(a.Amplitude-b.Amplitude), p.DeltaMinAmplitude),
		PhaseOffset: phase,
		Charge:      charge,
		Elasticity:  math.Max(math.Abs(a.Elasticity-b.Elasticity), p.DeltaMinElasticity),
		RadiusX:     math.Max(p.DeltaMinRadiusX, size*0.8),
		RadiusY:     math.Max(p.DeltaMinRadiusY, size*0.6),
		Mass:        deltaMass,
	}
	delta.OriginalRadiusX = delta.RadiusX
	delta.OriginalRadiusY = delta.RadiusY

	if delta.RadiusX+delta.RadiusY < p.DeltaSuppressBelow {
		merged.Mass = total
		return MergeResult{Merged: merged, DeltaSuppressed: true}
	}
	return MergeResult{Merged: merged, Delta: &delta}
}

func additive(a, b Props) Props {
	return Props{
		Frequency:       clamp(a.Frequency+b.Frequency, MinFrequency, MaxFrequency),
		Amplitude:       math.Min(a.Amplitude+b.Amplitude, MaxAmplitude),
		PhaseOffset:     a.PhaseOffset + b.PhaseOffset,
		Charge:          a.Charge + b.Charge,
		Elasticity:      math.Min(a.Elasticity+b.Elasticity, MaxElasticity),
		RadiusX:         math.Min(a.RadiusX+b.RadiusX, MaxRadiusX),
		RadiusY:         math.Min(a.RadiusY+b.RadiusY, MaxRadiusY),
		OriginalRadiusX: math.Min(a.OriginalRadiusX+b.OriginalRadiusX, MaxRadiusX),
		OriginalRadiusY: math.Min(a.OriginalRadiusY+b.OriginalRadiusY, MaxRadiusY),
		Mass:            a.Mass + b.Mass,
	}
}

// Centroid returns the mass-weighted centre of two bodies.
func Centroid(pa, pb Vec2, ma, mb float64) Vec2 {
	total := ma + mb
	if total <= 0 {
		return pa.Add(pb).Mul(0.5)
	}
	return pa.Mul(ma / total).Add(pb.Mul(mb / total))
}

// CombinedVelocity returns the mass-weighted velocity of two bodies. Results
// slower than minSpeed are replaced by a random heading at minSpeed so merged
// bands never stall.
func CombinedVelocity(va, vb Vec2, ma, mb float64, rng Rand, minSpeed float64) Vec2 {
	v := Centroid(va, vb, ma, mb)
	if v.Len() < minSpeed {
		return Polar(rng.Float64()*2*math.Pi, minSpeed)
	}
	return v
}

// Bounds is the simulation field size.
type Bounds struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Clamp keeps v at least margin away from every edge.
func (b Bounds) Clamp(v Vec2, margin float64) Vec2 {
	return Vec2{
		X: clamp(v.X, margin, math.Max(margin, b.Width-margin)),
		Y: clamp(v.Y, margin, math.Max(margin, b.Height-margin)),
	}
}

// DeltaLaunch places a delta band at a random heading around center and
// returns its position and outward kick. The kick is capped at
// KickCapFraction of speedLimit.
func DeltaLaunch(center Vec2, bounds Bounds, speedLimit float64, rng Rand, p MergeParams) (pos, kick Vec2) {
	angle := rng.Float64() * 2 * math.Pi
	pos = bounds.Clamp(center.Add(Polar(angle, p.SpawnDistance)), p.SpawnMargin)
	speed := p.KickSpeed + (rng.Float64()-0.5)*2*p.KickJitter
	if limit := p.KickCapFraction * speedLimit; speedLimit > 0 && speed > limit {
		speed = limit
	}
	return pos, Polar(angle, speed)
}
