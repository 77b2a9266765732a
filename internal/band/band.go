// Package band holds the oscillating band entity model and the pure decision
// logic applied when two bands collide: interval classification, behavior
// selection, and property resolution for merges, rings, tethers and
// oscillators.
package band

import "math"

// ID is a stable arena index. Zero is never assigned to a live band.
type ID uint64

// Property ranges used for generation and clamping.
const (
	MinFrequency  = 100.0
	MaxFrequency  = 2000.0
	MinAmplitude  = 5.0
	MaxAmplitude  = 50.0
	MinCharge     = 0.1
	MaxCharge     = 5.0
	MinElasticity = 0.01
	MaxElasticity = 0.5
	MaxRadiusX    = 90.0
	MaxRadiusY    = 70.0
)

// Vec2 is a plain 2D vector in field units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2     { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2     { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2  { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// ClampLen scales v down so its length does not exceed max.
func (v Vec2) ClampLen(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// Polar builds a vector from a heading in radians and a magnitude.
func Polar(angle, mag float64) Vec2 {
	return Vec2{math.Cos(angle) * mag, math.Sin(angle) * mag}
}

// Props is the scalar property set carried by every band.
type Props struct {
	Frequency       float64 `json:"frequency"`
	Amplitude       float64 `json:"amplitude"`
	PhaseOffset     float64 `json:"phaseOffset"`
	Charge          float64 `json:"charge"`
	Elasticity      float64 `json:"elasticity"`
	RadiusX         float64 `json:"radiusX"`
	RadiusY         float64 `json:"radiusY"`
	OriginalRadiusX float64 `json:"originalRadiusX"`
	OriginalRadiusY float64 `json:"originalRadiusY"`
	Mass            float64 `json:"mass"`
}

// AvgRadius is the mean of the current half extents.
func (p Props) AvgRadius() float64 { return (p.RadiusX + p.RadiusY) / 2 }

// RestAvgRadius is the mean of the rest half extents.
func (p Props) RestAvgRadius() float64 { return (p.OriginalRadiusX + p.OriginalRadiusY) / 2 }

// Band is one oscillating body. Position and velocity are mirrored from the
// physics engine each tick; ring and tether relations are stored as IDs.
type Band struct {
	ID       ID    `json:"id"`
	Props    Props `json:"props"`
	Position Vec2  `json:"position"`
	Velocity Vec2  `json:"velocity"`

	// Ring lists the ring owned by an outer band, outer first.
	Ring       []ID `json:"harmonyRing,omitempty"`
	RingParent ID   `json:"ringParent,omitempty"`
	InRing     bool `json:"isInHarmonyRing,omitempty"`
	IsOuter    bool `json:"isOuterRing,omitempty"`
	// HomeRadius keeps a member's rest radii from before it joined a ring.
	HomeRadius Vec2 `json:"homeRadius"`

	Oscillating bool    `json:"isOscillating,omitempty"`
	OscA        Props   `json:"oscillatePropsA,omitempty"`
	OscB        Props   `json:"oscillatePropsB,omitempty"`
	OscElapsed  float64 `json:"oscillateTime,omitempty"`

	// WigglePhase advances with frequency and only drives the outline.
	WigglePhase float64 `json:"-"`
}

// New returns a free band with the given properties at pos.
func New(id ID, p Props, pos, vel Vec2) *Band {
	if p.OriginalRadiusX == 0 {
		p.OriginalRadiusX = p.RadiusX
	}
	if p.OriginalRadiusY == 0 {
		p.OriginalRadiusY = p.RadiusY
	}
	return &Band{ID: id, Props: p, Position: pos, Velocity: vel, WigglePhase: p.PhaseOffset}
}

// RingSize returns the number of entries in the ring owned by b, outer included.
func (b *Band) RingSize() int { return len(b.Ring) }

// Free reports whether b takes part in independent physics.
func (b *Band) Free() bool { return !b.InRing }

// Relax springs the current radii back toward the rest radii using the
// band's elasticity as the per-tick spring constant.
func (b *Band) Relax() {
	k := b.Props.Elasticity
	b.Props.RadiusX += (b.Props.OriginalRadiusX - b.Props.RadiusX) * k
	b.Props.RadiusY += (b.Props.OriginalRadiusY - b.Props.RadiusY) * k
}

// Tether is an undirected elastic pairing between two bands.
type Tether struct {
	A          ID      `json:"bandA"`
	B          ID      `json:"bandB"`
	RestLength float64 `json:"restLength"`
	Strength   float64 `json:"strength"`
}

// Involves reports whether id is either endpoint.
func (t Tether) Involves(id ID) bool { return t.A == id || t.B == id }

// Other returns the endpoint opposite id.
func (t Tether) Other(id ID) ID {
	if t.A == id {
		return t.B
	}
	return t.A
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
