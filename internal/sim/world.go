// Package sim runs the band simulation: an arena of bands keyed by stable
// ID, the tethers between them, a rigid-body space for free bands, and the
// per-frame step that applies field forces and resolves collisions.
package sim

import (
	"maps"
	"math"
	"math/rand"
	"slices"

	"go.uber.org/zap"

	"wigglybands/internal/band"
)

const (
	spawnMargin   = 60.0
	minSpawnSpeed = 0.5
	maxSpawnSpeed = 2.0
	epsilon       = 1e-6
)

// Stats counts lifecycle events since the world was created or cleared.
type Stats struct {
	Merges       int `json:"merges"`
	Rings        int `json:"rings"`
	Tethers      int `json:"tethers"`
	Oscillations int `json:"oscillations"`
	Spawned      int `json:"spawned"`
	Removed      int `json:"removed"`
	Released     int `json:"released"`
}

// World owns every live band. It is not safe for concurrent use; the frame
// loop drives it from a single goroutine.
type World struct {
	log      *zap.Logger
	rng      *rand.Rand
	settings Settings
	params   band.MergeParams

	bands   map[band.ID]*band.Band
	nextID  band.ID
	tethers band.Tethers
	phys    *physics

	clock  float64
	recent map[contact]float64
	stats  Stats
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithMergeParams overrides the merge tuning.
func WithMergeParams(p band.MergeParams) Option {
	return func(w *World) { w.params = p }
}

// NewWorld creates an empty world. The seed fixes every random decision.
func NewWorld(s Settings, seed int64, opts ...Option) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.canonical()
	w := &World{
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewSource(seed)),
		settings: s,
		params:   band.DefaultMergeParams(),
		bands:    make(map[band.ID]*band.Band),
		nextID:   1,
		phys:     newPhysics(s.Bounds),
		recent:   make(map[contact]float64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Settings returns the active settings.
func (w *World) Settings() Settings { return w.settings }

// SetSettings swaps the settings in place. Bands keep their state.
func (w *World) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s = s.canonical()
	if s.Bounds != w.settings.Bounds {
		w.phys.setBounds(s.Bounds)
	}
	w.settings = s
	return nil
}

// Len is the number of live bands, ring members included.
func (w *World) Len() int { return len(w.bands) }

// Stats returns the lifecycle counters.
func (w *World) Stats() Stats { return w.stats }

// Clock returns the simulated time in seconds.
func (w *World) Clock() float64 { return w.clock }

// Band returns the band with the given id.
func (w *World) Band(id band.ID) (*band.Band, bool) {
	b, ok := w.bands[id]
	return b, ok
}

// Bands returns the live bands ordered by id.
func (w *World) Bands() []*band.Band {
	out := make([]*band.Band, 0, len(w.bands))
	for _, id := range w.ids() {
		out = append(out, w.bands[id])
	}
	return out
}

// Tethers returns a copy of the tether list.
func (w *World) Tethers() band.Tethers { return slices.Clone(w.tethers) }

func (w *World) ids() []band.ID {
	return slices.Sorted(maps.Keys(w.bands))
}

// AddBand inserts a free band and returns its id. The position is clamped
// inside the field.
func (w *World) AddBand(p band.Props, pos, vel band.Vec2) band.ID {
	return w.spawn(p, pos, vel).ID
}

// AddRandomBand inserts a band with random properties, position and heading.
func (w *World) AddRandomBand() band.ID {
	p := band.RandomProps(w.rng)
	b := w.settings.Bounds
	pos := band.Vec2{
		X: spawnMargin + w.rng.Float64()*math.Max(0, b.Width-2*spawnMargin),
		Y: spawnMargin + w.rng.Float64()*math.Max(0, b.Height-2*spawnMargin),
	}
	speed := minSpawnSpeed + w.rng.Float64()*(maxSpawnSpeed-minSpawnSpeed)
	vel := band.Polar(w.rng.Float64()*2*math.Pi, speed)
	return w.AddBand(p, pos, vel)
}

func (w *World) spawn(p band.Props, pos, vel band.Vec2) *band.Band {
	b := band.New(w.nextID, p, w.settings.Bounds.Clamp(pos, 0), vel)
	w.nextID++
	w.bands[b.ID] = b
	w.phys.add(b)
	w.stats.Spawned++
	return b
}

// RemoveBand destroys a band. Its tethers go with it; an outer band releases
// its ring first and a member leaves its ring.
func (w *World) RemoveBand(id band.ID) bool {
	b, ok := w.bands[id]
	if !ok {
		return false
	}
	if b.IsOuter {
		w.DissolveRing(id)
	}
	if b.InRing {
		if outer, ok := w.bands[b.RingParent]; ok {
			band.LeaveRing(outer, b)
		}
	}
	w.tethers.Unlink(id)
	w.phys.remove(id)
	delete(w.bands, id)
	w.stats.Removed++
	return true
}

// Clear removes every band and tether and resets the counters.
func (w *World) Clear() {
	w.phys.clear()
	w.bands = make(map[band.ID]*band.Band)
	w.tethers = nil
	w.recent = make(map[contact]float64)
	w.stats = Stats{}
}

// BandAt returns the free or outer band whose rest ellipse contains pos,
// preferring the smallest.
func (w *World) BandAt(pos band.Vec2) (band.ID, bool) {
	var best band.ID
	bestR := math.Inf(1)
	for _, b := range w.bands {
		if b.InRing {
			continue
		}
		rx, ry := b.Props.RadiusX, b.Props.RadiusY
		if rx < epsilon || ry < epsilon {
			continue
		}
		d := pos.Sub(b.Position)
		if (d.X*d.X)/(rx*rx)+(d.Y*d.Y)/(ry*ry) <= 1 && b.Props.AvgRadius() < bestR {
			best, bestR = b.ID, b.Props.AvgRadius()
		}
	}
	return best, best != 0
}

// Close releases the physics space.
func (w *World) Close() {
	w.phys.clear()
}
