package sim

import (
	"math"

	"go.uber.org/zap"

	"wigglybands/internal/band"
)

const releaseKick = 1.0

// merge replaces a and b with the merged band and, for dissimilar pairs, a
// delta band carrying the shed mass.
func (w *World) merge(a, b *band.Band) {
	res := band.MergeProps(a.Props, b.Props, w.rng, w.params)
	center := band.Centroid(a.Position, b.Position, a.Props.Mass, b.Props.Mass)
	vel := band.CombinedVelocity(a.Velocity, b.Velocity, a.Props.Mass, b.Props.Mass, w.rng, w.params.MinSpeed)

	w.RemoveBand(a.ID)
	w.RemoveBand(b.ID)
	merged := w.spawn(res.Merged, center, vel)

	fields := []zap.Field{
		zap.Uint64("merged", uint64(merged.ID)),
		zap.Bool("additive", res.Additive),
		zap.Float64("mass", res.Merged.Mass),
	}
	if res.Delta != nil {
		pos, kick := band.DeltaLaunch(center, w.settings.Bounds, w.settings.SpeedLimit, w.rng, w.params)
		delta := w.spawn(*res.Delta, pos, vel.Add(kick))
		fields = append(fields, zap.Uint64("delta", uint64(delta.ID)))
	}
	if res.DeltaSuppressed {
		w.log.Debug("delta band too small, mass kept by merged band", zap.Uint64("merged", uint64(merged.ID)))
	}
	w.stats.Merges++
	w.log.Debug("bands merged", fields...)
}

// ring slaves the smaller band to the larger. A tethered host is not
// eligible; a tethered member drops its tethers when it leaves physics.
func (w *World) ring(a, b *band.Band) error {
	outer, member := band.RingRoles(a, b)
	if w.tethers.Count(outer.ID) > 0 {
		return band.ErrNotEligible
	}
	if err := band.JoinRing(outer, member); err != nil {
		return err
	}
	w.tethers.Unlink(member.ID)
	w.phys.remove(member.ID)
	w.stats.Rings++
	w.log.Debug("band joined harmony ring",
		zap.Uint64("outer", uint64(outer.ID)),
		zap.Uint64("member", uint64(member.ID)),
		zap.Int("size", outer.RingSize()))
	return nil
}

// tether links a and b. Oscillators and ring hosts are not eligible.
func (w *World) tether(a, b *band.Band) error {
	if a.Oscillating || b.Oscillating || a.IsOuter || b.IsOuter {
		return band.ErrNotEligible
	}
	if _, err := w.tethers.Link(a.ID, b.ID, w.settings.TetherStrength); err != nil {
		return err
	}
	w.stats.Tethers++
	return nil
}

// oscillate replaces a and b with one band alternating between them.
func (w *World) oscillate(a, b *band.Band) {
	o := band.NewOscillator(w.nextID, a, b, w.rng, w.params.MinSpeed)
	w.nextID++
	w.RemoveBand(a.ID)
	w.RemoveBand(b.ID)
	w.bands[o.ID] = o
	w.phys.add(o)
	w.stats.Spawned++
	w.stats.Oscillations++
	w.log.Debug("oscillator created", zap.Uint64("band", uint64(o.ID)))
}

// DissolveRing releases every member of the ring hosted by outerID. Each
// member is replaced by a new free band with its pre-ring size, placed just
// outside the host. It returns the ids of the released bands.
func (w *World) DissolveRing(outerID band.ID) []band.ID {
	outer, ok := w.bands[outerID]
	if !ok || !outer.IsOuter {
		return nil
	}
	members := append([]band.ID(nil), outer.Ring[1:]...)
	released := make([]band.ID, 0, len(members))
	for i, id := range members {
		m, ok := w.bands[id]
		if !ok {
			continue
		}
		band.LeaveRing(outer, m)
		p := m.Props
		if m.HomeRadius.X > 0 && m.HomeRadius.Y > 0 {
			p.OriginalRadiusX, p.OriginalRadiusY = m.HomeRadius.X, m.HomeRadius.Y
			p.RadiusX, p.RadiusY = m.HomeRadius.X, m.HomeRadius.Y
		}
		angle := 2 * math.Pi * float64(i) / float64(len(members))
		dist := outer.Props.RestAvgRadius() + p.RestAvgRadius()
		pos := w.settings.Bounds.Clamp(outer.Position.Add(band.Polar(angle, dist)), p.RestAvgRadius())
		vel := outer.Velocity.Add(band.Polar(angle, releaseKick))

		delete(w.bands, id)
		w.stats.Removed++
		released = append(released, w.spawn(p, pos, vel).ID)
		w.stats.Released++
	}
	outer.Ring = nil
	outer.IsOuter = false
	return released
}
