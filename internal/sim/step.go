package sim

import (
	"cmp"
	"math"
	"slices"

	"go.uber.org/zap"

	"wigglybands/internal/band"
)

const (
	minFieldDistance = 1.0
	maxFieldAccel    = 0.5
	boundaryBounce   = 0.8
)

// Step advances the world by dt seconds: field and tether forces, one
// physics integration, bounds, animation, ring slaving and collision
// resolution, in that order. With physics disabled only bounds, animation
// and ring slaving run.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.clock += dt
	ticks := dt * TicksPerSecond

	if w.settings.PhysicsEnabled {
		w.applyForces(ticks)
		for _, b := range w.bands {
			w.phys.push(b)
		}
		w.phys.step(ticks)
		for _, b := range w.bands {
			w.phys.pull(b)
			b.Velocity = b.Velocity.ClampLen(w.settings.SpeedLimit)
		}
	}

	for _, id := range w.ids() {
		b := w.bands[id]
		if b.InRing {
			continue
		}
		w.keepInBounds(b)
		b.Advance(dt)
		w.phys.push(b)
	}
	w.slaveRings(dt)

	if w.settings.PhysicsEnabled {
		w.handleContacts(w.phys.drain())
	}
	w.pruneRecent()
}

// applyForces integrates charge attraction/repulsion between free bands and
// tether springs into band velocities.
func (w *World) applyForces(ticks float64) {
	ids := w.ids()
	k := w.settings.ChargeStrength
	if k != 0 {
		for i, ia := range ids {
			a := w.bands[ia]
			if a.InRing {
				continue
			}
			for _, ib := range ids[i+1:] {
				b := w.bands[ib]
				if b.InRing {
					continue
				}
				d := b.Position.Sub(a.Position)
				dist := d.Len()
				if dist < minFieldDistance {
					continue
				}
				// like charges repel: positive magnitude pushes a away from b
				f := k * a.Props.Charge * b.Props.Charge / (dist * dist)
				dir := d.Mul(1 / dist)
				w.accelerate(a, dir.Mul(-f), ticks)
				w.accelerate(b, dir.Mul(f), ticks)
			}
		}
	}

	for _, t := range w.tethers {
		a, okA := w.bands[t.A]
		b, okB := w.bands[t.B]
		if !okA || !okB {
			continue
		}
		d := b.Position.Sub(a.Position)
		dist := d.Len()
		if dist < epsilon {
			continue
		}
		f := t.Strength * (dist - t.RestLength)
		dir := d.Mul(1 / dist)
		w.accelerate(a, dir.Mul(f), ticks)
		w.accelerate(b, dir.Mul(-f), ticks)
	}
}

func (w *World) accelerate(b *band.Band, force band.Vec2, ticks float64) {
	m := physicalMass(b.Props.Mass)
	acc := force.Mul(1 / m).ClampLen(maxFieldAccel)
	b.Velocity = b.Velocity.Add(acc.Mul(ticks))
}

// keepInBounds reflects a band that has left the field back inside it.
func (w *World) keepInBounds(b *band.Band) {
	bounds := w.settings.Bounds
	r := math.Min(b.Props.RestAvgRadius(), math.Min(bounds.Width, bounds.Height)/2)
	if b.Position.X < r {
		b.Position.X = r
		b.Velocity.X = math.Abs(b.Velocity.X) * boundaryBounce
	} else if b.Position.X > bounds.Width-r {
		b.Position.X = bounds.Width - r
		b.Velocity.X = -math.Abs(b.Velocity.X) * boundaryBounce
	}
	if b.Position.Y < r {
		b.Position.Y = r
		b.Velocity.Y = math.Abs(b.Velocity.Y) * boundaryBounce
	} else if b.Position.Y > bounds.Height-r {
		b.Position.Y = bounds.Height - r
		b.Velocity.Y = -math.Abs(b.Velocity.Y) * boundaryBounce
	}
}

// slaveRings re-centres every ring member on its outer band.
func (w *World) slaveRings(dt float64) {
	for _, id := range w.ids() {
		m := w.bands[id]
		if !m.InRing {
			continue
		}
		outer, ok := w.bands[m.RingParent]
		if !ok {
			continue
		}
		m.Position = outer.Position
		m.Velocity = outer.Velocity
		m.Advance(dt)
	}
}

// handleContacts resolves each new contact once per debounce window, in
// pair order so runs with the same seed resolve identically.
func (w *World) handleContacts(contacts []contact) {
	for i, c := range contacts {
		contacts[i] = pairKey(c.a, c.b)
	}
	slices.SortFunc(contacts, func(x, y contact) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
	for _, key := range contacts {
		if last, ok := w.recent[key]; ok && w.clock-last < w.settings.DebounceWindow {
			continue
		}
		w.recent[key] = w.clock
		w.Resolve(key.a, key.b)
	}
}

func (w *World) pruneRecent() {
	for k, t := range w.recent {
		if w.clock-t >= w.settings.DebounceWindow {
			delete(w.recent, k)
		}
	}
}

func pairKey(a, b band.ID) contact {
	if a > b {
		a, b = b, a
	}
	return contact{a: a, b: b}
}

// Resolve runs the collision decision for a pair and applies the chosen
// behavior. It returns the behavior that took effect; rejected behaviors
// report BehaviorNone.
func (w *World) Resolve(aID, bID band.ID) band.Behavior {
	a, okA := w.bands[aID]
	b, okB := w.bands[bID]
	if !okA || !okB || aID == bID {
		return band.BehaviorNone
	}

	iv, harmonious := band.MatchInterval(a.Props.Frequency, b.Props.Frequency)
	if harmonious {
		w.log.Debug("harmonious contact",
			zap.Uint64("a", uint64(aID)), zap.Uint64("b", uint64(bID)),
			zap.String("interval", iv.Name))
	}

	behavior := band.SelectBehavior(harmonious, a.InRing || b.InRing, w.rng, w.settings.Chances)
	var err error
	switch behavior {
	case band.BehaviorMerge:
		w.merge(a, b)
	case band.BehaviorRing:
		err = w.ring(a, b)
	case band.BehaviorTether:
		err = w.tether(a, b)
	case band.BehaviorOscillate:
		w.oscillate(a, b)
	}
	if err != nil {
		w.log.Debug("behavior rejected",
			zap.Stringer("behavior", behavior),
			zap.Uint64("a", uint64(aID)), zap.Uint64("b", uint64(bID)),
			zap.Error(err))
		return band.BehaviorNone
	}
	return behavior
}
