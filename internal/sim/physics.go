package sim

import (
	"github.com/jakecoffman/cp"

	"wigglybands/internal/band"
)

const (
	bandCollision cp.CollisionType = 1

	wallRadius      = 4.0
	wallElasticity  = 0.9
	bandElasticity  = 0.6
	bandFriction    = 0.0
	minPhysicalMass = 0.01
)

// contact is an unordered pair of bands whose shapes started touching.
type contact struct {
	a, b band.ID
}

// physics wraps the rigid-body space. It owns one body per band that takes
// part in independent physics; ring members have none.
type physics struct {
	space    *cp.Space
	bodies   map[band.ID]*cp.Body
	shapes   map[band.ID]*cp.Shape
	walls    []*cp.Shape
	contacts []contact
}

func newPhysics(bounds band.Bounds) *physics {
	p := &physics{
		space:  cp.NewSpace(),
		bodies: make(map[band.ID]*cp.Body),
		shapes: make(map[band.ID]*cp.Shape),
	}
	p.space.SetGravity(cp.Vector{})
	handler := p.space.NewCollisionHandler(bandCollision, bandCollision)
	handler.BeginFunc = p.begin
	p.setBounds(bounds)
	return p
}

// begin records the pair for resolution after the step; the space must not
// be modified from inside a callback.
func (p *physics) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	ba, bb := arb.Bodies()
	ia, okA := ba.UserData.(band.ID)
	ib, okB := bb.UserData.(band.ID)
	if okA && okB {
		p.contacts = append(p.contacts, contact{a: ia, b: ib})
	}
	return true
}

// setBounds replaces the static boundary segments.
func (p *physics) setBounds(bounds band.Bounds) {
	for _, s := range p.walls {
		p.space.RemoveShape(s)
	}
	p.walls = p.walls[:0]
	w, h := bounds.Width, bounds.Height
	corners := []cp.Vector{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	for i := range corners {
		seg := cp.NewSegment(p.space.StaticBody, corners[i], corners[(i+1)%len(corners)], wallRadius)
		seg.SetElasticity(wallElasticity)
		seg.SetFriction(bandFriction)
		p.walls = append(p.walls, p.space.AddShape(seg))
	}
}

func (p *physics) add(b *band.Band) {
	if _, ok := p.bodies[b.ID]; ok {
		return
	}
	mass := physicalMass(b.Props.Mass)
	radius := b.Props.RestAvgRadius()
	body := p.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(vec(b.Position))
	body.SetVelocityVector(vec(b.Velocity))
	body.UserData = b.ID

	shape := p.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetElasticity(bandElasticity)
	shape.SetFriction(bandFriction)
	shape.SetCollisionType(bandCollision)

	p.bodies[b.ID] = body
	p.shapes[b.ID] = shape
}

func (p *physics) remove(id band.ID) {
	if shape, ok := p.shapes[id]; ok {
		p.space.RemoveShape(shape)
		delete(p.shapes, id)
	}
	if body, ok := p.bodies[id]; ok {
		p.space.RemoveBody(body)
		delete(p.bodies, id)
	}
}

func (p *physics) has(id band.ID) bool {
	_, ok := p.bodies[id]
	return ok
}

func (p *physics) step(ticks float64) {
	p.space.Step(ticks)
}

// pull mirrors the body state into the band.
func (p *physics) pull(b *band.Band) {
	body, ok := p.bodies[b.ID]
	if !ok {
		return
	}
	pos, vel := body.Position(), body.Velocity()
	b.Position = band.Vec2{X: pos.X, Y: pos.Y}
	b.Velocity = band.Vec2{X: vel.X, Y: vel.Y}
}

// push writes the band's kinematic state and mass back to its body.
func (p *physics) push(b *band.Band) {
	body, ok := p.bodies[b.ID]
	if !ok {
		return
	}
	body.SetPosition(vec(b.Position))
	body.SetVelocityVector(vec(b.Velocity))
	if m := physicalMass(b.Props.Mass); m != body.Mass() {
		body.SetMass(m)
	}
}

// drain returns and clears the contacts recorded since the last call.
func (p *physics) drain() []contact {
	out := p.contacts
	p.contacts = nil
	return out
}

func (p *physics) clear() {
	for id := range p.bodies {
		p.remove(id)
	}
	p.contacts = nil
}

func physicalMass(m float64) float64 {
	if m < minPhysicalMass {
		return minPhysicalMass
	}
	return m
}

func vec(v band.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }
