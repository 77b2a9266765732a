package band

import "errors"

// RingCapacity is the maximum number of entries in a harmony ring, outer included.
const RingCapacity = 8

var (
	// ErrRingFull is returned when the outer band's ring has no free slot.
	ErrRingFull = errors.New("harmony ring at capacity")
	// ErrNotEligible is returned when a band's current state excludes the behavior.
	ErrNotEligible = errors.New("band not eligible")
)

// RingScale returns the rest-size factor for a member that brings the ring
// to size entries. Later members are drawn smaller so rings nest.
func RingScale(size int) float64 {
	return 0.7 - 0.1*float64(size-2)
}

// RingRoles orders a colliding pair: the band with the larger average radius
// hosts the ring.
func RingRoles(a, b *Band) (outer, member *Band) {
	if b.Props.AvgRadius() > a.Props.AvgRadius() {
		return b, a
	}
	return a, b
}

// JoinRing slaves member to outer. The member is resized relative to the
// outer's rest size and placed on its centre.
func JoinRing(outer, member *Band) error {
	if outer.InRing || member.InRing || outer.Oscillating || member.Oscillating || member.IsOuter {
		return ErrNotEligible
	}
	if outer.RingSize() >= RingCapacity || member.RingSize() >= RingCapacity {
		return ErrRingFull
	}
	if len(outer.Ring) == 0 {
		outer.Ring = []ID{outer.ID}
	}
	outer.Ring = append(outer.Ring, member.ID)
	outer.IsOuter = true

	scale := RingScale(outer.RingSize())
	member.HomeRadius = Vec2{member.Props.OriginalRadiusX, member.Props.OriginalRadiusY}
	member.InRing = true
	member.RingParent = outer.ID
	member.Props.OriginalRadiusX = outer.Props.OriginalRadiusX * scale
	member.Props.OriginalRadiusY = outer.Props.OriginalRadiusY * scale
	member.Props.RadiusX = member.Props.OriginalRadiusX
	member.Props.RadiusY = member.Props.OriginalRadiusY
	member.Position = outer.Position
	member.Velocity = outer.Velocity
	return nil
}

// LeaveRing clears ring membership on member and removes it from outer's list.
func LeaveRing(outer, member *Band) {
	for i, id := range outer.Ring {
		if i > 0 && id == member.ID {
			outer.Ring = append(outer.Ring[:i], outer.Ring[i+1:]...)
			break
		}
	}
	if len(outer.Ring) <= 1 {
		outer.Ring = nil
		outer.IsOuter = false
	}
	member.InRing = false
	member.RingParent = 0
}
