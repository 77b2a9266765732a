package band

import "errors"

// Tether limits.
const (
	MaxTethers       = 2
	TetherRestLength = 150.0
	TetherStrength   = 0.002
)

var (
	// ErrTetherLimit is returned when an endpoint already has MaxTethers.
	ErrTetherLimit = errors.New("tether limit reached")
	// ErrAlreadyTethered is returned for a duplicate pair.
	ErrAlreadyTethered = errors.New("pair already tethered")
)

// Tethers is the undirected edge list between bands.
type Tethers []Tether

// Count returns the number of tethers touching id.
func (ts Tethers) Count(id ID) int {
	n := 0
	for _, t := range ts {
		if t.Involves(id) {
			n++
		}
	}
	return n
}

// Linked reports whether a and b share a tether, in either direction.
func (ts Tethers) Linked(a, b ID) bool {
	for _, t := range ts {
		if (t.A == a && t.B == b) || (t.A == b && t.B == a) {
			return true
		}
	}
	return false
}

// Link adds an edge between a and b with the stock rest length.
func (ts *Tethers) Link(a, b ID, strength float64) (Tether, error) {
	if a == b {
		return Tether{}, ErrNotEligible
	}
	if ts.Count(a) >= MaxTethers || ts.Count(b) >= MaxTethers {
		return Tether{}, ErrTetherLimit
	}
	if ts.Linked(a, b) {
		return Tether{}, ErrAlreadyTethered
	}
	t := Tether{A: a, B: b, RestLength: TetherRestLength, Strength: strength}
	*ts = append(*ts, t)
	return t, nil
}

// Unlink drops every tether touching id and returns how many were removed.
func (ts *Tethers) Unlink(id ID) int {
	kept := (*ts)[:0]
	removed := 0
	for _, t := range *ts {
		if t.Involves(id) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	*ts = kept
	return removed
}
