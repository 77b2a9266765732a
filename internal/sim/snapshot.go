package sim

import (
	"encoding/json"
	"fmt"
	"slices"

	"wigglybands/internal/band"
)

// Snapshot is the exported view of a world: entities, tethers and settings,
// plus the counters and clock needed to resume it.
type Snapshot struct {
	Entities []band.Band   `json:"entities"`
	Tethers  []band.Tether `json:"tethers"`
	Settings Settings      `json:"settings"`
	Stats    Stats         `json:"stats"`
	Clock    float64       `json:"clock"`
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Entities: make([]band.Band, 0, len(w.bands)),
		Tethers:  slices.Clone(w.tethers),
		Settings: w.settings,
		Stats:    w.stats,
		Clock:    w.clock,
	}
	if s.Tethers == nil {
		s.Tethers = []band.Tether{}
	}
	for _, b := range w.Bands() {
		c := *b
		c.Ring = slices.Clone(b.Ring)
		s.Entities = append(s.Entities, c)
	}
	return s
}

// Restore replaces the world state with s. Ids are preserved.
func (w *World) Restore(s Snapshot) error {
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("snapshot settings: %w", err)
	}
	byID := make(map[band.ID]*band.Band, len(s.Entities))
	for i := range s.Entities {
		e := &s.Entities[i]
		if e.ID == 0 || byID[e.ID] != nil {
			return fmt.Errorf("snapshot entity id %d invalid or duplicated", e.ID)
		}
		byID[e.ID] = e
	}
	for _, t := range s.Tethers {
		if byID[t.A] == nil || byID[t.B] == nil {
			return fmt.Errorf("snapshot tether %d-%d references a missing entity", t.A, t.B)
		}
	}
	if err := checkRings(byID); err != nil {
		return err
	}

	w.Clear()
	if err := w.SetSettings(s.Settings); err != nil {
		return err
	}
	for _, e := range s.Entities {
		b := e
		b.Ring = slices.Clone(e.Ring)
		w.bands[b.ID] = &b
		if b.ID >= w.nextID {
			w.nextID = b.ID + 1
		}
		if !b.InRing {
			w.phys.add(&b)
		}
	}
	w.tethers = slices.Clone(band.Tethers(s.Tethers))
	w.stats = s.Stats
	w.clock = s.Clock
	return nil
}

// checkRings verifies that ring members and outers agree on each other.
func checkRings(byID map[band.ID]*band.Band) error {
	for id, e := range byID {
		if e.InRing {
			outer := byID[e.RingParent]
			if outer == nil || !outer.IsOuter || len(outer.Ring) < 2 || !slices.Contains(outer.Ring[1:], id) {
				return fmt.Errorf("snapshot ring member %d has no outer %d listing it", id, e.RingParent)
			}
		}
		if !e.IsOuter {
			continue
		}
		if e.InRing || len(e.Ring) < 2 || len(e.Ring) > band.RingCapacity || e.Ring[0] != id {
			return fmt.Errorf("snapshot ring of outer %d is malformed", id)
		}
		for _, m := range e.Ring[1:] {
			member := byID[m]
			if member == nil || !member.InRing || member.RingParent != id {
				return fmt.Errorf("snapshot ring of outer %d lists %d which is not its member", id, m)
			}
		}
	}
	return nil
}

// MarshalIndent renders the snapshot as indented JSON.
func (s Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DecodeSnapshot parses a snapshot produced by MarshalIndent or json.Marshal.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
