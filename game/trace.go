package game

import "github.com/pthm-cable/psychics/world"

// TraceEntry is one recorded turn.
type TraceEntry struct {
	Pos     world.Coord
	Species world.Species
}

// Trace records a creature's positions during the running generation and
// keeps the previous generation's full record for playback.
type Trace struct {
	live    []TraceEntry
	shipped []TraceEntry
}

// Record appends one turn.
func (t *Trace) Record(pos world.Coord, s world.Species) {
	t.live = append(t.live, TraceEntry{Pos: pos, Species: s})
}

// Reset starts a new live record holding only the starting entry.
func (t *Trace) Reset(pos world.Coord, s world.Species) {
	t.live = []TraceEntry{{Pos: pos, Species: s}}
}

// Ship hands the live record over as the shipped copy. The live record
// must be Reset before it is recorded to again.
func (t *Trace) Ship() {
	t.shipped = t.live
	t.live = nil
}

// Live returns a copy of the running record.
func (t *Trace) Live() []TraceEntry {
	return append([]TraceEntry(nil), t.live...)
}

// Shipped returns a copy of the last completed generation's record.
func (t *Trace) Shipped() []TraceEntry {
	return append([]TraceEntry(nil), t.shipped...)
}

// ShippedTrace is a completed generation's record for one creature.
type ShippedTrace struct {
	ID      ID
	Kind    world.Species
	Entries []TraceEntry
}
