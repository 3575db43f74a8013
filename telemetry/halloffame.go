package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/psychics/neural"
)

// HallEntry records the best network of one generation.
type HallEntry struct {
	Generation int           `json:"generation"`
	PsychicID  int           `json:"psychic_id"`
	Fitness    float64       `json:"fitness"`
	Sizes      []int         `json:"sizes"`
	Weights    [][][]float64 `json:"weights"`
}

// Network rebuilds the recorded network.
func (e HallEntry) Network() (*neural.Network, error) {
	if len(e.Sizes) == 0 {
		return nil, fmt.Errorf("hall entry %d/%d: %w", e.Generation, e.PsychicID, neural.ErrTopology)
	}
	return neural.FromWeights(e.Sizes[0], e.Weights)
}

// HallOfFame keeps the fittest networks seen across a run, sorted by fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider records net if it ranks among the hall's best.
// Returns true if the network was added to the hall.
func (hof *HallOfFame) Consider(generation, psychicID int, fitness float64, net *neural.Network) bool {
	if hof == nil || net == nil {
		return false
	}
	entry := HallEntry{
		Generation: generation,
		PsychicID:  psychicID,
		Fitness:    fitness,
		Sizes:      net.Sizes(),
		Weights:    net.Weights(),
	}
	var added bool
	hof.entries, added = hof.insertEntry(hof.entries, entry)
	return added
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	// Find insertion point (sorted descending by fitness, ties keep the older entry first)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}

	return hall, true
}

// Best returns the fittest entry.
func (hof *HallOfFame) Best() (HallEntry, bool) {
	if hof == nil || len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Len returns the number of entries.
func (hof *HallOfFame) Len() int {
	if hof == nil {
		return 0
	}
	return len(hof.entries)
}

// Entries returns a copy of the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	if hof == nil {
		return nil
	}
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	entries := hof.Entries()
	if entries == nil {
		entries = []HallEntry{}
	}
	return json.MarshalIndent(struct {
		Capacity int         `json:"capacity"`
		Entries  []HallEntry `json:"entries"`
	}{hof.maxSize, entries}, "", "  ")
}

// LoadHallOfFameFromFile reads a hall written by OutputManager.WriteHallOfFame.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}
	var raw struct {
		Capacity int         `json:"capacity"`
		Entries  []HallEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame: %w", err)
	}
	hof := NewHallOfFame(raw.Capacity)
	for _, e := range raw.Entries {
		hof.entries, _ = hof.insertEntry(hof.entries, e)
	}
	return hof, nil
}
