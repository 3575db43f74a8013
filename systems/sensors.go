// Package systems holds the per-creature steps of a tick: sensing the
// surroundings and resolving motion against the tile grid.
package systems

import (
	"math"

	"github.com/pthm-cable/psychics/world"
)

// NumInputs is the length of the sense vector produced by Sense:
// 4 bearing features, 4 neighbour occupancy flags, 1 proximity scalar.
const NumInputs = 9

// bearingAnchors are the compass angles, in degrees, of the four bearing
// features: +X, +Y, -X, -Y.
var bearingAnchors = [4]float64{0, 90, 180, 270}

// TileReader is the part of the map that sensing needs.
type TileReader interface {
	At(c world.Coord) world.Species
	Adjacent(c world.Coord) [4]world.Coord
}

// Sense builds the network input for a creature at self looking for a
// beacon at target. Every value lies in [0,1].
func Sense(tiles TileReader, self, target world.Coord) []float64 {
	in := make([]float64, 0, NumInputs)

	dx, dy := target.X-self.X, target.Y-self.Y
	b := Bearing(dx, dy)
	in = append(in, b[:]...)

	for _, n := range tiles.Adjacent(self) {
		if tiles.At(n).Blocks() {
			in = append(in, 1)
		} else {
			in = append(in, 0)
		}
	}

	in = append(in, Proximity(Manhattan(self, target)))
	return in
}

// Bearing encodes the direction of (dx, dy) as four features, one per
// compass anchor. A feature is 1 when the direction points straight at its
// anchor and falls off linearly to 0 at 90 degrees away.
func Bearing(dx, dy int) [4]float64 {
	theta := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
	if theta < 0 {
		theta += 360
	}

	var out [4]float64
	for i, a := range bearingAnchors {
		diff := math.Abs(theta - a)
		if diff > 180 {
			diff = 360 - diff
		}
		out[i] = math.Max(0, 1-diff/90)
	}
	return out
}

// Proximity maps a distance to (0,1]: 10/(10+d).
func Proximity(d int) float64 {
	return 10 / (10 + float64(d))
}

// Manhattan returns |dx| + |dy| between a and b.
func Manhattan(a, b world.Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns max(|dx|, |dy|) between a and b.
func Chebyshev(a, b world.Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
