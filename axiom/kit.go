package axiom

import (
	"fmt"

	"github.com/pthm-cable/psychics/world"
)

// Kit names a predefined list of action choices.
type Kit string

const (
	// KitMotion is the four cardinal moves plus standing still.
	KitMotion Kit = "motion"
	// KitPaint swaps standing still for painting the walls around the creature.
	KitPaint Kit = "paint"
)

// Unpack returns the kit's action choices in network output order.
func (k Kit) Unpack() ([]Axiom, error) {
	switch k {
	case KitMotion:
		return []Axiom{Move(0, 1), Move(0, -1), Move(-1, 0), Move(1, 0), Move(0, 0)}, nil
	case KitPaint:
		return []Axiom{Move(0, 1), Move(0, -1), Move(-1, 0), Move(1, 0), PaintAdjacent(world.Painted)}, nil
	}
	return nil, fmt.Errorf("axiom: unknown kit %q", string(k))
}
