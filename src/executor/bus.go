package executor

import (
	"math"

	"liftsched/src/elev"
	"liftsched/src/types"
)

const floorEpsilon = 1e-6

// Bus sweeps the whole shaft one floor at a time, reversing at the
// terminal floors. It parks once no work remains. When Waiting is set its
// floors count as work alongside the destinations.
type Bus struct {
	MaxFloor int
	Waiting  *elev.FloorSet
}

func (b Bus) Next(e *elev.ElevState, skip int) Decision {
	floors := work(e, b.Waiting)
	if remaining(floors, skip) == 0 {
		return park(types.DirStop)
	}

	dir := e.Dir
	if dir == types.DirStop {
		floor, _ := nearest(floors, e.Position, skip)
		dir = towards(e.Position, floor)
		if dir == types.DirStop {
			return Decision{Target: floor, Dir: types.DirStop, Move: true}
		}
	}

	next := nextFloor(e.Position, dir)
	if next < 0 || next > b.MaxFloor {
		dir = dir.Opposite()
		next = nextFloor(e.Position, dir)
	}
	if next == skip {
		next += int(dir)
		if next < 0 || next > b.MaxFloor {
			dir = dir.Opposite()
			next = nextFloor(e.Position, dir)
		}
	}
	return Decision{Target: next, Dir: dir, Move: true}
}

// nextFloor is the first floor strictly beyond position in dir.
func nextFloor(position float64, dir types.Direction) int {
	if dir == types.DirDown {
		return int(math.Ceil(position-floorEpsilon)) - 1
	}
	return int(math.Floor(position+floorEpsilon)) + 1
}
