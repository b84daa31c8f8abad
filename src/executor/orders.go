package executor

import (
	"liftsched/src/elev"
	"liftsched/src/types"
)

// Sweep is the look-ahead SCAN router.
//  1. Keep the current intent while a destination lies strictly ahead and go to the nearest one.
//  2. Otherwise turn around and go to the nearest destination in the new intent.
//  3. A stopped elevator goes to its nearest destination.
//
// With no work left the elevator parks, at ParkingFloor if set. When
// Waiting is set its floors count as work alongside the destinations.
type Sweep struct {
	ParkingFloor int
	Waiting      *elev.FloorSet
}

func (s Sweep) Next(e *elev.ElevState, skip int) Decision {
	floors := work(e, s.Waiting)
	if remaining(floors, skip) == 0 {
		if s.ParkingFloor >= 0 && !(e.Docked() && e.Floor() == s.ParkingFloor) {
			return Decision{Target: s.ParkingFloor, Dir: types.DirStop, Move: true}
		}
		return park(types.DirStop)
	}

	switch e.Dir {
	case types.DirUp, types.DirDown:
		if ahead := floors.Ahead(e.Position, e.Dir, skip); len(ahead) > 0 {
			return Decision{Target: ahead[0], Dir: e.Dir, Move: true}
		}
		turned := e.Dir.Opposite()
		if behind := floors.Ahead(e.Position, turned, skip); len(behind) > 0 {
			return Decision{Target: behind[0], Dir: turned, Move: true}
		}
	}

	// Stopped, or the only floor left is the one we are docked at. The
	// docked case reopens the doors with a STOPPED intent while the floor is
	// still in the set; serving it on the next stop empties the set again.
	floor, _ := nearest(floors, e.Position, skip)
	return Decision{Target: floor, Dir: towards(e.Position, floor), Move: true}
}
