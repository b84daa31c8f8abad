// State types are defined in the elev package so the fleet arena can own them.
package elev

import (
	"math"

	"liftsched/src/types"
)

// NoTarget marks an elevator without an outstanding movement command.
const NoTarget = -1

const dockedEpsilon = 1e-6

// ElevState is the scheduler's view of one elevator.
type ElevState struct {
	ID         int
	Position   float64
	Capacity   int
	EnergyRate float64
	Dir        types.Direction
	Target     int

	Destinations FloorSet
	Passengers   map[int]int        // passenger id -> destination floor
	Calls        map[types.Call]int // assigned call -> arrival tick
}

// AssignedCall is a call held by an elevator, with the tick it was placed.
type AssignedCall struct {
	types.Call
	ArrivalTick int
}

// Floor is the integer floor nearest to the current position.
func (e *ElevState) Floor() int {
	return int(math.Round(e.Position))
}

// Docked reports whether the position sits exactly on a floor.
func (e *ElevState) Docked() bool {
	return math.Abs(e.Position-math.Round(e.Position)) < dockedEpsilon
}

func (e *ElevState) Full() bool {
	return len(e.Passengers) >= e.Capacity
}

func (e *ElevState) LoadFactor() float64 {
	if e.Capacity <= 0 {
		return 1
	}
	return float64(len(e.Passengers)) / float64(e.Capacity)
}

// HasPassengerFor reports whether a boarded passenger wants to alight at floor.
func (e *ElevState) HasPassengerFor(floor int) bool {
	for _, dest := range e.Passengers {
		if dest == floor {
			return true
		}
	}
	return false
}

// HasCallAt reports whether a call at floor is assigned to this elevator.
func (e *ElevState) HasCallAt(floor int) bool {
	for call := range e.Calls {
		if call.Floor == floor {
			return true
		}
	}
	return false
}

type PassengerStatus int

const (
	Waiting PassengerStatus = iota
	InElevator
	Arrived
)

func (s PassengerStatus) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case InElevator:
		return "in_elevator"
	case Arrived:
		return "arrived"
	}
	return "unknown"
}

type PassengerState struct {
	types.Passenger
	Elevator    int
	PickupTick  int
	DropoffTick int
	AlightFloor int
	Status      PassengerStatus
}
