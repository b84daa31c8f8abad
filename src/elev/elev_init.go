package elev

import (
	"errors"
	"fmt"
	"sort"

	"liftsched/src/types"
)

var ErrInvalidBuilding = errors.New("invalid building")

// NewFleet seeds one STOPPED elevator state per snapshot, with empty
// destinations.
func NewFleet(numFloors int, infos []types.ElevatorInfo) (*Fleet, error) {
	if numFloors < 2 {
		return nil, fmt.Errorf("%w: %d floors", ErrInvalidBuilding, numFloors)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: no elevators", ErrInvalidBuilding)
	}
	sorted := make([]types.ElevatorInfo, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	fleet := &Fleet{
		numFloors:   numFloors,
		index:       make(map[int]int, len(sorted)),
		passengers:  make(map[int]*PassengerState),
		waitingUp:   make([]bool, numFloors),
		waitingDown: make([]bool, numFloors),
		waiting:     NewFloorSet(numFloors),
	}
	for _, info := range sorted {
		if _, dup := fleet.index[info.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate elevator id %d", ErrInvalidBuilding, info.ID)
		}
		if info.Capacity <= 0 {
			return nil, fmt.Errorf("%w: elevator %d capacity %d", ErrInvalidBuilding, info.ID, info.Capacity)
		}
		energy := info.EnergyRate
		if energy <= 0 {
			energy = 1
		}
		fleet.index[info.ID] = len(fleet.elevators)
		fleet.elevators = append(fleet.elevators, &ElevState{
			ID:           info.ID,
			Position:     info.Position,
			Capacity:     info.Capacity,
			EnergyRate:   energy,
			Dir:          types.DirStop,
			Target:       NoTarget,
			Destinations: NewFloorSet(numFloors),
			Passengers:   make(map[int]int),
			Calls:        make(map[types.Call]int),
		})
	}
	return fleet, nil
}

// SpreadFloor is the even-distribution starting floor of the i-th of n
// elevators.
func SpreadFloor(i, n, numFloors int) int {
	if n <= 0 {
		return 0
	}
	return (i * (numFloors - 1)) / n
}
