package elev

import (
	"errors"
	"fmt"
	"sort"

	"liftsched/src/types"
)

var (
	ErrUnknownElevator  = errors.New("unknown elevator")
	ErrFloorOutOfRange  = errors.New("floor out of range")
	ErrCapacityExceeded = errors.New("elevator at capacity")
)

// Fleet is the arena of elevator states, indexed by elevator id, together
// with the passenger book. It is owned by a single dispatcher goroutine.
type Fleet struct {
	numFloors  int
	elevators  []*ElevState
	index      map[int]int
	passengers map[int]*PassengerState
	arrivals   []int

	// Simulator waiting flags per floor, and the floors among them with a
	// flagged call that no elevator holds.
	waitingUp   []bool
	waitingDown []bool
	waiting     FloorSet
}

func (f *Fleet) NumFloors() int { return f.numFloors }
func (f *Fleet) MaxFloor() int  { return f.numFloors - 1 }

// InRange reports whether floor is a valid floor index.
func (f *Fleet) InRange(floor int) bool {
	return floor >= 0 && floor < f.numFloors
}

// Elevators returns the elevators ordered by id.
func (f *Fleet) Elevators() []*ElevState {
	return f.elevators
}

func (f *Fleet) Get(id int) (*ElevState, error) {
	i, ok := f.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownElevator, id)
	}
	return f.elevators[i], nil
}

// Refresh copies observational fields from a simulator snapshot.
func (f *Fleet) Refresh(info types.ElevatorInfo) error {
	e, err := f.Get(info.ID)
	if err != nil {
		return err
	}
	e.Position = info.Position
	if info.EnergyRate > 0 {
		e.EnergyRate = info.EnergyRate
	}
	return nil
}

func (f *Fleet) AddDestination(e *ElevState, floor int) error {
	if !f.InRange(floor) {
		return fmt.Errorf("%w: elevator %d floor %d", ErrFloorOutOfRange, e.ID, floor)
	}
	e.Destinations.Add(floor)
	return nil
}

// AssignCall hands call to e: the floor joins its destinations and the call
// is recorded so it can be accounted for until the floor is served.
func (f *Fleet) AssignCall(e *ElevState, call types.Call, arrivalTick int) error {
	if err := f.AddDestination(e, call.Floor); err != nil {
		return err
	}
	e.Calls[call] = arrivalTick
	f.syncWaiting()
	return nil
}

// AssignedTo returns the elevator holding call, if any.
func (f *Fleet) AssignedTo(call types.Call) (*ElevState, bool) {
	for _, e := range f.elevators {
		if _, ok := e.Calls[call]; ok {
			return e, true
		}
	}
	return nil, false
}

// ServeFloor removes floor from e's destinations and returns the assigned
// calls that were answered by stopping there. Unless e is full the floor's
// waiting flags are cleared until the next snapshot reports passengers left
// behind.
func (f *Fleet) ServeFloor(e *ElevState, floor int) []AssignedCall {
	e.Destinations.Remove(floor)
	if f.InRange(floor) && !e.Full() {
		f.waitingUp[floor], f.waitingDown[floor] = false, false
	}
	served := releaseCalls(e, floor)
	f.syncWaiting()
	return served
}

// ReleaseFloor drops floor from e's destinations when no boarded passenger
// needs it, and returns the calls at floor so they can be reassigned.
func (f *Fleet) ReleaseFloor(e *ElevState, floor int) []AssignedCall {
	if !e.HasPassengerFor(floor) {
		e.Destinations.Remove(floor)
	}
	released := releaseCalls(e, floor)
	f.syncWaiting()
	return released
}

func releaseCalls(e *ElevState, floor int) []AssignedCall {
	var released []AssignedCall
	for call, arrival := range e.Calls {
		if call.Floor == floor {
			released = append(released, AssignedCall{Call: call, ArrivalTick: arrival})
			delete(e.Calls, call)
		}
	}
	sort.Slice(released, func(i, j int) bool { return released[i].Dir < released[j].Dir })
	return released
}

// TrackPassenger records a passenger seen on a call. Repeated calls for the
// same passenger keep the first record.
func (f *Fleet) TrackPassenger(p types.Passenger) *PassengerState {
	if ps, ok := f.passengers[p.ID]; ok {
		return ps
	}
	ps := &PassengerState{
		Passenger:   p,
		Elevator:    NoTarget,
		PickupTick:  -1,
		DropoffTick: -1,
		AlightFloor: -1,
		Status:      Waiting,
	}
	f.passengers[p.ID] = ps
	f.arrivals = append(f.arrivals, p.ID)
	return ps
}

// Board puts passenger p into e and adds the destination.
func (f *Fleet) Board(e *ElevState, p types.Passenger, tick int) error {
	if _, ok := e.Passengers[p.ID]; ok {
		return nil
	}
	if e.Full() {
		return fmt.Errorf("%w: elevator %d (%d/%d) passenger %d", ErrCapacityExceeded, e.ID, len(e.Passengers), e.Capacity, p.ID)
	}
	if err := f.AddDestination(e, p.Destination); err != nil {
		return err
	}
	e.Passengers[p.ID] = p.Destination

	ps := f.TrackPassenger(p)
	ps.Elevator = e.ID
	ps.PickupTick = tick
	ps.Status = InElevator
	return nil
}

// Alight removes passenger id from e. The floor leaves the destination set
// unless another passenger or an assigned call still needs it.
func (f *Fleet) Alight(e *ElevState, passengerID, floor, tick int) {
	dest, ok := e.Passengers[passengerID]
	if !ok {
		return
	}
	delete(e.Passengers, passengerID)
	if !e.HasPassengerFor(dest) && !e.HasCallAt(dest) {
		e.Destinations.Remove(dest)
	}
	if ps, ok := f.passengers[passengerID]; ok {
		ps.DropoffTick = tick
		ps.Status = Arrived
		ps.Elevator = NoTarget
		ps.AlightFloor = floor
	}
}

// Passengers returns the passenger book in first-seen order.
func (f *Fleet) Passengers() []*PassengerState {
	result := make([]*PassengerState, 0, len(f.arrivals))
	for _, id := range f.arrivals {
		result = append(result, f.passengers[id])
	}
	return result
}

func (f *Fleet) Passenger(id int) (*PassengerState, bool) {
	ps, ok := f.passengers[id]
	return ps, ok
}

// SetFloorFlags records the simulator's waiting flags. Floors missing from
// infos keep their previous flags.
func (f *Fleet) SetFloorFlags(infos []types.FloorInfo) error {
	for _, info := range infos {
		if !f.InRange(info.Floor) {
			return fmt.Errorf("%w: floor flags for %d", ErrFloorOutOfRange, info.Floor)
		}
	}
	for _, info := range infos {
		f.waitingUp[info.Floor] = info.HasWaitingUp
		f.waitingDown[info.Floor] = info.HasWaitingDown
	}
	f.syncWaiting()
	return nil
}

// FlaggedCalls lists the calls the simulator reports as waiting, by floor
// and then direction.
func (f *Fleet) FlaggedCalls() []types.Call {
	var calls []types.Call
	for floor := range f.waitingUp {
		if f.waitingUp[floor] {
			calls = append(calls, types.Call{Floor: floor, Dir: types.DirUp})
		}
		if f.waitingDown[floor] {
			calls = append(calls, types.Call{Floor: floor, Dir: types.DirDown})
		}
	}
	return calls
}

// Waiting is the set of floors with a flagged call no elevator holds. It
// stays current as calls are assigned, served and released.
func (f *Fleet) Waiting() *FloorSet {
	return &f.waiting
}

func (f *Fleet) syncWaiting() {
	for floor := range f.waitingUp {
		unheld := false
		for _, call := range []types.Call{{Floor: floor, Dir: types.DirUp}, {Floor: floor, Dir: types.DirDown}} {
			flagged := (call.Dir == types.DirUp && f.waitingUp[floor]) || (call.Dir == types.DirDown && f.waitingDown[floor])
			if _, held := f.AssignedTo(call); flagged && !held {
				unheld = true
			}
		}
		if unheld {
			f.waiting.Add(floor)
		} else {
			f.waiting.Remove(floor)
		}
	}
}
