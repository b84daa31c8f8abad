package scene

import (
	"math"
	"sort"

	"github.com/tiendc/go-deepcopy"

	"liftsched/src/elev"
)

// Manager keeps the latest scene of a run. Its maps are reused from tick to
// tick, so only copies taken through Update or Latest leave the manager.
type Manager struct {
	building Building
	last     Scene
}

func NewManager(fleet *elev.Fleet) *Manager {
	capacity := 0
	for _, e := range fleet.Elevators() {
		capacity = max(capacity, e.Capacity)
	}
	return &Manager{
		building: Building{
			Floors:           fleet.NumFloors(),
			Elevators:        len(fleet.Elevators()),
			ElevatorCapacity: capacity,
		},
	}
}

// Update rebuilds the scene from the fleet at tick and returns a copy that
// shares nothing with the manager. Published copies are encoded on the
// broadcaster goroutine while the next tick rewrites the manager's maps.
func (m *Manager) Update(fleet *elev.Fleet, tick int) (Scene, error) {
	s := &m.last
	if s.Elevators == nil {
		s.Elevators = make(map[int]Elevator, len(fleet.Elevators()))
		s.Passengers = make(map[int]Passenger)
	}
	clear(s.Elevators)
	clear(s.Passengers)
	s.Building = m.building
	s.Current = Current{Tick: tick}
	for _, e := range fleet.Elevators() {
		onboard := make([]int, 0, len(e.Passengers))
		for id := range e.Passengers {
			onboard = append(onboard, id)
		}
		sort.Ints(onboard)
		s.Elevators[e.ID] = Elevator{
			ID:           e.ID,
			Position:     e.Position,
			TargetFloor:  e.Target,
			Idle:         e.Target == elev.NoTarget && e.Destinations.Empty(),
			Direction:    e.Dir,
			Destinations: e.Destinations.Floors(),
			Passengers:   onboard,
		}
	}
	for _, ps := range fleet.Passengers() {
		p := Passenger{
			ID:              ps.ID,
			Origin:          ps.Origin,
			Destination:     ps.Destination,
			ArriveTick:      ps.ArriveTick,
			PickupTick:      ps.PickupTick,
			DropoffTick:     ps.DropoffTick,
			ElevatorID:      ps.Elevator,
			Status:          ps.Status.String(),
			WaitTime:        -1,
			SystemTime:      -1,
			TravelDirection: ps.TravelDirection(),
		}
		if ps.PickupTick >= 0 {
			p.WaitTime = ps.PickupTick - ps.ArriveTick
		}
		if ps.DropoffTick >= 0 {
			p.SystemTime = ps.DropoffTick - ps.ArriveTick
		}
		s.Passengers[ps.ID] = p
	}
	return m.Latest()
}

func (m *Manager) Latest() (Scene, error) {
	var out Scene
	if err := deepcopy.Copy(&out, &m.last); err != nil {
		return Scene{}, err
	}
	return out, nil
}

// ComputeMetrics summarizes waiting times over the passengers that have
// arrived. Floor wait is arrival to pickup, arrival wait is arrival to
// dropoff.
func ComputeMetrics(passengers []*elev.PassengerState) Metrics {
	var floorWaits, arrivalWaits []float64
	for _, ps := range passengers {
		if ps.Status != elev.Arrived {
			continue
		}
		floorWaits = append(floorWaits, float64(ps.PickupTick-ps.ArriveTick))
		arrivalWaits = append(arrivalWaits, float64(ps.DropoffTick-ps.ArriveTick))
	}
	m := Metrics{
		CompletedPassengers: len(floorWaits),
		TotalPassengers:     len(passengers),
		AverageFloorWait:    mean(floorWaits),
		AverageArrivalWait:  mean(arrivalWaits),
		P95FloorWait:        percentile(floorWaits, 0.95),
		P95ArrivalWait:      percentile(arrivalWaits, 0.95),
	}
	if m.TotalPassengers > 0 {
		m.CompletionRate = float64(m.CompletedPassengers) / float64(m.TotalPassengers)
	}
	return m
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile uses the nearest-rank method.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}
