package dispatcher

import (
	"errors"
	"fmt"

	"liftsched/src/config"
	"liftsched/src/elev"
	"liftsched/src/executor"
)

var (
	// ErrInvalidFloorTarget is returned when a movement command would leave
	// the building. It stops the run.
	ErrInvalidFloorTarget = errors.New("invalid floor target")
	// ErrUnknownElevator is returned for events naming an elevator that was
	// not part of init. It stops the run.
	ErrUnknownElevator = elev.ErrUnknownElevator
	// ErrMalformedEvent marks an event that is dropped and the run goes on.
	ErrMalformedEvent = errors.New("malformed event")
)

// Mover is the movement sink. Commands are fire and forget.
type Mover interface {
	GoToFloor(elevatorID, floor int, immediate bool)
}

// Strategy pairs a cost function with a router.
type Strategy struct {
	Name   string
	Cost   CostFunc
	Router executor.Router
	// DeferAssignment batches assignment passes to the end of each tick.
	DeferAssignment bool
	// CountWaiting routes elevators to flagged floors no elevator holds.
	CountWaiting bool
}

// NewStrategy builds the strategy named by p. The scan and bus routers read
// waiting, the fleet's set of unheld waiting floors.
func NewStrategy(p config.Policy, maxFloor int, waiting *elev.FloorSet) (Strategy, error) {
	if p.ParkingFloor > maxFloor {
		return Strategy{}, fmt.Errorf("%w: parking_floor %d above top floor %d", config.ErrInvalidConfig, p.ParkingFloor, maxFloor)
	}
	switch p.Strategy {
	case config.StrategyCost:
		return Strategy{Name: p.Strategy, Cost: NewWeightedCost(p), Router: executor.Sweep{ParkingFloor: p.ParkingFloor}}, nil
	case config.StrategyScan:
		return Strategy{
			Name:            p.Strategy,
			Cost:            NewScanCost(p),
			Router:          executor.Sweep{ParkingFloor: p.ParkingFloor, Waiting: waiting},
			DeferAssignment: true,
			CountWaiting:    waiting != nil,
		}, nil
	case config.StrategyBus:
		return Strategy{
			Name:         p.Strategy,
			Cost:         NewWeightedCost(p),
			Router:       executor.Bus{MaxFloor: maxFloor, Waiting: waiting},
			CountWaiting: waiting != nil,
		}, nil
	}
	return Strategy{}, fmt.Errorf("%w: unknown strategy %q", config.ErrInvalidConfig, p.Strategy)
}
