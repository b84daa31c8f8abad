package types

import "fmt"

type EventType string

const (
	EventInit                EventType = "init"
	EventTickStart           EventType = "tick_start"
	EventPassengerCall       EventType = "passenger_call"
	EventElevatorIdle        EventType = "elevator_idle"
	EventElevatorStopped     EventType = "elevator_stopped"
	EventElevatorApproaching EventType = "elevator_approaching"
	EventPassengerBoard      EventType = "passenger_board"
	EventPassengerAlight     EventType = "passenger_alight"
	EventElevatorPassing     EventType = "elevator_passing_floor"
	EventTickEnd             EventType = "tick_end"
)

// Event is one callback from the simulation. Only the fields relevant to
// Type are populated; Elevators and Floors carry snapshots on init and
// tick boundaries.
type Event struct {
	Type      EventType      `yaml:"type" json:"type"`
	Tick      int            `yaml:"tick" json:"tick"`
	Elevator  int            `yaml:"elevator" json:"elevator"`
	Floor     int            `yaml:"floor" json:"floor"`
	Dir       Direction      `yaml:"dir" json:"dir"`
	Passenger Passenger      `yaml:"passenger" json:"passenger"`
	Elevators []ElevatorInfo `yaml:"elevators,omitempty" json:"elevators,omitempty"`
	Floors    []FloorInfo    `yaml:"floors,omitempty" json:"floors,omitempty"`
}

func (e Event) String() string {
	switch e.Type {
	case EventInit:
		return fmt.Sprintf("init(elevators=%d floors=%d)", len(e.Elevators), len(e.Floors))
	case EventTickStart, EventTickEnd:
		return fmt.Sprintf("%s(%d)", e.Type, e.Tick)
	case EventPassengerCall:
		return fmt.Sprintf("passenger_call(P%d F%d %s)", e.Passenger.ID, e.Floor, e.Dir)
	case EventPassengerBoard:
		return fmt.Sprintf("passenger_board(E%d P%d)", e.Elevator, e.Passenger.ID)
	case EventPassengerAlight:
		return fmt.Sprintf("passenger_alight(E%d P%d F%d)", e.Elevator, e.Passenger.ID, e.Floor)
	case EventElevatorApproaching, EventElevatorPassing:
		return fmt.Sprintf("%s(E%d F%d %s)", e.Type, e.Elevator, e.Floor, e.Dir)
	}
	return fmt.Sprintf("%s(E%d F%d)", e.Type, e.Elevator, e.Floor)
}
