package types

import "fmt"

// Direction is the sweep direction an elevator intends to travel in.
// It is independent of the physical motion state owned by the simulator.
type Direction int

const (
	DirDown Direction = -1
	DirStop Direction = 0
	DirUp   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirStop:
		return "stopped"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Opposite returns the reversed sweep direction. DirStop stays DirStop.
func (d Direction) Opposite() Direction {
	return -d
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "up", "UP", "Up":
		*d = DirUp
	case "down", "DOWN", "Down":
		*d = DirDown
	case "stopped", "STOPPED", "stop", "":
		*d = DirStop
	default:
		return fmt.Errorf("unknown direction %q", string(text))
	}
	return nil
}

// Call is an outstanding pickup request at a floor for a travel direction.
// At most one identical call is pending at a time.
type Call struct {
	Floor int       `yaml:"floor" json:"floor"`
	Dir   Direction `yaml:"dir" json:"dir"`
}

func (c Call) String() string {
	return fmt.Sprintf("F%d/%s", c.Floor, c.Dir)
}

type Passenger struct {
	ID          int `yaml:"id" json:"id"`
	Origin      int `yaml:"origin" json:"origin"`
	Destination int `yaml:"destination" json:"destination"`
	ArriveTick  int `yaml:"arrive_tick" json:"arrive_tick"`
}

// TravelDirection is the direction the passenger wants to go from the origin.
func (p Passenger) TravelDirection() Direction {
	switch {
	case p.Destination > p.Origin:
		return DirUp
	case p.Destination < p.Origin:
		return DirDown
	}
	return DirStop
}

// ElevatorInfo is the simulator's observational snapshot of one elevator.
type ElevatorInfo struct {
	ID         int     `yaml:"id" json:"id"`
	Position   float64 `yaml:"position" json:"position"`
	Capacity   int     `yaml:"capacity" json:"capacity"`
	EnergyRate float64 `yaml:"energy_rate" json:"energy_rate"`
}

// FloorInfo carries the simulator's waiting flags for a floor.
type FloorInfo struct {
	Floor          int  `yaml:"floor" json:"floor"`
	HasWaitingUp   bool `yaml:"waiting_up" json:"waiting_up"`
	HasWaitingDown bool `yaml:"waiting_down" json:"waiting_down"`
}
