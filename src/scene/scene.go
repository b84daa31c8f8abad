package scene

import "liftsched/src/types"

type Building struct {
	Floors           int `json:"floors"`
	Elevators        int `json:"elevators"`
	ElevatorCapacity int `json:"elevator_capacity"`
}

type Current struct {
	Tick int `json:"tick"`
}

type Elevator struct {
	ID           int             `json:"id"`
	Position     float64         `json:"current_pos"`
	TargetFloor  int             `json:"target_floor"`
	Idle         bool            `json:"is_idle"`
	Direction    types.Direction `json:"target_floor_direction"`
	Destinations []int           `json:"destinations"`
	Passengers   []int           `json:"passengers"`
}

type Passenger struct {
	ID              int             `json:"id"`
	Origin          int             `json:"origin"`
	Destination     int             `json:"destination"`
	ArriveTick      int             `json:"arrive_tick"`
	PickupTick      int             `json:"pickup_tick"`
	DropoffTick     int             `json:"dropoff_tick"`
	ElevatorID      int             `json:"elevator_id"`
	Status          string          `json:"status"`
	WaitTime        int             `json:"wait_time"`
	SystemTime      int             `json:"system_time"`
	TravelDirection types.Direction `json:"travel_direction"`
}

// Scene is a detached view of the fleet for viewers.
type Scene struct {
	Building   Building          `json:"building"`
	Current    Current           `json:"current"`
	Elevators  map[int]Elevator  `json:"elevators"`
	Passengers map[int]Passenger `json:"passengers"`
}

type Metrics struct {
	CompletedPassengers int     `json:"completed_passengers"`
	TotalPassengers     int     `json:"total_passengers"`
	AverageFloorWait    float64 `json:"average_floor_wait_time"`
	AverageArrivalWait  float64 `json:"average_arrival_wait_time"`
	P95FloorWait        float64 `json:"p95_floor_wait_time"`
	P95ArrivalWait      float64 `json:"p95_arrival_wait_time"`
	CompletionRate      float64 `json:"completion_rate"`
}
