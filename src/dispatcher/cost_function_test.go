package dispatcher

import (
	"math"
	"testing"

	"liftsched/src/config"
	"liftsched/src/elev"
	"liftsched/src/types"
)

func testElevator(position float64, dir types.Direction, capacity, onboard int, dests ...int) *elev.ElevState {
	e := &elev.ElevState{
		Position:     position,
		Capacity:     capacity,
		EnergyRate:   1,
		Dir:          dir,
		Target:       elev.NoTarget,
		Destinations: elev.NewFloorSet(10),
		Passengers:   make(map[int]int),
		Calls:        make(map[types.Call]int),
	}
	for i := 0; i < onboard; i++ {
		e.Passengers[i] = 9
	}
	for _, floor := range dests {
		e.Destinations.Add(floor)
	}
	return e
}

func pending(floor int, dir types.Direction, arrival int) PendingCall {
	return PendingCall{Call: types.Call{Floor: floor, Dir: dir}, ArrivalTick: arrival}
}

func TestWeightedCost(t *testing.T) {
	cost := NewWeightedCost(config.Default().Policy)
	tests := []struct {
		name string
		e    *elev.ElevState
		call PendingCall
		want float64
	}{
		{"full", testElevator(0, types.DirStop, 2, 2), pending(4, types.DirDown, 0), math.Inf(1)},
		{"idle", testElevator(0, types.DirStop, 4, 0), pending(4, types.DirDown, 0), 61},
		{"on the way", testElevator(2, types.DirUp, 4, 1, 6), pending(4, types.DirUp, 0), 74.25},
		{"already passed", testElevator(5, types.DirUp, 4, 0, 8), pending(3, types.DirUp, 0), 1155},
		{"opposite direction", testElevator(5, types.DirDown, 4, 0, 1), pending(3, types.DirUp, 0), 1127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cost.Cost(tt.e, tt.call, 0); got != tt.want {
				t.Errorf("Cost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanCost(t *testing.T) {
	cost := NewScanCost(config.Default().Policy)
	tests := []struct {
		name string
		e    *elev.ElevState
		call PendingCall
		now  int
		want float64
	}{
		{"full", testElevator(0, types.DirStop, 1, 1), pending(4, types.DirDown, 0), 0, math.Inf(1)},
		{"busy and passed", testElevator(5, types.DirUp, 4, 0, 8), pending(3, types.DirUp, 0), 0, math.Inf(1)},
		{"busy the other way", testElevator(2, types.DirDown, 4, 0, 0), pending(1, types.DirUp, 0), 0, math.Inf(1)},
		{"busy on the way", testElevator(2, types.DirUp, 4, 1, 8), pending(4, types.DirUp, 0), 0, 30},
		{"idle with wait bonus", testElevator(0, types.DirStop, 4, 0), pending(4, types.DirDown, 2), 10, 16},
		{"clamped at zero", testElevator(4, types.DirStop, 4, 0), pending(4, types.DirDown, 0), 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cost.Cost(tt.e, tt.call, tt.now); got != tt.want {
				t.Errorf("Cost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		deferred bool
		waiting  bool
	}{
		{config.StrategyCost, false, false},
		{config.StrategyScan, true, true},
		{config.StrategyBus, false, true},
	}
	waiting := elev.NewFloorSet(10)
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			s, err := NewStrategy(testPolicy(tt.strategy), 9, &waiting)
			if err != nil {
				t.Fatal(err)
			}
			if s.Name != tt.strategy || s.DeferAssignment != tt.deferred || s.CountWaiting != tt.waiting || s.Cost == nil || s.Router == nil {
				t.Errorf("strategy = %+v", s)
			}
		})
	}
	if _, err := NewStrategy(testPolicy("elevator-music"), 9, nil); err == nil {
		t.Error("unknown strategy accepted")
	}
}
