package executor

import (
	"testing"

	"liftsched/src/elev"
	"liftsched/src/types"
)

func newElev(position float64, dir types.Direction, capacity int, dests ...int) *elev.ElevState {
	e := &elev.ElevState{
		ID:           0,
		Position:     position,
		Capacity:     capacity,
		EnergyRate:   1,
		Dir:          dir,
		Target:       elev.NoTarget,
		Destinations: elev.NewFloorSet(10),
		Passengers:   make(map[int]int),
		Calls:        make(map[types.Call]int),
	}
	for _, floor := range dests {
		e.Destinations.Add(floor)
	}
	return e
}

func TestSweepNext(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		dir      types.Direction
		dests    []int
		skip     int
		want     Decision
	}{
		{"continues up to nearest ahead", 2, types.DirUp, []int{1, 4, 7}, NoSkip, Decision{4, types.DirUp, true}},
		{"continues down to nearest ahead", 6, types.DirDown, []int{1, 4, 7}, NoSkip, Decision{4, types.DirDown, true}},
		{"turns around when everything is behind", 5, types.DirUp, []int{1, 3}, NoSkip, Decision{3, types.DirDown, true}},
		{"stopped picks nearest", 4, types.DirStop, []int{1, 6}, NoSkip, Decision{6, types.DirUp, true}},
		{"stopped tie prefers down", 4, types.DirStop, []int{2, 6}, NoSkip, Decision{2, types.DirDown, true}},
		{"docked at only destination re-opens", 3, types.DirUp, []int{3}, NoSkip, Decision{3, types.DirStop, true}},
		{"empty parks in place", 3, types.DirUp, nil, NoSkip, Decision{elev.NoTarget, types.DirStop, false}},
		{"skip advances past floor", 1.5, types.DirUp, []int{1, 2, 3}, 2, Decision{3, types.DirUp, true}},
		{"between floors goes to floor ahead", 2.5, types.DirDown, []int{3}, NoSkip, Decision{3, types.DirUp, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElev(tt.position, tt.dir, 4, tt.dests...)
			got := Sweep{ParkingFloor: -1}.Next(e, tt.skip)
			if got != tt.want {
				t.Errorf("Next = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSweepParking(t *testing.T) {
	e := newElev(4, types.DirDown, 4)
	if got, want := (Sweep{ParkingFloor: 0}).Next(e, NoSkip), (Decision{0, types.DirStop, true}); got != want {
		t.Errorf("Next = %+v, want %+v", got, want)
	}
	e.Position = 0
	if got := (Sweep{ParkingFloor: 0}).Next(e, NoSkip); got.Move {
		t.Errorf("already parked, got %+v", got)
	}
}

// Whatever the state, a moving elevator is never sent to a floor behind it
// while a destination remains ahead.
func TestSweepNeverTargetsBehindWhileWorkAhead(t *testing.T) {
	for pos := 0; pos < 10; pos++ {
		for mask := 1; mask < 1<<10; mask += 7 {
			var dests []int
			for f := 0; f < 10; f++ {
				if mask&(1<<f) != 0 {
					dests = append(dests, f)
				}
			}
			for _, dir := range []types.Direction{types.DirUp, types.DirDown} {
				e := newElev(float64(pos), dir, 4, dests...)
				ahead := e.Destinations.Ahead(e.Position, dir, NoSkip)
				got := Sweep{ParkingFloor: -1}.Next(e, NoSkip)
				if len(ahead) > 0 && (got.Dir != dir || got.Target != ahead[0]) {
					t.Fatalf("pos=%d dir=%s dests=%v: got %+v, want %d", pos, dir, dests, got, ahead[0])
				}
			}
		}
	}
}

func TestSweepIdempotent(t *testing.T) {
	e := newElev(5, types.DirUp, 4, 1, 3)
	first := Sweep{ParkingFloor: -1}.Next(e, NoSkip)
	e.Dir = first.Dir
	second := Sweep{ParkingFloor: -1}.Next(e, NoSkip)
	if first != second {
		t.Errorf("second call %+v differs from first %+v", second, first)
	}
}

func TestBusNext(t *testing.T) {
	bus := Bus{MaxFloor: 9}
	tests := []struct {
		name     string
		position float64
		dir      types.Direction
		dests    []int
		skip     int
		want     Decision
	}{
		{"steps up", 3, types.DirUp, []int{7}, NoSkip, Decision{4, types.DirUp, true}},
		{"steps up between floors", 3.4, types.DirUp, []int{7}, NoSkip, Decision{4, types.DirUp, true}},
		{"steps down between floors", 3.4, types.DirDown, []int{0}, NoSkip, Decision{3, types.DirDown, true}},
		{"reverses at top", 9, types.DirUp, []int{2}, NoSkip, Decision{8, types.DirDown, true}},
		{"reverses at bottom", 0, types.DirDown, []int{2}, NoSkip, Decision{1, types.DirUp, true}},
		{"stopped heads to nearest", 5, types.DirStop, []int{2}, NoSkip, Decision{4, types.DirDown, true}},
		{"skips floor", 3, types.DirUp, []int{4, 7}, 4, Decision{5, types.DirUp, true}},
		{"parks when empty", 3, types.DirUp, nil, NoSkip, Decision{elev.NoTarget, types.DirStop, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElev(tt.position, tt.dir, 4, tt.dests...)
			if got := bus.Next(e, tt.skip); got != tt.want {
				t.Errorf("Next = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	e := newElev(1.5, types.DirUp, 2, 1, 2, 3)
	e.Passengers[1] = 1
	e.Passengers[2] = 3
	if !ShouldSkip(e, 2) {
		t.Error("full elevator with nobody for floor 2 should skip it")
	}
	if ShouldSkip(e, 3) {
		t.Error("must not skip a passenger destination")
	}
	delete(e.Passengers, 1)
	if ShouldSkip(e, 2) {
		t.Error("must not skip when there is room")
	}
}

func TestSkippedFloorIsNeverTheTarget(t *testing.T) {
	routers := map[string]Router{"sweep": Sweep{ParkingFloor: -1}, "bus": Bus{MaxFloor: 9}}
	for name, router := range routers {
		for skip := 1; skip < 9; skip++ {
			for _, dir := range []types.Direction{types.DirUp, types.DirDown} {
				position := float64(skip) - float64(dir)*0.5
				e := newElev(position, dir, 2, skip, 0, 9)
				e.Passengers[1] = 0
				e.Passengers[2] = 9
				if !ShouldSkip(e, skip) {
					t.Fatalf("%s: expected a skip at %d", name, skip)
				}
				if got := router.Next(e, skip); got.Target == skip {
					t.Errorf("%s: skip %d dir %s targeted the skipped floor", name, skip, dir)
				}
			}
		}
	}
}

func waitingSet(floors ...int) *elev.FloorSet {
	fs := elev.NewFloorSet(10)
	for _, floor := range floors {
		fs.Add(floor)
	}
	return &fs
}

func TestRoutersCountWaitingFloors(t *testing.T) {
	sweep := func(parking int) func(*elev.FloorSet) Router {
		return func(w *elev.FloorSet) Router { return Sweep{ParkingFloor: parking, Waiting: w} }
	}
	bus := func(w *elev.FloorSet) Router { return Bus{MaxFloor: 9, Waiting: w} }
	tests := []struct {
		name    string
		router  func(*elev.FloorSet) Router
		elev    *elev.ElevState
		waiting *elev.FloorSet
		want    Decision
	}{
		{"sweep continues to waiting floor ahead", sweep(-1), newElev(2, types.DirUp, 4), waitingSet(5), Decision{5, types.DirUp, true}},
		{"sweep stops short at nearer waiting floor", sweep(-1), newElev(2, types.DirUp, 4, 7), waitingSet(4), Decision{4, types.DirUp, true}},
		{"sweep turns toward waiting floor behind", sweep(-1), newElev(6, types.DirUp, 4), waitingSet(1), Decision{1, types.DirDown, true}},
		{"sweep goes to waiting floor instead of parking", sweep(0), newElev(3, types.DirStop, 4), waitingSet(8), Decision{8, types.DirUp, true}},
		{"bus leaves for waiting floor", bus, newElev(5, types.DirStop, 4), waitingSet(2), Decision{4, types.DirDown, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.router(tt.waiting).Next(tt.elev, NoSkip); got != tt.want {
				t.Errorf("Next = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFullElevatorIgnoresWaitingFloors(t *testing.T) {
	e := newElev(2, types.DirUp, 1, 6)
	e.Passengers[1] = 6
	got := Sweep{ParkingFloor: -1, Waiting: waitingSet(4)}.Next(e, NoSkip)
	if want := (Decision{6, types.DirUp, true}); got != want {
		t.Errorf("Next = %+v, want %+v", got, want)
	}

	e = newElev(3, types.DirStop, 1)
	e.Passengers[1] = 3
	if got := (Bus{MaxFloor: 9, Waiting: waitingSet(7)}).Next(e, NoSkip); got.Move {
		t.Errorf("full bus moved toward a waiting floor: %+v", got)
	}
}
