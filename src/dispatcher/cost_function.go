package dispatcher

import (
	"math"

	"liftsched/src/config"
	"liftsched/src/elev"
	"liftsched/src/types"
)

// CostFunc scores how expensive it is for an elevator to take a call.
// Lower is better; +Inf means the elevator must not be chosen.
type CostFunc interface {
	Cost(e *elev.ElevState, call PendingCall, now int) float64
}

// WeightedCost is the weighted sum of travel time, direction mismatch,
// stop count, load and energy.
//   - full elevators are never chosen
//   - an elevator travelling away from the call, or in the other direction,
//     pays for finishing its sweep before it can come back
type WeightedCost struct {
	WTime         float64
	WMismatch     float64
	WStops        float64
	WLoad         float64
	WEnergy       float64
	TicksPerFloor float64
}

func NewWeightedCost(p config.Policy) WeightedCost {
	return WeightedCost{
		WTime:         p.WTime,
		WMismatch:     p.WMismatch,
		WStops:        p.WStops,
		WLoad:         p.WLoad,
		WEnergy:       p.WEnergy,
		TicksPerFloor: p.TicksPerFloor,
	}
}

func (w WeightedCost) Cost(e *elev.ElevState, call PendingCall, _ int) float64 {
	if e.Full() {
		return math.Inf(1)
	}
	position := e.Position
	callFloor := float64(call.Floor)

	load := e.LoadFactor()
	cost := w.WTime*math.Abs(position-callFloor)*w.TicksPerFloor +
		w.WStops*float64(e.Destinations.Len()) +
		w.WLoad*load*load +
		w.WEnergy*e.EnergyRate

	if mismatched(e.Dir, call.Dir, position, callFloor) {
		farthest := e.Destinations.Farthest(e.Dir, position)
		detour := math.Abs(farthest-position) + math.Abs(farthest-callFloor)
		cost += w.WMismatch + w.WTime*detour*w.TicksPerFloor
	}
	return cost
}

// mismatched reports whether an elevator with intent dir has to finish its
// sweep before it can serve a call at callFloor going callDir.
func mismatched(dir, callDir types.Direction, position, callFloor float64) bool {
	if dir == types.DirStop {
		return false
	}
	return dir != callDir || passed(dir, position, callFloor)
}

func passed(dir types.Direction, position, callFloor float64) bool {
	return (dir == types.DirUp && position > callFloor) ||
		(dir == types.DirDown && position < callFloor)
}

// ScanCost is the dynamic SCAN variant: busy elevators only take calls
// they will sweep past in the call's direction, and old calls get cheaper.
type ScanCost struct {
	TimePerFloor float64
	LoadPenalty  float64
	WaitBonus    float64
}

func NewScanCost(p config.Policy) ScanCost {
	return ScanCost{
		TimePerFloor: p.ScanTimePerFloor,
		LoadPenalty:  p.ScanLoadPenalty,
		WaitBonus:    p.ScanWaitBonus,
	}
}

func (s ScanCost) Cost(e *elev.ElevState, call PendingCall, now int) float64 {
	if e.Full() {
		return math.Inf(1)
	}
	callFloor := float64(call.Floor)
	if !e.Destinations.Empty() && e.Dir != types.DirStop &&
		(e.Dir != call.Dir || passed(e.Dir, e.Position, callFloor)) {
		return math.Inf(1)
	}
	cost := math.Abs(e.Position-callFloor)*s.TimePerFloor +
		float64(len(e.Passengers))*s.LoadPenalty -
		float64(now-call.ArrivalTick)*s.WaitBonus
	return math.Max(cost, 0)
}
