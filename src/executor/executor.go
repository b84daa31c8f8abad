package executor

import (
	"liftsched/src/elev"
	"liftsched/src/types"
)

// NoSkip disables floor exclusion in Router.Next.
const NoSkip = -1

// Decision is the next command for one elevator. Move is false when the
// elevator should stay where it is.
type Decision struct {
	Target int
	Dir    types.Direction
	Move   bool
}

func park(dir types.Direction) Decision {
	return Decision{Target: elev.NoTarget, Dir: dir}
}

// Router picks the next target floor of an elevator from its destination
// set, and from the unheld waiting floors when it is wired to them. Floors
// equal to skip are treated as absent.
type Router interface {
	Next(e *elev.ElevState, skip int) Decision
}

// ShouldSkip reports whether an elevator approaching floor should pass it:
// it is full and nobody on board is getting off there, so stopping could
// only pick up passengers that cannot board.
func ShouldSkip(e *elev.ElevState, floor int) bool {
	if !e.Full() || e.HasPassengerFor(floor) {
		return false
	}
	return e.Destinations.Has(floor) || e.Target == floor
}

// work is the set of floors a router may target: the destinations, plus the
// waiting floors while there is room on board.
func work(e *elev.ElevState, waiting *elev.FloorSet) *elev.FloorSet {
	if waiting == nil || waiting.Empty() || e.Full() {
		return &e.Destinations
	}
	union := e.Destinations.Union(waiting)
	return &union
}

// remaining counts members other than skip.
func remaining(fs *elev.FloorSet, skip int) int {
	n := fs.Len()
	if fs.Has(skip) {
		n--
	}
	return n
}

// nearest returns the member closest to position, preferring the lower
// floor on ties.
func nearest(fs *elev.FloorSet, position float64, skip int) (int, bool) {
	best, found := 0, false
	bestDist := 0.0
	for _, floor := range fs.Floors() {
		if floor == skip {
			continue
		}
		dist := float64(floor) - position
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best, bestDist, found = floor, dist, true
		}
	}
	return best, found
}

func towards(position float64, floor int) types.Direction {
	switch {
	case float64(floor) > position:
		return types.DirUp
	case float64(floor) < position:
		return types.DirDown
	}
	return types.DirStop
}
