package elev

import "liftsched/src/types"

// FloorSet is the set of floors an elevator has to visit, indexed by floor.
type FloorSet struct {
	floors []bool
	count  int
}

func NewFloorSet(numFloors int) FloorSet {
	return FloorSet{floors: make([]bool, numFloors)}
}

func (fs *FloorSet) InRange(floor int) bool {
	return floor >= 0 && floor < len(fs.floors)
}

// Add returns true if floor was not already present. Out of range floors
// are ignored; callers check InRange first.
func (fs *FloorSet) Add(floor int) bool {
	if !fs.InRange(floor) || fs.floors[floor] {
		return false
	}
	fs.floors[floor] = true
	fs.count++
	return true
}

func (fs *FloorSet) Remove(floor int) bool {
	if !fs.InRange(floor) || !fs.floors[floor] {
		return false
	}
	fs.floors[floor] = false
	fs.count--
	return true
}

func (fs *FloorSet) Has(floor int) bool {
	return fs.InRange(floor) && fs.floors[floor]
}

func (fs *FloorSet) Len() int    { return fs.count }
func (fs *FloorSet) Empty() bool { return fs.count == 0 }

// Floors lists the members in ascending order.
func (fs *FloorSet) Floors() []int {
	result := make([]int, 0, fs.count)
	for floor, set := range fs.floors {
		if set {
			result = append(result, floor)
		}
	}
	return result
}

// Ahead lists the members strictly ahead of position when travelling in dir,
// nearest first. Floors equal to skip are left out.
func (fs *FloorSet) Ahead(position float64, dir types.Direction, skip int) []int {
	var result []int
	switch dir {
	case types.DirUp:
		for floor := 0; floor < len(fs.floors); floor++ {
			if fs.floors[floor] && floor != skip && float64(floor) > position+dockedEpsilon {
				result = append(result, floor)
			}
		}
	case types.DirDown:
		for floor := len(fs.floors) - 1; floor >= 0; floor-- {
			if fs.floors[floor] && floor != skip && float64(floor) < position-dockedEpsilon {
				result = append(result, floor)
			}
		}
	}
	return result
}

// Union returns a new set holding the members of both sets.
func (fs *FloorSet) Union(other *FloorSet) FloorSet {
	result := NewFloorSet(max(len(fs.floors), len(other.floors)))
	for floor, set := range fs.floors {
		if set {
			result.Add(floor)
		}
	}
	for floor, set := range other.floors {
		if set {
			result.Add(floor)
		}
	}
	return result
}

// Farthest returns the member farthest along dir, or fallback if none
// lies beyond it.
func (fs *FloorSet) Farthest(dir types.Direction, fallback float64) float64 {
	farthest := fallback
	for floor, set := range fs.floors {
		if !set {
			continue
		}
		f := float64(floor)
		if (dir == types.DirUp && f > farthest) || (dir == types.DirDown && f < farthest) {
			farthest = f
		}
	}
	return farthest
}
