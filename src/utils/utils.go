package utils

import (
	"fmt"
	"strings"

	"liftsched/src/elev"
)

// ForEachElevator is a helper function that reduces indentation when performing an action on all elevators
func ForEachElevator(fleet *elev.Fleet, action func(e *elev.ElevState) error) error {
	for _, e := range fleet.Elevators() {
		if err := action(e); err != nil {
			return err
		}
	}
	return nil
}

// StatusLine renders one line per tick with every elevator's position,
// intent and destinations.
func StatusLine(fleet *elev.Fleet, tick int, pending int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T%d pending=%d", tick, pending)
	for _, e := range fleet.Elevators() {
		fmt.Fprintf(&b, " | E%d %.1f %s %v %d/%d", e.ID, e.Position, e.Dir, e.Destinations.Floors(), len(e.Passengers), e.Capacity)
	}
	return b.String()
}
