package dispatcher

import (
	"sort"

	"liftsched/src/types"
)

// PendingCall is a call waiting in the registry for an elevator.
type PendingCall struct {
	types.Call
	ArrivalTick int
	Seq         uint64
}

// Registry holds the unassigned calls. At most one entry exists per
// (floor, direction).
type Registry struct {
	calls map[types.Call]PendingCall
	seq   uint64
}

func NewRegistry() *Registry {
	return &Registry{calls: make(map[types.Call]PendingCall)}
}

// Insert adds call unless an identical one is already pending, and reports
// whether it was added.
func (r *Registry) Insert(call types.Call, tick int) bool {
	if _, ok := r.calls[call]; ok {
		return false
	}
	r.seq++
	r.calls[call] = PendingCall{Call: call, ArrivalTick: tick, Seq: r.seq}
	return true
}

func (r *Registry) Remove(call types.Call) bool {
	if _, ok := r.calls[call]; !ok {
		return false
	}
	delete(r.calls, call)
	return true
}

func (r *Registry) Contains(call types.Call) bool {
	_, ok := r.calls[call]
	return ok
}

func (r *Registry) Len() int { return len(r.calls) }

// Snapshot lists the pending calls oldest first. Calls placed on the same
// tick keep their insertion order.
func (r *Registry) Snapshot() []PendingCall {
	result := make([]PendingCall, 0, len(r.calls))
	for _, pc := range r.calls {
		result = append(result, pc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ArrivalTick != result[j].ArrivalTick {
			return result[i].ArrivalTick < result[j].ArrivalTick
		}
		return result[i].Seq < result[j].Seq
	})
	return result
}
