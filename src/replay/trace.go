package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"liftsched/src/types"
)

var ErrInvalidTrace = errors.New("invalid trace")

// Trace is a recorded simulation: the building and the events that
// followed init.
type Trace struct {
	Floors    int                  `yaml:"floors"`
	Elevators []types.ElevatorInfo `yaml:"elevators"`
	Events    []types.Event        `yaml:"events"`
}

func Load(path string) (Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return Trace{}, fmt.Errorf("open trace: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

func Decode(r io.Reader) (Trace, error) {
	var trace Trace
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&trace); err != nil {
		return Trace{}, fmt.Errorf("%w: %w", ErrInvalidTrace, err)
	}
	if trace.Floors < 2 || len(trace.Elevators) == 0 {
		return Trace{}, fmt.Errorf("%w: need at least 2 floors and one elevator", ErrInvalidTrace)
	}
	for i := range trace.Events {
		if trace.Events[i].Type == types.EventInit {
			return Trace{}, fmt.Errorf("%w: event %d: init is implied by the trace header", ErrInvalidTrace, i)
		}
	}
	return trace, nil
}

// Init is the event that opens the replay.
func (t Trace) Init() types.Event {
	floors := make([]types.FloorInfo, t.Floors)
	for i := range floors {
		floors[i].Floor = i
	}
	return types.Event{Type: types.EventInit, Elevators: t.Elevators, Floors: floors}
}

// Stream sends init followed by every event, then closes the channel.
func (t Trace) Stream(ctx context.Context) <-chan types.Event {
	events := make(chan types.Event)
	go func() {
		defer close(events)
		all := append([]types.Event{t.Init()}, t.Events...)
		for _, ev := range all {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}
