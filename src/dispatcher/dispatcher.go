package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"liftsched/src/config"
	"liftsched/src/elev"
	"liftsched/src/executor"
	"liftsched/src/scene"
	"liftsched/src/telemetry"
	"liftsched/src/types"
	"liftsched/src/utils"
)

// Dispatcher turns simulation events into movement commands. It owns the
// fleet and the call registry and must be driven from a single goroutine.
type Dispatcher struct {
	policy   config.Policy
	mover    Mover
	pub      telemetry.Publisher
	log      zerolog.Logger
	strategy Strategy

	fleet    *elev.Fleet
	registry *Registry
	scenes   *scene.Manager
	tick     int
}

func New(policy config.Policy, mover Mover, pub telemetry.Publisher, log zerolog.Logger) *Dispatcher {
	if pub == nil {
		pub = telemetry.Discard{}
	}
	return &Dispatcher{
		policy:   policy,
		mover:    mover,
		pub:      pub,
		log:      log,
		registry: NewRegistry(),
	}
}

// Run handles events in order until the channel is closed or ctx is done.
// Malformed events are logged and skipped; any other error ends the run.
func (d *Dispatcher) Run(ctx context.Context, events <-chan types.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := d.Handle(ev); err != nil {
				if errors.Is(err, ErrMalformedEvent) {
					d.log.Warn().Err(err).Stringer("event", ev).Msg("Skipping event")
					continue
				}
				d.log.Error().Err(err).Stringer("event", ev).Msg("Stopping dispatch")
				return err
			}
		}
	}
}

// Handle runs the pipeline for one event.
func (d *Dispatcher) Handle(ev types.Event) error {
	if ev.Type == types.EventInit {
		return d.onInit(ev)
	}
	if d.fleet == nil {
		return fmt.Errorf("%w: %s before init", ErrMalformedEvent, ev.Type)
	}

	switch ev.Type {
	case types.EventTickStart:
		return d.onTickStart(ev)
	case types.EventPassengerCall:
		return d.onPassengerCall(ev)
	case types.EventTickEnd:
		return d.onTickEnd(ev)
	case types.EventElevatorIdle, types.EventElevatorStopped, types.EventPassengerBoard,
		types.EventPassengerAlight, types.EventElevatorApproaching, types.EventElevatorPassing:
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrMalformedEvent, ev.Type)
	}

	e, err := d.fleet.Get(ev.Elevator)
	if err != nil {
		return err
	}
	switch ev.Type {
	case types.EventElevatorIdle:
		return d.onIdle(e)
	case types.EventElevatorStopped:
		return d.onStopped(e, ev.Floor)
	case types.EventPassengerBoard:
		return d.onBoard(e, ev)
	case types.EventPassengerAlight:
		return d.onAlight(e, ev)
	case types.EventElevatorApproaching:
		return d.onApproaching(e, ev.Floor)
	case types.EventElevatorPassing:
		d.log.Debug().Int("elevator", e.ID).Int("floor", ev.Floor).Stringer("dir", ev.Dir).Msg("Passing floor")
	}
	return nil
}

// Finish publishes the run metrics and returns them.
func (d *Dispatcher) Finish() scene.Metrics {
	var metrics scene.Metrics
	if d.fleet != nil {
		metrics = scene.ComputeMetrics(d.fleet.Passengers())
	}
	d.pub.Publish(telemetry.Message{Type: telemetry.MetricsUpdate, Data: metrics})
	d.log.Info().
		Int("completed", metrics.CompletedPassengers).
		Int("total", metrics.TotalPassengers).
		Float64("avg_floor_wait", metrics.AverageFloorWait).
		Msg("Run finished")
	return metrics
}

func (d *Dispatcher) Fleet() *elev.Fleet  { return d.fleet }
func (d *Dispatcher) Registry() *Registry { return d.registry }
func (d *Dispatcher) Strategy() Strategy  { return d.strategy }

func (d *Dispatcher) onInit(ev types.Event) error {
	if d.fleet != nil {
		return fmt.Errorf("%w: duplicate init", ErrMalformedEvent)
	}
	fleet, err := elev.NewFleet(len(ev.Floors), ev.Elevators)
	if err != nil {
		return err
	}
	if err := fleet.SetFloorFlags(ev.Floors); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	strategy, err := NewStrategy(d.policy, fleet.MaxFloor(), fleet.Waiting())
	if err != nil {
		return err
	}
	d.fleet, d.strategy, d.tick = fleet, strategy, ev.Tick
	d.scenes = scene.NewManager(fleet)
	d.log.Info().
		Int("floors", fleet.NumFloors()).
		Int("elevators", len(fleet.Elevators())).
		Str("strategy", strategy.Name).
		Msg("Fleet initialized")

	if !d.policy.SpreadStart {
		return nil
	}
	n := len(fleet.Elevators())
	for i, e := range fleet.Elevators() {
		floor := elev.SpreadFloor(i, n, fleet.NumFloors())
		if e.Docked() && e.Floor() == floor {
			continue
		}
		if err := d.goTo(e, floor, true); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) onTickStart(ev types.Event) error {
	d.tick = ev.Tick
	for _, info := range ev.Elevators {
		if err := d.fleet.Refresh(info); err != nil {
			return err
		}
	}
	restored := 0
	if len(ev.Floors) > 0 {
		if err := d.fleet.SetFloorFlags(ev.Floors); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		restored = d.restoreFlaggedCalls()
	}
	d.log.Debug().Msg(utils.StatusLine(d.fleet, d.tick, d.registry.Len()))
	if restored == 0 || d.strategy.DeferAssignment {
		return nil
	}
	return d.assignPending()
}

// restoreFlaggedCalls registers flagged calls that are neither pending nor
// held, such as passengers left behind by a full elevator.
func (d *Dispatcher) restoreFlaggedCalls() int {
	restored := 0
	for _, call := range d.fleet.FlaggedCalls() {
		if _, held := d.fleet.AssignedTo(call); held {
			continue
		}
		if d.registry.Insert(call, d.tick) {
			restored++
			d.log.Debug().Stringer("call", call).Int("tick", d.tick).Msg("Call restored from floor flags")
		}
	}
	return restored
}

func (d *Dispatcher) onPassengerCall(ev types.Event) error {
	if !d.fleet.InRange(ev.Floor) || ev.Dir == types.DirStop {
		return fmt.Errorf("%w: call at floor %d going %s", ErrMalformedEvent, ev.Floor, ev.Dir)
	}
	p := ev.Passenger
	p.Origin = ev.Floor
	if p.ArriveTick == 0 {
		p.ArriveTick = ev.Tick
	}
	d.fleet.TrackPassenger(p)

	call := types.Call{Floor: ev.Floor, Dir: ev.Dir}
	if holder, ok := d.fleet.AssignedTo(call); ok {
		d.log.Debug().Stringer("call", call).Int("elevator", holder.ID).Msg("Call already assigned")
		return nil
	}
	if !d.registry.Insert(call, ev.Tick) {
		return nil
	}
	d.log.Debug().Stringer("call", call).Int("tick", ev.Tick).Msg("Call registered")
	if d.strategy.DeferAssignment {
		return nil
	}
	return d.assignPending()
}

func (d *Dispatcher) onIdle(e *elev.ElevState) error {
	if e.Destinations.Empty() {
		e.Dir = types.DirStop
	}
	if err := d.assignPending(); err != nil {
		return err
	}
	return d.route(e)
}

func (d *Dispatcher) onStopped(e *elev.ElevState, floor int) error {
	if !d.fleet.InRange(floor) {
		return fmt.Errorf("%w: elevator %d stopped at floor %d", ErrMalformedEvent, e.ID, floor)
	}
	e.Position = float64(floor)
	e.Target = elev.NoTarget
	for _, served := range d.fleet.ServeFloor(e, floor) {
		d.log.Debug().Int("elevator", e.ID).Stringer("call", served.Call).Int("waited", d.tick-served.ArrivalTick).Msg("Call served")
	}
	if d.strategy.CountWaiting && !e.Full() {
		// Pending calls here were picked up by the stop.
		for _, dir := range []types.Direction{types.DirUp, types.DirDown} {
			call := types.Call{Floor: floor, Dir: dir}
			if d.registry.Remove(call) {
				d.log.Debug().Int("elevator", e.ID).Stringer("call", call).Msg("Pending call served")
			}
		}
	}
	return d.route(e)
}

func (d *Dispatcher) onBoard(e *elev.ElevState, ev types.Event) error {
	if err := d.fleet.Board(e, ev.Passenger, ev.Tick); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	return d.route(e)
}

func (d *Dispatcher) onAlight(e *elev.ElevState, ev types.Event) error {
	d.fleet.Alight(e, ev.Passenger.ID, ev.Floor, ev.Tick)
	return d.route(e)
}

// onApproaching passes the floor when the elevator is full and nobody is
// getting off. Calls it held there go back to the registry with their
// original arrival tick. A skip never turns the elevator around: with
// nothing left ahead it keeps its course, and the turn happens on the stop.
func (d *Dispatcher) onApproaching(e *elev.ElevState, floor int) error {
	if !d.policy.SkipWhenFull || !executor.ShouldSkip(e, floor) {
		return nil
	}
	for _, released := range d.fleet.ReleaseFloor(e, floor) {
		d.registry.Insert(released.Call, released.ArrivalTick)
	}
	decision := d.strategy.Router.Next(e, floor)
	if e.Dir != types.DirStop && (!decision.Move || decision.Dir != e.Dir) {
		d.log.Debug().Int("elevator", e.ID).Int("floor", floor).Stringer("dir", e.Dir).Msg("Nothing ahead of skipped floor, keeping course")
		return d.assignPending()
	}
	d.log.Debug().Int("elevator", e.ID).Int("floor", floor).Int("target", decision.Target).Msg("Skipping floor, elevator full")
	if err := d.apply(e, decision, true); err != nil {
		return err
	}
	return d.assignPending()
}

func (d *Dispatcher) onTickEnd(ev types.Event) error {
	d.tick = ev.Tick
	if d.strategy.DeferAssignment {
		if err := d.assignPending(); err != nil {
			return err
		}
		if err := utils.ForEachElevator(d.fleet, d.route); err != nil {
			return err
		}
	}
	s, err := d.scenes.Update(d.fleet, d.tick)
	if err != nil {
		d.log.Debug().Err(err).Msg("Scene snapshot failed")
		return nil
	}
	d.pub.Publish(telemetry.Message{Type: telemetry.SceneUpdate, Data: s})
	return nil
}

// assignPending offers every pending call, oldest first, to the cheapest
// elevator. Ties go to the lowest id. Calls nobody can take stay pending.
func (d *Dispatcher) assignPending() error {
	for _, pc := range d.registry.Snapshot() {
		var best *elev.ElevState
		bestCost := math.Inf(1)
		for _, e := range d.fleet.Elevators() {
			if cost := d.strategy.Cost.Cost(e, pc, d.tick); cost < bestCost {
				best, bestCost = e, cost
			}
		}
		if best == nil {
			continue
		}
		if err := d.fleet.AssignCall(best, pc.Call, pc.ArrivalTick); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFloorTarget, err)
		}
		d.registry.Remove(pc.Call)
		d.log.Debug().Stringer("call", pc.Call).Int("elevator", best.ID).Float64("cost", bestCost).Msg("Call assigned")
		if best.Dir == types.DirStop {
			if err := d.route(best); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Dispatcher) route(e *elev.ElevState) error {
	return d.apply(e, d.strategy.Router.Next(e, executor.NoSkip), false)
}

func (d *Dispatcher) apply(e *elev.ElevState, decision executor.Decision, immediate bool) error {
	e.Dir = decision.Dir
	if !decision.Move {
		return nil
	}
	return d.goTo(e, decision.Target, immediate)
}

// goTo issues a movement command unless the elevator is already heading to
// floor.
func (d *Dispatcher) goTo(e *elev.ElevState, floor int, immediate bool) error {
	if !d.fleet.InRange(floor) {
		return fmt.Errorf("%w: elevator %d floor %d", ErrInvalidFloorTarget, e.ID, floor)
	}
	if e.Target == floor {
		return nil
	}
	e.Target = floor
	d.log.Debug().Int("elevator", e.ID).Int("floor", floor).Bool("immediate", immediate).Msg("Go to floor")
	d.mover.GoToFloor(e.ID, floor, immediate)
	return nil
}
