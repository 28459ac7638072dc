package tow

import (
	"math"

	"github.com/labstack/gommon/log"

	"pushback-sim/pkg/geom"
)

// Telemetry is the per-tick input sampled from the host environment.
type Telemetry struct {
	Pos        geom.Vec2
	Hdg        float64 // compass degrees
	Spd        float64 // m/s signed along the heading
	T          float64 // simulation time, seconds, monotonically increasing
	BrakePedal float64 // 0..1, max of left/right pedal
	ParkBrake  bool
}

// Cmd is the per-tick output for the host's actuation model.
type Cmd struct {
	Steer float64 // degrees, |Steer| <= vehicle max steering angle
	Speed float64 // m/s target, signed
}

// Status reports where the operation is in its lifecycle.
type Status int

const (
	// StatusIdle: no route queued and nothing in progress.
	StatusIdle Status = iota
	// StatusDriving: actively tracking a segment.
	StatusDriving
	// StatusHolding: route queued but brakes are on.
	StatusHolding
	// StatusStopping: route consumed, braking to a stop.
	StatusStopping
	// StatusStopped: stopped, waiting for the park brake.
	StatusStopped
	// StatusDone: park brake set, tug disconnected.
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusDriving:
		return "driving"
	case StatusHolding:
		return "holding"
	case StatusStopping:
		return "stopping"
	case StatusStopped:
		return "stopped"
	case StatusDone:
		return "done"
	default:
		return "idle"
	}
}

// Operation owns one tow/pushback: the vehicle, the tuning, the segment
// queue and the controller's transient tick state. It is the single
// context object passed telemetry every tick; multiple independent
// operations can coexist.
type Operation struct {
	veh *Vehicle
	tun Tuning

	segs SegQueue

	primed     bool
	lastT      float64
	lastPose   Pose
	lastMisHdg float64
	lastCmd    Cmd

	engaged  bool
	stopping bool
	stopped  bool
}

// NewOperation creates an operation for the given vehicle and tuning.
func NewOperation(veh *Vehicle, tun Tuning) *Operation {
	return &Operation{veh: veh, tun: tun}
}

// Queue exposes the segment queue for planning and inspection. It must
// only be mutated from the same logical thread that calls Run.
func (op *Operation) Queue() *SegQueue { return &op.segs }

// Vehicle returns the vehicle parameters the operation was built with.
func (op *Operation) Vehicle() *Vehicle { return op.veh }

// Tuning returns the active tuning parameters.
func (op *Operation) Tuning() *Tuning { return &op.tun }

// StartPose returns the pose a new planning request continues from: the
// end of the queued route, or the live pose when nothing is queued. ok is
// false before the first telemetry tick with an empty queue.
func (op *Operation) StartPose() (pos geom.Vec2, hdg float64, ok bool) {
	if tail := op.segs.Tail(); tail != nil {
		return tail.EndPos, tail.EndHdg, true
	}
	if !op.primed {
		return geom.NullVec2, 0, false
	}
	return op.lastPose.Pos, op.lastPose.Hdg, true
}

// PlanTo plans from the route's current end pose to the target pose and
// appends the result, marking the batch's final segment as a user-placed
// waypoint. Appending is all-or-nothing.
func (op *Operation) PlanTo(endPos geom.Vec2, endHdg float64) error {
	startPos, startHdg, ok := op.StartPose()
	if !ok {
		return ErrUnreachable
	}
	segs, err := ComputeSegs(op.veh, &op.tun, startPos, startHdg, endPos, endHdg)
	if err != nil {
		return err
	}
	if len(segs) > 0 {
		segs[len(segs)-1].UserPlaced = true
		op.segs.Push(segs...)
	}
	return nil
}

// Abort clears the whole route. Safe at any tick boundary; the next Run
// reports the end-of-operation sequence.
func (op *Operation) Abort() {
	if op.segs.Len() > 0 {
		log.Infof("operation: aborted with %d segments pending", op.segs.Len())
	}
	op.segs.Clear()
}

// Run executes one control tick. Duplicate or out-of-order timestamps are
// ignored: the previous commands are repeated and no state changes.
func (op *Operation) Run(tel Telemetry) (Cmd, Status) {
	if op.primed && tel.T <= op.lastT {
		return op.lastCmd, op.status()
	}

	pose := Pose{Pos: tel.Pos, Hdg: tel.Hdg, Spd: tel.Spd}
	if !op.primed {
		// First tick only establishes the time base.
		op.primed = true
		op.lastT = tel.T
		op.lastPose = pose
		op.lastCmd = Cmd{}
		return op.lastCmd, op.status()
	}
	dt := tel.T - op.lastT
	op.lastT = tel.T
	op.lastPose = pose

	// Brakes on hold the tow in place without consuming the route.
	if op.segs.Len() > 0 &&
		(tel.BrakePedal > op.tun.BrakePedalThresh || tel.ParkBrake) {
		op.lastCmd = Cmd{}
		return op.lastCmd, StatusHolding
	}

	if op.segs.Len() > 0 {
		op.engaged = true
	}
	for op.segs.Len() > 0 {
		steer, speed, active := DriveSegs(&pose, op.veh, &op.tun, &op.segs, &op.lastMisHdg, dt)
		if active {
			op.lastCmd = Cmd{Steer: steer, Speed: speed}
			return op.lastCmd, StatusDriving
		}
		// Segment retired; fall through to the next one this tick.
	}

	// Nothing queued and nothing was ever driven: stay idle.
	if !op.engaged {
		op.lastCmd = Cmd{}
		return op.lastCmd, StatusIdle
	}

	// Route consumed: straighten out and brake to a stop.
	if !op.stopping {
		op.stopping = true
		log.Infof("operation: route complete, stopping")
	}
	op.lastCmd = Cmd{}
	if !op.stopped && math.Abs(tel.Spd) < op.tun.SpeedCompleteThresh {
		op.stopped = true
		log.Infof("operation: stopped, set parking brake")
	}
	if op.stopped && tel.ParkBrake {
		log.Infof("operation: parking brake set, disconnecting")
		op.reset()
		return Cmd{}, StatusDone
	}
	return op.lastCmd, op.status()
}

func (op *Operation) status() Status {
	switch {
	case op.stopped:
		return StatusStopped
	case op.stopping:
		return StatusStopping
	case op.segs.Len() > 0:
		return StatusDriving
	default:
		return StatusIdle
	}
}

// reset clears the transient controller state for the next operation.
func (op *Operation) reset() {
	op.segs.Clear()
	op.lastMisHdg = 0
	op.lastCmd = Cmd{}
	op.engaged = false
	op.stopping = false
	op.stopped = false
}
