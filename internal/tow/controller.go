package tow

import (
	"math"

	"pushback-sim/pkg/geom"
)

func steerGate(x, gate float64) float64 {
	return math.Min(math.Max(x, -gate), gate)
}

// driveOnLine is the core steering law: track the infinite line through
// lineStart along lineHdg at the given signed speed. armLen is how far
// ahead of the vehicle the alignment point is projected; corrAmp scales
// the derivative correction. lastMisHdg carries the previous tick's
// heading error for the derivative term; dt must be positive.
func driveOnLine(pos *Pose, veh *Vehicle, tun *Tuning, lineStart geom.Vec2, lineHdg,
	speed, armLen, corrAmp float64, lastMisHdg *float64, dt float64,
) (steerOut, speedOut float64) {
	curHdg := pos.Hdg
	if speed < 0 {
		curHdg = geom.NormalizeHdg(pos.Hdg + 180)
	}

	// Neutralize steering until we're traveling in our direction;
	// fighting residual momentum just swings the tail around.
	if (speed < 0 && pos.Spd > 0) || (speed > 0 && pos.Spd < 0) {
		return 0, speed
	}

	// The point we're trying to align. Keep the arm above a minimum
	// length so a projection right at the nose can't flip the steering
	// sense.
	arm := math.Max(armLen, tun.MinSteeringArmLen)
	c := pos.Pos.Add(geom.Hdg2Dir(curHdg).Mul(arm))

	// Project our position onto the ideal line.
	dirV := geom.Hdg2Dir(lineHdg)
	alignS := lineStart.Add(dirV.Mul(pos.Pos.Sub(lineStart).Dot(dirV)))

	// misHdg is the angle by which the arm point is deflected off the
	// line; steer against it, damped by its rate of change.
	s2cHdg := geom.Dir2Hdg(c.Sub(alignS))
	misHdg := geom.RelHdg(s2cHdg, lineHdg)
	rhdg := geom.RelHdg(curHdg, lineHdg)
	dMisHdg := (misHdg - *lastMisHdg) / dt

	steer := steerGate(misHdg+dMisHdg*corrAmp, veh.MaxSteer)

	// Overcorrection guard: if our actual heading has swung too far off
	// the path in the error-amplifying direction, steer back toward the
	// off-path bound instead of chasing the full correction, and slow
	// down until re-established.
	overcorrecting := false
	if misHdg < 0 && rhdg > tun.MaxOffPathAngle {
		steer = steerGate(rhdg-tun.MaxOffPathAngle, veh.MaxSteer)
		overcorrecting = true
	} else if misHdg > 0 && rhdg < -tun.MaxOffPathAngle {
		steer = steerGate(rhdg+tun.MaxOffPathAngle, veh.MaxSteer)
		overcorrecting = true
	}
	if overcorrecting {
		speed = math.Max(math.Min(speed, tun.NormalSpeed), -tun.NormalSpeed)
	}

	// Limit speed so the angular velocity implied by the commanded
	// steering angle stays under the cap. This matters when we've been
	// kicked far off the line and need a big correction.
	turnRadius := math.Tan(geom.Deg2Rad(90-math.Abs(steer))) * veh.Wheelbase
	angVel := geom.Rad2Deg(math.Abs(speed) / turnRadius)
	if angVel > tun.MaxAngVel {
		speed *= tun.MaxAngVel / angVel
	}

	// Steering works in reverse when pushing back.
	if speed < 0 {
		steer = -steer
	}

	*lastMisHdg = misHdg

	return steerGate(steer*corrAmp, veh.MaxSteer), speed
}

// turnRun tracks a turn segment: when the vehicle's radial around the turn
// center lies within the arc it steers tangentially; past either end it
// steers toward the nearer endpoint heading, which absorbs overshoot
// without a command discontinuity.
func turnRun(pos *Pose, veh *Vehicle, tun *Tuning, seg *Seg,
	lastMisHdg *float64, dt, speed float64,
) (steerOut, speedOut float64) {
	startHdg := seg.StartHdg
	endHdg := seg.EndHdg
	if seg.Backward {
		startHdg = geom.NormalizeHdg(startHdg + 180)
		endHdg = geom.NormalizeHdg(endHdg + 180)
	}
	// Clockwise progression around the center, as seen from above.
	cw := seg.Right != seg.Backward

	// The turn center the planner inscribed the arc around. Right is
	// relative to the nose heading, so the center comes from the
	// unflipped start heading even when backing.
	c := seg.TurnCenter()

	c2r := geom.SetAbs(pos.Pos.Sub(c), seg.Radius)
	curRadial := geom.Dir2Hdg(c2r)
	r := c.Add(c2r)
	dirV := geom.Perp(c2r, cw)
	startRadial := geom.NormalizeHdg(startHdg + radialOffset(cw))
	endRadial := geom.NormalizeHdg(endHdg + radialOffset(cw))

	var hdg float64
	switch {
	case geom.IsOnArc(curRadial, startRadial, endRadial, cw):
		hdg = geom.Dir2Hdg(dirV)
	case math.Abs(geom.RelHdg(curRadial, startRadial)) < math.Abs(geom.RelHdg(curRadial, endRadial)):
		hdg = startHdg
	default:
		hdg = endHdg
	}

	if seg.Backward {
		speed = -speed
	}
	return driveOnLine(pos, veh, tun, r, hdg, speed, veh.Wheelbase/5, 2, lastMisHdg, dt)
}

func radialOffset(cw bool) float64 {
	if cw {
		return -90
	}
	return 90
}

// DriveSegs runs one control tick against the head of the queue. It
// returns the steering and speed commands and whether the head segment is
// still active; a completed segment is retired from the queue and the
// caller re-invokes on the next tick (or immediately, for the next
// segment). The queue must be non-empty.
func DriveSegs(pos *Pose, veh *Vehicle, tun *Tuning, q *SegQueue,
	lastMisHdg *float64, dt float64,
) (steer, speed float64, active bool) {
	seg := q.Head()
	if seg == nil {
		return 0, 0, false
	}

	if seg.Kind == SegStraight {
		traveled := geom.Dist(pos.Pos, seg.StartPos)
		if traveled >= seg.Len {
			q.PopHead()
			return 0, 0, false
		}
		spd := straightRunSpeed(tun, q, seg.Len-traveled, seg.Backward, 1)
		hdg := seg.StartHdg
		if seg.Backward {
			hdg = geom.NormalizeHdg(hdg + 180)
			spd = -spd
		}
		steer, speed = driveOnLine(pos, veh, tun, seg.StartPos, hdg, spd,
			veh.Wheelbase/2, 1.5, lastMisHdg, dt)
		return steer, speed, true
	}

	// A turn is complete when we are past its end point: the bearing
	// from end_pos to us is within 90 degrees of the (travel-adjusted)
	// end heading.
	endHdg := seg.EndHdg
	if seg.Backward {
		endHdg = geom.NormalizeHdg(endHdg + 180)
	}
	endBrg := math.Abs(geom.RelHdg(endHdg, geom.Dir2Hdg(pos.Pos.Sub(seg.EndPos))))
	if endBrg <= 90 {
		q.PopHead()
		return 0, 0, false
	}

	rmngTurn := math.Abs(geom.RelHdg(pos.Hdg, seg.EndHdg))
	spd := turnRunSpeed(tun, q, rmngTurn, seg.Radius, seg.Backward, 1)
	steer, speed = turnRun(pos, veh, tun, seg, lastMisHdg, dt, spd)
	return steer, speed, true
}
