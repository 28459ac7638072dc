package tow

import "math"

// Force-based actuation adapters. The controller's steer/speed commands
// are abstract; a host whose physics wants wheel deflections and tow
// forces realizes them through these two types.

// SteerRateLimiter slews the nose wheel toward the commanded angle at a
// bounded rate, clamped to the vehicle's maximum deflection.
type SteerRateLimiter struct {
	veh   *Vehicle
	angle float64
}

// NewSteerRateLimiter starts with the wheel centered.
func NewSteerRateLimiter(veh *Vehicle) *SteerRateLimiter {
	return &SteerRateLimiter{veh: veh}
}

// Angle returns the current wheel deflection in degrees.
func (s *SteerRateLimiter) Angle() float64 { return s.angle }

// Update moves the wheel toward target by at most rate*dt degrees and
// returns the new deflection.
func (s *SteerRateLimiter) Update(target, rate, dt float64) float64 {
	if s.angle != target {
		incr := math.Min(math.Abs(target-s.angle), rate*dt)
		if s.angle < target {
			s.angle += incr
		} else {
			s.angle -= incr
		}
	}
	s.angle = math.Min(s.angle, s.veh.MaxSteer)
	s.angle = math.Max(s.angle, -s.veh.MaxSteer)
	return s.angle
}

// Pusher turns a target speed into a tow force. The force is limited per
// ton of vehicle mass, so a blocked aircraft (chocks, obstruction) is
// never flung across the tarmac, and ramps over several seconds rather
// than stepping. Positive force pushes the vehicle forward along its
// heading.
type Pusher struct {
	veh *Vehicle
	ft  ForceTuning

	force   float64
	lastSpd float64
	primed  bool
}

// NewPusher creates a force adapter for the vehicle.
func NewPusher(veh *Vehicle, ft ForceTuning) *Pusher {
	return &Pusher{veh: veh, ft: ft}
}

// Force returns the last computed tow force in Newtons.
func (p *Pusher) Force() float64 { return p.force }

// Reset clears the force state at the start of an operation.
func (p *Pusher) Reset() {
	p.force = 0
	p.lastSpd = 0
	p.primed = false
}

// Update advances the force toward what is needed to reach targSpd at up
// to maxAccel, given the current measured speed. dt must be positive.
func (p *Pusher) Update(curSpd, targSpd, maxAccel, dt float64) float64 {
	forceLim := p.ft.ForcePerTon * (p.veh.Mass / 1000)
	forceIncr := (forceLim / p.ft.ForceRampSec) * dt

	accelNow := 0.0
	if p.primed {
		accelNow = (curSpd - p.lastSpd) / dt
	}
	p.lastSpd = curSpd
	p.primed = true

	dv := targSpd - curSpd

	// Below the breakaway threshold allow a much larger acceleration
	// target, otherwise high-rolling-resistance aircraft jitter in
	// place because we think we are overdoing it.
	if math.Abs(curSpd) < p.ft.BreakawayThresh {
		maxAccel *= 100
	}

	if dv > 0 {
		if dv < maxAccel && math.Abs(curSpd) >= p.ft.BreakawayThresh {
			maxAccel = dv
		}
		if accelNow < maxAccel {
			p.force += forceIncr
		} else if accelNow > maxAccel {
			p.force -= forceIncr
		}
	} else if dv < 0 {
		maxAccel = -maxAccel
		if dv > maxAccel && math.Abs(curSpd) >= p.ft.BreakawayThresh {
			maxAccel = dv
		}
		if accelNow > maxAccel {
			p.force -= forceIncr
		} else if accelNow < maxAccel {
			p.force += forceIncr
		}
	}

	p.force = math.Min(forceLim, p.force)
	p.force = math.Max(-forceLim, p.force)
	return p.force
}
