package sim

import (
	"math"

	"pushback-sim/internal/tow"
	"pushback-sim/pkg/geom"
)

// Aircraft is the simulated towed aircraft: a kinematic bicycle model
// that realizes steering/speed commands into next-tick telemetry. It
// stands in for the host flight model.
type Aircraft struct {
	Params *tow.Vehicle

	Pos   geom.Vec2
	Hdg   float64 // compass degrees
	Spd   float64 // m/s signed along heading
	Steer float64 // current nose wheel deflection, degrees

	// Acceleration limits of the drive in kinematic mode.
	Accel float64 // m/s^2 toward a higher speed magnitude
	Decel float64 // m/s^2 toward a lower speed magnitude

	// RollResist decelerates the aircraft when coasting in force mode.
	RollResist float64 // m/s^2
}

// NewAircraft places an aircraft at the given pose, at rest.
func NewAircraft(params *tow.Vehicle, pos geom.Vec2, hdg float64) *Aircraft {
	return &Aircraft{
		Params:     params,
		Pos:        pos,
		Hdg:        geom.NormalizeHdg(hdg),
		Accel:      0.25,
		Decel:      0.25,
		RollResist: 0.2,
	}
}

// UpdateKinematic applies a steering command directly and slews the speed
// toward the commanded target under the acceleration limits, then
// integrates one tick of bicycle kinematics.
func (ac *Aircraft) UpdateKinematic(steerCmd, speedCmd, dt float64) {
	ac.Steer = clamp(steerCmd, ac.Params.MaxSteer)

	if ac.Spd < speedCmd {
		rate := ac.Accel
		if ac.Spd < 0 {
			rate = ac.Decel
		}
		ac.Spd = math.Min(ac.Spd+rate*dt, speedCmd)
	} else if ac.Spd > speedCmd {
		rate := ac.Accel
		if ac.Spd > 0 {
			rate = ac.Decel
		}
		ac.Spd = math.Max(ac.Spd-rate*dt, speedCmd)
	}

	ac.integrate(dt)
}

// UpdateForce applies a rate-limited wheel deflection and a tow force in
// Newtons (positive pushes forward along the heading), then integrates.
func (ac *Aircraft) UpdateForce(steer, force, dt float64) {
	ac.Steer = clamp(steer, ac.Params.MaxSteer)

	accel := force / ac.Params.Mass
	ac.Spd += accel * dt

	// Rolling resistance opposes motion and never reverses it.
	rr := ac.RollResist * dt
	if ac.Spd > 0 {
		ac.Spd = math.Max(ac.Spd-rr, 0)
	} else if ac.Spd < 0 {
		ac.Spd = math.Min(ac.Spd+rr, 0)
	}

	ac.integrate(dt)
}

// integrate advances pose by one tick of bicycle kinematics: the yaw rate
// is v/wheelbase * tan(steer), positive clockwise.
func (ac *Aircraft) integrate(dt float64) {
	yawRate := geom.Rad2Deg(ac.Spd / ac.Params.Wheelbase * math.Tan(geom.Deg2Rad(ac.Steer)))
	ac.Hdg = geom.NormalizeHdg(ac.Hdg + yawRate*dt)
	ac.Pos = ac.Pos.Add(geom.Hdg2Dir(ac.Hdg).Mul(ac.Spd * dt))
}

func clamp(x, limit float64) float64 {
	return math.Min(math.Max(x, -limit), limit)
}
