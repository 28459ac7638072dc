package sim

import (
	"github.com/labstack/gommon/log"

	"pushback-sim/internal/tow"
	"pushback-sim/pkg/geom"
)

// Sim ties an Aircraft to a tow Operation and steps both once per tick,
// playing the role of the host environment: telemetry out, commands in,
// commands realized into motion.
type Sim struct {
	Craft *Aircraft
	Op    *tow.Operation

	TickRate float64 // ticks per second
	Time     float64 // seconds since start

	// Host-side brake inputs fed into the operation's telemetry.
	BrakePedal float64
	ParkBrake  bool

	// UseForce switches actuation from direct kinematic commands to the
	// rate-limited steering + tow-force adapters.
	UseForce bool
	steering *tow.SteerRateLimiter
	pusher   *tow.Pusher
	force    tow.ForceTuning

	lastStatus tow.Status
}

// New builds a simulation with the aircraft at the given pose.
func New(params *tow.Vehicle, cfg tow.Config, pos geom.Vec2, hdg, tickRate float64) *Sim {
	return &Sim{
		Craft:    NewAircraft(params, pos, hdg),
		Op:       tow.NewOperation(params, cfg.Tuning),
		TickRate: tickRate,
		steering: tow.NewSteerRateLimiter(params),
		pusher:   tow.NewPusher(params, cfg.Force),
		force:    cfg.Force,
	}
}

// Telemetry samples the aircraft the way the host would.
func (s *Sim) Telemetry() tow.Telemetry {
	return tow.Telemetry{
		Pos:        s.Craft.Pos,
		Hdg:        s.Craft.Hdg,
		Spd:        s.Craft.Spd,
		T:          s.Time,
		BrakePedal: s.BrakePedal,
		ParkBrake:  s.ParkBrake,
	}
}

// Update advances the simulation by dt seconds: one operation tick, then
// one integration step.
func (s *Sim) Update(dt float64) tow.Status {
	s.Time += dt

	cmd, status := s.Op.Run(s.Telemetry())
	if status != s.lastStatus {
		log.Infof("sim: %s -> %s at t=%.1fs pos=%.1f/%.1f hdg=%.1f",
			s.lastStatus, status, s.Time, s.Craft.Pos.X, s.Craft.Pos.Y, s.Craft.Hdg)
		s.lastStatus = status
	}

	if s.UseForce {
		rate := s.force.StraightSteerRate
		if head := s.Op.Queue().Head(); head != nil && head.Kind == tow.SegTurn {
			rate = s.force.TurnSteerRate
		}
		steer := s.steering.Update(cmd.Steer, rate, dt)
		force := s.pusher.Update(s.Craft.Spd, cmd.Speed, s.Op.Tuning().NormalAccel, dt)
		s.Craft.UpdateForce(steer, force, dt)
	} else {
		s.Craft.UpdateKinematic(cmd.Steer, cmd.Speed, dt)
	}
	return status
}

// Run steps the simulation at the tick rate until the predicate returns
// true or maxTicks elapse. Returns the last status and whether the
// predicate was satisfied.
func (s *Sim) Run(maxTicks int, done func(tow.Status) bool) (tow.Status, bool) {
	dt := 1.0 / s.TickRate
	status := s.lastStatus
	for i := 0; i < maxTicks; i++ {
		status = s.Update(dt)
		if done != nil && done(status) {
			return status, true
		}
	}
	return status, false
}
