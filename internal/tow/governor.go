package tow

import (
	"math"

	"pushback-sim/pkg/geom"
)

// The speed governor looks ahead through the remaining route to pick a
// target speed for the active segment that always leaves room to brake at
// NormalDecel into whatever comes next: a slower turn, a direction
// reversal, or the final stop. It is a lazy backward pass over the queue,
// re-evaluated every tick.

// nextSegSpeed returns the speed to target at the boundary into the
// segment at queue index i. A reversal or the end of the route targets a
// near-stop crawl, which is what brakes the vehicle down in time.
func nextSegSpeed(tun *Tuning, q *SegQueue, i int, curBackward bool) float64 {
	next := q.At(i)
	if next == nil || next.Backward != curBackward {
		return tun.CrawlSpeed
	}
	if next.Kind == SegStraight {
		return straightRunSpeed(tun, q, next.Len, next.Backward, i+1)
	}
	turnAngle := math.Abs(geom.RelHdg(next.StartHdg, next.EndHdg))
	return turnRunSpeed(tun, q, turnAngle, next.Radius, next.Backward, i+1)
}

// straightRunSpeed computes the fastest speed we may hold with rmngD
// meters to go before the segment at nextIdx begins.
//
// We know the distance remaining and the speed we must be down to when it
// runs out, so we work the constant-deceleration profile backwards:
//
//	d = 1/2*a*t^2 + v*t
//
// with a = NormalDecel, v = the next segment's speed and d = rmngD, solved
// for t. With two real roots the later one is the future-facing solution.
// The peak speed is then v + a*t, capped at the cruise speed for the
// direction of travel.
func straightRunSpeed(tun *Tuning, q *SegQueue, rmngD float64, backward bool, nextIdx int) float64 {
	nextSpd := nextSegSpeed(tun, q, nextIdx, backward)
	cruise := tun.FastSpeed
	if backward {
		cruise = tun.NormalSpeed
	}

	ts := geom.QuadraticSolve(0.5*tun.NormalDecel, nextSpd, -rmngD)
	switch len(ts) {
	case 1:
		return math.Min(tun.NormalDecel*ts[0]+nextSpd, cruise)
	case 2:
		t := math.Max(ts[0], ts[1])
		return math.Min(tun.NormalDecel*t+nextSpd, cruise)
	default:
		return nextSpd
	}
}

// turnRunSpeed treats the remaining arc length as a straight run for the
// deceleration profile, then additionally caps the speed so the angular
// velocity around the arc never exceeds MaxAngVel. Tighter turns are thus
// driven more slowly.
func turnRunSpeed(tun *Tuning, q *SegQueue, turnAngle, radius float64, backward bool, nextIdx int) float64 {
	rmngD := 2 * math.Pi * radius * (turnAngle / 360)
	spd := straightRunSpeed(tun, q, rmngD, backward, nextIdx)
	if rmngD <= 0 || spd <= 0 {
		return spd
	}
	angVel := turnAngle * spd / rmngD // deg/s around the arc
	if angVel > tun.MaxAngVel {
		spd *= tun.MaxAngVel / angVel
	}
	return spd
}
