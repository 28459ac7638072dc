package tow

import (
	"errors"
	"math"

	"github.com/labstack/gommon/log"

	"pushback-sim/pkg/geom"
)

var (
	// ErrUnreachable means no segment sequence can represent the request,
	// e.g. a pure rotation in place.
	ErrUnreachable = errors.New("end pose unreachable")
	// ErrNoTurnEdge means the start and end tangent rays never intersect.
	ErrNoTurnEdge = errors.New("turn edge undefined")
	// ErrTurnTooTight means the inscribed turn radius is below the
	// vehicle's minimum feasible radius.
	ErrTurnTooTight = errors.New("turn too tight for vehicle")
)

const (
	posEqTolerance = 1e-6 // meters
	rayLength      = 1e10 // rays are semi-infinite for the tangent construction
	zeroLenEpsilon = 1e-9 // residual straight lengths below this are dropped
)

// ComputeSegs reduces a start/end pose pair into an ordered list of zero,
// one or two segments respecting the vehicle's turning constraints.
// Identical poses need no segments; anything infeasible returns one of
// ErrUnreachable, ErrNoTurnEdge or ErrTurnTooTight. Segment construction
// is all-or-nothing: on error nothing is returned.
func ComputeSegs(veh *Vehicle, tun *Tuning, startPos geom.Vec2, startHdg float64,
	endPos geom.Vec2, endHdg float64,
) ([]*Seg, error) {
	// Overlapping start and end positions need no operation, unless the
	// headings differ: rotating in place is not a thing segments can do.
	if geom.Vec2Eq(startPos, endPos, posEqTolerance) {
		if math.Abs(geom.RelHdg(startHdg, endHdg)) < posEqTolerance {
			return nil, nil
		}
		log.Debugf("planner: same position, headings %.1f vs %.1f: unreachable", startHdg, endHdg)
		return nil, ErrUnreachable
	}

	s2eV := endPos.Sub(startPos)
	rhdg := geom.RelHdg(startHdg, geom.Dir2Hdg(s2eV))
	backward := math.Abs(rhdg) > 90

	// With a tiny heading change, project the end point onto a straight
	// run from the start. The same applies when backing up toward a spot
	// whose heading is the reciprocal of ours: the travel direction is
	// then aligned with the end heading and the run is straight.
	hdgDiff := math.Abs(geom.RelHdg(startHdg, endHdg))
	if hdgDiff < 1 || (backward && 180-hdgDiff < 1) {
		travelHdg := startHdg
		if backward {
			travelHdg = geom.NormalizeHdg(startHdg + 180)
		}
		dirV := geom.Hdg2Dir(travelHdg)
		length := dirV.Dot(s2eV)
		if length <= zeroLenEpsilon {
			log.Debugf("planner: degenerate straight projection %.3f m: unreachable", length)
			return nil, ErrUnreachable
		}
		projEnd := startPos.Add(geom.SetAbs(dirV, length))
		s := NewStraightSeg(startPos, startHdg, projEnd, endHdg, backward, length)
		logSeg(s)
		return []*Seg{s}, nil
	}

	// Tangent rays: from the start along the travel direction, and from
	// the end against the arrival direction. Their intersection is the
	// corner the turn arc is inscribed into.
	s1V := geom.SetAbs(geom.Hdg2Dir(startHdg), rayLength)
	if backward {
		s1V = s1V.Mul(-1)
	}
	s2V := geom.SetAbs(geom.Hdg2Dir(endHdg), rayLength)
	if !backward {
		s2V = s2V.Mul(-1)
	}

	turnEdge := geom.Isect(s1V, startPos, s2V, endPos, true)
	if geom.IsNullVec2(turnEdge) {
		log.Debugf("planner: turn edge undefined for %.1f -> %.1f", startHdg, endHdg)
		return nil, ErrNoTurnEdge
	}

	l1 := geom.Dist(turnEdge, startPos)
	l2 := geom.Dist(turnEdge, endPos)
	x := math.Min(l1, l2)
	l1 -= x
	l2 -= x

	// The planner only uses a fraction of the maximum steering angle so
	// the follower keeps authority for oversteer correction.
	minRadius := veh.MinTurnRadius(tun.SegTurnMult, tun.MinTurnRadius)
	a := 180 - math.Abs(geom.RelHdg(startHdg, endHdg))
	r := x * math.Tan(geom.Deg2Rad(a/2))
	if r < minRadius {
		log.Debugf("planner: turn too tight: %.2f < %.2f", r, minRadius)
		return nil, ErrTurnTooTight
	}
	right := rhdg >= 0

	var segs []*Seg
	switch {
	case l1 <= zeroLenEpsilon && l2 <= zeroLenEpsilon:
		// The arc spans the whole path; no straight run either side.
		segs = []*Seg{
			NewTurnSeg(startPos, startHdg, endPos, endHdg, backward, r, right),
		}
	case l1 <= zeroLenEpsilon:
		// No initial straight: turn first, then run straight to the end.
		turnEnd := endPos.Add(geom.SetAbs(s2V, l2))
		segs = []*Seg{
			NewTurnSeg(startPos, startHdg, turnEnd, endHdg, backward, r, right),
			NewStraightSeg(turnEnd, endHdg, endPos, endHdg, backward, l2),
		}
	default:
		// No final straight: run straight, then turn into the end heading.
		turnStart := startPos.Add(geom.SetAbs(s1V, l1))
		segs = []*Seg{
			NewStraightSeg(startPos, startHdg, turnStart, startHdg, backward, l1),
			NewTurnSeg(turnStart, startHdg, endPos, endHdg, backward, r, right),
		}
	}
	for _, s := range segs {
		logSeg(s)
	}
	return segs, nil
}

func logSeg(s *Seg) {
	dir := "fwd"
	if s.Backward {
		dir = "rev"
	}
	if s.Kind == SegStraight {
		log.Debugf("planner: %.1f/%.1f/%.1f -(%s %.1f m)-> %.1f/%.1f/%.1f",
			s.StartPos.X, s.StartPos.Y, s.StartHdg, dir, s.Len,
			s.EndPos.X, s.EndPos.Y, s.EndHdg)
		return
	}
	side := "L"
	if s.Right {
		side = "R"
	}
	log.Debugf("planner: %.1f/%.1f/%.1f -(%s turn %s r=%.1f m)-> %.1f/%.1f/%.1f",
		s.StartPos.X, s.StartPos.Y, s.StartHdg, dir, side, s.Radius,
		s.EndPos.X, s.EndPos.Y, s.EndHdg)
}
