// Package tow plans and follows ground paths for an aircraft under tow or
// pushback. A path is a queue of straight and constant-radius turn
// segments produced by ComputeSegs and consumed per tick by DriveSegs.
package tow

import (
	"pushback-sim/pkg/geom"
)

// SegKind discriminates the segment payload.
type SegKind int

const (
	SegStraight SegKind = iota
	SegTurn
)

func (k SegKind) String() string {
	if k == SegTurn {
		return "turn"
	}
	return "straight"
}

// Seg is one atomic planned move. Straight segments carry Len; turn
// segments carry Radius and Right. Use the constructors so the payload
// matches the kind.
type Seg struct {
	Kind SegKind

	StartPos geom.Vec2
	StartHdg float64
	EndPos   geom.Vec2
	EndHdg   float64

	// Backward means the segment is traversed nose-trailing.
	Backward bool

	Len    float64 // straight: length in meters
	Radius float64 // turn: radius in meters
	Right  bool    // turn: center lies right of the travel direction

	// UserPlaced marks an explicit waypoint, as opposed to an
	// intermediate segment generated to reach one.
	UserPlaced bool
}

// NewStraightSeg builds a straight segment. Length must be positive; the
// planner never emits zero-length segments.
func NewStraightSeg(startPos geom.Vec2, startHdg float64, endPos geom.Vec2, endHdg float64, backward bool, length float64) *Seg {
	return &Seg{
		Kind:     SegStraight,
		StartPos: startPos,
		StartHdg: startHdg,
		EndPos:   endPos,
		EndHdg:   endHdg,
		Backward: backward,
		Len:      length,
	}
}

// NewTurnSeg builds a constant-radius turn segment.
func NewTurnSeg(startPos geom.Vec2, startHdg float64, endPos geom.Vec2, endHdg float64, backward bool, radius float64, right bool) *Seg {
	return &Seg{
		Kind:     SegTurn,
		StartPos: startPos,
		StartHdg: startHdg,
		EndPos:   endPos,
		EndHdg:   endHdg,
		Backward: backward,
		Radius:   radius,
		Right:    right,
	}
}

// TurnCenter returns the center of a turn segment: the start position
// displaced by the radius at a right angle to the start heading.
func (s *Seg) TurnCenter() geom.Vec2 {
	perp := geom.Perp(geom.Hdg2Dir(s.StartHdg), s.Right)
	return s.StartPos.Add(geom.SetAbs(perp, s.Radius))
}

// ArcAngle returns the signed heading change of a turn segment.
func (s *Seg) ArcAngle() float64 {
	return geom.RelHdg(s.StartHdg, s.EndHdg)
}

// SegQueue is the ordered route: index 0 is the active segment. It is
// owned by the planner/controller pair and must not be mutated elsewhere.
type SegQueue struct {
	segs []*Seg
}

// Len returns the number of queued segments.
func (q *SegQueue) Len() int { return len(q.segs) }

// Head returns the active segment, or nil when the route is complete.
func (q *SegQueue) Head() *Seg { return q.At(0) }

// Tail returns the last queued segment, or nil.
func (q *SegQueue) Tail() *Seg { return q.At(len(q.segs) - 1) }

// At returns the i-th segment, or nil when out of range.
func (q *SegQueue) At(i int) *Seg {
	if i < 0 || i >= len(q.segs) {
		return nil
	}
	return q.segs[i]
}

// Push appends segments to the route.
func (q *SegQueue) Push(segs ...*Seg) {
	q.segs = append(q.segs, segs...)
}

// PopHead retires the active segment and returns it, or nil when empty.
func (q *SegQueue) PopHead() *Seg {
	if len(q.segs) == 0 {
		return nil
	}
	s := q.segs[0]
	q.segs[0] = nil
	q.segs = q.segs[1:]
	return s
}

// Clear drops the whole route. This is the cancellation primitive and is
// safe at any tick boundary.
func (q *SegQueue) Clear() {
	q.segs = nil
}

// TrimToLastPlaced removes the last user-placed waypoint along with the
// intermediate segments generated after the one before it, i.e. it undoes
// the most recent placement. Returns the number of segments removed.
func (q *SegQueue) TrimToLastPlaced() int {
	if len(q.segs) == 0 {
		return 0
	}
	n := 1
	q.segs = q.segs[:len(q.segs)-1]
	for len(q.segs) > 0 && !q.segs[len(q.segs)-1].UserPlaced {
		q.segs = q.segs[:len(q.segs)-1]
		n++
	}
	return n
}

// Segs returns the queued segments for iteration (read-only by convention).
func (q *SegQueue) Segs() []*Seg { return q.segs }
