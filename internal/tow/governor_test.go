package tow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pushback-sim/pkg/geom"
)

func TestNextSegSpeedEndOfRoute(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue
	assert.Equal(t, tun.CrawlSpeed, nextSegSpeed(&tun, &q, 0, false))
}

func TestNextSegSpeedReversal(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue
	q.Push(NewStraightSeg(geom.Vec2{}, 0, geom.Vec2{X: 0, Y: -50}, 0, true, 50))

	// Direction change ahead: come down to a crawl at the boundary.
	assert.Equal(t, tun.CrawlSpeed, nextSegSpeed(&tun, &q, 0, false))

	// Same direction continues at the next segment's own profile.
	assert.Greater(t, nextSegSpeed(&tun, &q, 0, true), tun.CrawlSpeed)
}

func TestStraightRunSpeedCruiseCaps(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue

	// Plenty of room: cruise, with the slower cap when backing.
	assert.InDelta(t, tun.FastSpeed, straightRunSpeed(&tun, &q, 10000, false, 0), 1e-9)
	assert.InDelta(t, tun.NormalSpeed, straightRunSpeed(&tun, &q, 10000, true, 0), 1e-9)
}

func TestStraightRunSpeedMonotonicInDistance(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue

	prev := 0.0
	for _, d := range []float64{0.5, 2, 5, 10, 25, 50, 100} {
		spd := straightRunSpeed(&tun, &q, d, false, 0)
		assert.GreaterOrEqual(t, spd, prev, "distance %v", d)
		assert.LessOrEqual(t, spd, tun.FastSpeed)
		prev = spd
	}
}

func TestStraightRunSpeedBrakingProfile(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue

	// With d meters left, holding the returned speed and then braking at
	// NormalDecel must come down to the crawl within d. Verify the
	// profile arithmetic: d >= (v^2 - crawl^2) / (2*decel).
	for _, d := range []float64{1, 5, 20, 60} {
		v := straightRunSpeed(&tun, &q, d, false, 0)
		brakingDist := (v*v - tun.CrawlSpeed*tun.CrawlSpeed) / (2 * tun.NormalDecel)
		assert.LessOrEqual(t, brakingDist, d+1e-6, "distance %v speed %v", d, v)
	}
}

func TestTurnRunSpeedAngularVelocityCap(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue

	// A 90 degree arc of radius 30 has ~47 m to run; distance alone
	// would allow far more than the side-load limit permits.
	radius, angle := 30.0, 90.0
	rmngD := 2 * math.Pi * radius * (angle / 360)
	spd := turnRunSpeed(&tun, &q, angle, radius, false, 0)

	require.Greater(t, spd, 0.0)
	angVel := angle * spd / rmngD
	assert.LessOrEqual(t, angVel, tun.MaxAngVel+1e-9)
	assert.LessOrEqual(t, spd, straightRunSpeed(&tun, &q, rmngD, false, 0))
}

func TestTurnRunSpeedTighterIsSlower(t *testing.T) {
	tun := DefaultTuning()
	var q SegQueue

	wide := turnRunSpeed(&tun, &q, 90, 60, false, 0)
	tight := turnRunSpeed(&tun, &q, 90, 15, false, 0)
	assert.Less(t, tight, wide)
}

func TestGovernorLookahead(t *testing.T) {
	tun := DefaultTuning()

	// A long straight into a tight turn must be slower near the turn
	// boundary than the same straight running to a plain stop, only when
	// close enough for the turn's entry speed to matter.
	var intoTurn SegQueue
	intoTurn.Push(NewTurnSeg(geom.Vec2{}, 0, geom.Vec2{X: 15, Y: 15}, 90, false, 15, true))

	var toStop SegQueue

	nearTurn := straightRunSpeed(&tun, &intoTurn, 3, false, 0)
	nearStop := straightRunSpeed(&tun, &toStop, 3, false, 0)
	assert.GreaterOrEqual(t, nearTurn, nearStop,
		"a turn entry permits more speed than a dead stop")

	// Far out both run at cruise.
	farTurn := straightRunSpeed(&tun, &intoTurn, 500, false, 0)
	assert.InDelta(t, tun.FastSpeed, farTurn, 1e-9)
}
