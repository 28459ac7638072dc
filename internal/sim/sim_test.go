package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pushback-sim/internal/tow"
	"pushback-sim/pkg/geom"
)

func simFixture(t *testing.T, pos geom.Vec2, hdg float64) *Sim {
	t.Helper()
	params, err := tow.NewVehicle(3, 60, 2000)
	require.NoError(t, err)
	s := New(params, tow.DefaultConfig(), pos, hdg, 10)

	// One telemetry tick so planning has a live pose.
	s.Op.Run(s.Telemetry())
	return s
}

func TestTelemetryMirrorsAircraft(t *testing.T) {
	s := simFixture(t, geom.Vec2{X: 7, Y: -3}, 45)
	s.BrakePedal = 0.4
	s.ParkBrake = true

	tel := s.Telemetry()
	assert.Equal(t, geom.Vec2{X: 7, Y: -3}, tel.Pos)
	assert.Equal(t, 45.0, tel.Hdg)
	assert.Equal(t, 0.4, tel.BrakePedal)
	assert.True(t, tel.ParkBrake)
}

func TestDriveStraightAndTurnToStop(t *testing.T) {
	s := simFixture(t, geom.Vec2{}, 0)
	target := geom.Vec2{X: 50, Y: 80}
	require.NoError(t, s.Op.PlanTo(target, 90))
	require.Equal(t, 2, s.Op.Queue().Len())

	status, ok := s.Run(20000, func(st tow.Status) bool {
		return st == tow.StatusStopped
	})
	require.True(t, ok, "never reached a stop, last status %s", status)

	assert.InDelta(t, 0, geom.Dist(s.Craft.Pos, target), 3.0, "arrival position")
	assert.InDelta(t, 0, geom.RelHdg(s.Craft.Hdg, 90), 10.0, "arrival heading")
	assert.Less(t, s.Craft.Spd, 0.05)

	// Setting the park brake hands the aircraft back.
	s.ParkBrake = true
	status, ok = s.Run(10, func(st tow.Status) bool {
		return st == tow.StatusDone
	})
	assert.True(t, ok, "park brake did not complete the operation, last status %s", status)
}

func TestDrivePureTurn(t *testing.T) {
	s := simFixture(t, geom.Vec2{}, 0)
	target := geom.Vec2{X: 50, Y: 50}
	require.NoError(t, s.Op.PlanTo(target, 90))
	require.Equal(t, 1, s.Op.Queue().Len())

	_, ok := s.Run(20000, func(st tow.Status) bool {
		return st == tow.StatusStopped
	})
	require.True(t, ok)

	assert.InDelta(t, 0, geom.Dist(s.Craft.Pos, target), 3.0)
	assert.InDelta(t, 0, geom.RelHdg(s.Craft.Hdg, 90), 10.0)
	assert.Equal(t, 0, s.Op.Queue().Len())
}

func TestPushbackStraight(t *testing.T) {
	s := simFixture(t, geom.Vec2{}, 0)
	target := geom.Vec2{X: 0, Y: -40}
	require.NoError(t, s.Op.PlanTo(target, 0))

	_, ok := s.Run(20000, func(st tow.Status) bool {
		return st == tow.StatusStopped
	})
	require.True(t, ok)

	assert.InDelta(t, 0, geom.Dist(s.Craft.Pos, target), 3.0)
	assert.InDelta(t, 0, geom.RelHdg(s.Craft.Hdg, 0), 10.0)
}

func TestBrakePedalHoldsTheTow(t *testing.T) {
	s := simFixture(t, geom.Vec2{}, 0)
	require.NoError(t, s.Op.PlanTo(geom.Vec2{X: 0, Y: 100}, 0))

	s.BrakePedal = 0.8
	status, _ := s.Run(50, nil)
	assert.Equal(t, tow.StatusHolding, status)
	assert.InDelta(t, 0, s.Craft.Pos.Y, 0.1, "must not creep forward under brakes")

	s.BrakePedal = 0
	status, _ = s.Run(50, nil)
	assert.Equal(t, tow.StatusDriving, status)
	assert.Greater(t, s.Craft.Pos.Y, 0.1)
}

func TestForceActuationDrivesStraight(t *testing.T) {
	s := simFixture(t, geom.Vec2{}, 0)
	s.UseForce = true
	target := geom.Vec2{X: 0, Y: 60}
	require.NoError(t, s.Op.PlanTo(target, 0))

	_, ok := s.Run(40000, func(st tow.Status) bool {
		return st == tow.StatusStopped
	})
	require.True(t, ok)

	assert.InDelta(t, 0, geom.Dist(s.Craft.Pos, target), 5.0)
}
