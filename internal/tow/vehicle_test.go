package tow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pushback-sim/pkg/geom"
)

func TestNewVehicle(t *testing.T) {
	v, err := NewVehicle(15, 60, 70000)
	require.NoError(t, err)
	assert.Equal(t, 15.0, v.Wheelbase)

	_, err = NewVehicle(0, 60, 70000)
	assert.ErrorIs(t, err, ErrNoWheelbase)
	_, err = NewVehicle(-3, 60, 70000)
	assert.ErrorIs(t, err, ErrNoWheelbase)

	_, err = NewVehicle(15, 0, 70000)
	assert.ErrorIs(t, err, ErrNoSteering)
	_, err = NewVehicle(15, 90, 70000)
	assert.ErrorIs(t, err, ErrNoSteering)

	_, err = NewVehicle(15, 60, 0)
	assert.ErrorIs(t, err, ErrNoMass)
}

func TestMinTurnRadius(t *testing.T) {
	v, err := NewVehicle(15, 60, 70000)
	require.NoError(t, err)

	// With 90% of a 60 degree max deflection the effective steer is 54
	// degrees, so r = tan(36 deg) * wheelbase.
	want := math.Tan(geom.Deg2Rad(36)) * 15
	assert.InDelta(t, want, v.MinTurnRadius(0.9, 1.5), 1e-9)

	// A stubby vehicle bottoms out at the floor.
	stub, err := NewVehicle(0.5, 80, 500)
	require.NoError(t, err)
	assert.Equal(t, 1.5, stub.MinTurnRadius(0.9, 1.5))
}
