package tow

import (
	"errors"
	"fmt"
	"math"

	"pushback-sim/pkg/geom"
)

var (
	// ErrNoWheelbase rejects tail-dragger style gear layouts.
	ErrNoWheelbase = errors.New("non-positive wheelbase, tail draggers are not supported")
	ErrNoSteering  = errors.New("maximum steering angle must be positive")
	ErrNoMass      = errors.New("vehicle mass must be positive")
)

// Vehicle holds the static parameters of the towed aircraft.
type Vehicle struct {
	Wheelbase float64 // nose wheel to main gear axle, meters
	MaxSteer  float64 // maximum nose wheel deflection, degrees
	Mass      float64 // kilograms
}

// NewVehicle validates and returns a vehicle description.
func NewVehicle(wheelbase, maxSteer, mass float64) (*Vehicle, error) {
	if wheelbase <= 0 {
		return nil, fmt.Errorf("vehicle: wheelbase %.2f: %w", wheelbase, ErrNoWheelbase)
	}
	if maxSteer <= 0 || maxSteer >= 90 {
		return nil, fmt.Errorf("vehicle: max steer %.2f: %w", maxSteer, ErrNoSteering)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("vehicle: mass %.2f: %w", mass, ErrNoMass)
	}
	return &Vehicle{Wheelbase: wheelbase, MaxSteer: maxSteer, Mass: mass}, nil
}

// MinTurnRadius is the tightest turn the vehicle can plan. turnMult keeps a
// fraction of steering authority in reserve for corrections, and floor
// bounds the result for very short wheelbases.
func (v *Vehicle) MinTurnRadius(turnMult, floor float64) float64 {
	r := math.Tan(geom.Deg2Rad(90-v.MaxSteer*turnMult)) * v.Wheelbase
	return math.Max(r, floor)
}

// Pose is the live position, heading and speed of the vehicle, sampled
// once per tick from the host environment.
type Pose struct {
	Pos geom.Vec2
	Hdg float64 // compass degrees
	Spd float64 // m/s, signed along the heading; negative rolls backward
}
