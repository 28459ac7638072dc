package tow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the planner, speed governor and steering law parameters.
// Defaults are the proven values; a YAML file can override them.
type Tuning struct {
	NormalSpeed float64 `yaml:"normal_speed"` // m/s, walking pace, cruise when towing backward
	FastSpeed   float64 `yaml:"fast_speed"`   // m/s, cruise when towing forward
	CrawlSpeed  float64 `yaml:"crawl_speed"`  // m/s, approaching a stop or reversal
	NormalAccel float64 `yaml:"normal_accel"` // m/s^2
	NormalDecel float64 `yaml:"normal_decel"` // m/s^2, braking profile slope

	SegTurnMult         float64 `yaml:"seg_turn_mult"`         // fraction of max steer the planner may use
	MinTurnRadius       float64 `yaml:"min_turn_radius"`       // m, radius floor for tiny vehicles
	MaxAngVel           float64 `yaml:"max_ang_vel"`           // deg/s, side-load limit in turns
	MinSteeringArmLen   float64 `yaml:"min_steering_arm_len"`  // m, lookahead arm floor
	MaxOffPathAngle     float64 `yaml:"max_off_path_angle"`    // deg, overcorrection guard threshold
	SpeedCompleteThresh float64 `yaml:"speed_complete_thresh"` // m/s, "stopped" detection
	BrakePedalThresh    float64 `yaml:"brake_pedal_thresh"`    // 0..1 pedal ratio that pauses the tow
}

// ForceTuning holds the parameters of the force-based actuation adapters.
type ForceTuning struct {
	ForcePerTon       float64 `yaml:"force_per_ton"`       // N per 1000 kg of vehicle mass
	ForceRampSec      float64 `yaml:"force_ramp_sec"`      // seconds to reach the full force limit
	BreakawayThresh   float64 `yaml:"breakaway_thresh"`    // m/s, below this boost to overcome static friction
	StraightSteerRate float64 `yaml:"straight_steer_rate"` // deg/s wheel slew on straights
	TurnSteerRate     float64 `yaml:"turn_steer_rate"`     // deg/s wheel slew in turns
}

// Config is the root of the tuning file.
type Config struct {
	Tuning Tuning      `yaml:"tuning"`
	Force  ForceTuning `yaml:"force"`
}

// DefaultTuning returns the canonical control constants.
func DefaultTuning() Tuning {
	return Tuning{
		NormalSpeed:         1.11, // 4 km/h
		FastSpeed:           4,    // ~8 knots
		CrawlSpeed:          0.1,
		NormalAccel:         0.25,
		NormalDecel:         0.17,
		SegTurnMult:         0.9,
		MinTurnRadius:       1.5,
		MaxAngVel:           3,
		MinSteeringArmLen:   2,
		MaxOffPathAngle:     35,
		SpeedCompleteThresh: 0.05,
		BrakePedalThresh:    0.1,
	}
}

// DefaultForceTuning returns the canonical force-actuation constants.
func DefaultForceTuning() ForceTuning {
	return ForceTuning{
		ForcePerTon:       5000,
		ForceRampSec:      10,
		BreakawayThresh:   0.1,
		StraightSteerRate: 40,
		TurnSteerRate:     10,
	}
}

// DefaultConfig returns all defaults.
func DefaultConfig() Config {
	return Config{Tuning: DefaultTuning(), Force: DefaultForceTuning()}
}

// LoadConfig overlays a YAML tuning file on the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("tuning config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("tuning config %s: %w", path, err)
	}
	return cfg, nil
}
