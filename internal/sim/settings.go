package sim

import (
	"errors"
	"fmt"

	"wigglybands/internal/band"
)

// TicksPerSecond is the nominal frame rate. Velocities and forces are
// expressed per tick at this rate.
const TicksPerSecond = 60.0

// Settings is the injected configuration for a World. It is exported with
// every snapshot.
type Settings struct {
	band.Chances

	Bounds         band.Bounds `json:"bounds"`
	SpeedLimit     float64     `json:"speedLimit"`
	ChargeStrength float64     `json:"chargeStrength"`
	TetherStrength float64     `json:"tetherStrength"`
	PhysicsEnabled bool        `json:"physicsEnabled"`
	DebounceWindow float64     `json:"debounceWindow"` // seconds
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		Chances: band.Chances{
			HarmonizeChance:   0.5,
			HarmonizeBehavior: band.HarmonizeRandom,
			MergeChance:       0.3,
			MergeMode:         band.MergeAll,
		},
		Bounds:         band.Bounds{Width: 1280, Height: 800},
		SpeedLimit:     8,
		ChargeStrength: 40,
		TetherStrength: band.TetherStrength,
		PhysicsEnabled: true,
		DebounceWindow: 0.1,
	}
}

// Validate reports every out-of-range setting.
func (s Settings) Validate() error {
	var errs []error
	if s.HarmonizeChance < 0 || s.HarmonizeChance > 1 {
		errs = append(errs, fmt.Errorf("harmonize chance %v outside [0,1]", s.HarmonizeChance))
	}
	if s.MergeChance < 0 || s.MergeChance > 1 {
		errs = append(errs, fmt.Errorf("merge chance %v outside [0,1]", s.MergeChance))
	}
	if _, err := band.ParseHarmonizeMode(string(s.HarmonizeBehavior)); err != nil {
		errs = append(errs, err)
	}
	if _, err := band.ParseMergeMode(string(s.MergeMode)); err != nil {
		errs = append(errs, err)
	}
	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		errs = append(errs, fmt.Errorf("field size %vx%v must be positive", s.Bounds.Width, s.Bounds.Height))
	}
	if s.SpeedLimit <= 0 {
		errs = append(errs, fmt.Errorf("speed limit %v must be positive", s.SpeedLimit))
	}
	if s.DebounceWindow < 0 {
		errs = append(errs, fmt.Errorf("debounce window %v must not be negative", s.DebounceWindow))
	}
	return errors.Join(errs...)
}

// canonical returns s with the mode names in the form the selector matches.
// Validate accepts any casing and surrounding space.
func (s Settings) canonical() Settings {
	if m, err := band.ParseHarmonizeMode(string(s.HarmonizeBehavior)); err == nil {
		s.HarmonizeBehavior = m
	}
	if m, err := band.ParseMergeMode(string(s.MergeMode)); err == nil {
		s.MergeMode = m
	}
	return s
}
