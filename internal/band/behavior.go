package band

import (
	"fmt"
	"strings"
)

// Behavior is the outcome chosen for a colliding pair.
type Behavior int

const (
	BehaviorNone Behavior = iota
	BehaviorMerge
	BehaviorRing
	BehaviorTether
	BehaviorOscillate
)

func (b Behavior) String() string {
	switch b {
	case BehaviorMerge:
		return "merge"
	case BehaviorRing:
		return "rings"
	case BehaviorTether:
		return "tether"
	case BehaviorOscillate:
		return "oscillate"
	default:
		return "no-op"
	}
}

// HarmonizeMode selects what a harmonious collision turns into.
type HarmonizeMode string

const (
	HarmonizeRandom    HarmonizeMode = "random"
	HarmonizeMerge     HarmonizeMode = "merge"
	HarmonizeRings     HarmonizeMode = "rings"
	HarmonizeTether    HarmonizeMode = "tether"
	HarmonizeOscillate HarmonizeMode = "oscillate"
)

// MergeMode restricts which collisions may merge.
type MergeMode string

const (
	MergeAll          MergeMode = "all"
	MergeHarmonize    MergeMode = "harmonize"
	MergeNonHarmonize MergeMode = "non-harmonize"
)

// ParseHarmonizeMode validates s as a harmonize behavior setting.
func ParseHarmonizeMode(s string) (HarmonizeMode, error) {
	m := HarmonizeMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case HarmonizeRandom, HarmonizeMerge, HarmonizeRings, HarmonizeTether, HarmonizeOscillate:
		return m, nil
	case "":
		return HarmonizeRandom, nil
	}
	return "", fmt.Errorf("unknown harmonize behavior %q", s)
}

// ParseMergeMode validates s as a merge mode; empty means all.
func ParseMergeMode(s string) (MergeMode, error) {
	m := MergeMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MergeAll, MergeHarmonize, MergeNonHarmonize:
		return m, nil
	case "":
		return MergeAll, nil
	}
	return "", fmt.Errorf("unknown merge mode %q", s)
}

// Rand is the random source used by the resolver. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Chances holds the two independent probability gates and their modes.
type Chances struct {
	HarmonizeChance   float64       `json:"harmonizeChance" yaml:"harmonize_chance"`
	HarmonizeBehavior HarmonizeMode `json:"harmonizeBehavior" yaml:"harmonize_behavior"`
	MergeChance       float64       `json:"mergeChance" yaml:"merge_chance"`
	MergeMode         MergeMode     `json:"mergeMode" yaml:"merge_mode"`
}

var randomHarmonize = [...]Behavior{BehaviorRing, BehaviorTether, BehaviorOscillate, BehaviorMerge}

// SelectBehavior decides what a collision does. The harmonize roll and the
// merge roll are independent; rings, tether and oscillate never reach the
// merge roll.
func SelectBehavior(harmonious, inRing bool, rng Rand, c Chances) Behavior {
	if inRing {
		return BehaviorNone
	}

	if r1 := rng.Float64(); harmonious && r1 < c.HarmonizeChance {
		behavior := harmonizeBehavior(c.HarmonizeBehavior, rng)
		if behavior != BehaviorMerge {
			return behavior
		}
	}

	canMerge := true
	switch c.MergeMode {
	case MergeHarmonize:
		canMerge = harmonious
	case MergeNonHarmonize:
		canMerge = !harmonious
	}

	if r2 := rng.Float64(); canMerge && r2 < c.MergeChance {
		return BehaviorMerge
	}
	return BehaviorNone
}

func harmonizeBehavior(mode HarmonizeMode, rng Rand) Behavior {
	switch mode {
	case HarmonizeMerge:
		return BehaviorMerge
	case HarmonizeRings:
		return BehaviorRing
	case HarmonizeTether:
		return BehaviorTether
	case HarmonizeOscillate:
		return BehaviorOscillate
	}
	i := int(rng.Float64() * float64(len(randomHarmonize)))
	if i >= len(randomHarmonize) {
		i = len(randomHarmonize) - 1
	}
	return randomHarmonize[i]
}
