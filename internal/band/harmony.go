package band

import "math"

// HarmonyTolerance is the absolute tolerance applied to frequency ratios.
const HarmonyTolerance = 0.03

// Interval is a named simple-integer frequency ratio.
type Interval struct {
	Name  string
	Ratio float64
}

// Intervals is the table of ratios treated as harmonious.
var Intervals = []Interval{
	{"octave", 2.0 / 1.0},
	{"fifth", 3.0 / 2.0},
	{"fourth", 4.0 / 3.0},
	{"major third", 5.0 / 4.0},
	{"minor third", 6.0 / 5.0},
	{"major sixth", 5.0 / 3.0},
	{"minor sixth", 8.0 / 5.0},
}

// MatchInterval returns the first interval whose ratio matches f1:f2 within
// HarmonyTolerance. Frequencies must be positive.
func MatchInterval(f1, f2 float64) (Interval, bool) {
	ratio := math.Max(f1, f2) / math.Min(f1, f2)
	for _, iv := range Intervals {
		if math.Abs(ratio-iv.Ratio) < HarmonyTolerance || math.Abs(ratio-1/iv.Ratio) < HarmonyTolerance {
			return iv, true
		}
	}
	return Interval{}, false
}

// Harmonious reports whether two frequencies form one of the named intervals.
func Harmonious(f1, f2 float64) bool {
	_, ok := MatchInterval(f1, f2)
	return ok
}
