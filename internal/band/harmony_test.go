package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarmonious(t *testing.T) {
	tests := []struct {
		name   string
		f1, f2 float64
		want   bool
	}{
		{"octave", 440, 880, true},
		{"octave reversed", 880, 440, true},
		{"fifth", 440, 660, true},
		{"fourth", 300, 400, true},
		{"major third", 400, 500, true},
		{"minor third", 500, 600, true},
		{"major sixth", 300, 500, true},
		{"minor sixth", 500, 800, true},
		{"unrelated", 440, 500, false},
		{"unison", 440, 440, false},
		{"fifth within tolerance", 1000, 1520, true},
		{"fifth outside tolerance", 1000, 1540, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Harmonious(tt.f1, tt.f2))
		})
	}
}

func TestMatchIntervalName(t *testing.T) {
	iv, ok := MatchInterval(440, 660)
	assert.True(t, ok)
	assert.Equal(t, "fifth", iv.Name)

	_, ok = MatchInterval(440, 500)
	assert.False(t, ok)
}
