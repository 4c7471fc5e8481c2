package herd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineM(t *testing.T) {
	refLat, refLon := 6.730000, -72.775000

	cases := []struct {
		name     string
		lat, lon float64
		wantM    float64
	}{
		{"zero distance", 6.730000, -72.775000, 0},
		{"10 m north", 6.730090, -72.775000, 10},
		{"800 m north", 6.737195, -72.775000, 800},
		{"2500 m north", 6.752483, -72.775000, 2500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HaversineM(refLat, refLon, tc.lat, tc.lon)
			assert.InDelta(t, tc.wantM, got, 1.0)
		})
	}
}

func TestHaversineMSymmetry(t *testing.T) {
	a := HaversineM(6.730000, -72.775000, 6.752483, -72.775000)
	b := HaversineM(6.752483, -72.775000, 6.730000, -72.775000)
	assert.InDelta(t, a, b, 1e-9)
}
