package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{name: "same point", lat1: 28.6139, lon1: 77.2090, lat2: 28.6139, lon2: 77.2090, want: 0, delta: 1e-9},
		{name: "connaught place to aiims", lat1: 28.6315, lon1: 77.2167, lat2: 28.5672, lon2: 77.2100, want: 7.18, delta: 0.05},
		{name: "one degree of latitude", lat1: 28, lon1: 77, lat2: 29, lon2: 77, want: 111.19, delta: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(28.5244, 77.2066, 28.7041, 77.1025)
	b := DistanceKm(28.7041, 77.1025, 28.5244, 77.2066)
	assert.InDelta(t, a, b, 1e-9)
}
