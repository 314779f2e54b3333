package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	sf := Point{Lat: 37.7749, Long: -122.4194}
	oakland := Point{Lat: 37.8044, Long: -122.2712}
	la := Point{Lat: 34.0522, Long: -118.2437}

	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"same point", sf, sf, 0, 0},
		{"sf to oakland", sf, oakland, 8.35, 0.1},
		{"sf to la", sf, la, 347.4, 1},
		{"quarter meridian", Point{0, 0}, Point{90, 0}, EarthRadiusMiles * math.Pi / 2, 1e-6},
		{"antimeridian", Point{0, 179.5}, Point{0, -179.5}, EarthRadiusMiles * radians(1), 1e-6},
		{"antipodal", Point{86.38, 178.75}, Point{-86.38, -1.25}, EarthRadiusMiles * math.Pi, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), tt.tol)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	points := []Point{
		{37.7749, -122.4194},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{89.9, 10},
		{-45, -170},
	}
	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
		}
		assert.Equal(t, 0.0, Distance(a, a))
	}
}

func TestDistanceAntipodalGrid(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 0.37 {
		for long := -180.0; long < 0; long += 1.25 {
			a := Point{Lat: lat, Long: long}
			b := Point{Lat: -lat, Long: long + 180}
			d := Distance(a, b)
			if math.IsNaN(d) {
				t.Fatalf("Distance(%v, %v) is NaN", a, b)
			}
			assert.InDelta(t, EarthRadiusMiles*math.Pi, d, 1e-3)
			assert.True(t, Within(a, b, EarthRadiusMiles*math.Pi+1))
		}
	}
}

func TestWithin(t *testing.T) {
	origin := Point{Lat: 37.7749, Long: -122.4194}
	// Roughly two miles north of the origin.
	near := Point{Lat: 37.7749 + 2.0/69.1, Long: -122.4194}

	assert.True(t, Within(origin, near, 10))
	assert.False(t, Within(origin, near, 1))
	assert.True(t, Within(origin, near, math.Inf(1)))
}
