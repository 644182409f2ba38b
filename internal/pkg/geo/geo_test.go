package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiles_SamePointIsZero(t *testing.T) {
	p := NewPoint(39.0997, -94.5786)
	assert.Equal(t, 0, Miles(p, p))
}

func TestMiles_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{39.0997, -94.5786, 38.6270, -90.1994}, // KC -> STL
		{40.7128, -74.0060, 34.0522, -118.2437},
		{0, 0, 0, 180},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, pr := range pairs {
		a := NewPoint(pr[0], pr[1])
		b := NewPoint(pr[2], pr[3])
		assert.Equal(t, Miles(a, b), Miles(b, a))
	}
}

func TestMiles_KnownDistances(t *testing.T) {
	// Kansas City to St. Louis is roughly 229 miles great-circle.
	kc := NewPoint(39.0997, -94.5786)
	stl := NewPoint(38.6270, -90.1994)
	d := Miles(kc, stl)
	assert.InDelta(t, 229, d, 3)

	// One degree of latitude is about 69 miles.
	a := NewPoint(39.0, -94.0)
	b := NewPoint(40.0, -94.0)
	assert.InDelta(t, 69, Miles(a, b), 1)
}

func TestMiles_RoundsToNearestWholeMile(t *testing.T) {
	a := NewPoint(39.0, -94.0)
	b := NewPoint(39.5, -94.0)
	exact := MilesExact(a, b)
	rounded := Miles(a, b)
	assert.LessOrEqual(t, float64(rounded)-exact, 0.5)
	assert.GreaterOrEqual(t, float64(rounded)-exact, -0.5)
}
