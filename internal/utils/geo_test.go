package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKM(t *testing.T) {
	// JFK to LHR, roughly 5540 km
	distance := HaversineKM(40.6413, -73.7781, 51.4700, -0.4543)
	assert.InDelta(t, 5540, distance, 50)

	// CGK to SIN, roughly 880 km
	distance = HaversineKM(-6.1256, 106.6559, 1.3644, 103.9915)
	assert.InDelta(t, 880, distance, 20)
}

func TestHaversineKM_SamePoint(t *testing.T) {
	assert.Zero(t, HaversineKM(40.6413, -73.7781, 40.6413, -73.7781))
}

func TestHaversineKM_Symmetric(t *testing.T) {
	a := HaversineKM(40.6413, -73.7781, 51.4700, -0.4543)
	b := HaversineKM(51.4700, -0.4543, 40.6413, -73.7781)
	assert.InDelta(t, a, b, 0.0001)
}
