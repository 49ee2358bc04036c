package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-asrc/internal/testutil"
)

func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"Small positive", 0.5, 1.0634833707413236, 1e-12},
		{"One", 1.0, 1.2660658777520082, 1e-12},
		{"Two", 2.0, 2.2795853023360673, 1e-12},
		{"Five", 5.0, 27.239871823604442, 1e-12},
		{"Ten", 10.0, 2815.716628466254, 1e-12},
		{"Twenty", 20.0, 4.355828255955353e7, 1e-12},
		{"Negative one", -1.0, 1.2660658777520082, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertRelativeError(t, tt.expected, BesselI0(tt.x), tt.tolerance)
		})
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.25; x <= 25; x += 0.25 {
		cur := BesselI0(x)
		assert.Greater(t, cur, prev, "I0 not increasing at x=%v", x)
		prev = cur
	}
}

func TestKaiser(t *testing.T) {
	const beta = 7.8

	assert.InDelta(t, 1.0, Kaiser(0, beta), 1e-15, "window peaks at the centre")
	assert.InDelta(t, Kaiser(0.3, beta), Kaiser(-0.3, beta), 1e-15)
	assert.InDelta(t, 1/BesselI0(beta), Kaiser(1, beta), 1e-15)
	assert.Zero(t, Kaiser(1.01, beta))
	assert.Zero(t, Kaiser(-1.01, beta))

	prev := Kaiser(0, beta)
	for x := 0.05; x <= 1; x += 0.05 {
		cur := Kaiser(x, beta)
		assert.Less(t, cur, prev, "window must decay away from the centre")
		prev = cur
	}
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expectedMin float64
		expectedMax float64
	}{
		{"20dB", 20.0, 0.0, 0.1},
		{"50dB", 50.0, 4.5, 4.6},
		{"60dB", 60.0, 5.6, 5.7},
		{"80dB", 80.0, 7.8, 7.9},
		{"100dB", 100.0, 10.0, 10.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertInRange(t, KaiserBeta(tt.attenuation), tt.expectedMin, tt.expectedMax)
		})
	}
}

func TestKaiserAttenuation_Inverse(t *testing.T) {
	for _, att := range []float64{25, 35, 45, 60, 80, 100} {
		testutil.AssertRelativeError(t, att, KaiserAttenuation(KaiserBeta(att)), 1e-6)
	}
	assert.InDelta(t, 21.0, KaiserAttenuation(0), 1e-12)
}
