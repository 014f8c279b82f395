package roialign

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ValidRange(t *testing.T) {
	tests := []struct {
		name  string
		y, x  float32
		valid bool
	}{
		{"interior", 1.5, 2.25, true},
		{"origin", 0, 0, true},
		{"lower bound inclusive", -1, -1, true},
		{"below y", -1.01, 0, false},
		{"below x", 0, -1.01, false},
		{"upper bound inclusive", 4, 5, true},
		{"above y", 4.01, 0, false},
		{"above x", 0, 5.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Resolve(tt.y, tt.x, 4, 5)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestResolve_Interior(t *testing.T) {
	p, ok := Resolve(1.25, 2.5, 4, 4)
	require.True(t, ok)

	assert.Equal(t, BilinearParams[float64]{
		YLow: 1, XLow: 2, YHigh: 2, XHigh: 3,
		W1: 0.75 * 0.5, W2: 0.75 * 0.5, W3: 0.25 * 0.5, W4: 0.25 * 0.5,
	}, p)
}

func TestResolve_NegativeSnapsToZero(t *testing.T) {
	p, ok := Resolve(-0.5, -0.75, 3, 3)
	require.True(t, ok)

	assert.Equal(t, 0, p.YLow)
	assert.Equal(t, 1, p.YHigh)
	assert.Equal(t, 0, p.XLow)
	assert.Equal(t, 1, p.XHigh)
	assert.Equal(t, 1.0, p.W1)
	assert.Zero(t, p.W2+p.W3+p.W4)
}

// TestResolve_EdgeSnapping checks that points at or past the last row and
// column collapse both corners onto it with zero fractional weight.
func TestResolve_EdgeSnapping(t *testing.T) {
	for _, y := range []float32{2, 2.5, 3} {
		p, ok := Resolve(y, y, 3, 3)
		require.True(t, ok)

		assert.Equal(t, 2, p.YLow)
		assert.Equal(t, 2, p.YHigh)
		assert.Equal(t, 2, p.XLow)
		assert.Equal(t, 2, p.XHigh)
		assert.Equal(t, float32(1), p.W1)
		assert.Zero(t, p.W2)
		assert.Zero(t, p.W3)
		assert.Zero(t, p.W4)
	}
}

func TestResolve_SinglePixelPlane(t *testing.T) {
	p, ok := Resolve(0.7, 0.3, 1, 1)
	require.True(t, ok)
	assert.Equal(t, BilinearParams[float64]{W1: 1}, p)
}

func TestResolve_WeightsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 10000; i++ {
		h := 1 + rng.Intn(20)
		w := 1 + rng.Intn(20)
		y := rng.Float64()*float64(h+2) - 1
		x := rng.Float64()*float64(w+2) - 1

		p, ok := Resolve(y, x, h, w)
		if !ok {
			continue
		}
		assert.InDelta(t, 1.0, p.W1+p.W2+p.W3+p.W4, 1e-12)
		assert.GreaterOrEqual(t, p.YLow, 0)
		assert.GreaterOrEqual(t, p.XLow, 0)
		assert.Less(t, p.YHigh, h)
		assert.Less(t, p.XHigh, w)
	}
}

func TestBilinearParams_InterpolateAndScatter(t *testing.T) {
	plane := []float32{1, 2, 3, 4}
	p, ok := Resolve[float32](0.5, 0.5, 2, 2)
	require.True(t, ok)
	assert.Equal(t, float32(2.5), p.Interpolate(plane, 2))

	grad := make([]float32, 4)
	p.Scatter(grad, 2, 8, 2)
	assert.Equal(t, []float32{1, 1, 1, 1}, grad)

	// Second scatter accumulates
	p.Scatter(grad, 2, 8, 2)
	assert.Equal(t, []float32{2, 2, 2, 2}, grad)
}
