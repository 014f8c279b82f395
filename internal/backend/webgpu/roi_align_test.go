//go:build windows

package webgpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/roialign/internal/backend/cpu"
	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}
	b, err := New()
	require.NoError(t, err)
	t.Cleanup(b.Release)
	return b
}

func randomProblem(t *testing.T, dtype tensor.DataType) (x, rois, idx *tensor.RawTensor, cfg roialign.Config) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	x = tensor.Randn(tensor.Shape{2, 3, 9, 11}, dtype, rng)

	boxes := []float64{
		0, 0, 8, 10,
		1.5, 2.25, 6.5, 9.75,
		-2, -3, 4, 5,
		7, 9, 12, 14,
		3, 3, 3, 3,
		0.5, 0.5, 2.5, 1.5,
	}
	if dtype == tensor.Float64 {
		rois = tensor.MustFromSlice(boxes, tensor.Shape{6, 4})
	} else {
		f32 := make([]float32, len(boxes))
		for i, v := range boxes {
			f32[i] = float32(v)
		}
		rois = tensor.MustFromSlice(f32, tensor.Shape{6, 4})
	}
	idx = tensor.MustFromSlice([]int32{0, 1, 0, 1, 1, 0}, tensor.Shape{6})

	cfg, err := roialign.NewConfig(3, 4, 1.0, 0, 2)
	require.NoError(t, err)
	return x, rois, idx, cfg
}

func TestROIAverageAlign2DMatchesCPU(t *testing.T) {
	b := newTestBackend(t)
	ref := cpu.NewWithConfig(parallel.Sequential())
	x, rois, idx, cfg := randomProblem(t, tensor.Float32)

	got := b.ROIAverageAlign2D(x, rois, idx, cfg)
	want := ref.ROIAverageAlign2D(x, rois, idx, cfg)

	require.True(t, want.Shape().Equal(got.Shape()))
	assert.Equal(t, tensor.WebGPU, got.Device())
	assert.InDeltaSlice(t, want.AsFloat32(), got.AsFloat32(), 1e-4)
}

func TestROIAverageAlign2DBackwardMatchesCPU(t *testing.T) {
	b := newTestBackend(t)
	ref := cpu.NewWithConfig(parallel.Sequential())
	x, rois, idx, cfg := randomProblem(t, tensor.Float32)

	grad := tensor.Randn(roialign.OutputShape(x.Shape(), 6, cfg), tensor.Float32, rand.New(rand.NewSource(11)))
	got := b.ROIAverageAlign2DBackward(rois, idx, grad, x.Shape(), cfg)
	want := ref.ROIAverageAlign2DBackward(rois, idx, grad, x.Shape(), cfg)

	require.True(t, x.Shape().Equal(got.Shape()))
	assert.InDeltaSlice(t, want.AsFloat32(), got.AsFloat32(), 1e-4)
}

func TestROIAverageAlign2DFloat64Fallback(t *testing.T) {
	b := newTestBackend(t)
	ref := cpu.NewWithConfig(parallel.Sequential())
	x, rois, idx, cfg := randomProblem(t, tensor.Float64)

	got := b.ROIAverageAlign2D(x, rois, idx, cfg)
	want := ref.ROIAverageAlign2D(x, rois, idx, cfg)

	assert.Equal(t, tensor.WebGPU, got.Device())
	assert.InDeltaSlice(t, want.AsFloat64(), got.AsFloat64(), 1e-12)
}

func TestROIAverageAlign2DNoROIs(t *testing.T) {
	b := newTestBackend(t)
	x := tensor.Full(tensor.Shape{1, 2, 4, 4}, float32(1))
	rois, err := tensor.NewRaw(tensor.Shape{0, 4}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	idx, err := tensor.NewRaw(tensor.Shape{0}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	cfg, err := roialign.NewConfig(2, 2, 1.0, 0, 0)
	require.NoError(t, err)

	out := b.ROIAverageAlign2D(x, rois, idx, cfg)
	assert.Equal(t, tensor.Shape{0, 2, 2, 2}, out.Shape())
}
