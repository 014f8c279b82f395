package cpu

import (
	"math/rand"
	"testing"

	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

func benchmarkProblem(b *testing.B) (x, rois, idx *tensor.RawTensor, cfg roialign.Config) {
	b.Helper()
	rng := rand.New(rand.NewSource(0))
	x = tensor.Randn(tensor.Shape{2, 64, 50, 50}, tensor.Float32, rng)

	const numROIs = 128
	boxes := make([]float32, numROIs*4)
	indices := make([]int32, numROIs)
	for n := 0; n < numROIs; n++ {
		y0, x0 := rng.Float32()*700, rng.Float32()*700
		boxes[n*4+0], boxes[n*4+1] = y0, x0
		boxes[n*4+2], boxes[n*4+3] = y0+16+rng.Float32()*200, x0+16+rng.Float32()*200
		indices[n] = int32(n % 2)
	}
	rois = tensor.MustFromSlice(boxes, tensor.Shape{numROIs, 4})
	idx = tensor.MustFromSlice(indices, tensor.Shape{numROIs})

	cfg, err := roialign.NewConfig(7, 7, 1.0/16, 2, 2)
	if err != nil {
		b.Fatal(err)
	}
	return x, rois, idx, cfg
}

func BenchmarkROIAverageAlign2D_Sequential(b *testing.B) {
	x, rois, idx, cfg := benchmarkProblem(b)
	backend := NewWithConfig(parallel.Sequential())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backend.ROIAverageAlign2D(x, rois, idx, cfg)
	}
}

func BenchmarkROIAverageAlign2D_Parallel(b *testing.B) {
	x, rois, idx, cfg := benchmarkProblem(b)
	backend := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backend.ROIAverageAlign2D(x, rois, idx, cfg)
	}
}

func BenchmarkROIAverageAlign2DBackward_Parallel(b *testing.B) {
	x, rois, idx, cfg := benchmarkProblem(b)
	backend := New()
	gy := tensor.Full[float32](roialign.OutputShape(x.Shape(), rois.Shape()[0], cfg), 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = backend.ROIAverageAlign2DBackward(rois, idx, gy, x.Shape(), cfg)
	}
}
