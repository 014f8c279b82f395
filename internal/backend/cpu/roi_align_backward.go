package cpu

import (
	"fmt"

	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// ROIAverageAlign2DBackward computes the gradient w.r.t. the feature map.
//
// Every valid sample of every bin scatters gy*w/count into its four
// corners. Several ROIs, bins and samples can hit the same pixel, so the
// work is partitioned by destination plane instead of by output element:
// each (batch, channel) plane of the input gradient is owned by one
// worker, which walks the ROIs of that batch in index order. Writes never
// race and the result is identical to the sequential loop.
//
// ROI boxes and indices get no gradient.
func (cpu *CPUBackend) ROIAverageAlign2DBackward(
	rois, roiIndices, grad *tensor.RawTensor,
	inputShape tensor.Shape,
	cfg roialign.Config,
) *tensor.RawTensor {
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("roi_average_align_2d backward: expected 4D input shape, got %v", inputShape))
	}

	// Zero-initialized by NewRaw
	inputGrad, err := tensor.NewRaw(inputShape, grad.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("roi_average_align_2d backward: failed to create gradient tensor: %v", err))
	}

	switch grad.DType() {
	case tensor.Float32:
		roiAlignBackward(inputGrad.AsFloat32(), grad.AsFloat32(), rois.AsFloat32(), roiIndices.AsInt32(), inputShape, cfg, cpu.parallel)
	case tensor.Float64:
		roiAlignBackward(inputGrad.AsFloat64(), grad.AsFloat64(), rois.AsFloat64(), roiIndices.AsInt32(), inputShape, cfg, cpu.parallel)
	default:
		panic(fmt.Sprintf("roi_average_align_2d backward: unsupported dtype %v", grad.DType()))
	}

	return inputGrad
}

func roiAlignBackward[T roialign.Float](
	inputGrad, grad, rois []T,
	roiIndices []int32,
	inputShape tensor.Shape,
	cfg roialign.Config,
	pcfg parallel.Config,
) {
	B := inputShape[0]
	C := inputShape[1]
	H := inputShape[2]
	W := inputShape[3]
	planeSize := H * W
	binsPerPlane := cfg.OutH * cfg.OutW

	geoms := geometries(rois, cfg)

	// ROIs grouped by the batch element they read from, in index order
	byBatch := make([][]int, B)
	for n, b := range roiIndices {
		byBatch[b] = append(byBatch[b], n)
	}

	parallel.ForBatch(B, C, func(b, c int) {
		if len(byBatch[b]) == 0 {
			return
		}
		dstOffset := (b*C + c) * planeSize
		dst := inputGrad[dstOffset : dstOffset+planeSize]

		for _, n := range byBatch[b] {
			srcOffset := (n*C + c) * binsPerPlane
			gy := grad[srcOffset : srcOffset+binsPerPlane]

			g := geoms[n]
			for ph := 0; ph < cfg.OutH; ph++ {
				for pw := 0; pw < cfg.OutW; pw++ {
					g.ScatterBin(dst, H, W, ph, pw, gy[ph*cfg.OutW+pw])
				}
			}
		}
	}, pcfg)
}
