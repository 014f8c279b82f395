package cpu

import (
	"fmt"

	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// ROIAverageAlign2D performs ROI average align.
//
// Input shape:  x [batch, channels, height, width], rois [num_rois, 4],
// roiIndices [num_rois]
// Output shape: [num_rois, channels, out_h, out_w]
//
// Algorithm:
//  1. For each ROI, derive its scaled origin, bin size and sampling grid
//  2. For each channel and output bin, bilinearly sample the grid points
//     on plane x[roiIndices[n], c]
//  3. Output the sum of samples divided by the nominal grid size
//
// Each (roi, channel) plane of the output is written by exactly one
// worker, so no synchronization is needed.
func (cpu *CPUBackend) ROIAverageAlign2D(x, rois, roiIndices *tensor.RawTensor, cfg roialign.Config) *tensor.RawTensor {
	inputShape := x.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("roi_average_align_2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}

	numROIs := rois.Shape()[0]
	output, err := tensor.NewRaw(roialign.OutputShape(inputShape, numROIs, cfg), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("roi_average_align_2d: failed to create output: %v", err))
	}

	// Dispatch to type-specific implementation
	switch x.DType() {
	case tensor.Float32:
		roiAlignForward(output.AsFloat32(), x.AsFloat32(), rois.AsFloat32(), roiIndices.AsInt32(), inputShape, cfg, cpu.parallel)
	case tensor.Float64:
		roiAlignForward(output.AsFloat64(), x.AsFloat64(), rois.AsFloat64(), roiIndices.AsInt32(), inputShape, cfg, cpu.parallel)
	default:
		panic(fmt.Sprintf("roi_average_align_2d: unsupported dtype %v", x.DType()))
	}

	return output
}

func roiAlignForward[T roialign.Float](
	output, input, rois []T,
	roiIndices []int32,
	inputShape tensor.Shape,
	cfg roialign.Config,
	pcfg parallel.Config,
) {
	C := inputShape[1]
	H := inputShape[2]
	W := inputShape[3]
	planeSize := H * W
	binsPerPlane := cfg.OutH * cfg.OutW

	geoms := geometries(rois, cfg)

	parallel.ForBatch(len(geoms), C, func(n, c int) {
		b := int(roiIndices[n])

		// Pre-slice planes: source plane of batch b, destination plane of roi n
		srcOffset := (b*C + c) * planeSize
		src := input[srcOffset : srcOffset+planeSize]
		dstOffset := (n*C + c) * binsPerPlane
		dst := output[dstOffset : dstOffset+binsPerPlane]

		g := geoms[n]
		for ph := 0; ph < cfg.OutH; ph++ {
			for pw := 0; pw < cfg.OutW; pw++ {
				dst[ph*cfg.OutW+pw] = g.PoolBin(src, H, W, ph, pw)
			}
		}
	}, pcfg)
}
