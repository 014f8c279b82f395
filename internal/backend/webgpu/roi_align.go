//go:build windows

package webgpu

import (
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// ROIAverageAlign2D performs ROI average align on the GPU.
// One shader invocation computes one output bin.
func (b *Backend) ROIAverageAlign2D(x, rois, roiIndices *tensor.RawTensor, cfg roialign.Config) *tensor.RawTensor {
	if x.DType() == tensor.Float64 {
		return b.fallback.ROIAverageAlign2D(x, rois, roiIndices, cfg).WithDevice(tensor.WebGPU)
	}
	result, err := b.runROIAlignForward(x, rois, roiIndices, cfg)
	if err != nil {
		panic("webgpu: ROIAverageAlign2D: " + err.Error())
	}
	return result
}

// ROIAverageAlign2DBackward scatters grad back onto a zeroed feature-map
// gradient. Invocations that share a destination cell accumulate through
// atomic compare-exchange, so summation order is not fixed.
func (b *Backend) ROIAverageAlign2DBackward(rois, roiIndices, grad *tensor.RawTensor, inputShape tensor.Shape, cfg roialign.Config) *tensor.RawTensor {
	if grad.DType() == tensor.Float64 {
		return b.fallback.ROIAverageAlign2DBackward(rois, roiIndices, grad, inputShape, cfg).WithDevice(tensor.WebGPU)
	}
	result, err := b.runROIAlignBackward(rois, roiIndices, grad, inputShape, cfg)
	if err != nil {
		panic("webgpu: ROIAverageAlign2DBackward: " + err.Error())
	}
	return result
}

func (b *Backend) runROIAlignForward(x, rois, roiIndices *tensor.RawTensor, cfg roialign.Config) (*tensor.RawTensor, error) {
	if x.DType() != tensor.Float32 {
		return nil, errors.Errorf("only float32 is supported, got %s", x.DType())
	}

	inputShape := x.Shape()
	numROIs := rois.Shape()[0]
	result, err := tensor.NewRaw(roialign.OutputShape(inputShape, numROIs, cfg), tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	total := result.NumElements()
	if total == 0 {
		return result, nil
	}

	b.submitMu.Lock()
	defer b.submitMu.Unlock()

	bufferInput := b.createBuffer(x.Data(), wgpu.BufferUsageStorage)
	defer bufferInput.Release()
	bufferROIs := b.createBuffer(rois.Data(), wgpu.BufferUsageStorage)
	defer bufferROIs.Release()
	bufferIndices := b.createBuffer(roiIndices.Data(), wgpu.BufferUsageStorage)
	defer bufferIndices.Release()

	//nolint:gosec // G115: ByteSize() returns non-negative int
	resultSize := uint64(result.ByteSize())
	bufferResult := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  resultSize,
	})
	defer bufferResult.Release()

	_, _, stride := dispatchSize(total)
	bufferParams := b.createUniformBuffer(encodeParams(inputShape, numROIs, cfg, total, stride))
	defer bufferParams.Release()

	b.dispatch("roiAlignForward", roiAlignForwardShader, total,
		[]*wgpu.Buffer{bufferInput, bufferROIs, bufferIndices, bufferResult, bufferParams},
		[]uint64{alignedSize(x), alignedSize(rois), alignedSize(roiIndices), resultSize, paramsSize},
	)

	data, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, errors.Wrap(err, "read output")
	}
	copy(result.Data(), data)
	return result, nil
}

func (b *Backend) runROIAlignBackward(rois, roiIndices, grad *tensor.RawTensor, inputShape tensor.Shape, cfg roialign.Config) (*tensor.RawTensor, error) {
	if grad.DType() != tensor.Float32 {
		return nil, errors.Errorf("only float32 is supported, got %s", grad.DType())
	}

	result, err := tensor.NewRaw(inputShape.Clone(), tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	total := grad.NumElements()
	if total == 0 || result.NumElements() == 0 {
		return result, nil
	}

	b.submitMu.Lock()
	defer b.submitMu.Unlock()

	bufferGrad := b.createBuffer(grad.Data(), wgpu.BufferUsageStorage)
	defer bufferGrad.Release()
	bufferROIs := b.createBuffer(rois.Data(), wgpu.BufferUsageStorage)
	defer bufferROIs.Release()
	bufferIndices := b.createBuffer(roiIndices.Data(), wgpu.BufferUsageStorage)
	defer bufferIndices.Release()

	// Upload the zeroed result so atomics start from 0.0 (bit pattern 0).
	//nolint:gosec // G115: ByteSize() returns non-negative int
	resultSize := uint64(result.ByteSize())
	bufferResult := b.createBuffer(result.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferResult.Release()

	_, _, stride := dispatchSize(total)
	numROIs := rois.Shape()[0]
	bufferParams := b.createUniformBuffer(encodeParams(inputShape, numROIs, cfg, total, stride))
	defer bufferParams.Release()

	b.dispatch("roiAlignBackward", roiAlignBackwardShader, total,
		[]*wgpu.Buffer{bufferGrad, bufferROIs, bufferIndices, bufferResult, bufferParams},
		[]uint64{alignedSize(grad), alignedSize(rois), alignedSize(roiIndices), resultSize, paramsSize},
	)

	data, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, errors.Wrap(err, "read grad_input")
	}
	copy(result.Data(), data)
	return result, nil
}

// alignedSize is the binding size of a tensor uploaded with createBuffer.
func alignedSize(t *tensor.RawTensor) uint64 {
	//nolint:gosec // G115: ByteSize() returns non-negative int
	return (uint64(t.ByteSize()) + 3) &^ 3
}
