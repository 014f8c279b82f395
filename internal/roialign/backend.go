package roialign

import "github.com/born-ml/roialign/internal/tensor"

// Backend is an execution strategy for ROI average align.
//
// Implementations:
//   - CPU: pure Go, sequential or goroutine-parallel (internal/backend/cpu)
//   - WebGPU: WGSL compute shaders (internal/backend/webgpu)
//
// Inputs are validated with CheckForward / CheckBackward before a backend
// is called; backends panic on inputs that violate those preconditions.
type Backend interface {
	// ROIAverageAlign2D pools every ROI into a (num_rois, channels, OutH, OutW) tensor.
	ROIAverageAlign2D(x, rois, roiIndices *tensor.RawTensor, cfg Config) *tensor.RawTensor

	// ROIAverageAlign2DBackward returns the gradient w.r.t. the feature map,
	// shaped like inputShape. ROIs and indices receive no gradient.
	ROIAverageAlign2DBackward(rois, roiIndices, grad *tensor.RawTensor, inputShape tensor.Shape, cfg Config) *tensor.RawTensor

	// Metadata
	Name() string
	Device() tensor.Device
}
