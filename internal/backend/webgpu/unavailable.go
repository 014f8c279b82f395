//go:build !windows

package webgpu

import (
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// Backend is a placeholder on platforms without WebGPU bindings.
// New never returns one.
type Backend struct{}

// Compile-time check that Backend implements roialign.Backend.
var _ roialign.Backend = (*Backend)(nil)

// New always fails with ErrUnavailable on this platform.
func New() (*Backend, error) {
	return nil, ErrUnavailable
}

// IsAvailable reports false on this platform.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// ROIAverageAlign2D is not supported on this platform.
func (b *Backend) ROIAverageAlign2D(_, _, _ *tensor.RawTensor, _ roialign.Config) *tensor.RawTensor {
	panic("webgpu: ROIAverageAlign2D: " + ErrUnavailable.Error())
}

// ROIAverageAlign2DBackward is not supported on this platform.
func (b *Backend) ROIAverageAlign2DBackward(_, _, _ *tensor.RawTensor, _ tensor.Shape, _ roialign.Config) *tensor.RawTensor {
	panic("webgpu: ROIAverageAlign2DBackward: " + ErrUnavailable.Error())
}
