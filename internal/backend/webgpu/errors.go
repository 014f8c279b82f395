// Package webgpu implements ROI average align with WGSL compute shaders.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
package webgpu

import "github.com/pkg/errors"

// ErrUnavailable is returned when no WebGPU adapter can be used.
var ErrUnavailable = errors.New("webgpu: not available")
