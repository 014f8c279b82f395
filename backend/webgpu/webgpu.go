// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for ROI average align.
//
// Forward runs one shader invocation per output bin. Backward scatters
// with atomic compare-exchange on f32 bit patterns, so the summation order
// of overlapping contributions is not fixed. Float64 inputs are computed
// on the CPU.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//	    fn, err := roialign.NewWithBackend(cfg, gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/roialign/internal/backend/webgpu"
	"github.com/born-ml/roialign/internal/roialign"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements roialign.Backend.
var _ roialign.Backend = (*Backend)(nil)

// ErrUnavailable is returned by New when no usable adapter exists.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// New creates a new WebGPU backend. Call Release() when done to free GPU resources.
//
// Returns an error wrapping ErrUnavailable if initialization fails.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    backend = gpu
//	} else {
//	    backend = cpu.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
