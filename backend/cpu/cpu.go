// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/roialign/internal/backend/cpu"
	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements roialign.Backend.
var _ roialign.Backend = (*Backend)(nil)

// New creates a new CPU backend using all available cores.
//
// Example:
//
//	backend := cpu.New()
//	y := backend.ROIAverageAlign2D(x, rois, roiIndices, cfg)
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a single-threaded CPU backend.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Sequential())
}

// NewWithWorkers creates a CPU backend that splits work across n goroutines.
// n <= 1 is sequential.
func NewWithWorkers(n int) *Backend {
	return internalcpu.NewWithConfig(parallel.WithWorkers(n))
}
