// Package cpu implements ROI average align on the CPU in pure Go.
package cpu

import (
	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// CPUBackend runs the kernels on the CPU, either sequentially or split
// across goroutines according to its parallel.Config.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements roialign.Backend.
var _ roialign.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
// Use parallel.Sequential() for the single-threaded fallback.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	if cpu.parallel.Enabled && cpu.parallel.NumWorkers > 1 {
		return "CPU (parallel)"
	}
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the parallelism settings of the backend.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}

// geometries derives the sampling geometry of every ROI once per call.
func geometries[T roialign.Float](rois []T, cfg roialign.Config) []roialign.Geometry[T] {
	geoms := make([]roialign.Geometry[T], len(rois)/4)
	for n := range geoms {
		geoms[n] = roialign.NewGeometry(rois[n*4:n*4+4], cfg)
	}
	return geoms
}
