// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package roialign

import (
	"github.com/sirupsen/logrus"

	"github.com/born-ml/roialign/internal/backend/cpu"
	"github.com/born-ml/roialign/internal/backend/webgpu"
	"github.com/born-ml/roialign/internal/parallel"
	"github.com/born-ml/roialign/internal/roialign"
)

// Backend is an execution strategy for ROI average align.
// The CPU and WebGPU backends both implement it.
type Backend = roialign.Backend

// Options controls backend selection.
type Options struct {
	// PreferGPU selects WebGPU when an adapter is available.
	PreferGPU bool

	// Workers is the CPU goroutine count: 0 uses every core, 1 is sequential.
	Workers int

	// Logger receives backend selection messages. Nil uses the logrus
	// standard logger.
	Logger *logrus.Logger
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

func (o Options) cpuConfig() parallel.Config {
	if o.Workers <= 0 {
		return parallel.DefaultConfig()
	}
	return parallel.WithWorkers(o.Workers)
}

// NewBackend returns the backend chosen by the runtime capability flag
// webgpu.IsAvailable(). A GPU that fails to initialize falls back to the
// CPU with a warning.
func NewBackend(opts Options) Backend {
	log := opts.logger()

	if opts.PreferGPU {
		if webgpu.IsAvailable() {
			gpu, err := webgpu.New()
			if err == nil {
				log.Infof("Using %s backend", gpu.Name())
				return gpu
			}
			log.Warnf("WebGPU initialization failed (%v), falling back to CPU", err)
		} else {
			log.Warn("WebGPU not available, falling back to CPU")
		}
	}

	backend := cpu.NewWithConfig(opts.cpuConfig())
	log.Infof("Using %s backend (%d workers)", backend.Name(), backend.Parallel().NumWorkers)
	return backend
}

// Release frees resources held by backend, if it holds any.
func Release(backend Backend) {
	if r, ok := backend.(interface{ Release() }); ok {
		r.Release()
	}
}
