// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for ROI average align.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Goroutine parallelism over (roi, channel) for forward and
//     (batch, channel) for backward
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/roialign/backend/cpu"
//	    "github.com/born-ml/roialign/roialign"
//	)
//
//	func main() {
//	    fn, err := roialign.NewWithBackend(cfg, cpu.New())
//	    y, err := fn.Forward(x, rois, roiIndices)
//	}
//
// # Determinism
//
// Backward writes each (batch, channel) plane of the input gradient from a
// single goroutine and visits ROIs in index order, so results are bitwise
// identical for any worker count.
package cpu
