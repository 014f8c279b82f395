// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package roialign implements ROI average align: bilinear pooling of
// regions of interest into a fixed-size grid, with its gradient.
//
// # Overview
//
// For every ROI n, channel c and output bin (ph, pw), the bin is covered by
// a grid of sample points. Each point is read from plane
// x[roiIndices[n], c] by bilinear interpolation and the bin's value is the
// sum over the grid divided by the nominal grid size. Points that fall
// outside the feature map contribute zero but still count in the divisor.
//
// Backward scatters every output gradient back through the same bilinear
// weights. ROI boxes and indices never receive a gradient.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/roialign/roialign"
//	    "github.com/born-ml/roialign/tensor"
//	)
//
//	func main() {
//	    // outsize 7x7, features at 1/16 resolution, adaptive sampling grid
//	    fn, err := roialign.New([]int{7}, 1.0/16, nil, roialign.Options{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer fn.Release()
//
//	    y, err := fn.Forward(x, rois, roiIndices)
//	    grads, err := fn.Backward(gy) // [gx, nil, nil]
//	}
//
// # Backends
//
// NewBackend picks WebGPU when Options.PreferGPU is set and an adapter is
// available, and the CPU backend otherwise. Both produce the same numbers
// up to float summation order.
package roialign
