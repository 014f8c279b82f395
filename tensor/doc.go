// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor representation used by ROI average align.
//
// # Overview
//
// A RawTensor is a dense, row-major byte buffer with a shape, a data type
// and a device tag. ROI average align consumes:
//   - a feature map, float32 or float64, shaped [batch, channels, height, width]
//   - ROI boxes of the same dtype, shaped [num_rois, 4] as (y_min, x_min, y_max, x_max)
//   - ROI batch indices, int32, shaped [num_rois]
//
// # Basic Usage
//
//	import "github.com/born-ml/roialign/tensor"
//
//	x, _ := tensor.FromSlice(pixels, tensor.Shape{1, 3, 32, 32})
//	rois, _ := tensor.FromSlice([]float32{0, 0, 16, 16}, tensor.Shape{1, 4})
//	idx, _ := tensor.FromSlice([]int32{0}, tensor.Shape{1})
//
// # Supported Data Types
//
//   - float32, float64 (feature maps, boxes, gradients)
//   - int32 (ROI batch indices)
//   - int64 (accepted by serialization only)
package tensor
