package roialign

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/roialign/internal/tensor"
)

// CheckForward validates the forward inputs before any computation:
//
//	x:          float, rank 4 (batch, channel, height, width), height and width >= 1
//	rois:       same dtype as x, rank 2 with 4 columns, finite coordinates
//	            that stay finite after scaling by cfg.SpatialScale
//	roiIndices: int32, rank 1, one per ROI, each in [0, batch)
func CheckForward(x, rois, roiIndices *tensor.RawTensor, cfg Config) error {
	if x == nil || rois == nil || roiIndices == nil {
		return errors.Wrap(ErrShapeMismatch, "roi_average_align_2d: nil input")
	}
	if !x.DType().IsFloat() {
		return errors.Wrapf(ErrDType, "x must be a float tensor, got %s", x.DType())
	}
	if err := checkFeatureShape(x.Shape()); err != nil {
		return err
	}
	return checkROIs(rois, roiIndices, x.DType(), x.Shape()[0], cfg)
}

// CheckBackward validates the backward inputs: the retained ROI tensors,
// the output gradient and the retained feature-map shape.
func CheckBackward(rois, roiIndices, grad *tensor.RawTensor, inputShape tensor.Shape, cfg Config) error {
	if rois == nil || roiIndices == nil || grad == nil {
		return errors.Wrap(ErrShapeMismatch, "roi_average_align_2d backward: nil input")
	}
	if !grad.DType().IsFloat() {
		return errors.Wrapf(ErrDType, "gy must be a float tensor, got %s", grad.DType())
	}
	if err := checkFeatureShape(inputShape); err != nil {
		return err
	}
	if err := checkROIs(rois, roiIndices, grad.DType(), inputShape[0], cfg); err != nil {
		return err
	}
	want := OutputShape(inputShape, rois.Shape()[0], cfg)
	if !grad.Shape().Equal(want) {
		return errors.Wrapf(ErrShapeMismatch, "gy shape %v does not match forward output shape %v", grad.Shape(), want)
	}
	return nil
}

// OutputShape returns (num_rois, channels, out_h, out_w).
func OutputShape(inputShape tensor.Shape, numROIs int, cfg Config) tensor.Shape {
	return tensor.Shape{numROIs, inputShape[1], cfg.OutH, cfg.OutW}
}

func checkFeatureShape(shape tensor.Shape) error {
	if len(shape) != 4 {
		return errors.Wrapf(ErrShapeMismatch, "x must be rank 4 (batch, channel, height, width), got %v", shape)
	}
	if shape[2] < 1 || shape[3] < 1 {
		return errors.Wrapf(ErrShapeMismatch, "x spatial size must be at least 1x1, got %v", shape)
	}
	return nil
}

func checkROIs(rois, roiIndices *tensor.RawTensor, dtype tensor.DataType, batch int, cfg Config) error {
	if rois.DType() != dtype {
		return errors.Wrapf(ErrDType, "rois dtype %s must match %s", rois.DType(), dtype)
	}
	rs := rois.Shape()
	if len(rs) != 2 || rs[1] != 4 {
		return errors.Wrapf(ErrShapeMismatch, "rois must have shape (n, 4), got %v", rs)
	}
	if roiIndices.DType() != tensor.Int32 {
		return errors.Wrapf(ErrDType, "roi_indices must be int32, got %s", roiIndices.DType())
	}
	is := roiIndices.Shape()
	if len(is) != 1 {
		return errors.Wrapf(ErrShapeMismatch, "roi_indices must be rank 1, got %v", is)
	}
	if rs[0] != is[0] {
		return errors.Wrapf(ErrShapeMismatch, "rois has %d rows but roi_indices has %d entries", rs[0], is[0])
	}

	for i, b := range roiIndices.AsInt32() {
		if b < 0 || int(b) >= batch {
			return errors.Wrapf(ErrShapeMismatch, "roi_indices[%d] = %d out of range [0, %d)", i, b, batch)
		}
	}

	switch dtype {
	case tensor.Float32:
		return checkBoxes(rois.AsFloat32(), cfg)
	case tensor.Float64:
		return checkBoxes(rois.AsFloat64(), cfg)
	}
	return nil
}

// checkBoxes rejects boxes whose raw coordinates, scaled coordinates or
// scaled extent are not finite in T. The arithmetic mirrors NewGeometry.
func checkBoxes[T Float](coords []T, cfg Config) error {
	scale := T(cfg.SpatialScale)
	for n := 0; n+4 <= len(coords); n += 4 {
		box := coords[n : n+4]
		for j, v := range box {
			if !finite(v) {
				return errors.Wrapf(ErrInvalidROI, "rois[%d][%d] is not finite", n/4, j)
			}
		}
		startH := box[0] * scale
		startW := box[1] * scale
		endH := box[2] * scale
		endW := box[3] * scale
		if !finite(startH) || !finite(startW) || !finite(endH) || !finite(endW) {
			return errors.Wrapf(ErrInvalidROI, "rois[%d] overflows at spatial_scale %g", n/4, cfg.SpatialScale)
		}
		if !finite(endH-startH) || !finite(endW-startW) {
			return errors.Wrapf(ErrInvalidROI, "rois[%d] extent overflows", n/4)
		}
	}
	return nil
}

func finite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
