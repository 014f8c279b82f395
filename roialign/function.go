// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package roialign

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/roialign/internal/autodiff/ops"
	"github.com/born-ml/roialign/internal/tensor"
)

// ErrNoForward is returned by Backward before any successful Forward.
var ErrNoForward = errors.New("backward called before forward")

// Function is a configured ROI average align operator.
//
// Forward retains the ROI tensors and the feature-map shape for the next
// Backward. A Function is not safe for concurrent Forward calls; use one
// per goroutine or call ops through Apply.
type Function struct {
	cfg     Config
	backend Backend
	log     *logrus.Logger
	last    *ops.ROIAverageAlign2DOp
}

// New validates the configuration and selects a backend with opts.
// An invalid configuration returns no Function.
func New(outsize []int, spatialScale float64, samplingRatio []int, opts Options) (*Function, error) {
	cfg, err := NewConfig(outsize, spatialScale, samplingRatio)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(cfg, NewBackend(opts)).WithLogger(opts.Logger), nil
}

// NewWithBackend creates a Function that runs on backend.
// cfg must come from NewConfig or pass Validate.
func NewWithBackend(cfg Config, backend Backend) *Function {
	return &Function{cfg: cfg, backend: backend, log: logrus.StandardLogger()}
}

// WithLogger sets the logger for forward and backward debug output.
// A nil logger selects the logrus standard logger.
func (f *Function) WithLogger(logger *logrus.Logger) *Function {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	f.log = logger
	return f
}

// Config returns the operator configuration.
func (f *Function) Config() Config {
	return f.cfg
}

// Backend returns the execution strategy.
func (f *Function) Backend() Backend {
	return f.backend
}

// Forward pools every ROI into a [num_rois, channels, OutH, OutW] tensor.
//
// x is [batch, channels, height, width], rois is [num_rois, 4] with rows
// (y_min, x_min, y_max, x_max) in the same dtype as x, and roiIndices is
// an int32 [num_rois] tensor of batch indices. Shape and dtype errors are
// returned before anything is computed.
func (f *Function) Forward(x, rois, roiIndices *tensor.RawTensor) (*tensor.RawTensor, error) {
	op, err := Apply(x, rois, roiIndices, f.cfg, f.backend)
	if err != nil {
		return nil, err
	}
	f.log.Debugf("roi_average_align_2d forward: x %v, %d rois -> %v", x.Shape(), rois.Shape()[0], op.Output().Shape())

	f.last = op
	return op.Output(), nil
}

// Backward returns [gx, nil, nil] for the most recent Forward: the
// feature-map gradient followed by the absent ROI and index gradients.
func (f *Function) Backward(grad *tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if f.last == nil {
		return nil, ErrNoForward
	}
	grads, err := f.last.Backward(grad, f.backend)
	if err != nil {
		return nil, err
	}
	f.log.Debugf("roi_average_align_2d backward: gx %v", f.last.InputShape())
	return grads, nil
}

// Release frees backend resources.
func (f *Function) Release() {
	Release(f.backend)
}

// Op is a recorded forward pass that can compute its own backward.
type Op = ops.ROIAverageAlign2DOp

// Apply runs a stateless forward pass and returns the recorded Op.
// It is safe to call concurrently with the same backend.
func Apply(x, rois, roiIndices *tensor.RawTensor, cfg Config, backend Backend) (*Op, error) {
	return ops.ROIAverageAlign2D(x, rois, roiIndices, cfg, backend)
}
