package ops

import (
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// ROIAverageAlign2DOp records a ROI average align for autodiff.
//
// Forward:
//
//	output[n,c,ph,pw] = mean over the sampling grid of bin (ph,pw) of
//	                    bilinear(x[roiIndices[n], c], y, x)
//
// Backward:
//   - Feature map gradient: each sample scatters gy*w/count into its four
//     bilinear corners
//   - ROI boxes and ROI indices: no gradient (nil)
//
// Only the ROI tensors and the feature-map shape are retained; the feature
// map itself is not needed for the backward pass.
type ROIAverageAlign2DOp struct {
	rois       *tensor.RawTensor
	roiIndices *tensor.RawTensor
	inputShape tensor.Shape
	output     *tensor.RawTensor
	cfg        roialign.Config
}

// ROIAverageAlign2D validates the inputs, runs the forward pass on backend
// and returns the recorded operation. Nothing is computed when validation
// fails.
func ROIAverageAlign2D(
	x, rois, roiIndices *tensor.RawTensor,
	cfg roialign.Config,
	backend roialign.Backend,
) (*ROIAverageAlign2DOp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := roialign.CheckForward(x, rois, roiIndices, cfg); err != nil {
		return nil, err
	}

	output := backend.ROIAverageAlign2D(x, rois, roiIndices, cfg)

	return &ROIAverageAlign2DOp{
		rois:       rois,
		roiIndices: roiIndices,
		inputShape: x.Shape().Clone(),
		output:     output,
		cfg:        cfg,
	}, nil
}

// Inputs returns [nil, rois, roiIndices]: the feature map slot is empty
// because only its shape is retained.
func (op *ROIAverageAlign2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{nil, op.rois, op.roiIndices}
}

// Output returns the pooled output tensor.
func (op *ROIAverageAlign2DOp) Output() *tensor.RawTensor {
	return op.output
}

// InputShape returns the retained feature-map shape.
func (op *ROIAverageAlign2DOp) InputShape() tensor.Shape {
	return op.inputShape
}

// Config returns the operator configuration the forward pass ran with.
func (op *ROIAverageAlign2DOp) Config() roialign.Config {
	return op.cfg
}

// Backward computes [dL/dx, nil, nil].
//
// backend does not have to be the one that ran the forward pass: both
// derive the sampling geometry the same way.
func (op *ROIAverageAlign2DOp) Backward(outputGrad *tensor.RawTensor, backend roialign.Backend) ([]*tensor.RawTensor, error) {
	if err := roialign.CheckBackward(op.rois, op.roiIndices, outputGrad, op.inputShape, op.cfg); err != nil {
		return nil, err
	}

	inputGrad := backend.ROIAverageAlign2DBackward(op.rois, op.roiIndices, outputGrad, op.inputShape, op.cfg)

	return []*tensor.RawTensor{inputGrad, nil, nil}, nil
}
