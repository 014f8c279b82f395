// Package ops defines the differentiable operations handed to an external
// autodiff graph.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend, recorded at construction
//   - Backward pass: computes gradients for inputs given output gradient
//
// Supported operations:
//   - ROIAverageAlign2DOp: ROI average align (gradient flows to the feature
//     map only; ROI boxes and indices get nil)
package ops

import (
	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// Operation represents a differentiable operation in the computation graph.
// Each operation records what it needs during the forward pass, and
// computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one entry per input tensor; nil marks an input that is not
	// differentiable.
	Backward(outputGrad *tensor.RawTensor, backend roialign.Backend) ([]*tensor.RawTensor, error)

	// Inputs returns the input tensors retained for the backward pass.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
