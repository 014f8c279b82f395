package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/roialign/tensor"
)

func TestFromSlice(t *testing.T) {
	raw, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)

	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, raw.AsFloat32())
}

func TestFromSliceShapeMismatch(t *testing.T) {
	_, err := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)
}

func TestNewRawZeroed(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, raw.AsFloat64())
}
