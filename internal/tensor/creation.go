package tensor

import (
	"fmt"
	"math/rand"
)

// Element is the constraint for element types a RawTensor can be built from.
type Element interface {
	float32 | float64 | int32 | int64
}

// FromSlice creates a CPU RawTensor holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}
	copy(view[T](raw.data, len(data)), data)
	return raw, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[T Element](data []T, shape Shape) *RawTensor {
	raw, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return raw
}

// Full creates a CPU RawTensor filled with value.
func Full[T Element](shape Shape, value T) *RawTensor {
	data := make([]T, shape.NumElements())
	for i := range data {
		data[i] = value
	}
	return MustFromSlice(data, shape)
}

// Randn creates a float tensor with values from a normal distribution (mean=0, std=1).
// Note: Uses math/rand (not crypto/rand) - appropriate for ML/statistical purposes.
func Randn(shape Shape, dtype DataType, rng *rand.Rand) *RawTensor {
	raw, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		panic(err)
	}
	switch dtype {
	case Float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = float32(rng.NormFloat64())
		}
	case Float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = rng.NormFloat64()
		}
	default:
		panic(fmt.Sprintf("randn: unsupported dtype %v", dtype))
	}
	return raw
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Element](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
