package tensor

import (
	"math/rand"
	"testing"
)

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}
	strides := raw.Strides()
	if len(strides) != 2 || strides[0] != 3 || strides[1] != 1 {
		t.Errorf("Strides = %v, want [3 1]", strides)
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestNewRawEmpty(t *testing.T) {
	raw, err := NewRaw(Shape{0, 4}, Float64, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.NumElements() != 0 {
		t.Errorf("NumElements = %d, want 0", raw.NumElements())
	}
	if got := raw.AsFloat64(); len(got) != 0 {
		t.Errorf("AsFloat64 length = %d, want 0", len(got))
	}
}

func TestRawTensorAsInt64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64, CPU)
	data := raw.AsInt64()

	if len(data) != 6 {
		t.Errorf("AsInt64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)
	defer func() {
		if recover() == nil {
			t.Error("AsInt32 on float32 tensor should panic")
		}
	}()
	raw.AsInt32()
}

func TestRawTensorClone(t *testing.T) {
	raw := MustFromSlice([]float32{1, 2, 3}, Shape{3})
	clone := raw.Clone()
	clone.AsFloat32()[0] = 99

	if raw.AsFloat32()[0] != 1 {
		t.Error("Clone should not share data")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("Clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}

func TestRawTensorWithDevice(t *testing.T) {
	raw := MustFromSlice([]float32{1, 2}, Shape{2})
	gpu := raw.WithDevice(WebGPU)

	if gpu.Device() != WebGPU {
		t.Errorf("Device = %v, want WebGPU", gpu.Device())
	}
	if raw.Device() != CPU {
		t.Error("WithDevice should not modify the receiver")
	}
}

func TestFromSlice(t *testing.T) {
	raw, err := FromSlice([]int32{1, 2, 3, 4}, Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if raw.DType() != Int32 {
		t.Errorf("DType = %v, want int32", raw.DType())
	}
	if got := raw.AsInt32(); got[3] != 4 {
		t.Errorf("data[3] = %d, want 4", got[3])
	}

	if _, err := FromSlice([]float64{1, 2, 3}, Shape{2, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestFull(t *testing.T) {
	raw := Full(Shape{2, 2}, 2.5)
	if raw.DType() != Float64 {
		t.Errorf("DType = %v, want float64", raw.DType())
	}
	for i, v := range raw.AsFloat64() {
		if v != 2.5 {
			t.Errorf("data[%d] = %v, want 2.5", i, v)
		}
	}
}

func TestRandnDeterministic(t *testing.T) {
	a := Randn(Shape{8}, Float32, rand.New(rand.NewSource(42)))
	b := Randn(Shape{8}, Float32, rand.New(rand.NewSource(42)))
	for i := range a.AsFloat32() {
		if a.AsFloat32()[i] != b.AsFloat32()[i] {
			t.Fatalf("Randn with equal seeds differs at %d", i)
		}
	}
}

func TestShapeString(t *testing.T) {
	if got := (Shape{2, 3, 4}).String(); got != "(2, 3, 4)" {
		t.Errorf("String = %q, want %q", got, "(2, 3, 4)")
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%v.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}
