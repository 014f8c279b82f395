package serialization

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/roialign/internal/tensor"
)

func TestSafeTensorsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.safetensors")

	x := tensor.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 1, 2, 3})
	rois := tensor.MustFromSlice([]float64{0, 0, 1, 2}, tensor.Shape{1, 4})
	idx := tensor.MustFromSlice([]int32{0}, tensor.Shape{1})
	ids := tensor.MustFromSlice([]int64{7, 8}, tensor.Shape{2})

	err := WriteSafeTensors(path, map[string]*tensor.RawTensor{
		"x":           x,
		"rois":        rois,
		"roi_indices": idx,
		"ids":         ids,
	}, map[string]string{"source": "test"})
	require.NoError(t, err)

	tensors, meta, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"source": "test"}, meta)
	require.Len(t, tensors, 4)

	gotX, err := Lookup(tensors, "x")
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, gotX.DType())
	assert.Equal(t, tensor.Shape{1, 1, 2, 3}, gotX.Shape())
	assert.Equal(t, x.AsFloat32(), gotX.AsFloat32())

	assert.Equal(t, rois.AsFloat64(), tensors["rois"].AsFloat64())
	assert.Equal(t, idx.AsInt32(), tensors["roi_indices"].AsInt32())
	assert.Equal(t, ids.AsInt64(), tensors["ids"].AsInt64())
}

func TestSafeTensorsEmptyTensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.safetensors")
	empty, err := tensor.NewRaw(tensor.Shape{0, 4}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.RawTensor{"rois": empty}, nil))

	tensors, _, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 4}, tensors["rois"].Shape())
}

func TestLookupMissing(t *testing.T) {
	_, err := Lookup(map[string]*tensor.RawTensor{}, "x")
	assert.True(t, errors.Is(err, ErrTensorNotFound))
}

func TestWriteRejectsBadName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.safetensors")
	x := tensor.MustFromSlice([]float32{1}, tensor.Shape{1})

	err := WriteSafeTensors(path, map[string]*tensor.RawTensor{"../x": x}, nil)
	assert.True(t, errors.Is(err, ErrInvalidTensorName))
}

func TestReadDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.safetensors")
	x := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4})
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.RawTensor{"x": x}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF

	_, _, err = ReadFrom(bytes.NewReader(data))
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
}

func TestReadRejectsSizeMismatch(t *testing.T) {
	header := []byte(`{"x":{"dtype":"F32","shape":[3],"data_offsets":[0,8]}}`)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.Write(header)
	buf.Write(make([]byte, 8))

	_, _, err := ReadFrom(&buf)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "size_mismatch", verr.Type)
}

func TestReadRejectsUnsupportedDType(t *testing.T) {
	header := []byte(`{"x":{"dtype":"BF16","shape":[2],"data_offsets":[0,4]}}`)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.Write(header)
	buf.Write(make([]byte, 4))

	_, _, err := ReadFrom(&buf)
	assert.True(t, errors.Is(err, ErrUnsupportedDType))
}

func TestReadRejectsHugeHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))

	_, _, err := ReadFrom(&buf)
	assert.True(t, errors.Is(err, ErrHeaderTooLarge))
}

func TestReadWidensF16(t *testing.T) {
	values := []float32{1, -2.5, 0.125}
	data := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[2*i:], float16.Fromfloat32(v).Bits())
	}
	header := []byte(`{"x":{"dtype":"F16","shape":[1,1,1,3],"data_offsets":[0,6]}}`)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.Write(header)
	buf.Write(data)

	tensors, _, err := ReadFrom(&buf)
	require.NoError(t, err)
	x := tensors["x"]
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, values, x.AsFloat32())
}
