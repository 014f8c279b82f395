package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/born-ml/roialign/internal/tensor"
)

// metadataKey is the reserved header entry for string metadata.
const metadataKey = "__metadata__"

// ReadSafeTensors loads every tensor of a SafeTensors file onto the CPU.
// Metadata is returned without the checksum entry.
func ReadSafeTensors(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: path comes from the command line
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()

	return ReadFrom(file)
}

// ReadFrom parses a SafeTensors stream.
func ReadFrom(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header")
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse header")
	}

	var metadata map[string]string
	if raw, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(raw, &metadata); err != nil {
			return nil, nil, errors.Wrap(err, "failed to parse metadata")
		}
		delete(entries, metadataKey)
	}

	metas := make([]TensorMeta, 0, len(entries))
	for name, raw := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to parse entry %q", name)
		}
		meta, err := h.meta(name)
		if err != nil {
			return nil, nil, err
		}
		metas = append(metas, meta)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read tensor data")
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}
	if sum, ok := metadata[checksumKey]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, nil, err
		}
		delete(metadata, checksumKey)
	}

	tensors := make(map[string]*tensor.RawTensor, len(metas))
	for _, m := range metas {
		raw, err := tensor.NewRaw(m.Shape, m.DType, tensor.CPU)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "tensor %s", m.Name)
		}
		src := data[m.Offset : m.Offset+m.Size]
		if m.Half {
			widenHalf(raw.AsFloat32(), src)
		} else {
			copy(raw.Data(), src)
		}
		tensors[m.Name] = raw
	}

	return tensors, metadata, nil
}

// Lookup returns the named tensor or ErrTensorNotFound.
func Lookup(tensors map[string]*tensor.RawTensor, name string) (*tensor.RawTensor, error) {
	t, ok := tensors[name]
	if !ok {
		return nil, errors.Wrapf(ErrTensorNotFound, "%q", name)
	}
	return t, nil
}

// meta checks that the declared byte range matches dtype and shape.
// F16 tensors are widened to float32 on load.
func (h SafeTensorHeader) meta(name string) (TensorMeta, error) {
	half := h.DType == "F16"
	dtype, elemSize := tensor.Float32, 2
	if !half {
		var err error
		if dtype, err = safeTensorsToDType(h.DType); err != nil {
			return TensorMeta{}, errors.Wrapf(err, "tensor %s", name)
		}
		elemSize = dtype.Size()
	}

	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		if dim < 0 {
			return TensorMeta{}, &ValidationError{Type: "invalid_shape", Tensor: name, Details: "negative dimension"}
		}
		shape[i] = int(dim)
	}

	start, end := h.DataOffsets[0], h.DataOffsets[1]
	if want := int64(shape.NumElements() * elemSize); end-start != want {
		return TensorMeta{}, &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: "data_offsets do not match dtype and shape",
		}
	}

	return TensorMeta{Name: name, DType: dtype, Shape: shape, Offset: start, Size: end - start, Half: half}, nil
}

func widenHalf(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = float16.Frombits(binary.LittleEndian.Uint16(src[2*i:])).Float32()
	}
}
