package webgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		total        int
		x, y, stride uint32
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 256},
		{256, 1, 1, 256},
		{257, 2, 1, 512},
		{maxWorkgroupsPerDim * workgroupSize, maxWorkgroupsPerDim, 1, maxWorkgroupsPerDim * workgroupSize},
		{maxWorkgroupsPerDim*workgroupSize + 1, maxWorkgroupsPerDim, 2, maxWorkgroupsPerDim * workgroupSize},
	}

	for _, tt := range tests {
		x, y, stride := dispatchSize(tt.total)
		assert.Equal(t, tt.x, x, "total=%d", tt.total)
		assert.Equal(t, tt.y, y, "total=%d", tt.total)
		assert.Equal(t, tt.stride, stride, "total=%d", tt.total)
		// Every invocation index is covered
		assert.GreaterOrEqual(t, uint64(x)*uint64(y)*workgroupSize, uint64(tt.total))
	}
}

func TestEncodeParams(t *testing.T) {
	cfg, err := roialign.NewConfig(7, 5, 0.25, 0, 2)
	require.NoError(t, err)

	buf := encodeParams(tensor.Shape{2, 16, 32, 48}, 9, cfg, 9*16*7*5, 512)
	require.Len(t, buf, paramsSize)

	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(buf[i*4:]) }
	assert.Equal(t, uint32(9), u32(0))
	assert.Equal(t, uint32(16), u32(1))
	assert.Equal(t, uint32(32), u32(2))
	assert.Equal(t, uint32(48), u32(3))
	assert.Equal(t, uint32(7), u32(4))
	assert.Equal(t, uint32(5), u32(5))
	assert.Equal(t, uint32(0), u32(6))
	assert.Equal(t, uint32(2), u32(7))
	assert.Equal(t, float32(0.25), math.Float32frombits(u32(8)))
	assert.Equal(t, uint32(9*16*7*5), u32(9))
	assert.Equal(t, uint32(512), u32(10))
}
