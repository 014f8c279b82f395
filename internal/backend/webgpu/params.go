package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/born-ml/roialign/internal/roialign"
	"github.com/born-ml/roialign/internal/tensor"
)

// workgroupSize is the number of invocations per workgroup; it must match
// @workgroup_size in the shaders.
const workgroupSize = 256

// maxWorkgroupsPerDim is the WebGPU default limit on dispatch size per dimension.
const maxWorkgroupsPerDim = 65535

// paramsSize is the byte size of the Params uniform (12 x 4 bytes, 16-byte aligned).
const paramsSize = 48

// dispatchSize splits total invocations into an (x, y) workgroup grid that
// stays under the per-dimension limit. stride is the number of invocations
// per grid row: index = gid.x + gid.y * stride.
func dispatchSize(total int) (x, y, stride uint32) {
	groups := (total + workgroupSize - 1) / workgroupSize
	if groups == 0 {
		return 0, 0, 0
	}
	gx := min(groups, maxWorkgroupsPerDim)
	gy := (groups + gx - 1) / gx
	//nolint:gosec // G115: bounded by maxWorkgroupsPerDim
	return uint32(gx), uint32(gy), uint32(gx * workgroupSize)
}

// encodeParams lays out the shader uniform:
//
//	struct Params {
//	    num_rois, channels, height, width: u32,
//	    pooled_h, pooled_w, ratio_h, ratio_w: u32,
//	    spatial_scale: f32, total: u32, stride: u32, _pad: u32,
//	}
//
// A sampling ratio of 0 selects the adaptive grid inside the shader.
func encodeParams(inputShape tensor.Shape, numROIs int, cfg roialign.Config, total int, stride uint32) []byte {
	buf := make([]byte, paramsSize)
	fields := []uint32{
		//nolint:gosec // G115: tensor dimensions are non-negative and fit in u32 for GPU dispatch
		uint32(numROIs), uint32(inputShape[1]), uint32(inputShape[2]), uint32(inputShape[3]),
		//nolint:gosec // G115: validated positive / non-negative config values
		uint32(cfg.OutH), uint32(cfg.OutW), uint32(cfg.SamplingRatioH), uint32(cfg.SamplingRatioW),
		math.Float32bits(float32(cfg.SpatialScale)),
		//nolint:gosec // G115: element count is non-negative
		uint32(total), stride, 0,
	}
	for i, v := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
