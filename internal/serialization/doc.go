// Package serialization reads and writes tensors in the SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes]
//
// F16 tensors are widened to float32 when read. An optional "__metadata__"
// entry holds string pairs. The writer stores a SHA-256 of the data section
// there under "sha256", and the reader verifies it when present.
//
// Example usage:
//
//	err := serialization.WriteSafeTensors("features.safetensors", map[string]*tensor.RawTensor{
//	    "x":           x,
//	    "rois":        rois,
//	    "roi_indices": roiIndices,
//	}, nil)
//
//	tensors, meta, err := serialization.ReadSafeTensors("features.safetensors")
package serialization
