// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package roialign

import (
	"github.com/born-ml/roialign/internal/roialign"
)

// Config is the validated, immutable operator configuration.
type Config = roialign.Config

// ConfigError describes an invalid configuration value.
type ConfigError = roialign.ConfigError

// Common errors.
var (
	ErrInvalidConfig = roialign.ErrInvalidConfig
	ErrShapeMismatch = roialign.ErrShapeMismatch
	ErrDType         = roialign.ErrDType
	ErrInvalidROI    = roialign.ErrInvalidROI
)

// Auto requests a sampling grid derived from each ROI's bin size.
const Auto = 0

// NewConfig builds a Config from scalars or pairs.
//
// outsize is (o) or (oh, ow). samplingRatio is nil for an adaptive grid on
// both axes, (s) for (s, s), or (sh, sw) where either entry may be Auto.
// A single explicit ratio must be >= 1.
//
// Example:
//
//	cfg, err := roialign.NewConfig([]int{7}, 0.0625, []int{2})
//	cfg, err := roialign.NewConfig([]int{7, 5}, 0.0625, []int{roialign.Auto, 2})
func NewConfig(outsize []int, spatialScale float64, samplingRatio []int) (Config, error) {
	outH, outW, err := pair("outsize", outsize)
	if err != nil {
		return Config{}, err
	}

	var ratioH, ratioW int
	switch len(samplingRatio) {
	case 0:
		ratioH, ratioW = Auto, Auto
	case 1:
		if samplingRatio[0] < 1 {
			return Config{}, &ConfigError{Field: "sampling_ratio", Value: samplingRatio[0], Reason: "must be an integer >= 1"}
		}
		ratioH, ratioW = samplingRatio[0], samplingRatio[0]
	case 2:
		ratioH, ratioW = samplingRatio[0], samplingRatio[1]
	default:
		return Config{}, &ConfigError{Field: "sampling_ratio", Value: samplingRatio, Reason: "must be a value or a pair"}
	}

	return roialign.NewConfig(outH, outW, spatialScale, ratioH, ratioW)
}

func pair(field string, v []int) (int, int, error) {
	switch len(v) {
	case 1:
		return v[0], v[0], nil
	case 2:
		return v[0], v[1], nil
	default:
		return 0, 0, &ConfigError{Field: field, Value: v, Reason: "must be a value or a pair"}
	}
}
