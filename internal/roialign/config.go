// Package roialign holds the execution-strategy independent parts of
// ROI average align: operator configuration, the bilinear sampler, the
// per-ROI sampling geometry and the input preconditions. Backends in
// internal/backend implement the kernels on top of these.
package roialign

import "math"

// Config is the immutable construction-time configuration of the operator.
//
// SamplingRatioH and SamplingRatioW select the per-axis sampling grid
// size. Zero means "auto": the grid is ceil(roi_extent / pooled_extent).
type Config struct {
	OutH, OutW     int
	SpatialScale   float64
	SamplingRatioH int
	SamplingRatioW int
}

// NewConfig builds and validates a Config.
func NewConfig(outH, outW int, spatialScale float64, samplingRatioH, samplingRatioW int) (Config, error) {
	cfg := Config{
		OutH:           outH,
		OutW:           outW,
		SpatialScale:   spatialScale,
		SamplingRatioH: samplingRatioH,
		SamplingRatioW: samplingRatioW,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and returns a *ConfigError for the first
// invalid one.
func (c Config) Validate() error {
	if c.OutH <= 0 {
		return &ConfigError{Field: "outsize[0]", Value: c.OutH, Reason: "must be a positive integer"}
	}
	if c.OutW <= 0 {
		return &ConfigError{Field: "outsize[1]", Value: c.OutW, Reason: "must be a positive integer"}
	}
	if math.IsNaN(c.SpatialScale) || math.IsInf(c.SpatialScale, 0) || c.SpatialScale <= 0 {
		return &ConfigError{Field: "spatial_scale", Value: c.SpatialScale, Reason: "must be a positive finite number"}
	}
	if c.SamplingRatioH < 0 {
		return &ConfigError{Field: "sampling_ratio[0]", Value: c.SamplingRatioH, Reason: "must be >= 1 or auto (0)"}
	}
	if c.SamplingRatioW < 0 {
		return &ConfigError{Field: "sampling_ratio[1]", Value: c.SamplingRatioW, Reason: "must be >= 1 or auto (0)"}
	}
	return nil
}
