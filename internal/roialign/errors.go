package roialign

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrInvalidConfig = errors.New("invalid roi align configuration")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrDType         = errors.New("unsupported dtype")
	ErrInvalidROI    = errors.New("invalid roi")
)

// ConfigError describes a rejected construction-time parameter.
type ConfigError struct {
	Field  string // outsize, spatial_scale or sampling_ratio
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %v (%s)", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) hold.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
