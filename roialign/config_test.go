package roialign_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/roialign/roialign"
)

func TestNewConfigPairs(t *testing.T) {
	tests := []struct {
		name          string
		outsize       []int
		samplingRatio []int
		want          roialign.Config
	}{
		{
			name:    "scalar outsize, auto ratio",
			outsize: []int{7},
			want:    roialign.Config{OutH: 7, OutW: 7, SpatialScale: 0.5},
		},
		{
			name:          "pair outsize, scalar ratio",
			outsize:       []int{3, 5},
			samplingRatio: []int{2},
			want:          roialign.Config{OutH: 3, OutW: 5, SpatialScale: 0.5, SamplingRatioH: 2, SamplingRatioW: 2},
		},
		{
			name:          "mixed ratio pair",
			outsize:       []int{4, 4},
			samplingRatio: []int{roialign.Auto, 3},
			want:          roialign.Config{OutH: 4, OutW: 4, SpatialScale: 0.5, SamplingRatioW: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := roialign.NewConfig(tt.outsize, 0.5, tt.samplingRatio)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestNewConfigRejects(t *testing.T) {
	tests := []struct {
		name          string
		outsize       []int
		scale         float64
		samplingRatio []int
		field         string
	}{
		{"empty outsize", nil, 1, nil, "outsize"},
		{"triple outsize", []int{1, 2, 3}, 1, nil, "outsize"},
		{"zero outsize", []int{0}, 1, nil, "outsize[0]"},
		{"negative outsize width", []int{2, -1}, 1, nil, "outsize[1]"},
		{"zero scale", []int{2}, 0, nil, "spatial_scale"},
		{"scalar ratio zero", []int{2}, 1, []int{0}, "sampling_ratio"},
		{"negative ratio", []int{2}, 1, []int{1, -2}, "sampling_ratio[1]"},
		{"triple ratio", []int{2}, 1, []int{1, 1, 1}, "sampling_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roialign.NewConfig(tt.outsize, tt.scale, tt.samplingRatio)
			require.Error(t, err)
			assert.True(t, errors.Is(err, roialign.ErrInvalidConfig))

			var cerr *roialign.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	fn, err := roialign.New([]int{2}, -1, nil, roialign.Options{})
	assert.Nil(t, fn)
	assert.True(t, errors.Is(err, roialign.ErrInvalidConfig))
}
