package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/roialign/roialign"
)

// commonFlags are shared by run and gradcheck.
type commonFlags struct {
	outsize  string
	scale    float64
	ratio    string
	gpu      bool
	workers  int
	logLevel string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.outsize, "outsize", "7", "pooled output size: N or H,W")
	fs.Float64Var(&c.scale, "scale", 1.0, "spatial scale applied to ROI coordinates")
	fs.StringVar(&c.ratio, "ratio", "auto", "sampling ratio: auto, N, or H,W with 'auto' per axis")
	fs.BoolVar(&c.gpu, "gpu", false, "use WebGPU when available")
	fs.IntVar(&c.workers, "workers", 0, "CPU worker goroutines (0 = all cores, 1 = sequential)")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func (c *commonFlags) config() (roialign.Config, error) {
	outsize, err := parseInts(c.outsize)
	if err != nil {
		return roialign.Config{}, errors.Wrap(err, "-outsize")
	}
	var ratio []int
	if c.ratio != "" && !strings.EqualFold(c.ratio, "auto") {
		if ratio, err = parseInts(c.ratio); err != nil {
			return roialign.Config{}, errors.Wrap(err, "-ratio")
		}
	}
	return roialign.NewConfig(outsize, c.scale, ratio)
}

func (c *commonFlags) options() (roialign.Options, error) {
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return roialign.Options{}, errors.Wrap(err, "-log-level")
	}
	logger := logrus.New()
	logger.SetLevel(level)

	return roialign.Options{PreferGPU: c.gpu, Workers: c.workers, Logger: logger}, nil
}

// parseInts parses "7", "7,5" or "auto,2"; auto maps to roialign.Auto.
func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if strings.EqualFold(p, "auto") {
			out[i] = roialign.Auto
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid integer %q", p)
		}
		out[i] = v
	}
	return out, nil
}
