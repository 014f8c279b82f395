package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/roialign/internal/serialization"
	"github.com/born-ml/roialign/internal/tensor"
	"github.com/born-ml/roialign/roialign"
)

// Tensor names in input and output files.
const (
	nameX          = "x"
	nameROIs       = "rois"
	nameROIIndices = "roi_indices"
	nameGY         = "gy"
	nameY          = "y"
	nameGX         = "gx"
)

func runCommand(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var common commonFlags
	common.register(fs)
	in := fs.String("in", "", "input SafeTensors file with x, rois, roi_indices and optional gy")
	out := fs.String("out", "", "output SafeTensors file (y, and gx with -backward)")
	backward := fs.Bool("backward", false, "also compute gx; uses gy from the input file or ones")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("run: -in and -out are required")
	}

	cfg, err := common.config()
	if err != nil {
		return err
	}
	opts, err := common.options()
	if err != nil {
		return err
	}
	log := opts.Logger

	inputs, _, err := serialization.ReadSafeTensors(*in)
	if err != nil {
		return errors.Wrapf(err, "read %s", *in)
	}
	x, rois, roiIndices, err := forwardInputs(inputs)
	if err != nil {
		return err
	}

	fn := roialign.NewWithBackend(cfg, roialign.NewBackend(opts)).WithLogger(log)
	defer fn.Release()

	y, err := fn.Forward(x, rois, roiIndices)
	if err != nil {
		return err
	}
	log.Infof("Forward: x %v, %d rois -> y %v", x.Shape(), rois.Shape()[0], y.Shape())

	outputs := map[string]*tensor.RawTensor{nameY: y.WithDevice(tensor.CPU)}
	if *backward {
		gy, ok := inputs[nameGY]
		if !ok {
			gy = ones(y.Shape(), y.DType())
			log.Debugf("No %q in input, using ones", nameGY)
		}
		grads, err := fn.Backward(gy)
		if err != nil {
			return err
		}
		outputs[nameGX] = grads[0].WithDevice(tensor.CPU)
		log.Infof("Backward: gy %v -> gx %v", gy.Shape(), grads[0].Shape())
	}

	meta := map[string]string{
		"outsize":        fmt.Sprintf("%d,%d", cfg.OutH, cfg.OutW),
		"spatial_scale":  strconv.FormatFloat(cfg.SpatialScale, 'g', -1, 64),
		"sampling_ratio": fmt.Sprintf("%d,%d", cfg.SamplingRatioH, cfg.SamplingRatioW),
		"backend":        fn.Backend().Name(),
		"version":        version,
		"run_id":         uuid.NewString(),
	}
	if err := serialization.WriteSafeTensors(*out, outputs, meta); err != nil {
		return errors.Wrapf(err, "write %s", *out)
	}

	log.Debugf("Run %s written to %s", meta["run_id"], *out)
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

// forwardInputs looks up x, rois and roi_indices. Int64 indices are
// narrowed to int32.
func forwardInputs(inputs map[string]*tensor.RawTensor) (x, rois, roiIndices *tensor.RawTensor, err error) {
	if x, err = serialization.Lookup(inputs, nameX); err != nil {
		return nil, nil, nil, err
	}
	if rois, err = serialization.Lookup(inputs, nameROIs); err != nil {
		return nil, nil, nil, err
	}
	if roiIndices, err = serialization.Lookup(inputs, nameROIIndices); err != nil {
		return nil, nil, nil, err
	}
	if roiIndices.DType() == tensor.Int64 {
		roiIndices, err = narrowIndices(roiIndices)
	}
	return x, rois, roiIndices, err
}

func narrowIndices(idx *tensor.RawTensor) (*tensor.RawTensor, error) {
	src := idx.AsInt64()
	dst := make([]int32, len(src))
	for i, v := range src {
		if v < -1<<31 || v > 1<<31-1 {
			return nil, errors.Wrapf(roialign.ErrShapeMismatch, "roi_indices[%d] = %d overflows int32", i, v)
		}
		dst[i] = int32(v)
	}
	return tensor.FromSlice(dst, idx.Shape())
}

func ones(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	if dtype == tensor.Float64 {
		return tensor.Full(shape, 1.0)
	}
	return tensor.Full(shape, float32(1))
}
