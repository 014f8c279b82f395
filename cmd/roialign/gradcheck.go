package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/born-ml/roialign/internal/tensor"
	"github.com/born-ml/roialign/roialign"
)

// gradcheckCommand compares backward against central differences of
// L(x) = sum(w * forward(x)) for random x, rois and w.
func gradcheckCommand(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gradcheck", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var common commonFlags
	common.register(fs)
	shapeFlag := fs.String("shape", "2,3,8,8", "feature map shape: batch,channels,height,width")
	numROIs := fs.Int("rois", 4, "number of random ROIs")
	samples := fs.Int("samples", 32, "number of feature-map elements to perturb")
	dtypeFlag := fs.String("dtype", "float64", "float32 or float64")
	eps := fs.Float64("eps", 1e-3, "finite-difference step")
	tol := fs.Float64("tol", 0, "max abs error (0 = 1e-6 for float64, 1e-2 for float32)")
	seed := fs.Int64("seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.config()
	if err != nil {
		return err
	}
	opts, err := common.options()
	if err != nil {
		return err
	}
	dims, err := parseInts(*shapeFlag)
	if err != nil || len(dims) != 4 {
		return errors.Errorf("-shape must be batch,channels,height,width, got %q", *shapeFlag)
	}
	shape := tensor.Shape(dims)
	for _, d := range shape {
		if d < 1 {
			return errors.Errorf("-shape dimensions must be >= 1, got %v", shape)
		}
	}

	if *numROIs < 0 {
		return errors.Errorf("-rois must be >= 0, got %d", *numROIs)
	}

	var dtype tensor.DataType
	switch *dtypeFlag {
	case "float32":
		dtype = tensor.Float32
	case "float64":
		dtype = tensor.Float64
	default:
		return errors.Errorf("-dtype must be float32 or float64, got %q", *dtypeFlag)
	}
	if *tol == 0 {
		*tol = 1e-6
		if dtype == tensor.Float32 {
			*tol = 1e-2
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	x := tensor.Randn(shape, dtype, rng)
	rois, roiIndices := randomROIs(rng, *numROIs, shape, cfg.SpatialScale, dtype)

	backend := roialign.NewBackend(opts)
	defer roialign.Release(backend)

	op, err := roialign.Apply(x, rois, roiIndices, cfg, backend)
	if err != nil {
		return err
	}
	w := tensor.Randn(op.Output().Shape(), dtype, rng)
	grads, err := op.Backward(w, backend)
	if err != nil {
		return err
	}
	analytic := values(grads[0])

	loss := func() (float64, error) {
		y, err := roialign.Apply(x, rois, roiIndices, cfg, backend)
		if err != nil {
			return 0, err
		}
		return dot(values(y.Output()), values(w)), nil
	}

	var maxErr float64
	n := x.NumElements()
	for s := 0; s < *samples && n > 0; s++ {
		i := rng.Intn(n)
		orig := get(x, i)

		set(x, i, orig+*eps)
		plus, err := loss()
		if err != nil {
			return err
		}
		set(x, i, orig-*eps)
		minus, err := loss()
		if err != nil {
			return err
		}
		set(x, i, orig)

		numeric := (plus - minus) / (2 * *eps)
		maxErr = math.Max(maxErr, math.Abs(numeric-analytic[i]))
	}

	opts.Logger.Infof("Gradient check on %s: %d samples, max abs error %.3g (tol %.3g)", backend.Name(), *samples, maxErr, *tol)
	if maxErr > *tol {
		return errors.Errorf("gradient check failed: max abs error %.3g > %.3g", maxErr, *tol)
	}
	fmt.Fprintf(stdout, "gradient check passed: max abs error %.3g\n", maxErr)
	return nil
}

// randomROIs draws boxes in input-image coordinates that may extend one
// pixel past the scaled feature map.
func randomROIs(rng *rand.Rand, n int, shape tensor.Shape, scale float64, dtype tensor.DataType) (rois, roiIndices *tensor.RawTensor) {
	h := float64(shape[2]) / scale
	w := float64(shape[3]) / scale
	boxes := make([]float64, 0, n*4)
	idx := make([]int32, n)
	for i := range n {
		y0 := rng.Float64()*(h+2/scale) - 1/scale
		x0 := rng.Float64()*(w+2/scale) - 1/scale
		y1 := y0 + rng.Float64()*h/2
		x1 := x0 + rng.Float64()*w/2
		boxes = append(boxes, y0, x0, y1, x1)
		idx[i] = int32(rng.Intn(shape[0])) //nolint:gosec // G115: batch fits in int32
	}

	if dtype == tensor.Float64 {
		rois = tensor.MustFromSlice(boxes, tensor.Shape{n, 4})
	} else {
		f32 := make([]float32, len(boxes))
		for i, v := range boxes {
			f32[i] = float32(v)
		}
		rois = tensor.MustFromSlice(f32, tensor.Shape{n, 4})
	}
	return rois, tensor.MustFromSlice(idx, tensor.Shape{n})
}

func values(t *tensor.RawTensor) []float64 {
	if t.DType() == tensor.Float64 {
		return t.AsFloat64()
	}
	src := t.AsFloat32()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func get(t *tensor.RawTensor, i int) float64 {
	if t.DType() == tensor.Float64 {
		return t.AsFloat64()[i]
	}
	return float64(t.AsFloat32()[i])
}

func set(t *tensor.RawTensor, i int, v float64) {
	if t.DType() == tensor.Float64 {
		t.AsFloat64()[i] = v
		return
	}
	t.AsFloat32()[i] = float32(v)
}
