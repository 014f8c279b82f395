package roialign

import "math"

// Geometry is the sampling layout of one ROI: its scaled origin, the size
// of an output bin and the sampling grid inside each bin.
//
// Forward and backward both derive it through NewGeometry so that the
// sample points of the adjoint match the forward pass bit for bit.
type Geometry[T Float] struct {
	StartH, StartW T
	BinH, BinW     T
	GridH, GridW   int
	Count          T
}

// NewGeometry derives the sampling geometry of a (y_min, x_min, y_max, x_max)
// box under cfg. Inverted or empty boxes are widened to 1x1 after scaling.
func NewGeometry[T Float](box []T, cfg Config) Geometry[T] {
	scale := T(cfg.SpatialScale)
	startH := box[0] * scale
	startW := box[1] * scale
	endH := box[2] * scale
	endW := box[3] * scale

	roiH := max(endH-startH, 1)
	roiW := max(endW-startW, 1)
	binH := roiH / T(cfg.OutH)
	binW := roiW / T(cfg.OutW)

	gridH := gridSize(cfg.SamplingRatioH, binH)
	gridW := gridSize(cfg.SamplingRatioW, binW)

	return Geometry[T]{
		StartH: startH,
		StartW: startW,
		BinH:   binH,
		BinW:   binW,
		GridH:  gridH,
		GridW:  gridW,
		Count:  T(gridH * gridW),
	}
}

// gridSize returns the fixed ratio, or ceil(roi_extent / pooled_extent)
// which is exactly ceil(bin) when ratio is auto.
func gridSize[T Float](ratio int, bin T) int {
	if ratio > 0 {
		return ratio
	}
	return max(int(math.Ceil(float64(bin))), 1)
}

// SampleY returns the y coordinate of grid row iy inside output row ph.
func (g Geometry[T]) SampleY(ph, iy int) T {
	return g.StartH + T(ph)*g.BinH + (T(iy)+0.5)*g.BinH/T(g.GridH)
}

// SampleX returns the x coordinate of grid column ix inside output column pw.
func (g Geometry[T]) SampleX(pw, ix int) T {
	return g.StartW + T(pw)*g.BinW + (T(ix)+0.5)*g.BinW/T(g.GridW)
}

// PoolBin averages the bilinear samples of bin (ph, pw) over a
// height x width plane. Samples outside the plane contribute nothing but
// still count towards the divisor.
func (g Geometry[T]) PoolBin(plane []T, height, width, ph, pw int) T {
	var sum T
	for iy := 0; iy < g.GridH; iy++ {
		y := g.SampleY(ph, iy)
		for ix := 0; ix < g.GridW; ix++ {
			p, ok := Resolve(y, g.SampleX(pw, ix), height, width)
			if !ok {
				continue
			}
			sum += p.Interpolate(plane, width)
		}
	}
	return sum / g.Count
}

// ScatterBin distributes the output gradient gy of bin (ph, pw) onto the
// sample corners in plane, the adjoint of PoolBin.
func (g Geometry[T]) ScatterBin(plane []T, height, width, ph, pw int, gy T) {
	for iy := 0; iy < g.GridH; iy++ {
		y := g.SampleY(ph, iy)
		for ix := 0; ix < g.GridW; ix++ {
			p, ok := Resolve(y, g.SampleX(pw, ix), height, width)
			if !ok {
				continue
			}
			p.Scatter(plane, width, gy, g.Count)
		}
	}
}
