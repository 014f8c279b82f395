package roialign

import "golang.org/x/exp/constraints"

// Float is the set of element types the kernels are instantiated for.
type Float interface {
	constraints.Float
}

// BilinearParams are the four corners and weights of one sample point.
//
//	w1 = top-left (YLow, XLow)    w2 = top-right (YLow, XHigh)
//	w3 = bottom-left (YHigh, XLow) w4 = bottom-right (YHigh, XHigh)
type BilinearParams[T Float] struct {
	YLow, XLow   int
	YHigh, XHigh int
	W1, W2       T
	W3, W4       T
}

// Resolve computes bilinear interpolation parameters for the point (y, x)
// on a height x width plane.
//
// ok is false when the point lies outside [-1, height] x [-1, width]; the
// caller must then skip the sample entirely. Both bounds are inclusive:
// y == height is a valid sample that snaps onto the last row.
func Resolve[T Float](y, x T, height, width int) (p BilinearParams[T], ok bool) {
	if y < -1 || y > T(height) || x < -1 || x > T(width) {
		return p, false
	}

	if y <= 0 {
		y = 0
	}
	if x <= 0 {
		x = 0
	}

	// y, x >= 0 here, so truncation is floor.
	p.YLow = int(y)
	p.XLow = int(x)

	if p.YLow >= height-1 {
		p.YLow = height - 1
		p.YHigh = p.YLow
		y = T(p.YLow)
	} else {
		p.YHigh = p.YLow + 1
	}

	if p.XLow >= width-1 {
		p.XLow = width - 1
		p.XHigh = p.XLow
		x = T(p.XLow)
	} else {
		p.XHigh = p.XLow + 1
	}

	ly := y - T(p.YLow)
	lx := x - T(p.XLow)
	hy := 1 - ly
	hx := 1 - lx

	p.W1 = hy * hx
	p.W2 = hy * lx
	p.W3 = ly * hx
	p.W4 = ly * lx

	return p, true
}

// Interpolate returns the weighted sum of the four corners of p on a
// row-major plane of the given width.
func (p BilinearParams[T]) Interpolate(plane []T, width int) T {
	v1 := plane[p.YLow*width+p.XLow]
	v2 := plane[p.YLow*width+p.XHigh]
	v3 := plane[p.YHigh*width+p.XLow]
	v4 := plane[p.YHigh*width+p.XHigh]
	return p.W1*v1 + p.W2*v2 + p.W3*v3 + p.W4*v4
}

// Scatter adds g*w/count into each of the four corners of p on a
// row-major plane. Existing values are accumulated, never overwritten.
func (p BilinearParams[T]) Scatter(plane []T, width int, g, count T) {
	// Resolve never yields negative corners; keep the guard anyway so a
	// stray index can not corrupt a neighboring plane.
	if p.XLow < 0 || p.XHigh < 0 || p.YLow < 0 || p.YHigh < 0 {
		return
	}
	plane[p.YLow*width+p.XLow] += g * p.W1 / count
	plane[p.YLow*width+p.XHigh] += g * p.W2 / count
	plane[p.YHigh*width+p.XLow] += g * p.W3 / count
	plane[p.YHigh*width+p.XHigh] += g * p.W4 / count
}
