// Package edge suppresses wrap-around artifacts before a spectral transform.
//
// A 2D DFT treats the image as periodic, so the true image borders become
// discontinuities under the implied wrap-around and leak spurious
// high-frequency energy into the restored result. Condition fades a band of
// pad pixels at each border toward an edge-blurred copy, leaving the interior
// untouched.
package edge

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deblur/restore/plane"
)

// ErrInvalidPad reports a conditioning width that does not fit the image.
var ErrInvalidPad = errors.New("edge: pad must be positive and smaller than half the smallest dimension")

// Condition returns a copy of img whose border band of width pad is smoothly
// blended toward a wrap-padded Gaussian blur of the image. Interior pixels
// (at least pad away from every border) are unchanged; a constant image is a
// fixed point.
func Condition(img *plane.Plane, pad int) (*plane.Plane, error) {
	if img == nil || img.W <= 0 || img.H <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidPad)
	}
	if pad <= 0 || 2*pad >= img.W || 2*pad >= img.H {
		return nil, fmt.Errorf("%w: pad %d for %dx%d", ErrInvalidPad, pad, img.W, img.H)
	}

	padded, err := img.WrapPad(pad)
	if err != nil {
		return nil, err
	}
	blurred := gaussianCrop(padded, img.W, img.H, pad)

	out, err := plane.New(img.W, img.H)
	if err != nil {
		return nil, err
	}

	// Per-column distance to the nearest vertical border, shared by all rows.
	colDist := make([]float64, img.W)
	for x := range colDist {
		colDist[x] = float64(min(x, img.W-1-x))
	}

	weights := make([]float64, img.W)
	for y := 0; y < img.H; y++ {
		rowDist := float64(min(y, img.H-1-y))
		for x := range weights {
			weights[x] = math.Min(math.Min(colDist[x], rowDist)/float64(pad), 1)
		}

		dst := out.Row(y)
		vecmath.MulBlock(dst, img.Row(y), weights)
		blurRow := blurred.Row(y)
		for x := range dst {
			dst[x] += blurRow[x] * (1 - weights[x])
		}
	}
	return out, nil
}

// gaussianCrop blurs the padded plane with a (2*pad+1)² isotropic Gaussian
// and returns the central w×h crop. The kernel half-width equals pad, so the
// crop never reads outside the padded buffer.
func gaussianCrop(padded *plane.Plane, w, h, pad int) *plane.Plane {
	taps := gaussianTaps(pad)

	// Horizontal pass over the crop columns only.
	mid := &plane.Plane{W: w, H: padded.H, Data: make([]float64, w*padded.H)}
	for y := 0; y < padded.H; y++ {
		src := padded.Row(y)
		dst := mid.Row(y)
		for x := 0; x < w; x++ {
			var acc float64
			for i, t := range taps {
				acc += t * src[x+i]
			}
			dst[x] = acc
		}
	}

	// Vertical pass down to the crop rows.
	out := &plane.Plane{W: w, H: h, Data: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		dst := out.Row(y)
		for i, t := range taps {
			src := mid.Row(y + i)
			for x := 0; x < w; x++ {
				dst[x] += t * src[x]
			}
		}
	}
	return out
}

// gaussianTaps returns normalized taps of width 2*pad+1 with the spread
// derived from the width (sigma = 0.3*(pad-1) + 0.8).
func gaussianTaps(pad int) []float64 {
	sigma := 0.3*(float64(pad)-1) + 0.8
	taps := make([]float64, 2*pad+1)

	var sum float64
	for i := range taps {
		d := float64(i - pad)
		taps[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}
