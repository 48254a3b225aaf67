// Package psf synthesizes normalized point-spread functions for the two
// supported blur models: straight-line motion and circular defocus.
package psf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-deblur/restore/core"
	"github.com/cwbudde/algo-deblur/restore/interp"
	"github.com/cwbudde/algo-deblur/restore/plane"
)

// DefaultSize is the default square canvas side for synthesized kernels.
const DefaultSize = 65

// Errors returned by kernel synthesis.
var (
	ErrInvalidDiameter = errors.New("psf: diameter must be positive and smaller than the canvas")
	ErrInvalidSize     = errors.New("psf: canvas size must be positive")
	ErrInvalidAngle    = errors.New("psf: angle must be in [0, pi)")
	ErrZeroKernel      = errors.New("psf: kernel has zero energy")
)

func validate(diameter, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if diameter <= 0 || diameter >= size {
		return fmt.Errorf("%w: diameter %d, canvas %d", ErrInvalidDiameter, diameter, size)
	}
	return nil
}

// Motion synthesizes a straight-line motion blur kernel: a 1×diameter smear of
// equal weights rotated by angle radians and centered on a size×size canvas.
// The smear is resampled with 4-point cubic interpolation; any mass rotated
// outside the canvas is lost.
func Motion(angle float64, diameter, size int) (*plane.Plane, error) {
	if err := validate(diameter, size); err != nil {
		return nil, err
	}
	if angle < 0 || angle >= math.Pi {
		return nil, fmt.Errorf("%w: %f", ErrInvalidAngle, angle)
	}

	out, err := plane.New(size, size)
	if err != nil {
		return nil, err
	}

	// Forward map is rotate-then-translate; rasterize by mapping each canvas
	// pixel back into the source row's coordinate frame.
	c, s := math.Cos(angle), math.Sin(angle)
	half := float64(size / 2)
	tx := half - c*float64(diameter-1)*0.5
	ty := half - s*float64(diameter-1)*0.5

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - tx
			dy := float64(y) - ty
			sx := c*dx + s*dy
			sy := -s*dx + c*dy
			v := sampleRow(diameter, sx, sy)
			if v > 0 {
				out.Set(x, y, v)
			}
		}
	}
	return out, nil
}

// sampleRow evaluates a 1×width row of ones at fractional coordinates
// (sx, sy) with separable cubic interpolation and a zero border.
func sampleRow(width int, sx, sy float64) float64 {
	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))
	fx := sx - float64(ix)
	fy := sy - float64(iy)

	// The source is a single row, so at most one of the four vertical taps
	// is nonzero.
	var rows [4]float64
	for j := 0; j < 4; j++ {
		if iy-1+j != 0 {
			continue
		}
		rows[j] = interp.Hermite4(fx, rowTap(width, ix-1), rowTap(width, ix),
			rowTap(width, ix+1), rowTap(width, ix+2))
	}
	return interp.Hermite4(fy, rows[0], rows[1], rows[2], rows[3])
}

func rowTap(width, x int) float64 {
	if x < 0 || x >= width {
		return 0
	}
	return 1
}

// Defocus synthesizes a circular defocus kernel: an anti-aliased filled disk
// of radius diameter/2 about the canvas center, scaled so the brightest
// sample is 1.
func Defocus(diameter, size int) (*plane.Plane, error) {
	if err := validate(diameter, size); err != nil {
		return nil, err
	}

	out, err := plane.New(size, size)
	if err != nil {
		return nil, err
	}

	// Half-pixel geometry: center at size/2 in continuous coordinates,
	// radius diameter/2.
	cx := float64(size) * 0.5
	cy := float64(size) * 0.5
	r := float64(diameter) * 0.5

	peak := 0.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			// Linear coverage ramp across the one-pixel rim.
			t := core.Clamp(dist-(r-0.5), 0, 1)
			v := interp.Linear(t, 1, 0)
			if v > 0 {
				out.Set(x, y, v)
				if v > peak {
					peak = v
				}
			}
		}
	}
	if peak == 0 {
		return nil, fmt.Errorf("%w: diameter %d", ErrZeroKernel, diameter)
	}
	if peak < 1 {
		out.Scale(1 / peak)
	}
	return out, nil
}

// Normalize scales k in place so its samples sum to exactly 1, making the
// blur energy-preserving. The sum reduction order is row-major left to right.
func Normalize(k *plane.Plane) error {
	sum := k.Sum()
	if sum <= 0 {
		return ErrZeroKernel
	}
	k.Scale(1 / sum)
	return nil
}
