// Package deconv restores an image degraded by a known spatially-invariant
// blur plus additive noise, using frequency-domain Wiener deconvolution.
//
// The pipeline conditions the image borders against wrap-around artifacts,
// synthesizes a normalized point-spread function for the configured blur
// model, divides the image spectrum by the regularized PSF spectrum, and
// recenters the spatial result. Each call is a pure function over its
// arguments; separate calls may run concurrently on separate buffers.
package deconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deblur/restore/edge"
	"github.com/cwbudde/algo-deblur/restore/fft2"
	"github.com/cwbudde/algo-deblur/restore/plane"
	"github.com/cwbudde/algo-deblur/restore/psf"
	"github.com/cwbudde/algo-deblur/restore/wiener"
)

// Model selects the blur model to invert.
type Model int

const (
	// Motion models a straight-line smear at a fixed orientation.
	Motion Model = iota

	// Defocus models a uniform circular disk.
	Defocus
)

// Params describe the blur to invert.
type Params struct {
	// Model selects between motion and defocus blur.
	Model Model

	// Angle is the smear orientation in radians, in [0, pi). Motion only.
	Angle float64

	// Diameter is the smear length (Motion) or disk diameter (Defocus) in
	// pixels. It also sets the edge-conditioning width.
	Diameter int

	// NoiseLevel is the Wiener regularization constant (inverse SNR).
	// See wiener.NoiseLevelFromSNR for deriving it from decibels.
	NoiseLevel float64
}

// Result is a completed restoration: the deblurred image and the normalized
// kernel that was inverted, useful for diagnostics or preview.
type Result struct {
	Image  *plane.Plane
	Kernel *plane.Plane
}

// ErrUnknownModel reports a Params.Model outside the defined constants.
var ErrUnknownModel = errors.New("deconv: unknown blur model")

// SynthesizeKernel builds the normalized PSF for p on a size×size canvas.
// Exposed standalone so callers can preview the kernel that Restore inverts.
func SynthesizeKernel(p Params, size int) (*plane.Plane, error) {
	var (
		k   *plane.Plane
		err error
	)

	switch p.Model {
	case Motion:
		k, err = psf.Motion(p.Angle, p.Diameter, size)
	case Defocus:
		k, err = psf.Defocus(p.Diameter, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, p.Model)
	}
	if err != nil {
		return nil, err
	}

	if err := psf.Normalize(k); err != nil {
		return nil, err
	}
	return k, nil
}

// Restore deconvolves img with the blur described by p and returns the
// restored image together with the kernel used. The input plane is never
// mutated. Output values are not clamped to [0,1]; callers clamp for display.
//
// All parameter validation runs before any spectral transform, and a failed
// call produces no partial result.
func Restore(img *plane.Plane, p Params) (*Result, error) {
	if img == nil || img.W <= 0 || img.H <= 0 {
		return nil, fmt.Errorf("%w: nil or empty image", plane.ErrInvalidSize)
	}
	if p.NoiseLevel <= 0 {
		return nil, fmt.Errorf("%w: %g", wiener.ErrInvalidNoiseLevel, p.NoiseLevel)
	}

	size := psf.DefaultSize
	if m := min(img.W, img.H); m < size {
		size = m
	}

	kernel, err := SynthesizeKernel(p, size)
	if err != nil {
		return nil, err
	}

	cond, err := edge.Condition(img, p.Diameter)
	if err != nil {
		return nil, err
	}

	// The kernel spectrum must align bin-for-bin with the image spectrum, so
	// the kernel is embedded at the top-left of a zero plane of equal size.
	padded, err := plane.New(img.W, img.H)
	if err != nil {
		return nil, err
	}
	if err := padded.EmbedTopLeft(kernel); err != nil {
		return nil, err
	}

	imgSpec, err := fft2.Forward(cond)
	if err != nil {
		return nil, err
	}
	psfSpec, err := fft2.Forward(padded)
	if err != nil {
		return nil, err
	}

	filter, err := wiener.Invert(psfSpec, p.NoiseLevel)
	if err != nil {
		return nil, err
	}
	resSpec, err := wiener.Apply(imgSpec, filter)
	if err != nil {
		return nil, err
	}

	spatial, err := fft2.Inverse(resSpec)
	if err != nil {
		return nil, err
	}

	// The embedded kernel's origin sits at the plane's top-left corner rather
	// than its geometric center, which shifts the restored image by half the
	// kernel extent; roll it back.
	out := spatial.Roll(-kernel.W/2, -kernel.H/2)

	return &Result{Image: out, Kernel: kernel}, nil
}
