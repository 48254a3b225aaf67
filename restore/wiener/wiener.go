// Package wiener computes and applies the regularized inverse filter used for
// deconvolution in the frequency domain.
//
// For a PSF spectrum value P and regularization constant n, the filter at each
// bin is P / (|P|² + n). Where the blur preserves a frequency (|P|² ≫ n) this
// approaches the true inverse 1/P; where the blur destroys it (|P|² → 0) the
// filter rolls off toward zero instead of amplifying noise without bound.
package wiener

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deblur/restore/core"
	"github.com/cwbudde/algo-deblur/restore/fft2"
)

// Errors returned by filter construction and application.
var (
	ErrInvalidNoiseLevel = errors.New("wiener: noise level must be positive")
	ErrDimensionMismatch = errors.New("wiener: spectrum dimensions differ")
	ErrEmptySpectrum     = errors.New("wiener: empty spectrum")
)

// NoiseLevelFromSNR derives the regularization constant from a
// signal-to-noise ratio in decibels: 10^(-snrDB/10). Higher SNR means a
// smaller constant and a more aggressive restoration.
func NoiseLevelFromSNR(snrDB float64) float64 {
	return core.DBPowerToLinear(-snrDB)
}

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im, power []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	buf.data = core.EnsureLen(buf.data, 3*n)
	return buf.data[:n], buf.data[n : 2*n], buf.data[2*n : 3*n], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Invert computes the regularized inverse filter spectrum from a PSF
// spectrum: out[k] = psf[k] / (|psf[k]|² + noiseLevel). noiseLevel must be
// positive; zero would divide by zero at bins where the PSF spectrum itself
// vanishes.
func Invert(psf *fft2.Spectrum, noiseLevel float64) (*fft2.Spectrum, error) {
	if psf == nil || len(psf.Data) == 0 {
		return nil, ErrEmptySpectrum
	}
	if noiseLevel <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidNoiseLevel, noiseLevel)
	}

	n := len(psf.Data)
	re, im, power, buf := getScratch(n)
	for i, c := range psf.Data {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Power(power, re, im)

	out := &fft2.Spectrum{W: psf.W, H: psf.H, Data: make([]complex128, n)}
	for i, c := range psf.Data {
		out.Data[i] = c / complex(power[i]+noiseLevel, 0)
	}
	putScratch(buf)
	return out, nil
}

// Apply multiplies the image spectrum by the filter spectrum bin by bin.
// Both spectra must have identical dimensions.
func Apply(img, filter *fft2.Spectrum) (*fft2.Spectrum, error) {
	if img == nil || len(img.Data) == 0 || filter == nil || len(filter.Data) == 0 {
		return nil, ErrEmptySpectrum
	}
	if !img.SameShape(filter) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			img.W, img.H, filter.W, filter.H)
	}

	out := &fft2.Spectrum{W: img.W, H: img.H, Data: make([]complex128, len(img.Data))}
	for i := range img.Data {
		out.Data[i] = img.Data[i] * filter.Data[i]
	}
	return out, nil
}
