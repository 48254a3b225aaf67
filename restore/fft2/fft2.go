package fft2

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deblur/restore/plane"
)

// Errors returned by spectral transforms.
var (
	ErrEmptyInput    = errors.New("fft2: empty input")
	ErrShapeMismatch = errors.New("fft2: spectrum shape does not match data length")
)

// Spectrum holds the full-size complex 2D DFT of a real-valued plane,
// row-major, with the same dimensions as the plane it was transformed from.
// Spectra are produced by [Forward] and the wiener package; they are not
// normally constructed by hand.
type Spectrum struct {
	W, H int
	Data []complex128
}

// NewSpectrum returns a zero-filled spectrum of the given dimensions.
func NewSpectrum(w, h int) (*Spectrum, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyInput, w, h)
	}
	return &Spectrum{W: w, H: h, Data: make([]complex128, w*h)}, nil
}

// Clone returns a deep copy.
func (s *Spectrum) Clone() *Spectrum {
	data := make([]complex128, len(s.Data))
	copy(data, s.Data)
	return &Spectrum{W: s.W, H: s.H, Data: data}
}

// SameShape reports whether t has identical dimensions.
func (s *Spectrum) SameShape(t *Spectrum) bool {
	return t != nil && s.W == t.W && s.H == t.H
}

func (s *Spectrum) valid() error {
	if s == nil || s.W <= 0 || s.H <= 0 {
		return ErrEmptyInput
	}
	if len(s.Data) != s.W*s.H {
		return fmt.Errorf("%w: %dx%d with %d bins", ErrShapeMismatch, s.W, s.H, len(s.Data))
	}
	return nil
}

// Forward computes the full-size complex 2D DFT of p by row-column
// decomposition. Dimensions need not be powers of two.
func Forward(p *plane.Plane) (*Spectrum, error) {
	if p == nil || p.W <= 0 || p.H <= 0 || len(p.Data) != p.W*p.H {
		return nil, ErrEmptyInput
	}

	out := &Spectrum{W: p.W, H: p.H, Data: make([]complex128, p.W*p.H)}
	for i, v := range p.Data {
		out.Data[i] = complex(v, 0)
	}

	if err := transform2D(out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// Inverse computes the scaled inverse 2D DFT of s and returns the real
// component; for a spectrum produced by [Forward] this recovers the original
// plane up to floating-point rounding. The imaginary residue of a
// round-tripped real signal is discarded.
func Inverse(s *Spectrum) (*plane.Plane, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}

	tmp := s.Clone()
	if err := transform2D(tmp, true); err != nil {
		return nil, err
	}

	out, err := plane.New(s.W, s.H)
	if err != nil {
		return nil, err
	}
	for i, c := range tmp.Data {
		out.Data[i] = real(c)
	}
	return out, nil
}

// transform2D applies the 1D transform along every row, then every column,
// in place.
func transform2D(s *Spectrum, inverse bool) error {
	rowT, err := newTransform(s.W)
	if err != nil {
		return err
	}

	colT := rowT
	if s.H != s.W {
		colT, err = newTransform(s.H)
		if err != nil {
			return err
		}
	}

	apply := rowT.forward
	if inverse {
		apply = rowT.inverse
	}
	for y := 0; y < s.H; y++ {
		row := s.Data[y*s.W : (y+1)*s.W]
		if err := apply(row, row); err != nil {
			return err
		}
	}

	apply = colT.forward
	if inverse {
		apply = colT.inverse
	}
	col := make([]complex128, s.H)
	for x := 0; x < s.W; x++ {
		for y := 0; y < s.H; y++ {
			col[y] = s.Data[y*s.W+x]
		}
		if err := apply(col, col); err != nil {
			return err
		}
		for y := 0; y < s.H; y++ {
			s.Data[y*s.W+x] = col[y]
		}
	}
	return nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
