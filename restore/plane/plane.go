package plane

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by plane constructors and accessors.
var (
	ErrInvalidSize   = errors.New("plane: dimensions must be positive")
	ErrDataMismatch  = errors.New("plane: data length does not match dimensions")
	ErrRegionBounds  = errors.New("plane: region exceeds plane bounds")
	ErrShapeMismatch = errors.New("plane: shape mismatch")
)

// Plane is a row-major 2D array of float64 samples.
// Image data is nominally in [0,1] but the type imposes no range.
type Plane struct {
	W, H int
	Data []float64
}

// New returns a zero-filled Plane of the given dimensions.
func New(w, h int) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &Plane{W: w, H: h, Data: make([]float64, w*h)}, nil
}

// FromData wraps an existing row-major slice without copying.
// Mutations to the slice are visible through the Plane and vice versa.
func FromData(w, h int, data []float64) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if len(data) != w*h {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrDataMismatch, len(data), w*h)
	}
	return &Plane{W: w, H: h, Data: data}, nil
}

// At returns the sample at column x, row y. No bounds checking beyond the
// underlying slice.
func (p *Plane) At(x, y int) float64 {
	return p.Data[y*p.W+x]
}

// Set stores v at column x, row y.
func (p *Plane) Set(x, y int, v float64) {
	p.Data[y*p.W+x] = v
}

// Row returns the y-th row as a subslice of the backing data.
func (p *Plane) Row(y int) []float64 {
	return p.Data[y*p.W : (y+1)*p.W]
}

// Clone returns a deep copy.
func (p *Plane) Clone() *Plane {
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return &Plane{W: p.W, H: p.H, Data: data}
}

// Fill sets every sample to v.
func (p *Plane) Fill(v float64) {
	for i := range p.Data {
		p.Data[i] = v
	}
}

// Sum returns the total of all samples.
// The reduction runs left to right in row-major order, so results are
// bit-reproducible for a given plane.
func (p *Plane) Sum() float64 {
	return floats.Sum(p.Data)
}

// Scale multiplies every sample by s in place.
func (p *Plane) Scale(s float64) {
	floats.Scale(s, p.Data)
}

// SameShape reports whether q has identical dimensions.
func (p *Plane) SameShape(q *Plane) bool {
	return q != nil && p.W == q.W && p.H == q.H
}

// WrapPad returns a copy extended by pad samples on every side using
// wrap-around replication: each border continues from the opposite edge, as if
// the plane were periodic.
func (p *Plane) WrapPad(pad int) (*Plane, error) {
	if pad <= 0 {
		return nil, fmt.Errorf("%w: pad %d", ErrInvalidSize, pad)
	}

	out, err := New(p.W+2*pad, p.H+2*pad)
	if err != nil {
		return nil, err
	}

	for y := 0; y < out.H; y++ {
		sy := mod(y-pad, p.H)
		srcRow := p.Row(sy)
		dstRow := out.Row(y)
		for x := 0; x < out.W; x++ {
			dstRow[x] = srcRow[mod(x-pad, p.W)]
		}
	}
	return out, nil
}

// Crop returns a copy of the w×h region with top-left corner at (x, y).
func (p *Plane) Crop(x, y, w, h int) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if x < 0 || y < 0 || x+w > p.W || y+h > p.H {
		return nil, fmt.Errorf("%w: (%d,%d) %dx%d in %dx%d", ErrRegionBounds, x, y, w, h, p.W, p.H)
	}

	out, _ := New(w, h)
	for row := 0; row < h; row++ {
		copy(out.Row(row), p.Row(y+row)[x:x+w])
	}
	return out, nil
}

// Roll returns a copy cyclically shifted by dx columns and dy rows: the sample
// at (x, y) moves to ((x+dx) mod W, (y+dy) mod H). Negative shifts are allowed.
func (p *Plane) Roll(dx, dy int) *Plane {
	out, _ := New(p.W, p.H)
	for y := 0; y < p.H; y++ {
		srcRow := p.Row(mod(y-dy, p.H))
		dstRow := out.Row(y)
		for x := 0; x < p.W; x++ {
			dstRow[x] = srcRow[mod(x-dx, p.W)]
		}
	}
	return out
}

// EmbedTopLeft copies k into the top-left corner of p, leaving the remainder
// untouched. k must fit inside p.
func (p *Plane) EmbedTopLeft(k *Plane) error {
	if k.W > p.W || k.H > p.H {
		return fmt.Errorf("%w: embed %dx%d into %dx%d", ErrShapeMismatch, k.W, k.H, p.W, p.H)
	}
	for y := 0; y < k.H; y++ {
		copy(p.Row(y)[:k.W], k.Row(y))
	}
	return nil
}

// mod returns a modulo n with the result always in [0, n).
func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
