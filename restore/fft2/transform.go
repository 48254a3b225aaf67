package fft2

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// transform computes 1D DFTs of a fixed length n. Power-of-two lengths map
// directly onto an FFT plan; general lengths use Bluestein's chirp-z
// algorithm on a power-of-two plan of size m >= 2n-1, which evaluates the
// exact length-n DFT without semantically zero-padding the signal.
type transform struct {
	n    int
	plan *algofft.Plan[complex128]

	// Bluestein state; m == 0 on the direct power-of-two path.
	m         int
	chirp     []complex128 // exp(-i*pi*k^2/n)
	chirpFreq []complex128 // FFT of the conjugate chirp, wrapped to length m
	scratchA  []complex128
	scratchB  []complex128
}

func newTransform(n int) (*transform, error) {
	if n <= 0 {
		return nil, ErrEmptyInput
	}

	// Length 1 is the identity transform.
	if n == 1 {
		return &transform{n: 1}, nil
	}

	if isPowerOf2(n) {
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("fft2: failed to create FFT plan: %w", err)
		}
		return &transform{n: n, plan: plan}, nil
	}

	m := nextPowerOf2(2*n - 1)
	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create FFT plan: %w", err)
	}

	t := &transform{
		n:        n,
		plan:     plan,
		m:        m,
		chirp:    make([]complex128, n),
		scratchA: make([]complex128, m),
		scratchB: make([]complex128, m),
	}

	// Reduce k^2 modulo 2n before taking the angle; this keeps the chirp
	// phase accurate for large n.
	for k := 0; k < n; k++ {
		phase := math.Pi * float64((k*k)%(2*n)) / float64(n)
		t.chirp[k] = complex(math.Cos(phase), -math.Sin(phase))
	}

	// The convolution kernel is the conjugate chirp at offsets -(n-1)..(n-1),
	// wrapped into [0, m).
	b := make([]complex128, m)
	for k := 0; k < n; k++ {
		c := complex(real(t.chirp[k]), -imag(t.chirp[k]))
		b[k] = c
		if k > 0 {
			b[m-k] = c
		}
	}
	t.chirpFreq = make([]complex128, m)
	if err := plan.Forward(t.chirpFreq, b); err != nil {
		return nil, err
	}

	return t, nil
}

// forward computes the unscaled DFT of src into dst. dst and src may alias.
func (t *transform) forward(dst, src []complex128) error {
	if t.n == 1 {
		dst[0] = src[0]
		return nil
	}
	if t.m == 0 {
		return t.plan.Forward(dst, src)
	}

	a := t.scratchA
	for k := 0; k < t.n; k++ {
		a[k] = src[k] * t.chirp[k]
	}
	for k := t.n; k < t.m; k++ {
		a[k] = 0
	}

	if err := t.plan.Forward(t.scratchB, a); err != nil {
		return err
	}
	for k := range t.scratchB {
		t.scratchB[k] *= t.chirpFreq[k]
	}
	if err := t.plan.Inverse(a, t.scratchB); err != nil {
		return err
	}

	for k := 0; k < t.n; k++ {
		dst[k] = a[k] * t.chirp[k]
	}
	return nil
}

// inverse computes the scaled (1/n) inverse DFT of src into dst via the
// conjugation identity IDFT(x) = conj(DFT(conj(x)))/n. dst and src may alias.
func (t *transform) inverse(dst, src []complex128) error {
	if t.n == 1 {
		dst[0] = src[0]
		return nil
	}
	if t.m == 0 {
		return t.plan.Inverse(dst, src)
	}

	for k := 0; k < t.n; k++ {
		dst[k] = complex(real(src[k]), -imag(src[k]))
	}
	if err := t.forward(dst, dst); err != nil {
		return err
	}

	scale := 1 / float64(t.n)
	for k := 0; k < t.n; k++ {
		dst[k] = complex(real(dst[k])*scale, -imag(dst[k])*scale)
	}
	return nil
}
