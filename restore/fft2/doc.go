// Package fft2 provides forward and inverse 2D discrete Fourier transforms
// between real-valued planes and full-size complex spectra.
//
// The transform is computed by row-column decomposition over 1D FFTs.
// Power-of-two dimensions run directly on an FFT plan; arbitrary dimensions
// (typical image sizes are not powers of two) are handled exactly with
// Bluestein's chirp-z algorithm, so circular-convolution semantics are
// preserved at the original size.
package fft2
