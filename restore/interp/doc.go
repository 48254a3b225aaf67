// Package interp provides fractional sample interpolation kernels.
//
//   - [Linear]:   2-point linear ramp, used for anti-aliased edge coverage
//   - [Hermite4]: 4-point cubic Hermite, used for high-quality resampling
package interp
