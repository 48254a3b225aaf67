// Package core provides shared numeric helpers used across the restoration
// packages: clamping, approximate comparison, dB/linear power conversion, and
// slice reuse utilities.
package core
