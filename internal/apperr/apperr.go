// Package apperr defines the error-kind taxonomy shared across the
// emulation core: configuration failures at init time, disk-image
// problems surfaced to the host, and runtime invariants that are
// absorbed rather than reported.
package apperr

import "errors"

// Sentinel kinds. Call sites wrap one of these with context via
// fmt.Errorf("...: %w", ErrX) and callers recover the kind with Kind().
var (
	// ErrConfiguration marks a missing or short ROM file — fatal at init.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedImage marks a disk image whose format this core does
	// not support (bad WOZ validation, unsupported track map, unknown
	// extension). The disk is simply not inserted.
	ErrUnsupportedImage = errors.New("unsupported disk image")

	// ErrMalformedImage marks a truncated or corrupt image buffer.
	// Fatal for the load attempt, non-fatal for the running machine.
	ErrMalformedImage = errors.New("malformed disk image")

	// ErrRuntimeInvariant marks a clamp condition that was silently
	// corrected (e.g. half_track saturating at its bound). Present for
	// tests and logging; never returned from a public API by itself.
	ErrRuntimeInvariant = errors.New("runtime invariant clamped")
)

// Kind reports which sentinel, if any, wraps err.
func Kind(err error) error {
	switch {
	case errors.Is(err, ErrConfiguration):
		return ErrConfiguration
	case errors.Is(err, ErrUnsupportedImage):
		return ErrUnsupportedImage
	case errors.Is(err, ErrMalformedImage):
		return ErrMalformedImage
	case errors.Is(err, ErrRuntimeInvariant):
		return ErrRuntimeInvariant
	default:
		return nil
	}
}
