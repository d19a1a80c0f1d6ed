package format

import "errors"

var (
	// ErrBadMagic is returned when a stream starts with neither PM nor PMZ magic.
	ErrBadMagic = errors.New("format: bad magic")

	// ErrCorrupt is returned for truncated streams, out-of-range counts and
	// topology that fails the consistency check.
	ErrCorrupt = errors.New("format: corrupt stream")

	// ErrAttributeMismatch is returned when a stored attribute does not
	// match the requested primitive kind or element type.
	ErrAttributeMismatch = errors.New("format: attribute mismatch")

	// ErrNoAttribute is returned by LoadAttribute for unknown names.
	ErrNoAttribute = errors.New("format: no such attribute")

	// ErrUnsupported is returned when writing an attribute whose element
	// type has no fixed binary size, or an unknown compression codec.
	ErrUnsupported = errors.New("format: unsupported")
)
