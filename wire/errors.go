package wire

import "errors"

var (
	// ErrInvalidResponse indicates a response-classified line that matches no
	// known response shape.
	ErrInvalidResponse = errors.New("wire: invalid response line")

	// ErrInvalidInterrupt indicates an interrupt line whose shape cannot be
	// parsed.
	ErrInvalidInterrupt = errors.New("wire: invalid interrupt line")

	// ErrFieldCountMismatch indicates an interrupt data line whose field count
	// does not match the configured capture mask.
	ErrFieldCountMismatch = errors.New("wire: interrupt field count mismatch")

	// ErrInvalidMask indicates a capture mask using bits outside the ten
	// defined capture fields.
	ErrInvalidMask = errors.New("wire: invalid capture mask")
)
