package wire

import (
	"fmt"
	"math/bits"
)

// CaptureMask selects which data fields accompany each interrupt data line.
// It mirrors the PC_BIT_CAP register: bit i set means field i is present,
// and fields appear on the wire in ascending bit order.
type CaptureMask uint16

// Capture mask bits, ascending wire order.
const (
	// CaptureEncoder1 enables the encoder 1 count (signed 32-bit).
	CaptureEncoder1 CaptureMask = 1 << iota

	// CaptureEncoder2 enables the encoder 2 count (signed 32-bit).
	CaptureEncoder2

	// CaptureEncoder3 enables the encoder 3 count (signed 32-bit).
	CaptureEncoder3

	// CaptureEncoder4 enables the encoder 4 count (signed 32-bit).
	CaptureEncoder4

	// CaptureSysBus1 enables system bus signals 0-31 (unsigned 32-bit).
	CaptureSysBus1

	// CaptureSysBus2 enables system bus signals 32-63 (unsigned 32-bit).
	CaptureSysBus2

	// CaptureDiv1 enables the divider 1 count (unsigned 32-bit).
	CaptureDiv1

	// CaptureDiv2 enables the divider 2 count (unsigned 32-bit).
	CaptureDiv2

	// CaptureDiv3 enables the divider 3 count (unsigned 32-bit).
	CaptureDiv3

	// CaptureDiv4 enables the divider 4 count (unsigned 32-bit).
	CaptureDiv4
)

// CaptureMaskAll has all ten capture fields enabled.
const CaptureMaskAll CaptureMask = 1<<10 - 1

// Count returns the number of data fields implied by the mask.
func (m CaptureMask) Count() int {
	return bits.OnesCount16(uint16(m))
}

// Has reports whether all bits in b are set in m.
func (m CaptureMask) Has(b CaptureMask) bool {
	return m&b == b
}

// Valid reports whether the mask only uses the ten defined capture bits.
func (m CaptureMask) Valid() bool {
	return m&^CaptureMaskAll == 0
}

// InterruptKind identifies the shape of an interrupt line.
type InterruptKind byte

const (
	// InterruptReset is the buffer reset message (PR), sent at the start of
	// an acquisition.
	InterruptReset InterruptKind = iota

	// InterruptData is a capture data message (P<TTTTTTTT><FFFFFFFF>*).
	InterruptData

	// InterruptEnd is the end-of-acquisition message (PX).
	InterruptEnd
)

// String returns a human-readable name for the interrupt kind.
func (k InterruptKind) String() string {
	switch k {
	case InterruptReset:
		return "reset"
	case InterruptData:
		return "data"
	case InterruptEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Interrupt is a decoded interrupt line.
//
// Timestamp and Fields are meaningful for InterruptData only. Fields holds
// the raw unsigned 32-bit values in ascending mask-bit order; interpreting
// encoder fields as signed two's-complement is up to the consumer.
type Interrupt struct {
	Kind      InterruptKind
	Timestamp uint32
	Fields    []uint32
}

// ParseInterrupt decodes an interrupt-classified line against the given
// capture mask.
//
// It returns an error wrapping ErrInvalidInterrupt when the line shape
// cannot be parsed, or ErrFieldCountMismatch when a data line does not
// carry exactly mask.Count() fields.
func ParseInterrupt(line string, mask CaptureMask) (Interrupt, error) {
	if len(line) == 0 || line[0] != 'P' {
		return Interrupt{}, fmt.Errorf("%w: %q", ErrInvalidInterrupt, line)
	}

	switch line {
	case "PR":
		return Interrupt{Kind: InterruptReset}, nil
	case "PX":
		return Interrupt{Kind: InterruptEnd}, nil
	}

	if len(line) < 1+fieldDigits {
		return Interrupt{}, fmt.Errorf("%w: %q", ErrInvalidInterrupt, line)
	}

	ts, err := parseHexDword(line[1 : 1+fieldDigits])
	if err != nil {
		return Interrupt{}, fmt.Errorf("%w: bad timestamp in %q", ErrInvalidInterrupt, line)
	}

	data := line[1+fieldDigits:]
	count := mask.Count()
	if len(data) != count*fieldDigits {
		return Interrupt{}, fmt.Errorf("%w: got %d hex digits, want %d for mask 0x%03X",
			ErrFieldCountMismatch, len(data), count*fieldDigits, uint16(mask))
	}

	fields := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		f, err := parseHexDword(data[i*fieldDigits : (i+1)*fieldDigits])
		if err != nil {
			return Interrupt{}, fmt.Errorf("%w: bad field %d in %q", ErrInvalidInterrupt, i, line)
		}
		fields = append(fields, f)
	}

	return Interrupt{Kind: InterruptData, Timestamp: ts, Fields: fields}, nil
}
