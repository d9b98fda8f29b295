// Package wire implements the ASCII line codec spoken by the Zebra
// position-compare unit.
//
// Every exchange is a single line terminated by '\n'. The unit accepts
// register commands and answers each with exactly one response line:
//
//	R<AA>       -> R<AA><VVVV>   read register AA
//	W<AA><VVVV> -> W<AA>OK       write register AA
//	S           -> SOK           save configuration to flash
//	L           -> LOK           load configuration from flash
//
// where <AA> is a 2-digit hex register address and <VVVV> a 4-digit hex
// value. Failures come back as E1R<AA>, E1W<AA> or the generic E0 for a
// command the unit could not parse at all.
//
// Independently of command traffic, the capture subsystem emits
// unsolicited interrupt lines starting with 'P': PR (buffer reset, start
// of acquisition), PX (end of acquisition) and P<TTTTTTTT><FFFFFFFF>*
// data lines whose field count follows the capture mask configured in
// the PC_BIT_CAP register.
//
// The codec is stateless. Correlating commands with responses and
// tracking the active capture mask belong to the connection layer.
package wire

import "strconv"

// fieldDigits is the number of hex digits in each 32-bit interrupt field,
// including the timestamp.
const fieldDigits = 8

// Class identifies which logical stream a received line belongs to.
type Class byte

const (
	// ClassUnknown marks a line that matches no known message shape.
	ClassUnknown Class = iota

	// ClassResponse marks a command response line ('R', 'W', 'S', 'L' or 'E' prefix).
	ClassResponse

	// ClassInterrupt marks an unsolicited capture interrupt line ('P' prefix).
	ClassInterrupt
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case ClassResponse:
		return "response"
	case ClassInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

// Classify routes a received line to its logical stream.
//
// Lines starting with 'P' are interrupt messages, covering PR, PX and
// P<data>. Lines starting with 'R', 'W', 'S', 'L' or 'E' are command
// responses. Anything else is a protocol violation the caller should log
// and drop.
func Classify(line string) Class {
	if len(line) == 0 {
		return ClassUnknown
	}

	switch line[0] {
	case 'P':
		return ClassInterrupt
	case 'R', 'W', 'S', 'L', 'E':
		return ClassResponse
	default:
		return ClassUnknown
	}
}

// --- Hex field helpers ---

func parseHexByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	return uint8(v), err
}

func parseHexWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}

func parseHexDword(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}
