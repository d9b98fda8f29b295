package zebra

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-zebra/wire"
)

// Sentinel errors for the connection and command protocol.
var (
	// Connection-level errors.
	ErrConfigNil         = errors.New("zebra: connection config is nil")
	ErrConnClosed        = errors.New("zebra: connection closed")
	ErrNotConnected      = errors.New("zebra: not connected")
	ErrConnLost          = errors.New("zebra: connection lost")
	ErrOpenFailed        = errors.New("zebra: failed to open device")
	ErrInvalidTransition = errors.New("zebra: invalid connection state transition")

	// Command-level errors.
	ErrTimeout       = errors.New("zebra: command reply timeout")
	ErrProtocol      = errors.New("zebra: protocol error")
	ErrRegisterFault = errors.New("zebra: register fault reported by unit")
	ErrAddrMismatch  = errors.New("zebra: reply address does not match request")
)

// RegisterError reports a register operation the unit rejected with an
// E1R/E1W reply, or a reply whose echoed address does not match the
// request. Err is ErrRegisterFault or ErrAddrMismatch.
type RegisterError struct {
	Kind wire.CommandKind
	Addr uint8
	Err  error
}

// Error implements the error interface.
func (e *RegisterError) Error() string {
	return fmt.Sprintf("%v: %s register 0x%02X", e.Err, e.Kind, e.Addr)
}

// Unwrap returns the underlying sentinel so errors.Is matches
// ErrRegisterFault and ErrAddrMismatch.
func (e *RegisterError) Unwrap() error {
	return e.Err
}

// DecodeError reports an interrupt line the decoder could not turn into an
// event. Line is the raw line as received, terminator stripped.
type DecodeError struct {
	Line string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("zebra: failed to decode %q: %v", e.Line, e.Err)
}

// Unwrap returns the wire-level parse error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
