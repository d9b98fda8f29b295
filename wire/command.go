package wire

import "fmt"

// CommandKind identifies the request type of a Command.
type CommandKind byte

const (
	// CommandRead requests a 16-bit register read (R<AA>).
	CommandRead CommandKind = iota

	// CommandWrite requests a 16-bit register write (W<AA><VVVV>).
	CommandWrite

	// CommandSave persists the active configuration to flash (S).
	CommandSave

	// CommandLoad restores the configuration from flash (L).
	CommandLoad
)

// String returns a human-readable name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandRead:
		return "read"
	case CommandWrite:
		return "write"
	case CommandSave:
		return "save"
	case CommandLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Command represents a single request line to the unit.
//
// Addr is meaningful for read and write commands, Value for writes only.
type Command struct {
	Kind  CommandKind
	Addr  uint8
	Value uint16
}

// ReadCommand builds a register read request.
func ReadCommand(addr uint8) Command {
	return Command{Kind: CommandRead, Addr: addr}
}

// WriteCommand builds a register write request.
func WriteCommand(addr uint8, value uint16) Command {
	return Command{Kind: CommandWrite, Addr: addr, Value: value}
}

// SaveCommand builds a save-to-flash request.
func SaveCommand() Command {
	return Command{Kind: CommandSave}
}

// LoadCommand builds a load-from-flash request.
func LoadCommand() Command {
	return Command{Kind: CommandLoad}
}

// Encode renders the command as its wire line, without the terminator.
func (c Command) Encode() string {
	switch c.Kind {
	case CommandRead:
		return fmt.Sprintf("R%02X", c.Addr)
	case CommandWrite:
		return fmt.Sprintf("W%02X%04X", c.Addr, c.Value)
	case CommandSave:
		return "S"
	case CommandLoad:
		return "L"
	default:
		return ""
	}
}
