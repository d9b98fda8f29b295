// Package regmap describes the register map of the Zebra position-compare
// unit: register names, addresses, access classes, logical 32-bit LO/HI
// pairs, the 64-signal system bus mux table and the timestamp prescaler
// values.
//
// The map itself is configuration data. The protocol engine does not
// interpret register semantics; this package exists so that clients, the
// poll scheduler and the device helpers can refer to registers by name
// instead of raw addresses.
package regmap

// Class categorizes how a register is accessed and polled.
type Class byte

const (
	// ClassRW marks a plain read/write configuration register.
	ClassRW Class = iota

	// ClassMux marks a read/write register whose value selects one of the 64
	// system bus signals.
	ClassMux

	// ClassCmd marks a register whose write triggers an action. Reads are not
	// meaningful and the register is excluded from polling.
	ClassCmd

	// ClassRO marks a read-only status register.
	ClassRO
)

// String returns a human-readable name for the class.
func (c Class) String() string {
	switch c {
	case ClassRW:
		return "rw"
	case ClassMux:
		return "mux"
	case ClassCmd:
		return "cmd"
	case ClassRO:
		return "ro"
	default:
		return "unknown"
	}
}

// Register describes a single 16-bit register.
type Register struct {
	Name  string
	Addr  uint8
	Class Class
}

// Register32 describes a logical 32-bit value stored as a LO/HI register
// pair. The 32-bit value is (hi<<16)|lo; writes go LO first, then HI.
type Register32 struct {
	Name  string
	Lo    uint8
	Hi    uint8
	Class Class
}

// Addresses of the registers the engine and device helpers refer to
// directly. The full map is in the register table.
const (
	AddrSysReset   uint8 = 0x7E // SYS_RESET
	AddrSoftIn     uint8 = 0x7F // SOFT_IN
	AddrPCEnc      uint8 = 0x88 // PC_ENC
	AddrPCTSPre    uint8 = 0x89 // PC_TSPRE
	AddrPCArmSel   uint8 = 0x8A // PC_ARM_SEL
	AddrPCArm      uint8 = 0x8B // PC_ARM
	AddrPCDisarm   uint8 = 0x8C // PC_DISARM
	AddrPCGateSel  uint8 = 0x8D // PC_GATE_SEL
	AddrPCPulseSel uint8 = 0x96 // PC_PULSE_SEL
	AddrPCBitCap   uint8 = 0x9F // PC_BIT_CAP
	AddrPCDir      uint8 = 0xA0 // PC_DIR
	AddrSysVer     uint8 = 0xF0 // SYS_VER
	AddrSysStatErr uint8 = 0xF1 // SYS_STATERR
	AddrSysStat1Lo uint8 = 0xF2 // SYS_STAT1LO
	AddrSysStat1Hi uint8 = 0xF3 // SYS_STAT1HI
	AddrSysStat2Lo uint8 = 0xF4 // SYS_STAT2LO
	AddrSysStat2Hi uint8 = 0xF5 // SYS_STAT2HI
	AddrPCNumCapLo uint8 = 0xF6 // PC_NUM_CAPLO
	AddrPCNumCapHi uint8 = 0xF7 // PC_NUM_CAPHI
)

// PC_TSPRE prescaler values. The prescaler divides the 50 MHz system clock
// and selects the natural display unit for capture timestamps.
const (
	PrescalerMilliseconds uint16 = 5
	PrescalerSeconds      uint16 = 5000
	PrescalerTenSeconds   uint16 = 50000
)

// PC_ARM_SEL values.
const (
	ArmSourceSoft     uint16 = 0
	ArmSourceExternal uint16 = 1
)

// PC_GATE_SEL and PC_PULSE_SEL values.
const (
	SourcePosition uint16 = 0
	SourceTime     uint16 = 1
	SourceExternal uint16 = 2
)

// PC_DIR values.
const (
	DirectionPositive uint16 = 0
	DirectionNegative uint16 = 1
)

// TimestampScale returns the elapsed-time scale in seconds per timestamp
// count for a PC_TSPRE prescaler value, together with the natural display
// unit for that prescaler. One count is 1e-4 of the display unit.
//
// ok is false for prescaler values the unit does not document.
func TimestampScale(prescaler uint16) (scale float64, unit string, ok bool) {
	switch prescaler {
	case PrescalerMilliseconds:
		return 1e-7, "ms", true
	case PrescalerSeconds:
		return 1e-4, "s", true
	case PrescalerTenSeconds:
		return 1e-3, "10s", true
	default:
		return 0, "", false
	}
}

var (
	byName   map[string]Register
	byAddr   map[uint8]Register
	byName32 map[string]Register32
)

func init() {
	byName = make(map[string]Register, len(registers))
	byAddr = make(map[uint8]Register, len(registers))
	for _, r := range registers {
		byName[r.Name] = r
		byAddr[r.Addr] = r
	}

	byName32 = make(map[string]Register32, len(registers32))
	for _, r := range registers32 {
		byName32[r.Name] = r
	}
}

// ByName looks up a 16-bit register by name.
func ByName(name string) (Register, bool) {
	r, ok := byName[name]
	return r, ok
}

// ByAddr looks up a 16-bit register by address.
func ByAddr(addr uint8) (Register, bool) {
	r, ok := byAddr[addr]
	return r, ok
}

// ByName32 looks up a logical 32-bit register pair by name.
func ByName32(name string) (Register32, bool) {
	r, ok := byName32[name]
	return r, ok
}

// Registers returns a copy of the full 16-bit register table in address
// order.
func Registers() []Register {
	out := make([]Register, len(registers))
	copy(out, registers)

	return out
}

// Registers32 returns a copy of the logical 32-bit register pairs.
func Registers32() []Register32 {
	out := make([]Register32, len(registers32))
	copy(out, registers32)

	return out
}

// StatusAddrs returns the read-only status registers meant for fast
// polling: SYS_STATERR, both SYS_STAT words and the capture count.
// SYS_VER is static and excluded; read it once on demand.
func StatusAddrs() []uint8 {
	return []uint8{
		AddrSysStatErr,
		AddrSysStat1Lo, AddrSysStat1Hi,
		AddrSysStat2Lo, AddrSysStat2Hi,
		AddrPCNumCapLo, AddrPCNumCapHi,
	}
}

// ConfigAddrs returns every readable configuration register (plain RW and
// mux classes) in address order, for slow polling. Command registers are
// excluded: reading them is meaningless and writing them triggers actions.
func ConfigAddrs() []uint8 {
	out := make([]uint8, 0, len(registers))
	for _, r := range registers {
		if r.Class == ClassRW || r.Class == ClassMux {
			out = append(out, r.Addr)
		}
	}

	return out
}
