package regmap

// SysBusSignalCount is the number of system bus signals.
const SysBusSignalCount = 64

// System bus indices of the position compare output signals. When SYS_STAT1
// is read, these bits report the live arm/gate/pulse state.
const (
	SysBusPCArm   = 29
	SysBusPCGate  = 30
	SysBusPCPulse = 31
)

// sysBusNames maps system bus signal indices 0-63 to their names.
var sysBusNames = [SysBusSignalCount]string{
	// 0: no connection
	"DISCONNECT",
	// 1-12: front panel inputs
	"IN1_TTL", "IN1_NIM", "IN1_LVDS",
	"IN2_TTL", "IN2_NIM", "IN2_LVDS",
	"IN3_TTL", "IN3_OC", "IN3_LVDS",
	"IN4_TTL", "IN4_CMP", "IN4_PECL",
	// 13-28: encoder inputs
	"IN5_ENCA", "IN5_ENCB", "IN5_ENCZ", "IN5_CONN",
	"IN6_ENCA", "IN6_ENCB", "IN6_ENCZ", "IN6_CONN",
	"IN7_ENCA", "IN7_ENCB", "IN7_ENCZ", "IN7_CONN",
	"IN8_ENCA", "IN8_ENCB", "IN8_ENCZ", "IN8_CONN",
	// 29-31: position compare outputs
	"PC_ARM", "PC_GATE", "PC_PULSE",
	// 32-35: AND gate outputs
	"AND1", "AND2", "AND3", "AND4",
	// 36-39: OR gate outputs
	"OR1", "OR2", "OR3", "OR4",
	// 40-43: gate generator outputs
	"GATE1", "GATE2", "GATE3", "GATE4",
	// 44-51: divider outputs, divided then passthrough
	"DIV1_OUTD", "DIV2_OUTD", "DIV3_OUTD", "DIV4_OUTD",
	"DIV1_OUTN", "DIV2_OUTN", "DIV3_OUTN", "DIV4_OUTN",
	// 52-55: pulse generator outputs
	"PULSE1", "PULSE2", "PULSE3", "PULSE4",
	// 56-57: quadrature encoder outputs
	"QUAD_OUTA", "QUAD_OUTB",
	// 58-59: internal clocks
	"CLOCK_1KHZ", "CLOCK_1MHZ",
	// 60-63: software inputs
	"SOFT_IN1", "SOFT_IN2", "SOFT_IN3", "SOFT_IN4",
}

var sysBusIndexes map[string]int

func init() {
	sysBusIndexes = make(map[string]int, SysBusSignalCount)
	for i, name := range sysBusNames {
		sysBusIndexes[name] = i
	}
}

// SysBusName returns the name of system bus signal index (0-63).
// ok is false when the index is out of range.
func SysBusName(index int) (string, bool) {
	if index < 0 || index >= SysBusSignalCount {
		return "", false
	}

	return sysBusNames[index], true
}

// SysBusIndex returns the index of the named system bus signal.
// Names are case-sensitive; ok is false when the name is unknown.
func SysBusIndex(name string) (int, bool) {
	i, ok := sysBusIndexes[name]
	return i, ok
}
