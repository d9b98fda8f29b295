package regmap

// registers is the full 16-bit register table in address order.
var registers = []Register{
	// AND gate inversion and enable masks
	{Name: "AND1_INV", Addr: 0x00, Class: ClassRW},
	{Name: "AND2_INV", Addr: 0x01, Class: ClassRW},
	{Name: "AND3_INV", Addr: 0x02, Class: ClassRW},
	{Name: "AND4_INV", Addr: 0x03, Class: ClassRW},
	{Name: "AND1_ENA", Addr: 0x04, Class: ClassRW},
	{Name: "AND2_ENA", Addr: 0x05, Class: ClassRW},
	{Name: "AND3_ENA", Addr: 0x06, Class: ClassRW},
	{Name: "AND4_ENA", Addr: 0x07, Class: ClassRW},

	// AND gate input sources
	{Name: "AND1_INP1", Addr: 0x08, Class: ClassMux},
	{Name: "AND1_INP2", Addr: 0x09, Class: ClassMux},
	{Name: "AND1_INP3", Addr: 0x0A, Class: ClassMux},
	{Name: "AND1_INP4", Addr: 0x0B, Class: ClassMux},
	{Name: "AND2_INP1", Addr: 0x0C, Class: ClassMux},
	{Name: "AND2_INP2", Addr: 0x0D, Class: ClassMux},
	{Name: "AND2_INP3", Addr: 0x0E, Class: ClassMux},
	{Name: "AND2_INP4", Addr: 0x0F, Class: ClassMux},
	{Name: "AND3_INP1", Addr: 0x10, Class: ClassMux},
	{Name: "AND3_INP2", Addr: 0x11, Class: ClassMux},
	{Name: "AND3_INP3", Addr: 0x12, Class: ClassMux},
	{Name: "AND3_INP4", Addr: 0x13, Class: ClassMux},
	{Name: "AND4_INP1", Addr: 0x14, Class: ClassMux},
	{Name: "AND4_INP2", Addr: 0x15, Class: ClassMux},
	{Name: "AND4_INP3", Addr: 0x16, Class: ClassMux},
	{Name: "AND4_INP4", Addr: 0x17, Class: ClassMux},

	// OR gate inversion and enable masks
	{Name: "OR1_INV", Addr: 0x18, Class: ClassRW},
	{Name: "OR2_INV", Addr: 0x19, Class: ClassRW},
	{Name: "OR3_INV", Addr: 0x1A, Class: ClassRW},
	{Name: "OR4_INV", Addr: 0x1B, Class: ClassRW},
	{Name: "OR1_ENA", Addr: 0x1C, Class: ClassRW},
	{Name: "OR2_ENA", Addr: 0x1D, Class: ClassRW},
	{Name: "OR3_ENA", Addr: 0x1E, Class: ClassRW},
	{Name: "OR4_ENA", Addr: 0x1F, Class: ClassRW},

	// OR gate input sources
	{Name: "OR1_INP1", Addr: 0x20, Class: ClassMux},
	{Name: "OR1_INP2", Addr: 0x21, Class: ClassMux},
	{Name: "OR1_INP3", Addr: 0x22, Class: ClassMux},
	{Name: "OR1_INP4", Addr: 0x23, Class: ClassMux},
	{Name: "OR2_INP1", Addr: 0x24, Class: ClassMux},
	{Name: "OR2_INP2", Addr: 0x25, Class: ClassMux},
	{Name: "OR2_INP3", Addr: 0x26, Class: ClassMux},
	{Name: "OR2_INP4", Addr: 0x27, Class: ClassMux},
	{Name: "OR3_INP1", Addr: 0x28, Class: ClassMux},
	{Name: "OR3_INP2", Addr: 0x29, Class: ClassMux},
	{Name: "OR3_INP3", Addr: 0x2A, Class: ClassMux},
	{Name: "OR3_INP4", Addr: 0x2B, Class: ClassMux},
	{Name: "OR4_INP1", Addr: 0x2C, Class: ClassMux},
	{Name: "OR4_INP2", Addr: 0x2D, Class: ClassMux},
	{Name: "OR4_INP3", Addr: 0x2E, Class: ClassMux},
	{Name: "OR4_INP4", Addr: 0x2F, Class: ClassMux},

	// Gate generator trigger and reset inputs
	{Name: "GATE1_INP1", Addr: 0x30, Class: ClassMux},
	{Name: "GATE2_INP1", Addr: 0x31, Class: ClassMux},
	{Name: "GATE3_INP1", Addr: 0x32, Class: ClassMux},
	{Name: "GATE4_INP1", Addr: 0x33, Class: ClassMux},
	{Name: "GATE1_INP2", Addr: 0x34, Class: ClassMux},
	{Name: "GATE2_INP2", Addr: 0x35, Class: ClassMux},
	{Name: "GATE3_INP2", Addr: 0x36, Class: ClassMux},
	{Name: "GATE4_INP2", Addr: 0x37, Class: ClassMux},

	// Divider divisors (32-bit LO/HI pairs) and input sources
	{Name: "DIV1_DIVLO", Addr: 0x38, Class: ClassRW},
	{Name: "DIV1_DIVHI", Addr: 0x39, Class: ClassRW},
	{Name: "DIV2_DIVLO", Addr: 0x3A, Class: ClassRW},
	{Name: "DIV2_DIVHI", Addr: 0x3B, Class: ClassRW},
	{Name: "DIV3_DIVLO", Addr: 0x3C, Class: ClassRW},
	{Name: "DIV3_DIVHI", Addr: 0x3D, Class: ClassRW},
	{Name: "DIV4_DIVLO", Addr: 0x3E, Class: ClassRW},
	{Name: "DIV4_DIVHI", Addr: 0x3F, Class: ClassRW},
	{Name: "DIV1_INP", Addr: 0x40, Class: ClassMux},
	{Name: "DIV2_INP", Addr: 0x41, Class: ClassMux},
	{Name: "DIV3_INP", Addr: 0x42, Class: ClassMux},
	{Name: "DIV4_INP", Addr: 0x43, Class: ClassMux},

	// Pulse generator delay, width, prescaler and input sources
	{Name: "PULSE1_DLY", Addr: 0x44, Class: ClassRW},
	{Name: "PULSE2_DLY", Addr: 0x45, Class: ClassRW},
	{Name: "PULSE3_DLY", Addr: 0x46, Class: ClassRW},
	{Name: "PULSE4_DLY", Addr: 0x47, Class: ClassRW},
	{Name: "PULSE1_WID", Addr: 0x48, Class: ClassRW},
	{Name: "PULSE2_WID", Addr: 0x49, Class: ClassRW},
	{Name: "PULSE3_WID", Addr: 0x4A, Class: ClassRW},
	{Name: "PULSE4_WID", Addr: 0x4B, Class: ClassRW},
	{Name: "PULSE1_PRE", Addr: 0x4C, Class: ClassRW},
	{Name: "PULSE2_PRE", Addr: 0x4D, Class: ClassRW},
	{Name: "PULSE3_PRE", Addr: 0x4E, Class: ClassRW},
	{Name: "PULSE4_PRE", Addr: 0x4F, Class: ClassRW},
	{Name: "PULSE1_INP", Addr: 0x50, Class: ClassMux},
	{Name: "PULSE2_INP", Addr: 0x51, Class: ClassMux},
	{Name: "PULSE3_INP", Addr: 0x52, Class: ClassMux},
	{Name: "PULSE4_INP", Addr: 0x53, Class: ClassMux},

	// Polarity, quadrature encoder and external position-compare inputs
	{Name: "POLARITY", Addr: 0x54, Class: ClassRW},
	{Name: "QUAD_DIR", Addr: 0x55, Class: ClassMux},
	{Name: "QUAD_STEP", Addr: 0x56, Class: ClassMux},
	{Name: "PC_ARM_INP", Addr: 0x57, Class: ClassMux},
	{Name: "PC_GATE_INP", Addr: 0x58, Class: ClassMux},
	{Name: "PC_PULSE_INP", Addr: 0x59, Class: ClassMux},

	// Output routing
	{Name: "OUT1_TTL", Addr: 0x60, Class: ClassMux},
	{Name: "OUT1_NIM", Addr: 0x61, Class: ClassMux},
	{Name: "OUT1_LVDS", Addr: 0x62, Class: ClassMux},
	{Name: "OUT2_TTL", Addr: 0x63, Class: ClassMux},
	{Name: "OUT2_NIM", Addr: 0x64, Class: ClassMux},
	{Name: "OUT2_LVDS", Addr: 0x65, Class: ClassMux},
	{Name: "OUT3_TTL", Addr: 0x66, Class: ClassMux},
	{Name: "OUT3_OC", Addr: 0x67, Class: ClassMux},
	{Name: "OUT3_LVDS", Addr: 0x68, Class: ClassMux},
	{Name: "OUT4_TTL", Addr: 0x69, Class: ClassMux},
	{Name: "OUT4_NIM", Addr: 0x6A, Class: ClassMux},
	{Name: "OUT4_PECL", Addr: 0x6B, Class: ClassMux},
	{Name: "OUT5_ENCA", Addr: 0x6C, Class: ClassMux},
	{Name: "OUT5_ENCB", Addr: 0x6D, Class: ClassMux},
	{Name: "OUT5_ENCZ", Addr: 0x6E, Class: ClassMux},
	{Name: "OUT5_CONN", Addr: 0x6F, Class: ClassMux},
	{Name: "OUT6_ENCA", Addr: 0x70, Class: ClassMux},
	{Name: "OUT6_ENCB", Addr: 0x71, Class: ClassMux},
	{Name: "OUT6_ENCZ", Addr: 0x72, Class: ClassMux},
	{Name: "OUT6_CONN", Addr: 0x73, Class: ClassMux},
	{Name: "OUT7_ENCA", Addr: 0x74, Class: ClassMux},
	{Name: "OUT7_ENCB", Addr: 0x75, Class: ClassMux},
	{Name: "OUT7_ENCZ", Addr: 0x76, Class: ClassMux},
	{Name: "OUT7_CONN", Addr: 0x77, Class: ClassMux},
	{Name: "OUT8_ENCA", Addr: 0x78, Class: ClassMux},
	{Name: "OUT8_ENCB", Addr: 0x79, Class: ClassMux},
	{Name: "OUT8_ENCZ", Addr: 0x7A, Class: ClassMux},
	{Name: "OUT8_CONN", Addr: 0x7B, Class: ClassMux},

	// Divider behavior, system reset and software inputs
	{Name: "DIV_FIRST", Addr: 0x7C, Class: ClassRW},
	{Name: "SYS_RESET", Addr: 0x7E, Class: ClassCmd},
	{Name: "SOFT_IN", Addr: 0x7F, Class: ClassRW},

	// Encoder position loads (32-bit CMD pairs)
	{Name: "POS1_SETLO", Addr: 0x80, Class: ClassCmd},
	{Name: "POS1_SETHI", Addr: 0x81, Class: ClassCmd},
	{Name: "POS2_SETLO", Addr: 0x82, Class: ClassCmd},
	{Name: "POS2_SETHI", Addr: 0x83, Class: ClassCmd},
	{Name: "POS3_SETLO", Addr: 0x84, Class: ClassCmd},
	{Name: "POS3_SETHI", Addr: 0x85, Class: ClassCmd},
	{Name: "POS4_SETLO", Addr: 0x86, Class: ClassCmd},
	{Name: "POS4_SETHI", Addr: 0x87, Class: ClassCmd},

	// Position compare configuration
	{Name: "PC_ENC", Addr: 0x88, Class: ClassRW},
	{Name: "PC_TSPRE", Addr: 0x89, Class: ClassRW},
	{Name: "PC_ARM_SEL", Addr: 0x8A, Class: ClassRW},
	{Name: "PC_ARM", Addr: 0x8B, Class: ClassCmd},
	{Name: "PC_DISARM", Addr: 0x8C, Class: ClassCmd},
	{Name: "PC_GATE_SEL", Addr: 0x8D, Class: ClassRW},
	{Name: "PC_GATE_STARTLO", Addr: 0x8E, Class: ClassRW},
	{Name: "PC_GATE_STARTHI", Addr: 0x8F, Class: ClassRW},
	{Name: "PC_GATE_WIDLO", Addr: 0x90, Class: ClassRW},
	{Name: "PC_GATE_WIDHI", Addr: 0x91, Class: ClassRW},
	{Name: "PC_GATE_NGATELO", Addr: 0x92, Class: ClassRW},
	{Name: "PC_GATE_NGATEHI", Addr: 0x93, Class: ClassRW},
	{Name: "PC_GATE_STEPLO", Addr: 0x94, Class: ClassRW},
	{Name: "PC_GATE_STEPHI", Addr: 0x95, Class: ClassRW},
	{Name: "PC_PULSE_SEL", Addr: 0x96, Class: ClassRW},
	{Name: "PC_PULSE_STARTLO", Addr: 0x97, Class: ClassRW},
	{Name: "PC_PULSE_STARTHI", Addr: 0x98, Class: ClassRW},
	{Name: "PC_PULSE_WIDLO", Addr: 0x99, Class: ClassRW},
	{Name: "PC_PULSE_WIDHI", Addr: 0x9A, Class: ClassRW},
	{Name: "PC_PULSE_STEPLO", Addr: 0x9B, Class: ClassRW},
	{Name: "PC_PULSE_STEPHI", Addr: 0x9C, Class: ClassRW},
	{Name: "PC_PULSE_MAXLO", Addr: 0x9D, Class: ClassRW},
	{Name: "PC_PULSE_MAXHI", Addr: 0x9E, Class: ClassRW},
	{Name: "PC_BIT_CAP", Addr: 0x9F, Class: ClassRW},
	{Name: "PC_DIR", Addr: 0xA0, Class: ClassRW},
	{Name: "PC_PULSE_DLYLO", Addr: 0xA1, Class: ClassRW},
	{Name: "PC_PULSE_DLYHI", Addr: 0xA2, Class: ClassRW},

	// Read-only status block
	{Name: "SYS_VER", Addr: 0xF0, Class: ClassRO},
	{Name: "SYS_STATERR", Addr: 0xF1, Class: ClassRO},
	{Name: "SYS_STAT1LO", Addr: 0xF2, Class: ClassRO},
	{Name: "SYS_STAT1HI", Addr: 0xF3, Class: ClassRO},
	{Name: "SYS_STAT2LO", Addr: 0xF4, Class: ClassRO},
	{Name: "SYS_STAT2HI", Addr: 0xF5, Class: ClassRO},
	{Name: "PC_NUM_CAPLO", Addr: 0xF6, Class: ClassRO},
	{Name: "PC_NUM_CAPHI", Addr: 0xF7, Class: ClassRO},
}

// registers32 lists the logical 32-bit values stored as LO/HI pairs.
var registers32 = []Register32{
	{Name: "DIV1_DIV", Lo: 0x38, Hi: 0x39, Class: ClassRW},
	{Name: "DIV2_DIV", Lo: 0x3A, Hi: 0x3B, Class: ClassRW},
	{Name: "DIV3_DIV", Lo: 0x3C, Hi: 0x3D, Class: ClassRW},
	{Name: "DIV4_DIV", Lo: 0x3E, Hi: 0x3F, Class: ClassRW},
	{Name: "POS1_SET", Lo: 0x80, Hi: 0x81, Class: ClassCmd},
	{Name: "POS2_SET", Lo: 0x82, Hi: 0x83, Class: ClassCmd},
	{Name: "POS3_SET", Lo: 0x84, Hi: 0x85, Class: ClassCmd},
	{Name: "POS4_SET", Lo: 0x86, Hi: 0x87, Class: ClassCmd},
	{Name: "PC_GATE_START", Lo: 0x8E, Hi: 0x8F, Class: ClassRW},
	{Name: "PC_GATE_WID", Lo: 0x90, Hi: 0x91, Class: ClassRW},
	{Name: "PC_GATE_NGATE", Lo: 0x92, Hi: 0x93, Class: ClassRW},
	{Name: "PC_GATE_STEP", Lo: 0x94, Hi: 0x95, Class: ClassRW},
	{Name: "PC_PULSE_START", Lo: 0x97, Hi: 0x98, Class: ClassRW},
	{Name: "PC_PULSE_WID", Lo: 0x99, Hi: 0x9A, Class: ClassRW},
	{Name: "PC_PULSE_STEP", Lo: 0x9B, Hi: 0x9C, Class: ClassRW},
	{Name: "PC_PULSE_MAX", Lo: 0x9D, Hi: 0x9E, Class: ClassRW},
	{Name: "PC_PULSE_DLY", Lo: 0xA1, Hi: 0xA2, Class: ClassRW},
	{Name: "SYS_STAT1", Lo: 0xF2, Hi: 0xF3, Class: ClassRO},
	{Name: "SYS_STAT2", Lo: 0xF4, Hi: 0xF5, Class: ClassRO},
	{Name: "PC_NUM_CAP", Lo: 0xF6, Hi: 0xF7, Class: ClassRO},
}
