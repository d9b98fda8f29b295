package zebra

import (
	"fmt"

	"github.com/arloliu/go-zebra/regmap"
	"github.com/arloliu/go-zebra/wire"
)

// Device layers register-level helpers over a Connection: arming, capture
// configuration and status decoding. It holds no state of its own; the
// helpers that touch PC_BIT_CAP and PC_TSPRE also retune the connection's
// decoder so capture lines keep parsing correctly.
type Device struct {
	conn *Connection
}

// NewDevice creates a Device wrapping conn.
func NewDevice(conn *Connection) *Device {
	return &Device{conn: conn}
}

// Conn returns the underlying connection.
func (d *Device) Conn() *Connection {
	return d.conn
}

// Arm starts a position-compare acquisition (PC_ARM).
func (d *Device) Arm() error {
	return d.conn.WriteRegister(regmap.AddrPCArm, 1)
}

// Disarm aborts the acquisition (PC_DISARM).
func (d *Device) Disarm() error {
	return d.conn.WriteRegister(regmap.AddrPCDisarm, 1)
}

// SystemReset resets the unit (SYS_RESET). Register state reverts to the
// power-on configuration.
func (d *Device) SystemReset() error {
	return d.conn.WriteRegister(regmap.AddrSysReset, 1)
}

// Version reads the firmware version register (SYS_VER).
func (d *Device) Version() (uint16, error) {
	return d.conn.ReadRegister(regmap.AddrSysVer)
}

// CaptureCount reads the number of samples captured since the last arm
// (PC_NUM_CAP).
func (d *Device) CaptureCount() (uint32, error) {
	return d.conn.ReadRegister32(regmap.AddrPCNumCapLo, regmap.AddrPCNumCapHi)
}

// SetCaptureMask writes PC_BIT_CAP and retunes the decoder so subsequent
// capture lines parse with the new field set.
func (d *Device) SetCaptureMask(mask wire.CaptureMask) error {
	if !mask.Valid() {
		return fmt.Errorf("%w: 0x%04X", wire.ErrInvalidMask, uint16(mask))
	}

	if err := d.conn.WriteRegister(regmap.AddrPCBitCap, uint16(mask)); err != nil {
		return err
	}

	d.conn.SetCaptureMask(mask)

	return nil
}

// CaptureMask reads PC_BIT_CAP and syncs the decoder to it. Call after
// LoadFromFlash to realign the engine with the restored configuration.
func (d *Device) CaptureMask() (wire.CaptureMask, error) {
	value, err := d.conn.ReadRegister(regmap.AddrPCBitCap)
	if err != nil {
		return 0, err
	}

	mask := wire.CaptureMask(value)
	d.conn.SetCaptureMask(mask)

	return mask, nil
}

// SetPrescaler writes PC_TSPRE and retunes the decoder's time scale.
// prescaler must be one of the regmap.Prescaler* values.
func (d *Device) SetPrescaler(prescaler uint16) error {
	scale, _, ok := regmap.TimestampScale(prescaler)
	if !ok {
		return fmt.Errorf("zebra: unsupported prescaler %d", prescaler)
	}

	if err := d.conn.WriteRegister(regmap.AddrPCTSPre, prescaler); err != nil {
		return err
	}

	d.conn.SetTimeScale(scale)

	return nil
}

// Prescaler reads PC_TSPRE. When the value is one of the documented
// prescalers the decoder's time scale is synced to it; an undocumented
// value is returned as-is and the scale is left alone.
func (d *Device) Prescaler() (uint16, error) {
	value, err := d.conn.ReadRegister(regmap.AddrPCTSPre)
	if err != nil {
		return 0, err
	}

	if scale, _, ok := regmap.TimestampScale(value); ok {
		d.conn.SetTimeScale(scale)
	}

	return value, nil
}

// ReadNamed reads a register by its map name.
func (d *Device) ReadNamed(name string) (uint16, error) {
	reg, ok := regmap.ByName(name)
	if !ok {
		return 0, fmt.Errorf("zebra: unknown register %q", name)
	}

	return d.conn.ReadRegister(reg.Addr)
}

// WriteNamed writes a register by its map name.
func (d *Device) WriteNamed(name string, value uint16) error {
	reg, ok := regmap.ByName(name)
	if !ok {
		return fmt.Errorf("zebra: unknown register %q", name)
	}

	return d.conn.WriteRegister(reg.Addr, value)
}

// SystemStatus is a snapshot of the 64 system bus signal levels from
// SYS_STAT1 and SYS_STAT2.
type SystemStatus struct {
	Stat1 uint32 // signals 0-31
	Stat2 uint32 // signals 32-63
}

// Signal reports the level of system bus signal index (0-63). Out-of-range
// indexes read as low.
func (s SystemStatus) Signal(index int) bool {
	if index < 0 || index >= regmap.SysBusSignalCount {
		return false
	}

	if index < 32 {
		return s.Stat1&(1<<uint(index)) != 0
	}

	return s.Stat2&(1<<uint(index-32)) != 0
}

// Armed reports the PC_ARM output level (system bus signal 29).
func (s SystemStatus) Armed() bool {
	return s.Signal(regmap.SysBusPCArm)
}

// Gate reports the PC_GATE output level (system bus signal 30).
func (s SystemStatus) Gate() bool {
	return s.Signal(regmap.SysBusPCGate)
}

// Pulse reports the PC_PULSE output level (system bus signal 31).
func (s SystemStatus) Pulse() bool {
	return s.Signal(regmap.SysBusPCPulse)
}

// SystemStatus reads SYS_STAT1 and SYS_STAT2. Each half is two register
// exchanges, so the snapshot is not atomic across the 64 signals.
func (d *Device) SystemStatus() (SystemStatus, error) {
	stat1, err := d.conn.ReadRegister32(regmap.AddrSysStat1Lo, regmap.AddrSysStat1Hi)
	if err != nil {
		return SystemStatus{}, err
	}

	stat2, err := d.conn.ReadRegister32(regmap.AddrSysStat2Lo, regmap.AddrSysStat2Hi)
	if err != nil {
		return SystemStatus{}, err
	}

	return SystemStatus{Stat1: stat1, Stat2: stat2}, nil
}

// ArmStatus reads the live arm state from the system bus.
func (d *Device) ArmStatus() (bool, error) {
	status, err := d.SystemStatus()
	if err != nil {
		return false, err
	}

	return status.Armed(), nil
}

// StatusError reads the SYS_STATERR register.
func (d *Device) StatusError() (uint16, error) {
	return d.conn.ReadRegister(regmap.AddrSysStatErr)
}
