package zebra

import (
	"fmt"
	"time"

	"github.com/arloliu/go-zebra/internal/pool"
	"github.com/arloliu/go-zebra/wire"
)

// ReadRegister reads the 16-bit register at addr.
//
// It fails with a *RegisterError when the unit replies E1R or echoes a
// different address, and with an error wrapping ErrTimeout when no reply
// arrives within the command timeout.
func (c *Connection) ReadRegister(addr uint8) (uint16, error) {
	rsp, err := c.sendCommand(wire.ReadCommand(addr), c.cfg.commandTimeout)
	if err != nil {
		return 0, err
	}

	return rsp.Value, nil
}

// WriteRegister writes value to the 16-bit register at addr.
//
// The unit echoes the address on success; no readback of the written value
// is performed.
func (c *Connection) WriteRegister(addr uint8, value uint16) error {
	_, err := c.sendCommand(wire.WriteCommand(addr, value), c.cfg.commandTimeout)

	return err
}

// ReadRegister32 reads the logical 32-bit value stored in the lo/hi
// register pair and composes it as (hi<<16)|lo.
//
// The two halves are separate exchanges, so the composite is not a
// snapshot; either failure fails the whole operation with no partial value.
func (c *Connection) ReadRegister32(lo, hi uint8) (uint32, error) {
	loVal, err := c.ReadRegister(lo)
	if err != nil {
		return 0, err
	}

	hiVal, err := c.ReadRegister(hi)
	if err != nil {
		return 0, err
	}

	return uint32(hiVal)<<16 | uint32(loVal), nil
}

// WriteRegister32 writes a logical 32-bit value to the lo/hi register pair,
// low half first.
//
// The two halves are separate exchanges; if the second write fails the unit
// is left holding a torn value. The error reports which half failed.
func (c *Connection) WriteRegister32(lo, hi uint8, value uint32) error {
	if err := c.WriteRegister(lo, uint16(value&0xFFFF)); err != nil {
		return err
	}

	return c.WriteRegister(hi, uint16(value>>16))
}

// SaveToFlash persists the active configuration to the unit's flash.
// The unit stalls while erasing, so the flash timeout applies.
func (c *Connection) SaveToFlash() error {
	_, err := c.sendCommand(wire.SaveCommand(), c.cfg.flashTimeout)

	return err
}

// LoadFromFlash restores the configuration stored in the unit's flash.
// The flash timeout applies.
func (c *Connection) LoadFromFlash() error {
	_, err := c.sendCommand(wire.LoadCommand(), c.cfg.flashTimeout)

	return err
}

// sendCommand performs one request/reply exchange.
//
// reqMu serializes callers so at most one command is outstanding on the
// line; the reader task resolves the pending slot with the next
// response-classified line, which sendCommand then validates against the
// command that was sent.
func (c *Connection) sendCommand(cmd wire.Command, timeout time.Duration) (wire.Response, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	if c.shutdown.Load() {
		return wire.Response{}, ErrConnClosed
	}

	if !c.stateMgr.IsConnected() {
		return wire.Response{}, ErrNotConnected
	}

	t := c.getTransport()
	if t == nil {
		return wire.Response{}, ErrNotConnected
	}

	line := cmd.Encode()

	// The pending slot must be installed before the write; the reply can
	// arrive before the write call returns.
	resultCh := c.addPendingRequest(cmd)
	defer c.removePendingRequest()

	if err := t.writeLine(line); err != nil {
		c.metrics.incCmdErrCount()
		c.logger.Error("zebra: command write failed", "command", line, "error", err)
		c.stateMgr.ToLostAsync()

		return wire.Response{}, fmt.Errorf("%w: %v", ErrConnLost, err)
	}

	c.metrics.incCmdSendCount()

	replyTimer := pool.GetTimer(timeout)
	defer pool.PutTimer(replyTimer)

	select {
	case <-c.ctx.Done():
		// Prefer a result that was already delivered over the cancellation.
		select {
		case res := <-resultCh:
			return c.finishCommand(cmd, res)
		default:
		}

		return wire.Response{}, ErrConnClosed

	case <-replyTimer.C:
		c.metrics.incCmdTimeoutCount()
		c.logger.Warn("zebra: command reply timeout", "command", line, "timeout", timeout)

		return wire.Response{}, fmt.Errorf("%w: no reply to %q within %v", ErrTimeout, line, timeout)

	case res := <-resultCh:
		return c.finishCommand(cmd, res)
	}
}

func (c *Connection) finishCommand(cmd wire.Command, res cmdResult) (wire.Response, error) {
	if res.err != nil {
		c.metrics.incCmdErrCount()

		return wire.Response{}, res.err
	}

	if err := validateReply(cmd, res.rsp); err != nil {
		c.metrics.incCmdErrCount()

		return wire.Response{}, err
	}

	return res.rsp, nil
}

// validateReply checks a parsed response against the command that was on
// the wire. The unit echoes the register address in success and fault
// replies alike; a mismatched echo means the exchange is corrupt and is
// reported as a register error on the requested address.
func validateReply(cmd wire.Command, rsp wire.Response) error {
	if rsp.Kind == wire.ResponseBadCommand {
		return fmt.Errorf("%w: unit rejected command %q", ErrProtocol, cmd.Encode())
	}

	switch cmd.Kind {
	case wire.CommandRead:
		switch rsp.Kind {
		case wire.ResponseRead:
			if rsp.Addr != cmd.Addr {
				return &RegisterError{Kind: cmd.Kind, Addr: cmd.Addr, Err: ErrAddrMismatch}
			}

			return nil

		case wire.ResponseReadError:
			return &RegisterError{Kind: cmd.Kind, Addr: rsp.Addr, Err: ErrRegisterFault}
		}

	case wire.CommandWrite:
		switch rsp.Kind {
		case wire.ResponseWriteOK:
			if rsp.Addr != cmd.Addr {
				return &RegisterError{Kind: cmd.Kind, Addr: cmd.Addr, Err: ErrAddrMismatch}
			}

			return nil

		case wire.ResponseWriteError:
			return &RegisterError{Kind: cmd.Kind, Addr: rsp.Addr, Err: ErrRegisterFault}
		}

	case wire.CommandSave:
		if rsp.Kind == wire.ResponseSaveOK {
			return nil
		}

	case wire.CommandLoad:
		if rsp.Kind == wire.ResponseLoadOK {
			return nil
		}
	}

	return fmt.Errorf("%w: unexpected reply %s to command %q", ErrProtocol, rsp.Kind, cmd.Encode())
}
