package zebra

import (
	"math"
	"sync/atomic"

	"github.com/arloliu/go-zebra/regmap"
	"github.com/arloliu/go-zebra/wire"
)

// counterSpan is the range of the unit's 32-bit timestamp counter, used to
// unwrap rollover.
const counterSpan float64 = 1 << 32

// decoder turns capture lines into events.
//
// A single decoder task per session consumes the interrupt channel, so the
// accumulator fields need no locking; mask and scale are atomics because
// callers retune them while the session runs.
type decoder struct {
	conn *Connection

	mask  atomic.Uint32 // wire.CaptureMask
	scale atomic.Uint64 // math.Float64bits, seconds per timestamp count

	captureActive atomic.Bool

	// Timestamp accumulator, session scoped.
	lastRaw uint32
	hasLast bool
	offset  float64
}

func newDecoder(conn *Connection) *decoder {
	d := &decoder{conn: conn}

	// Units ship with PC_TSPRE at the millisecond prescaler.
	scale, _, _ := regmap.TimestampScale(regmap.PrescalerMilliseconds)
	d.setScale(scale)

	return d
}

func (d *decoder) setMask(mask wire.CaptureMask) {
	d.mask.Store(uint32(mask))
}

func (d *decoder) getMask() wire.CaptureMask {
	return wire.CaptureMask(d.mask.Load())
}

func (d *decoder) setScale(scale float64) {
	d.scale.Store(math.Float64bits(scale))
}

func (d *decoder) getScale() float64 {
	return math.Float64frombits(d.scale.Load())
}

// resetAccumulator clears the rollover state so the next capture starts a
// fresh elapsed-time origin.
func (d *decoder) resetAccumulator() {
	d.lastRaw = 0
	d.hasLast = false
	d.offset = 0
}

// resetSession prepares the decoder for a new transport session. Called on
// every Open, before the session tasks start.
func (d *decoder) resetSession() {
	d.resetAccumulator()
	d.captureActive.Store(false)
}

// handleLine decodes one capture line and dispatches the resulting event.
//
// It always returns true: malformed lines become DecodeFailure events,
// never a dead decoder.
func (d *decoder) handleLine(line string) bool {
	mask := d.getMask()

	intr, err := wire.ParseInterrupt(line, mask)
	if err != nil {
		d.conn.metrics.incDecodeErrCount()
		d.conn.logger.Warn("zebra: capture line decode failed", "line", line, "error", err)
		d.conn.dispatchEvent(Event{Type: EventDecodeFailure, Err: &DecodeError{Line: line, Err: err}})

		return true
	}

	switch intr.Kind {
	case wire.InterruptReset:
		d.resetAccumulator()
		d.captureActive.Store(true)
		d.conn.dispatchEvent(Event{Type: EventReset})

	case wire.InterruptEnd:
		d.captureActive.Store(false)
		d.conn.dispatchEvent(Event{Type: EventEnd})

	case wire.InterruptData:
		sample := d.decodeSample(intr, mask, d.getScale())
		d.conn.dispatchEvent(Event{Type: EventSample, Sample: sample})
	}

	return true
}

// decodeSample unwraps the timestamp and splits the raw fields into their
// mask slots. Encoder fields (bits 0 to 3) are signed two's-complement;
// system bus and divider fields are unsigned.
func (d *decoder) decodeSample(intr wire.Interrupt, mask wire.CaptureMask, scale float64) *Sample {
	// The counter wrapped when the raw value moves backwards.
	if d.hasLast && intr.Timestamp < d.lastRaw {
		d.offset += counterSpan * scale
	}

	d.lastRaw = intr.Timestamp
	d.hasLast = true

	sample := &Sample{
		Timestamp: intr.Timestamp,
		Elapsed:   float64(intr.Timestamp)*scale + d.offset,
		Mask:      mask,
	}

	i := 0
	for bit := 0; bit < 10; bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}

		raw := intr.Fields[i]
		i++

		switch {
		case bit < 4:
			sample.Encoders[bit] = int32(raw)
		case bit < 6:
			sample.SysBus[bit-4] = raw
		default:
			sample.Dividers[bit-6] = raw
		}
	}

	return sample
}
