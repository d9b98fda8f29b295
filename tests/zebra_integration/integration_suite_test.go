package zebraintegration

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/go-zebra/regmap"
	"github.com/arloliu/go-zebra/wire"
	"github.com/arloliu/go-zebra/zebra"
	"github.com/stretchr/testify/require"
)

// simUnit emulates the controller firmware end to end: it answers register
// commands from a register map and, when PC_ARM is written, streams an
// autonomous capture burst interleaved with whatever replies are in flight.
type simUnit struct {
	mu   sync.Mutex
	conn net.Conn
	regs map[uint8]uint16

	burstLen int
	nextTS   uint32
	tsStep   uint32
}

func newSimUnit(t testing.TB, burstLen int, startTS, tsStep uint32) *simUnit {
	t.Helper()

	u := &simUnit{
		regs:     make(map[uint8]uint16),
		burstLen: burstLen,
		nextTS:   startTS,
		tsStep:   tsStep,
	}
	t.Cleanup(u.dropLink)

	return u
}

func (u *simUnit) dialer() zebra.Dialer {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		host, unit := net.Pipe()

		u.mu.Lock()
		if u.conn != nil {
			_ = u.conn.Close()
		}
		u.conn = unit
		u.mu.Unlock()

		go u.serve(unit)

		return host, nil
	}
}

func (u *simUnit) serve(conn net.Conn) {
	br := bufio.NewReader(conn)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		reply := u.handle(line, conn)
		if _, err := io.WriteString(conn, reply+"\n"); err != nil {
			return
		}
	}
}

func (u *simUnit) handle(line string, conn net.Conn) string {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch {
	case len(line) == 3 && line[0] == 'R':
		addr, err := strconv.ParseUint(line[1:3], 16, 8)
		if err != nil {
			return "E0"
		}

		return fmt.Sprintf("R%s%04X", line[1:3], u.regs[uint8(addr)])

	case len(line) == 7 && line[0] == 'W':
		addr, err := strconv.ParseUint(line[1:3], 16, 8)
		if err != nil {
			return "E0"
		}

		value, err := strconv.ParseUint(line[3:7], 16, 16)
		if err != nil {
			return "E0"
		}

		u.regs[uint8(addr)] = uint16(value)

		// Arming fires a capture burst, like the real engine does when the
		// arm source is soft.
		if uint8(addr) == regmap.AddrPCArm && value == 1 {
			mask := wire.CaptureMask(u.regs[regmap.AddrPCBitCap])
			go u.emitBurst(conn, mask, u.burstLen)
		}

		return "W" + line[1:3] + "OK"

	case line == "S":
		return "SOK"

	case line == "L":
		return "LOK"

	default:
		return "E0"
	}
}

// fieldValue is the deterministic payload of capture sample i, field f.
func fieldValue(i, f int) uint32 {
	return uint32(i*1000 + f + 1)
}

// emitBurst streams one full capture sequence: PR, burstLen data lines with
// advancing timestamps, the capture count registers, then PX.
func (u *simUnit) emitBurst(conn net.Conn, mask wire.CaptureMask, burstLen int) {
	if err := u.emit(conn, "PR"); err != nil {
		return
	}

	fields := mask.Count()

	for i := range burstLen {
		u.mu.Lock()
		ts := u.nextTS
		u.nextTS += u.tsStep
		u.mu.Unlock()

		var sb strings.Builder
		fmt.Fprintf(&sb, "P%08X", ts)
		for f := range fields {
			fmt.Fprintf(&sb, "%08X", fieldValue(i, f))
		}

		if err := u.emit(conn, sb.String()); err != nil {
			return
		}
	}

	u.mu.Lock()
	u.regs[regmap.AddrPCNumCapLo] = uint16(burstLen & 0xFFFF)
	u.regs[regmap.AddrPCNumCapHi] = uint16(burstLen >> 16)
	u.mu.Unlock()

	_ = u.emit(conn, "PX")
}

func (u *simUnit) emit(conn net.Conn, line string) error {
	_, err := io.WriteString(conn, line+"\n")
	return err
}

func (u *simUnit) setReg(addr uint8, value uint16) {
	u.mu.Lock()
	u.regs[addr] = value
	u.mu.Unlock()
}

func (u *simUnit) dropLink() {
	u.mu.Lock()
	conn := u.conn
	u.conn = nil
	u.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func newConn(t *testing.T, ctx context.Context, unit *simUnit, extraOpts ...zebra.ConnOption) *zebra.Connection {
	t.Helper()

	opts := []zebra.ConnOption{
		zebra.WithDialer(unit.dialer()),
		zebra.WithCommandTimeout(zebra.MinCommandTimeout),
		zebra.WithFlashTimeout(zebra.MinFlashTimeout),
	}
	opts = append(opts, extraOpts...)

	cfg, err := zebra.NewConnectionConfig("", opts...)
	require.NoError(t, err)

	conn, err := zebra.NewConnection(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// drainUntilQuiet discards buffered events until none arrive for the quiet
// window, flushing whatever an aborted session left in the queues.
func drainUntilQuiet(t *testing.T, events <-chan zebra.Event, quiet time.Duration) {
	t.Helper()

	timer := time.NewTimer(quiet)
	defer timer.Stop()

	for {
		select {
		case <-events:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(quiet)
		case <-timer.C:
			return
		}
	}
}

// collectCapture reads events until the end-of-capture marker and returns
// the decoded samples.
func collectCapture(t *testing.T, events <-chan zebra.Event, timeout time.Duration) []*zebra.Sample {
	t.Helper()

	var samples []*zebra.Sample
	deadline := time.After(timeout)
	started := false

	for {
		select {
		case event := <-events:
			switch event.Type {
			case zebra.EventReset:
				started = true
				samples = samples[:0]

			case zebra.EventSample:
				require.True(t, started, "sample before capture reset")
				samples = append(samples, event.Sample)

			case zebra.EventEnd:
				require.True(t, started, "capture end before reset")
				return samples

			case zebra.EventDecodeFailure:
				t.Fatalf("decode failure: %v", event.Err)
			}

		case <-deadline:
			t.Fatalf("timeout waiting for capture to finish, got %d samples", len(samples))
			return nil
		}
	}
}

func TestZebra_Integration_CaptureWorkflow(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	const burstLen = 5

	unit := newSimUnit(t, burstLen, 0, 1000)
	unit.setReg(regmap.AddrSysVer, 0x0203)

	conn := newConn(t, ctx, unit)

	events := make(chan zebra.Event, 256)
	eventID, err := conn.AddEventHandler(func(event zebra.Event) { events <- event })
	r.NoError(err)
	defer conn.RemoveEventHandler(eventID)

	r.NoError(conn.Open())

	dev := zebra.NewDevice(conn)

	version, err := dev.Version()
	r.NoError(err)
	r.Equal(uint16(0x0203), version)

	mask := wire.CaptureEncoder1 | wire.CaptureDiv1
	r.NoError(dev.SetCaptureMask(mask))
	r.NoError(dev.SetPrescaler(regmap.PrescalerMilliseconds))

	r.NoError(dev.Arm())

	samples := collectCapture(t, events, 10*time.Second)
	r.Len(samples, burstLen)

	for i, s := range samples {
		r.Equal(mask, s.Mask)
		r.Equal(int32(fieldValue(i, 0)), s.Encoders[0], "sample %d encoder", i)
		r.Equal(fieldValue(i, 1), s.Dividers[0], "sample %d divider", i)

		if i > 0 {
			r.Greater(s.Elapsed, samples[i-1].Elapsed, "sample %d elapsed", i)
		}
	}

	// The capture count registers were updated before the end marker.
	count, err := dev.CaptureCount()
	r.NoError(err)
	r.Equal(uint32(burstLen), count)

	r.NoError(dev.Disarm())
	r.NoError(conn.Close())
}

func TestZebra_Integration_RolloverContinuity(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// The timestamp counter wraps after the second sample.
	const burstLen = 8

	unit := newSimUnit(t, burstLen, 0xFFFFFE00, 0x100)
	conn := newConn(t, ctx, unit)

	events := make(chan zebra.Event, 256)
	eventID, err := conn.AddEventHandler(func(event zebra.Event) { events <- event })
	r.NoError(err)
	defer conn.RemoveEventHandler(eventID)

	r.NoError(conn.Open())

	dev := zebra.NewDevice(conn)
	r.NoError(dev.SetCaptureMask(wire.CaptureEncoder1))
	r.NoError(dev.Arm())

	samples := collectCapture(t, events, 10*time.Second)
	r.Len(samples, burstLen)

	wrapped := false
	for i, s := range samples {
		if i == 0 {
			continue
		}

		if s.Timestamp < samples[i-1].Timestamp {
			wrapped = true
		}

		r.Greater(s.Elapsed, samples[i-1].Elapsed,
			"sample %d: elapsed must keep increasing across the counter wrap", i)
	}

	r.True(wrapped, "test burst must cross the 32-bit timestamp boundary")

	r.NoError(conn.Close())
}

func TestZebra_Integration_LinkLossMidCapture(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	unit := newSimUnit(t, 100000, 0, 500)
	conn := newConn(t, ctx, unit)

	events := make(chan zebra.Event, 1024)
	eventID, err := conn.AddEventHandler(func(event zebra.Event) {
		select {
		case events <- event:
		default:
		}
	})
	r.NoError(err)
	defer conn.RemoveEventHandler(eventID)

	r.NoError(conn.Open())

	dev := zebra.NewDevice(conn)
	r.NoError(dev.SetCaptureMask(wire.CaptureEncoder1))
	r.NoError(dev.Arm())

	// Wait for the stream to get going, then yank the cable mid-burst.
	sampleSeen := false
	deadline := time.After(5 * time.Second)
	for !sampleSeen {
		select {
		case event := <-events:
			if event.Type == zebra.EventSample {
				sampleSeen = true
			}
		case <-deadline:
			t.Fatal("timeout waiting for first sample")
		}
	}

	unit.dropLink()
	r.NoError(conn.WaitState(ctx, zebra.LostState))

	// Commands fail while the link is down.
	_, err = dev.Version()
	r.ErrorIs(err, zebra.ErrNotConnected)

	// Flush whatever the dead session left queued so the next capture starts
	// from a clean stream.
	drainUntilQuiet(t, events, 250*time.Millisecond)

	// Reopen and run a short capture on the fresh session.
	unit.mu.Lock()
	unit.burstLen = 3
	unit.mu.Unlock()

	r.NoError(conn.Open())
	r.NoError(dev.SetCaptureMask(wire.CaptureEncoder1))
	r.NoError(dev.Arm())

	samples := collectCapture(t, events, 10*time.Second)
	r.Len(samples, 3)

	r.NoError(conn.Close())
}

func TestZebra_Integration_StabilityUnderCaptureLoad(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const (
		burstLen = 300
		rounds   = 40
	)

	unit := newSimUnit(t, burstLen, 0, 500)
	unit.setReg(regmap.AddrSysVer, 0x0101)

	// Command exchanges race the capture stream here, so give them the
	// stock timeout instead of the minimum.
	conn := newConn(t, ctx, unit, zebra.WithCommandTimeout(time.Second))

	events := make(chan zebra.Event, 512)
	eventID, err := conn.AddEventHandler(func(event zebra.Event) { events <- event })
	r.NoError(err)
	defer conn.RemoveEventHandler(eventID)

	r.NoError(conn.Open())

	dev := zebra.NewDevice(conn)
	r.NoError(dev.SetCaptureMask(wire.CaptureEncoder1))
	r.NoError(dev.Arm())

	// Hammer the command channel from two goroutines while the capture burst
	// floods the same line with interrupt traffic.
	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := range rounds {
			value := uint16(i)
			if err := conn.WriteRegister(regmap.AddrPCDir, value); err != nil {
				errCh <- fmt.Errorf("round %d: write failed: %w", i, err)
				return
			}

			got, err := conn.ReadRegister(regmap.AddrPCDir)
			if err != nil {
				errCh <- fmt.Errorf("round %d: read failed: %w", i, err)
				return
			}
			if got != value {
				errCh <- fmt.Errorf("round %d: read back 0x%04X, want 0x%04X", i, got, value)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := range rounds {
			version, err := dev.Version()
			if err != nil {
				errCh <- fmt.Errorf("round %d: version read failed: %w", i, err)
				return
			}
			if version != 0x0101 {
				errCh <- fmt.Errorf("round %d: version 0x%04X, want 0x0101", i, version)
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		t.Fatal(err)
	case <-done:
	case <-ctx.Done():
		t.Fatal("timeout waiting for command rounds to finish")
	}

	samples := collectCapture(t, events, 15*time.Second)
	r.Len(samples, burstLen)

	for i := 1; i < len(samples); i++ {
		r.Greater(samples[i].Elapsed, samples[i-1].Elapsed, "sample %d elapsed", i)
	}

	metrics := conn.GetMetrics()
	r.Zero(metrics.RspUnexpectedCount.Load())
	r.Zero(metrics.DecodeErrCount.Load())
	r.Zero(metrics.UnknownLineCount.Load())

	r.NoError(conn.Close())
}

func TestZebra_Integration_PollingDuringCapture(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	const burstLen = 200

	unit := newSimUnit(t, burstLen, 0, 500)
	conn := newConn(t, ctx, unit, zebra.WithFastPollInterval(zebra.MinFastPollInterval))

	events := make(chan zebra.Event, 1024)
	eventID, err := conn.AddEventHandler(func(event zebra.Event) { events <- event })
	r.NoError(err)
	defer conn.RemoveEventHandler(eventID)

	r.NoError(conn.Open())

	dev := zebra.NewDevice(conn)
	r.NoError(dev.SetCaptureMask(wire.CaptureEncoder1))

	poller := zebra.NewPoller(conn)
	r.NoError(poller.Start())
	defer poller.Stop()

	r.NoError(dev.Arm())

	// Flip a status register mid-stream; the poller must keep tracking it
	// while interrupt lines flood the link.
	unit.setReg(regmap.AddrSysStatErr, 0x0007)

	r.Eventually(func() bool {
		value, ok := poller.Value(regmap.AddrSysStatErr)
		return ok && value == 0x0007
	}, 10*time.Second, 10*time.Millisecond)

	samples := collectCapture(t, events, 10*time.Second)
	r.Len(samples, burstLen)

	poller.Stop()
	r.NoError(conn.Close())
}
