package zebra

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

	"github.com/stretchr/testify/require"
)

// fakeUnit emulates a position-compare unit on the far end of an in-memory
// serial line. It keeps a register map and answers commands the way the
// firmware does: R/W echo the address, S and L acknowledge, anything else
// draws E0. Registers marked faulted draw E1.
type fakeUnit struct {
	t testing.TB

	mu        sync.Mutex
	conn      net.Conn
	regs      map[uint8]uint16
	faults    map[uint8]bool
	onCommand func(line string) (reply string, handled bool)
}

func newFakeUnit(t testing.TB) *fakeUnit {
	t.Helper()

	u := &fakeUnit{
		t:      t,
		regs:   make(map[uint8]uint16),
		faults: make(map[uint8]bool),
	}
	t.Cleanup(u.stop)

	return u
}

// dialer returns a Dialer that wires the unit to a fresh in-memory line on
// every call, so each Open gets its own transport like a real reopen does.
func (u *fakeUnit) dialer() Dialer {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		host, unit := net.Pipe()
		u.attach(unit)

		return host, nil
	}
}

func (u *fakeUnit) attach(conn net.Conn) {
	u.mu.Lock()
	if u.conn != nil {
		_ = u.conn.Close()
	}
	u.conn = conn
	u.mu.Unlock()

	go u.serve(conn)
}

func (u *fakeUnit) serve(conn net.Conn) {
	br := bufio.NewReader(conn)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		reply, ok := u.handle(line)
		if !ok {
			continue
		}

		if _, err := io.WriteString(conn, reply+"\n"); err != nil {
			return
		}
	}
}

// handle produces the reply for one command line. The onCommand hook runs
// first; it can rewrite the reply, or swallow the command by returning
// ("", true), or pass through by returning handled=false.
func (u *fakeUnit) handle(line string) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.onCommand != nil {
		if reply, handled := u.onCommand(line); handled {
			return reply, reply != ""
		}
	}

	return u.emulate(line), true
}

func (u *fakeUnit) emulate(line string) string {
	if line == "" {
		return "E0"
	}

	switch line[0] {
	case 'R':
		if len(line) != 3 {
			return "E0"
		}

		addr, err := strconv.ParseUint(line[1:3], 16, 8)
		if err != nil {
			return "E0"
		}

		if u.faults[uint8(addr)] {
			return "E1R" + line[1:3]
		}

		return fmt.Sprintf("R%s%04X", line[1:3], u.regs[uint8(addr)])

	case 'W':
		if len(line) != 7 {
			return "E0"
		}

		addr, err := strconv.ParseUint(line[1:3], 16, 8)
		if err != nil {
			return "E0"
		}

		value, err := strconv.ParseUint(line[3:7], 16, 16)
		if err != nil {
			return "E0"
		}

		if u.faults[uint8(addr)] {
			return "E1W" + line[1:3]
		}

		u.regs[uint8(addr)] = uint16(value)

		return "W" + line[1:3] + "OK"

	case 'S':
		if line != "S" {
			return "E0"
		}

		return "SOK"

	case 'L':
		if line != "L" {
			return "E0"
		}

		return "LOK"

	default:
		return "E0"
	}
}

func (u *fakeUnit) setReg(addr uint8, value uint16) {
	u.mu.Lock()
	u.regs[addr] = value
	u.mu.Unlock()
}

func (u *fakeUnit) reg(addr uint8) uint16 {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.regs[addr]
}

func (u *fakeUnit) fault(addr uint8) {
	u.mu.Lock()
	u.faults[addr] = true
	u.mu.Unlock()
}

func (u *fakeUnit) setOnCommand(hook func(line string) (string, bool)) {
	u.mu.Lock()
	u.onCommand = hook
	u.mu.Unlock()
}

// emit sends an unsolicited line to the host, the way the unit reports
// capture interrupts.
func (u *fakeUnit) emit(line string) error {
	u.mu.Lock()
	conn := u.conn
	u.mu.Unlock()

	if conn == nil {
		return net.ErrClosed
	}

	_, err := io.WriteString(conn, line+"\n")

	return err
}

func (u *fakeUnit) mustEmit(line string) {
	u.t.Helper()
	require.NoError(u.t, u.emit(line), "emit %q failed", line)
}

// dropLink severs the line from the unit side. The host's reader sees EOF,
// which is how a yanked cable looks.
func (u *fakeUnit) dropLink() {
	u.mu.Lock()
	conn := u.conn
	u.conn = nil
	u.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (u *fakeUnit) stop() {
	u.dropLink()
}

// newTestConn creates a Connection wired to the given fake unit with short
// test timeouts. extraOpts override the defaults.
func newTestConn(ctx context.Context, t *testing.T, unit *fakeUnit, extraOpts ...ConnOption) *Connection {
	t.Helper()
	r := require.New(t)

	opts := []ConnOption{
		WithDialer(unit.dialer()),
		WithCommandTimeout(MinCommandTimeout),
		WithFlashTimeout(MinFlashTimeout),
		WithOpenTimeout(MinOpenTimeout),
		WithCloseTimeout(1 * time.Second),
	}
	opts = append(opts, extraOpts...)

	cfg, err := NewConnectionConfig("", opts...)
	r.NoError(err)
	r.NotNil(cfg)

	conn, err := NewConnection(ctx, cfg)
	r.NoError(err)
	r.NotNil(conn)

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// eventRecorder buffers decoder events for assertions.
type eventRecorder struct {
	ch chan Event
}

func newEventRecorder(size int) *eventRecorder {
	return &eventRecorder{ch: make(chan Event, size)}
}

func (rec *eventRecorder) handler() EventHandler {
	return func(event Event) { rec.ch <- event }
}

// next waits for the next recorded event.
func (rec *eventRecorder) next(t testing.TB) Event {
	t.Helper()

	select {
	case event := <-rec.ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

// expectNone asserts that no event arrives within the given window.
func (rec *eventRecorder) expectNone(t testing.TB, window time.Duration) {
	t.Helper()

	select {
	case event := <-rec.ch:
		t.Fatalf("unexpected %s event", event.Type)
	case <-time.After(window):
	}
}
