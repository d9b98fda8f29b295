package zebra

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arloliu/go-zebra/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var level logger.Level

	switch logLevel {
	case "debug":
		level = logger.DebugLevel
	case "info":
		level = logger.InfoLevel
	case "warn":
		level = logger.WarnLevel
	case "error":
		level = logger.ErrorLevel
	default:
		level = logger.InfoLevel
	}

	logger.SetLevel(level)

	os.Exit(m.Run())
}

func TestNewConnection_NilConfig(t *testing.T) {
	conn, err := NewConnection(t.Context(), nil)
	require.ErrorIs(t, err, ErrConfigNil)
	require.Nil(t, conn)
}

func TestConnection_OpenClose(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.True(conn.State().IsDisconnected())

	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	// The link is usable right after Open returns.
	unit.setReg(0x10, 0xABCD)
	value, err := conn.ReadRegister(0x10)
	r.NoError(err)
	r.Equal(uint16(0xABCD), value)

	r.NoError(conn.Close())
	r.True(conn.State().IsDisconnected())

	// Commands after Close fail fast.
	_, err = conn.ReadRegister(0x10)
	r.ErrorIs(err, ErrConnClosed)
}

func TestConnection_OpenTwice(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.NoError(conn.Open())

	// Opening an already open connection is a no-op.
	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	_, err := conn.ReadRegister(0x01)
	r.NoError(err)

	r.NoError(conn.Close())
}

func TestConnection_CloseMultipleTimes(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	// Close before open should be safe.
	r.NoError(conn.Close())

	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	for range 5 {
		r.NoError(conn.Close())
	}

	// Reopen and close again.
	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	_, err := conn.ReadRegister(0x01)
	r.NoError(err)

	for range 3 {
		r.NoError(conn.Close())
	}
}

func TestConnection_DialFailure(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	errDialRefused := errors.New("no such device")

	unit := newFakeUnit(t)
	unitDialer := unit.dialer()

	var fail atomic.Bool
	fail.Store(true)

	cfg, err := NewConnectionConfig("",
		WithDialer(func(ctx context.Context) (io.ReadWriteCloser, error) {
			if fail.Load() {
				return nil, errDialRefused
			}

			return unitDialer(ctx)
		}),
		WithCommandTimeout(MinCommandTimeout),
	)
	r.NoError(err)

	conn, err := NewConnection(ctx, cfg)
	r.NoError(err)
	t.Cleanup(func() { _ = conn.Close() })

	err = conn.Open()
	r.ErrorIs(err, ErrOpenFailed)
	r.Contains(err.Error(), "no such device")
	r.True(conn.State().IsDisconnected())

	// Once the device shows up, Open succeeds.
	fail.Store(false)
	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	_, err = conn.ReadRegister(0x01)
	r.NoError(err)

	r.NoError(conn.Close())
}

func TestConnection_LostLink(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.NoError(conn.Open())

	unit.setReg(0x10, 0xABCD)
	value, err := conn.ReadRegister(0x10)
	r.NoError(err)
	r.Equal(uint16(0xABCD), value)

	// Yank the cable. The reader sees EOF and the link goes to Lost.
	unit.dropLink()
	r.NoError(conn.WaitState(ctx, LostState))

	// The session is torn down; commands fail without touching the line.
	_, err = conn.ReadRegister(0x10)
	r.ErrorIs(err, ErrNotConnected)

	// There is no automatic reconnection; a new Open starts a fresh session.
	r.NoError(conn.Open())
	r.True(conn.State().IsConnected())

	value, err = conn.ReadRegister(0x10)
	r.NoError(err)
	r.Equal(uint16(0xABCD), value)

	r.NoError(conn.Close())
}

func TestConnection_WaitState(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	// Already in the desired state: returns immediately.
	r.NoError(conn.WaitState(ctx, DisconnectedState))

	// Waiting for a state that never comes respects the context.
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	r.ErrorIs(conn.WaitState(waitCtx, ConnectedState), context.DeadlineExceeded)

	r.NoError(conn.Open())
	r.NoError(conn.WaitState(ctx, ConnectedState))

	r.NoError(conn.Close())
	r.NoError(conn.WaitState(ctx, DisconnectedState))
}

func TestConnection_StateChangeHandler(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	var transitions atomic.Int32
	conn.OnStateChange(func(prevState ConnState, newState ConnState) {
		transitions.Add(1)
	})

	r.NoError(conn.Open())  // Disconnected -> Connecting -> Connected
	r.NoError(conn.Close()) // Connected -> Disconnected

	r.Equal(int32(3), transitions.Load())
}

func TestConnection_Metrics(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.NoError(conn.Open())

	for range 3 {
		_, err := conn.ReadRegister(0x01)
		r.NoError(err)
	}

	metrics := conn.GetMetrics()
	r.GreaterOrEqual(metrics.CmdSendCount.Load(), uint64(3))
	r.GreaterOrEqual(metrics.RspRecvCount.Load(), uint64(3))
	r.Equal(uint64(0), metrics.CmdErrCount.Load())
	r.Equal(uint64(0), metrics.CmdTimeoutCount.Load())

	// An unsolicited capture line counts as a received interrupt.
	unit.mustEmit("PR")
	r.Eventually(func() bool {
		return metrics.InterruptRecvCount.Load() == 1
	}, time.Second, 5*time.Millisecond)

	r.NoError(conn.Close())
}

func TestConnection_UnclassifiableLine(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.NoError(conn.Open())

	// Garbage on the line is logged, counted, and discarded.
	unit.mustEmit("X123")
	unit.mustEmit("bogus")

	metrics := conn.GetMetrics()
	r.Eventually(func() bool {
		return metrics.UnknownLineCount.Load() == 2
	}, time.Second, 5*time.Millisecond)

	// The link stays alive and usable.
	r.True(conn.State().IsConnected())
	_, err := conn.ReadRegister(0x01)
	r.NoError(err)

	r.NoError(conn.Close())
}

func TestConnection_UnexpectedResponse(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	unit := newFakeUnit(t)
	conn := newTestConn(ctx, t, unit)

	r.NoError(conn.Open())

	// A response-classified line with no command outstanding is counted
	// and dropped.
	unit.mustEmit("R010000")

	metrics := conn.GetMetrics()
	r.Eventually(func() bool {
		return metrics.RspUnexpectedCount.Load() == 1
	}, time.Second, 5*time.Millisecond)

	_, err := conn.ReadRegister(0x01)
	r.NoError(err)

	r.NoError(conn.Close())
}
