package zebra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-zebra/internal/pool"
	"github.com/arloliu/go-zebra/internal/task"
	"github.com/arloliu/go-zebra/logger"
	"github.com/arloliu/go-zebra/wire"
	"github.com/puzpuzpuz/xsync/v3"
)

// closeCheckInterval is the interval for checking close status in Close().
const closeCheckInterval = 5 * time.Millisecond

// Connection represents one command/event session with a Zebra unit over a
// single serial line.
//
// It owns the transport, the reader task that splits the byte stream into
// lines and routes them, the single-outstanding command protocol, and the
// decoder task that turns capture lines into events.
type Connection struct {
	pctx      context.Context
	ctx       context.Context
	ctxCancel context.CancelFunc
	cfg       *ConnectionConfig
	logger    logger.Logger

	opState  atomicOpState
	stateMgr *ConnStateMgr
	shutdown atomic.Bool

	// taskMgr runs the per-session tasks (reader and decoder); eventMgr runs
	// the per-subscription event consumers, which outlive individual sessions.
	taskMgr  *task.Manager
	eventMgr *task.Manager

	// Transport resources.
	transportMutex sync.RWMutex
	transport      *lineTransport

	// Command protocol. reqMu serializes senders so at most one command is
	// on the line; pending is the single in-flight slot the reader resolves.
	reqMu     sync.Mutex
	pendingMu sync.Mutex
	pending   *pendingRequest

	// interruptChan carries capture lines from the reader to the decoder.
	// It is recreated on every Open so a stale producer can never feed a
	// new session.
	interruptChan chan string

	dec *decoder

	// Event subscriptions.
	subs   *xsync.MapOf[uint64, *eventSub]
	subSeq atomic.Uint64

	metrics ConnectionMetrics
}

// NewConnection creates a new device Connection with the given context and
// configuration.
//
// The connection starts in DisconnectedState; call [Connection.Open] to
// open the device.
func NewConnection(ctx context.Context, cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	c := &Connection{
		pctx:     ctx,
		cfg:      cfg,
		logger:   cfg.logger,
		taskMgr:  task.NewManager(ctx, cfg.logger),
		eventMgr: task.NewManager(ctx, cfg.logger),
		subs:     xsync.NewMapOf[uint64, *eventSub](),
	}

	c.dec = newDecoder(c)
	c.opState.Set(closedState)
	c.createContext()
	c.stateMgr = NewConnStateMgr(ctx, cfg.logger, c.connStateHandler)

	return c, nil
}

// Open opens the device and starts the session tasks.
//
// Open is synchronous: when it returns nil the link is in ConnectedState
// and commands can be sent. Each Open starts a fresh capture session; the
// timestamp accumulator is cleared. There is no automatic reconnection.
// Opening an already open connection is a no-op.
func (c *Connection) Open() error {
	c.shutdown.Store(false)

	if !c.opState.ToOpening() {
		c.logger.Warn("zebra: failed to set connection to opening state",
			"opState", c.opState.String())

		return nil
	}

	c.createContext()

	if err := c.stateMgr.ToConnecting(); err != nil {
		c.opState.Set(closedState)

		return err
	}

	openCtx, cancel := context.WithTimeout(c.ctx, c.cfg.openTimeout)
	defer cancel()

	rwc, err := c.cfg.dialer(openCtx)
	if err != nil {
		c.opState.Set(closedState)
		c.stateMgr.ToDisconnected()

		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	c.setupTransport(newLineTransport(rwc, c.cfg.writeTimeout))

	if !c.opState.ToOpened() {
		c.logger.Warn("zebra: failed to set connection to opened state",
			"opState", c.opState.String())
	}

	// Fresh session state.
	c.interruptChan = make(chan string, c.cfg.interruptBufferSize)
	c.dec.resetSession()

	if err := c.startSessionTasks(); err != nil {
		c.logger.Error("zebra: failed to start session tasks", "error", err)
		c.stateMgr.ToDisconnected()

		return err
	}

	if err := c.stateMgr.ToConnected(); err != nil {
		c.stateMgr.ToDisconnected()

		return err
	}

	c.logger.Debug("zebra: connection opened", "device", c.cfg.device)

	return nil
}

// Close closes the connection gracefully.
//
// It fails the pending command, stops the session tasks, and releases the
// transport. Close is safe to call multiple times and from any link state.
func (c *Connection) Close() error {
	c.shutdown.Store(true)

	c.logger.Debug("zebra: start to close connection", "opState", c.opState.String())

	if !c.isClosed() {
		c.stateMgr.ToDisconnected()
	}

	closeTimer := pool.GetTimer(c.cfg.closeTimeout)
	defer pool.PutTimer(closeTimer)

	checkTicker := time.NewTicker(closeCheckInterval)
	defer checkTicker.Stop()

	for {
		select {
		case <-closeTimer.C:
			if c.isClosed() {
				return nil
			}

			c.logger.Error("zebra: close connection timeout",
				"timeout", c.cfg.closeTimeout,
				"opState", c.opState.String())

			return errors.New("zebra: close connection timeout")

		case <-checkTicker.C:
			if c.isClosed() {
				return nil
			}
		}
	}
}

// State returns the current link state.
func (c *Connection) State() ConnState {
	return c.stateMgr.State()
}

// WaitState blocks until the link reaches one of the given states or ctx is
// done.
func (c *Connection) WaitState(ctx context.Context, states ...ConnState) error {
	return c.stateMgr.WaitState(ctx, states...)
}

// OnStateChange registers handlers invoked on every link state change.
func (c *Connection) OnStateChange(handlers ...ConnStateChangeHandler) {
	c.stateMgr.AddHandler(handlers...)
}

// GetLogger returns the logger associated with the connection.
func (c *Connection) GetLogger() logger.Logger {
	return c.logger
}

// GetMetrics returns the metrics associated with the connection.
func (c *Connection) GetMetrics() *ConnectionMetrics {
	return &c.metrics
}

// SetCaptureMask tells the decoder which fields accompany each capture
// line. It mirrors the PC_BIT_CAP register; [Device.SetCaptureMask] keeps
// the register and the decoder in step.
func (c *Connection) SetCaptureMask(mask wire.CaptureMask) {
	c.dec.setMask(mask)
}

// CaptureMask returns the decoder's active capture mask.
func (c *Connection) CaptureMask() wire.CaptureMask {
	return c.dec.getMask()
}

// SetTimeScale sets the decoder's elapsed-time scale in seconds per
// timestamp count. It mirrors the PC_TSPRE register; [Device.SetPrescaler]
// keeps the register and the decoder in step.
func (c *Connection) SetTimeScale(scale float64) {
	c.dec.setScale(scale)
}

// TimeScale returns the decoder's elapsed-time scale in seconds per
// timestamp count.
func (c *Connection) TimeScale() float64 {
	return c.dec.getScale()
}

// CaptureActive reports whether an acquisition is in progress, i.e. a Reset
// interrupt arrived without a matching End.
func (c *Connection) CaptureActive() bool {
	return c.dec.captureActive.Load()
}

// --- Connection lifecycle ---

func (c *Connection) createContext() {
	c.ctx, c.ctxCancel = context.WithCancel(c.pctx)
}

func (c *Connection) isClosed() bool {
	return c.opState.IsClosed() && c.stateMgr.IsDisconnected()
}

// connStateHandler reacts to link state changes. Lost and Disconnected both
// tear the session down; the difference is who initiated it.
func (c *Connection) connStateHandler(prevState ConnState, newState ConnState) {
	c.logger.Debug("zebra: link state change", "prev", prevState, "state", newState)

	switch newState {
	case LostState:
		c.failPending(ErrConnLost)
		_ = c.closeConn(c.cfg.closeTimeout)

	case DisconnectedState:
		_ = c.closeConn(c.cfg.closeTimeout)

	case ConnectingState, ConnectedState:
		// Open drives these transitions synchronously.
	}
}

// closeConn performs the full session teardown: fails the pending command,
// cancels the session context, closes the transport, and waits for the
// session tasks with a timeout.
func (c *Connection) closeConn(timeout time.Duration) error {
	if !c.opState.ToClosing() {
		if c.opState.IsClosed() {
			return nil
		}

		c.logger.Warn("zebra: failed to set connection to closing state",
			"opState", c.opState.String())

		return fmt.Errorf("zebra: failed to set connection to closing state: %s", c.opState.String())
	}

	closeCtx, closeCtxCancel := context.WithTimeout(context.Background(), timeout)
	defer closeCtxCancel()

	c.failPending(ErrConnClosed)

	// Cancel the session context.
	if c.ctxCancel != nil {
		c.ctxCancel()
	}

	// Close the transport to unblock the reader task.
	c.closeTransport()

	// Stop the session tasks.
	c.taskMgr.Stop()

	// Wait for task termination with timeout.
	go func() {
		c.taskMgr.Wait()
		closeCtxCancel()
	}()

	<-closeCtx.Done()

	var closeErr error
	if !errors.Is(closeCtx.Err(), context.Canceled) {
		c.logger.Error("zebra: close timeout", "error", closeCtx.Err(), "timeout", timeout)
		closeErr = fmt.Errorf("zebra: close timeout: %w", closeCtx.Err())
	}

	if !c.opState.ToClosed() {
		c.logger.Warn("zebra: failed to set connection to closed state",
			"opState", c.opState.String())

		return fmt.Errorf("zebra: failed to set connection to closed state: %s", c.opState.String())
	}

	c.logger.Debug("zebra: connection closed", "device", c.cfg.device)

	return closeErr
}

// --- Transport resource management ---

func (c *Connection) setupTransport(t *lineTransport) {
	c.transportMutex.Lock()
	defer c.transportMutex.Unlock()

	c.transport = t
}

func (c *Connection) getTransport() *lineTransport {
	c.transportMutex.RLock()
	defer c.transportMutex.RUnlock()

	return c.transport
}

func (c *Connection) closeTransport() {
	c.transportMutex.Lock()
	t := c.transport
	// Nil the reference under the write lock so subsequent calls are no-ops.
	c.transport = nil
	c.transportMutex.Unlock()

	if t == nil {
		return
	}

	if err := t.close(); err != nil {
		c.logger.Debug("zebra: failed to close transport", "error", err)
	}
}

// --- Session tasks ---

// startSessionTasks starts the reader and the decoder for the current
// transport. The channel between them is captured here so that a task from
// an old session can never touch a new session's buffer.
func (c *Connection) startSessionTasks() error {
	t := c.getTransport()
	if t == nil {
		return ErrNotConnected
	}

	intCh := c.interruptChan

	err := c.taskMgr.StartReader("lineReader", func() bool {
		return c.readLineTask(t, intCh)
	}, func() {
		_ = t.close()
	})
	if err != nil {
		return err
	}

	return task.StartReceiver(c.taskMgr, "captureDecoder", intCh, c.dec.handleLine, nil)
}

// readLineTask reads one line and routes it. Returning false stops the
// reader task.
func (c *Connection) readLineTask(t *lineTransport, intCh chan<- string) bool {
	line, err := t.readLine()
	if err != nil {
		// Expected during shutdown; the transport is closed under the reader.
		if c.shutdown.Load() || c.ctx.Err() != nil {
			return false
		}

		c.logger.Debug("zebra: transport read failed", "error", err)
		c.stateMgr.ToLostAsync()

		return false
	}

	if line == "" {
		return true
	}

	c.dispatchLine(line, intCh)

	return true
}

// dispatchLine routes one received line by its first byte: capture traffic
// to the decoder, everything the unit sends in reply to commands to the
// pending slot.
func (c *Connection) dispatchLine(line string, intCh chan<- string) {
	switch wire.Classify(line) {
	case wire.ClassInterrupt:
		c.metrics.incInterruptRecvCount()

		select {
		case intCh <- line:
		default:
			c.metrics.incInterruptDropCount()
			c.logger.Warn("zebra: interrupt buffer full, dropping line", "line", line)
		}

	case wire.ClassResponse:
		c.metrics.incRspRecvCount()
		c.completePending(line)

	default:
		c.metrics.incUnknownLineCount()
		c.logger.Warn("zebra: unclassifiable line discarded", "line", line)
	}
}

// --- Pending request management ---

// pendingRequest is the single in-flight command slot.
type pendingRequest struct {
	cmd      wire.Command
	resultCh chan cmdResult
}

type cmdResult struct {
	rsp wire.Response
	err error
}

func (c *Connection) addPendingRequest(cmd wire.Command) chan cmdResult {
	ch := make(chan cmdResult, 1)

	c.pendingMu.Lock()
	c.pending = &pendingRequest{cmd: cmd, resultCh: ch}
	c.pendingMu.Unlock()

	return ch
}

func (c *Connection) removePendingRequest() {
	c.pendingMu.Lock()
	c.pending = nil
	c.pendingMu.Unlock()
}

// takePending detaches and returns the pending request, or nil when no
// command is waiting. Taking the slot makes resolution exactly-once.
func (c *Connection) takePending() *pendingRequest {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	p := c.pending
	c.pending = nil

	return p
}

// completePending resolves the pending command with a response line.
//
// A response line with no command waiting (late reply after a timeout, or
// a spontaneous error report) is counted and discarded.
func (c *Connection) completePending(line string) {
	p := c.takePending()
	if p == nil {
		c.metrics.incRspUnexpectedCount()
		c.logger.Warn("zebra: response with no pending command", "line", line)

		return
	}

	rsp, err := wire.ParseResponse(line)
	if err != nil {
		p.resultCh <- cmdResult{err: fmt.Errorf("%w: %v", ErrProtocol, err)}

		return
	}

	p.resultCh <- cmdResult{rsp: rsp}
}

// failPending resolves the pending command with err, if one is waiting.
func (c *Connection) failPending(err error) {
	p := c.takePending()
	if p == nil {
		return
	}

	p.resultCh <- cmdResult{err: err}
}
