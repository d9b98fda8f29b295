package zebra

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/arloliu/go-zebra/internal/task"
	"github.com/arloliu/go-zebra/logger"
	"github.com/arloliu/go-zebra/regmap"
	"github.com/puzpuzpuz/xsync/v3"
)

// PollResult is one register read produced by the poll scheduler. Err is
// non-nil when the read failed; Value is only meaningful when Err is nil.
type PollResult struct {
	Addr  uint8
	Value uint16
	Err   error
}

// PollHandler consumes poll results. Handlers are invoked from the poll
// tasks; long-running work should move to the caller's own goroutine.
type PollHandler func(result PollResult)

// Poller reads the unit's status registers at a fast cadence and its
// configuration registers at a slow cadence, publishing every result to the
// registered handlers.
//
// Failed reads are published and logged, never fatal: the schedule keeps
// ticking until Stop is called or the link leaves ConnectedState.
type Poller struct {
	conn    *Connection
	logger  logger.Logger
	taskMgr *task.Manager

	// fastAddrs covers the status and capture-count registers; slowAddrs
	// covers every RW and MUX register in the map.
	fastAddrs []uint8
	slowAddrs []uint8

	handlers   *xsync.MapOf[uint64, PollHandler]
	handlerSeq atomic.Uint64

	// values caches the last good read per address.
	values *xsync.MapOf[uint8, uint16]

	running atomic.Bool
}

// NewPoller creates a poll scheduler bound to conn. The poller stops itself
// when the link drops; it can be started again after the connection is
// reopened.
func NewPoller(conn *Connection) *Poller {
	p := &Poller{
		conn:      conn,
		logger:    conn.GetLogger(),
		taskMgr:   task.NewManager(conn.pctx, conn.GetLogger()),
		fastAddrs: regmap.StatusAddrs(),
		slowAddrs: regmap.ConfigAddrs(),
		handlers:  xsync.NewMapOf[uint64, PollHandler](),
		values:    xsync.NewMapOf[uint8, uint16](),
	}

	conn.OnStateChange(p.connStateHandler)

	return p
}

// AddHandler registers a handler for poll results and returns an id for
// RemoveHandler.
func (p *Poller) AddHandler(handler PollHandler) uint64 {
	id := p.handlerSeq.Add(1)
	p.handlers.Store(id, handler)

	return id
}

// RemoveHandler cancels a handler registration.
func (p *Poller) RemoveHandler(id uint64) {
	p.handlers.Delete(id)
}

// Value returns the last successfully polled value of addr.
func (p *Poller) Value(addr uint8) (uint16, bool) {
	return p.values.Load(addr)
}

// IsRunning reports whether the poll tasks are active.
func (p *Poller) IsRunning() bool {
	return p.running.Load()
}

// Start launches the fast and slow poll tasks. The link must be in
// ConnectedState. Both cadences run one full round immediately so the
// handlers see a complete snapshot without waiting for the slow tick.
func (p *Poller) Start() error {
	if !p.conn.stateMgr.IsConnected() {
		return ErrNotConnected
	}

	if !p.running.CompareAndSwap(false, true) {
		return nil // already running
	}

	// Recycle the tasks of a previous session before starting new ones.
	p.taskMgr.Wait()

	if _, err := p.taskMgr.StartInterval("fastPoll", p.pollFast, p.conn.cfg.fastPollInterval, true); err != nil {
		p.running.Store(false)

		return err
	}

	if _, err := p.taskMgr.StartInterval("slowPoll", p.pollSlow, p.conn.cfg.slowPollInterval, true); err != nil {
		p.taskMgr.Stop()
		p.running.Store(false)

		return err
	}

	p.logger.Debug("zebra: poller started",
		"fastInterval", p.conn.cfg.fastPollInterval,
		"slowInterval", p.conn.cfg.slowPollInterval)

	return nil
}

// Stop halts both cadences. Safe to call repeatedly and while stopped.
func (p *Poller) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}

	p.taskMgr.Stop()
	p.logger.Debug("zebra: poller stopped")
}

// connStateHandler stops the schedule when the link drops. The connection's
// own teardown handler runs first, so in-flight reads fail fast rather than
// waiting out their timeout.
func (p *Poller) connStateHandler(_ ConnState, newState ConnState) {
	if newState == LostState || newState == DisconnectedState {
		p.Stop()
	}
}

func (p *Poller) pollFast() bool {
	return p.pollRound(p.fastAddrs)
}

func (p *Poller) pollSlow() bool {
	return p.pollRound(p.slowAddrs)
}

// pollRound reads one register set, publishing each result. A dead link
// ends the round; any other failure is published and the round continues.
func (p *Poller) pollRound(addrs []uint8) bool {
	for _, addr := range addrs {
		value, err := p.conn.ReadRegister(addr)
		if err != nil {
			if errors.Is(err, ErrConnClosed) || errors.Is(err, ErrNotConnected) || errors.Is(err, ErrConnLost) {
				return false
			}

			p.logger.Warn("zebra: poll read failed",
				"addr", fmt.Sprintf("0x%02X", addr), "error", err)
			p.publish(PollResult{Addr: addr, Err: err})

			continue
		}

		p.values.Store(addr, value)
		p.publish(PollResult{Addr: addr, Value: value})
	}

	return true
}

func (p *Poller) publish(result PollResult) {
	p.handlers.Range(func(_ uint64, handler PollHandler) bool {
		handler(result)

		return true
	})
}
