package zebra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-zebra/logger"
)

// ConnState represents the stage of the serial link to the unit.
type ConnState uint32

// Link states.
const (
	// DisconnectedState indicates that the serial link is not open.
	DisconnectedState ConnState = iota
	// ConnectingState indicates that the link is being opened.
	ConnectingState
	// ConnectedState indicates that the link is open and exchanging lines.
	ConnectedState
	// LostState indicates that an open link failed underneath the engine.
	// The connection must be closed and reopened to recover.
	LostState
)

// IsDisconnected returns if the current state is disconnected.
func (cs ConnState) IsDisconnected() bool { return cs == DisconnectedState }

// IsConnecting returns if the current state is connecting.
func (cs ConnState) IsConnecting() bool { return cs == ConnectingState }

// IsConnected returns if the current state is connected.
func (cs ConnState) IsConnected() bool { return cs == ConnectedState }

// IsLost returns if the current state is lost.
func (cs ConnState) IsLost() bool { return cs == LostState }

// String returns string representation of the current state.
func (cs ConnState) String() string {
	switch cs {
	case DisconnectedState:
		return "disconnected"
	case ConnectingState:
		return "connecting"
	case ConnectedState:
		return "connected"
	case LostState:
		return "lost"
	default:
		return "unknown"
	}
}

// ConnStateChangeHandler is a function type that represents a handler for link
// state changes.
//
// Note: the handler will be invoked in a blocking mode. Take care with
// long-running implementations.
//
// The handler function receives two arguments:
//   - prevState: The previous link state.
//   - newState: The current link state.
type ConnStateChangeHandler func(prevState ConnState, newState ConnState)

// ConnStateMgr manages the link state of a device connection.
//
// It provides methods for managing state transitions and notifying listeners
// of state changes. The state transitions are safe for concurrent use.
type ConnStateMgr struct {
	mu               sync.Mutex
	ctx              context.Context
	cond             *sync.Cond
	state            atomic.Uint32
	logger           logger.Logger
	asyncStateChange chan ConnState
	handlers         []ConnStateChangeHandler
}

// NewConnStateMgr creates a new ConnStateMgr instance, initializing it to the
// DisconnectedState.
//
// It accepts optional ConnStateChangeHandler functions that will be invoked
// when the link state changes.
func NewConnStateMgr(ctx context.Context, l logger.Logger, handlers ...ConnStateChangeHandler) *ConnStateMgr {
	if l == nil {
		l = logger.GetLogger()
	}

	connState := &ConnStateMgr{
		ctx:              ctx,
		logger:           l,
		asyncStateChange: make(chan ConnState, 10),
		handlers:         make([]ConnStateChangeHandler, 0, len(handlers)),
	}

	connState.AddHandler(handlers...)

	connState.state.Store(uint32(DisconnectedState))
	connState.cond = sync.NewCond(&connState.mu)

	go connState.asyncStateChangeTask()

	return connState
}

// State returns the current link state.
func (cs *ConnStateMgr) State() ConnState {
	return ConnState(cs.state.Load())
}

// AddHandler adds one or more ConnStateChangeHandler functions to be invoked
// on state changes.
func (cs *ConnStateMgr) AddHandler(handlers ...ConnStateChangeHandler) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.handlers = append(cs.handlers, handlers...)
}

// WaitState waits for the link state to reach one of the specified states or
// until the context is done.
//
// It returns nil when a desired state is reached, or an error when the
// context is canceled or times out.
func (cs *ConnStateMgr) WaitState(ctx context.Context, states ...ConnState) error {
	if len(states) == 0 {
		return nil
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.logger.Debug("wait link state", "curState", cs.State(), "desiredStates", states)

	matched := func() bool {
		cur := cs.State()
		for _, state := range states {
			if cur == state {
				return true
			}
		}

		return false
	}

	if matched() {
		return nil
	}

	stopFunc := context.AfterFunc(ctx, func() {
		cs.cond.Broadcast()
	})
	defer stopFunc()

	for !matched() {
		select {
		case <-ctx.Done():
			cs.logger.Debug("wait link state canceled", "curState", cs.State(), "desiredStates", states)
			return ctx.Err()
		default:
			cs.cond.Wait()
		}
	}

	return nil
}

// ToDisconnected transitions the link state to DisconnectedState.
//
// This transition is allowed from any state and represents a close or a
// reset of the link.
func (cs *ConnStateMgr) ToDisconnected() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	curState := cs.State()

	if curState.IsDisconnected() {
		return // already disconnected, no need to transition
	}

	// change state to disconnected BEFORE the handlers run so that
	// callers observing State() during teardown see the link as down
	cs.setState(DisconnectedState)

	cs.invokeHandlers(curState, DisconnectedState)
}

// ToConnecting transitions the link state to ConnectingState.
//
// This transition is only allowed from DisconnectedState or LostState.
// If the state is already ConnectingState, the function is a no-op.
//
// Returns nil on success, or ErrInvalidTransition otherwise.
func (cs *ConnStateMgr) ToConnecting() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	curState := cs.State()

	if curState.IsConnecting() {
		return nil
	}

	if !curState.IsDisconnected() && !curState.IsLost() {
		return ErrInvalidTransition
	}

	cs.invokeHandlers(curState, ConnectingState)
	// change state after all handlers finished
	cs.setState(ConnectingState)

	return nil
}

// ToConnected transitions the link state to ConnectedState.
//
// This transition is only allowed from ConnectingState and indicates that
// the serial device is open and the session tasks are running.
// If the state is already ConnectedState, the function is a no-op.
//
// Returns nil on success, or ErrInvalidTransition otherwise.
func (cs *ConnStateMgr) ToConnected() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	curState := cs.State()

	if curState.IsConnected() {
		return nil
	}

	if !curState.IsConnecting() {
		return ErrInvalidTransition
	}

	cs.invokeHandlers(curState, ConnectedState)
	// change state after all handlers finished
	cs.setState(ConnectedState)

	return nil
}

// ToLost transitions the link state to LostState.
//
// This transition is only allowed from ConnectedState and indicates that an
// established link failed. If the state is already LostState, the function
// is a no-op.
//
// Returns nil on success, or ErrInvalidTransition otherwise.
func (cs *ConnStateMgr) ToLost() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	curState := cs.State()

	if curState.IsLost() {
		return nil
	}

	if !curState.IsConnected() {
		return ErrInvalidTransition
	}

	cs.invokeHandlers(curState, LostState)
	// change state after all handlers finished
	cs.setState(LostState)

	return nil
}

// ToDisconnectedAsync transitions the link state to DisconnectedState
// asynchronously.
//
// If the state is the same as the current state, the function is a no-op.
func (cs *ConnStateMgr) ToDisconnectedAsync() {
	cs.changeStateAsync(DisconnectedState)
}

// ToConnectingAsync transitions the link state to ConnectingState
// asynchronously.
//
// If the state is the same as the current state, the function is a no-op.
func (cs *ConnStateMgr) ToConnectingAsync() {
	cs.changeStateAsync(ConnectingState)
}

// ToConnectedAsync transitions the link state to ConnectedState
// asynchronously.
//
// If the state is the same as the current state, the function is a no-op.
func (cs *ConnStateMgr) ToConnectedAsync() {
	cs.changeStateAsync(ConnectedState)
}

// ToLostAsync transitions the link state to LostState asynchronously.
//
// It is safe to call from the reader and writer paths; the transition and
// the teardown handlers run on a background goroutine.
//
// If the state is the same as the current state, the function is a no-op.
func (cs *ConnStateMgr) ToLostAsync() {
	cs.changeStateAsync(LostState)
}

// IsDisconnected returns if the current state is disconnected.
func (cs *ConnStateMgr) IsDisconnected() bool {
	return cs.State().IsDisconnected()
}

// IsConnecting returns if the current state is connecting.
func (cs *ConnStateMgr) IsConnecting() bool {
	return cs.State().IsConnecting()
}

// IsConnected returns if the current state is connected.
func (cs *ConnStateMgr) IsConnected() bool {
	return cs.State().IsConnected()
}

// IsLost returns if the current state is lost.
func (cs *ConnStateMgr) IsLost() bool {
	return cs.State().IsLost()
}

// setState atomically sets the current state to newState. It also broadcasts
// a signal to any waiting goroutines.
func (cs *ConnStateMgr) setState(newState ConnState) {
	cs.state.Store(uint32(newState))
	cs.cond.Broadcast()
}

// invokeHandlers invokes all registered ConnStateChangeHandler functions with
// the previous and new states.
func (cs *ConnStateMgr) invokeHandlers(prevState ConnState, newState ConnState) {
	for _, handler := range cs.handlers {
		if handler != nil {
			handler(prevState, newState)
		}
	}
}

// changeStateAsync queues the desired link state for the background
// transition task.
//
// If the state is the same as the current state, the function is a no-op.
func (cs *ConnStateMgr) changeStateAsync(state ConnState) {
	if cs.State() == state {
		return
	}

	cs.asyncStateChange <- state
}

// asyncStateChangeTask handles state changing in the background.
func (cs *ConnStateMgr) asyncStateChangeTask() {
	defer cs.logger.Debug("asyncStateChangeTask terminated")

	for {
		select {
		case <-cs.ctx.Done():
			return

		case desiredState := <-cs.asyncStateChange:
			prevState := cs.State()
			if desiredState == prevState {
				break
			}

			var err error
			switch desiredState {
			case DisconnectedState:
				cs.ToDisconnected()
			case ConnectingState:
				err = cs.ToConnecting()
			case ConnectedState:
				err = cs.ToConnected()
			case LostState:
				err = cs.ToLost()
			}

			if err != nil {
				cs.logger.Error("async link state change failed",
					"prevState", prevState, "curState", cs.State(), "desiredState", desiredState,
					"error", err,
				)
				// fall back to a full teardown; a link whose state cannot
				// advance is not usable
				if errors.Is(err, ErrInvalidTransition) {
					cs.asyncStateChange <- DisconnectedState
				}
			}
		}
	}
}
