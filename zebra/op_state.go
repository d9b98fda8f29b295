package zebra

import "sync/atomic"

// opState tracks the open/close lifecycle of a connection, independent of
// the link state: Closed -> Opening -> Opened -> Closing -> Closed.
type opState uint32

const (
	closedState opState = iota
	closingState
	openingState
	openedState
)

// atomicOpState is a lock-free holder for the lifecycle state. The To*
// methods perform the legal transitions with compare-and-swap so that
// concurrent Open/Close calls cannot both win.
type atomicOpState struct {
	state atomic.Uint32
}

func (st *atomicOpState) String() string {
	switch st.Get() {
	case closedState:
		return "Closed"
	case closingState:
		return "Closing"
	case openingState:
		return "Opening"
	case openedState:
		return "Opened"
	default:
		return "Unknown"
	}
}

// Get returns the current state.
func (st *atomicOpState) Get() opState {
	return opState(st.state.Load())
}

// Set sets the state unconditionally.
func (st *atomicOpState) Set(state opState) {
	st.state.Store(uint32(state))
}

func (st *atomicOpState) IsClosed() bool {
	return st.Get() == closedState
}

func (st *atomicOpState) IsClosing() bool {
	return st.Get() == closingState
}

func (st *atomicOpState) IsOpening() bool {
	return st.Get() == openingState
}

func (st *atomicOpState) IsOpened() bool {
	return st.Get() == openedState
}

func (st *atomicOpState) ToOpening() bool {
	return st.state.CompareAndSwap(uint32(closedState), uint32(openingState))
}

func (st *atomicOpState) ToOpened() bool {
	if st.IsOpened() {
		return true
	}

	return st.state.CompareAndSwap(uint32(openingState), uint32(openedState))
}

func (st *atomicOpState) ToClosing() bool {
	result := st.state.CompareAndSwap(uint32(openedState), uint32(closingState))
	if !result {
		return st.state.CompareAndSwap(uint32(openingState), uint32(closingState))
	}

	return result
}

func (st *atomicOpState) ToClosed() bool {
	if st.IsClosed() {
		return true
	}

	return st.state.CompareAndSwap(uint32(closingState), uint32(closedState))
}
