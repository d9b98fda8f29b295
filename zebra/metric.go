package zebra

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a device connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// CmdSendCount indicates the number of command lines written to the unit.
	CmdSendCount atomic.Uint64
	// CmdErrCount indicates the number of commands that failed with a send,
	// register or protocol error.
	CmdErrCount atomic.Uint64
	// CmdTimeoutCount indicates the number of commands that timed out waiting
	// for a reply.
	CmdTimeoutCount atomic.Uint64

	// RspRecvCount indicates the number of response lines received.
	RspRecvCount atomic.Uint64
	// RspUnexpectedCount indicates the number of response lines received with
	// no command pending.
	RspUnexpectedCount atomic.Uint64

	// InterruptRecvCount indicates the number of interrupt lines received.
	InterruptRecvCount atomic.Uint64
	// InterruptDropCount indicates the number of interrupt lines dropped
	// because the interrupt buffer was full.
	InterruptDropCount atomic.Uint64
	// DecodeErrCount indicates the number of interrupt lines the decoder
	// rejected.
	DecodeErrCount atomic.Uint64

	// EventDropCount indicates the number of events dropped because a
	// subscriber queue was full.
	EventDropCount atomic.Uint64

	// UnknownLineCount indicates the number of unclassifiable lines discarded.
	UnknownLineCount atomic.Uint64
}

func (m *ConnectionMetrics) incCmdSendCount() {
	m.CmdSendCount.Add(1)
}

func (m *ConnectionMetrics) incCmdErrCount() {
	m.CmdErrCount.Add(1)
}

func (m *ConnectionMetrics) incCmdTimeoutCount() {
	m.CmdTimeoutCount.Add(1)
}

func (m *ConnectionMetrics) incRspRecvCount() {
	m.RspRecvCount.Add(1)
}

func (m *ConnectionMetrics) incRspUnexpectedCount() {
	m.RspUnexpectedCount.Add(1)
}

func (m *ConnectionMetrics) incInterruptRecvCount() {
	m.InterruptRecvCount.Add(1)
}

func (m *ConnectionMetrics) incInterruptDropCount() {
	m.InterruptDropCount.Add(1)
}

func (m *ConnectionMetrics) incDecodeErrCount() {
	m.DecodeErrCount.Add(1)
}

func (m *ConnectionMetrics) incEventDropCount() {
	m.EventDropCount.Add(1)
}

func (m *ConnectionMetrics) incUnknownLineCount() {
	m.UnknownLineCount.Add(1)
}
