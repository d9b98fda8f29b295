package zebra

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/go-zebra/internal/task"
	"github.com/arloliu/go-zebra/wire"
)

// EventType identifies what a capture event carries.
type EventType byte

const (
	// EventReset reports a PR line: the unit cleared its capture buffer at
	// the start of an acquisition. The timestamp accumulator restarts.
	EventReset EventType = iota

	// EventSample reports one decoded capture line; Event.Sample is non-nil.
	EventSample

	// EventEnd reports a PX line: the acquisition finished.
	EventEnd

	// EventDecodeFailure reports a capture line the decoder rejected;
	// Event.Err holds a *DecodeError carrying the offending line.
	EventDecodeFailure
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventReset:
		return "reset"
	case EventSample:
		return "sample"
	case EventEnd:
		return "end"
	case EventDecodeFailure:
		return "decodeFailure"
	default:
		return "unknown"
	}
}

// Sample is one decoded position-compare capture.
//
// Elapsed is in seconds, derived from the raw timestamp, the configured
// time scale and the accumulated 32-bit rollover offset. Field slots the
// capture mask did not enable stay zero; Mask records which slots are real.
type Sample struct {
	Timestamp uint32
	Elapsed   float64
	Mask      wire.CaptureMask
	Encoders  [4]int32
	SysBus    [2]uint32
	Dividers  [4]uint32
}

// Event is one decoder output delivered to subscribers.
type Event struct {
	Type   EventType
	Sample *Sample
	Err    error
}

// EventHandler consumes decoder events. Each subscription runs its handler
// on a dedicated goroutine fed by a bounded queue; when the handler falls
// behind, events are dropped for that subscriber and counted in
// [ConnectionMetrics.EventDropCount].
type EventHandler func(event Event)

// eventSub is one subscription: a bounded queue plus the closed flag that
// makes send and close safe to race.
type eventSub struct {
	id uint64
	ch chan Event

	mu     sync.Mutex
	closed bool
}

// send queues event without blocking. It reports whether the event was
// dropped because the queue is full; sending to a closed subscription is
// a silent no-op.
func (s *eventSub) send(event Event) (dropped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- event:
		return false
	default:
		return true
	}
}

func (s *eventSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// AddEventHandler subscribes handler to decoder events and returns a
// subscription id for [Connection.RemoveEventHandler].
//
// Subscriptions survive Close and Open cycles; they end when removed or
// when the connection's parent context is canceled.
func (c *Connection) AddEventHandler(handler EventHandler) (uint64, error) {
	if handler == nil {
		return 0, errors.New("zebra: event handler is nil")
	}

	id := c.subSeq.Add(1)
	sub := &eventSub{id: id, ch: make(chan Event, c.cfg.eventQueueSize)}

	name := fmt.Sprintf("eventHandler-%d", id)
	err := task.StartReceiver(c.eventMgr, name, sub.ch, func(event Event) bool {
		handler(event)

		return true
	}, nil)
	if err != nil {
		return 0, err
	}

	c.subs.Store(id, sub)

	return id, nil
}

// RemoveEventHandler cancels a subscription. Events already queued still
// drain to the handler before its goroutine exits.
func (c *Connection) RemoveEventHandler(id uint64) {
	sub, ok := c.subs.LoadAndDelete(id)
	if !ok {
		return
	}

	sub.close()
}

// dispatchEvent fans an event out to every subscription without blocking
// the decoder.
func (c *Connection) dispatchEvent(event Event) {
	c.subs.Range(func(id uint64, sub *eventSub) bool {
		if dropped := sub.send(event); dropped {
			c.metrics.incEventDropCount()
			c.logger.Warn("zebra: event queue full, dropping event",
				"subscription", id, "type", event.Type)
		}

		return true
	})
}
