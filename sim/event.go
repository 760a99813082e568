// Package sim provides the discrete-event core that the simulated
// microcontroller hardware is built on. Virtual time is measured in seconds;
// events are scheduled on an engine and delivered to the handler that owns
// them.
package sim

// VTimeInSec is the time in the simulated space, in seconds.
type VTimeInSec float64

// An Event is something going to happen in the future.
type Event interface {
	// Time returns the time at which the event should happen.
	Time() VTimeInSec

	// Handler returns the handler that handles the event.
	Handler() Handler
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler
	return e
}

// Time returns the time that the event is going to happen.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler defines a domain for events.
//
// An event is always constrained to one Handler: it can only be scheduled by
// that handler and can only directly modify that handler's state. The only
// exception is the kick-start of a run, where the board bring-up schedules
// the first events for the hardware components.
type Handler interface {
	Handle(e Event) error
}
