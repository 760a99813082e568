package uart

import "log"

// Direction tells which side of the channel a FIFO serves.
type Direction int

// The two FIFO directions.
const (
	Tx Direction = iota
	Rx
)

// A FIFO is a fixed-capacity byte queue with a size trigger limit, modeled
// after the USIC channel FIFOs.
//
// A TX FIFO raises its service request when a pop brings the filling level
// below the trigger limit and the standard event is enabled. An RX FIFO
// raises its service request when a push brings the filling level above the
// trigger limit.
type FIFO struct {
	name     string
	dir      Direction
	capacity int
	limit    int
	data     []byte

	eventEnabled   bool
	serviceRequest func()
}

// NewFIFO creates a FIFO with the given capacity and trigger limit. The
// service request callback may be nil, in which case trigger events are
// silently dropped.
func NewFIFO(
	name string,
	dir Direction,
	capacity, limit int,
	serviceRequest func(),
) *FIFO {
	return &FIFO{
		name:           name,
		dir:            dir,
		capacity:       capacity,
		limit:          limit,
		eventEnabled:   true,
		serviceRequest: serviceRequest,
	}
}

// Name returns the name of the FIFO.
func (f *FIFO) Name() string {
	return f.name
}

// Full returns true when no more bytes can be pushed.
func (f *FIFO) Full() bool {
	return len(f.data) >= f.capacity
}

// Empty returns true when the FIFO holds no bytes.
func (f *FIFO) Empty() bool {
	return len(f.data) == 0
}

// Size returns the current filling level.
func (f *FIFO) Size() int {
	return len(f.data)
}

// Capacity returns the number of bytes the FIFO can hold.
func (f *FIFO) Capacity() int {
	return f.capacity
}

// TriggerLimit returns the current size trigger limit.
func (f *FIFO) TriggerLimit() int {
	return f.limit
}

// Push adds a byte. Pushing into a full FIFO is a modeling error; the
// hardware never accepts a write when full and callers must check first.
func (f *FIFO) Push(b byte) {
	if f.Full() {
		log.Panicf("FIFO %s overflow", f.name)
	}

	f.data = append(f.data, b)

	if f.dir == Rx && f.eventEnabled && len(f.data) > f.limit {
		f.raise()
	}
}

// Pop removes and returns the oldest byte.
func (f *FIFO) Pop() byte {
	if f.Empty() {
		log.Panicf("FIFO %s underflow", f.name)
	}

	b := f.data[0]
	f.data = f.data[1:]

	if f.dir == Tx && f.eventEnabled && len(f.data) < f.limit {
		f.raise()
	}

	return b
}

func (f *FIFO) raise() {
	if f.serviceRequest != nil {
		f.serviceRequest()
	}
}

// SetSizeTriggerLimit reprograms the trigger limit. The firmware lowers the
// RX limit as the expected tail shrinks; a value of -1 is accepted and, for
// an RX FIFO, would fire on any push.
func (f *FIFO) SetSizeTriggerLimit(limit int) {
	f.limit = limit
}

// DisableEvent stops the FIFO from raising its service request.
func (f *FIFO) DisableEvent() {
	f.eventEnabled = false
}

// EnableEvent lets the FIFO raise its service request again.
func (f *FIFO) EnableEvent() {
	f.eventEnabled = true
}
