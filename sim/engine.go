package sim

// An Engine maintains the events scheduled in a simulation and runs them in
// virtual-time order.
type Engine interface {
	Hookable

	// Schedule registers an event to happen in the future.
	Schedule(e Event)

	// Run processes all the scheduled events until none remain.
	Run() error

	// Pause prevents the engine from triggering more events.
	Pause()

	// Continue allows a paused engine to trigger more events.
	Continue()

	// CurrentTime returns the current virtual time, specifically the run
	// time of the event being processed.
	CurrentTime() VTimeInSec
}
