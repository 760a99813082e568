// Package irq models an NVIC-style interrupt controller. Peripherals pend
// request lines; the controller services all enabled pending lines in
// priority order at the current virtual time.
package irq

import (
	"log"
	"sort"

	"github.com/mcusim/uartloop/sim"
)

// A Line identifies an interrupt request line.
type Line int

// A Service is an interrupt service routine registered in the vector table.
type Service func()

// HookPosDispatch marks when a line is dispatched to its service routine.
// The hook Item is the Line and the Detail is its priority.
var HookPosDispatch = &sim.HookPos{Name: "IRQ Dispatch"}

type lineState struct {
	priority int
	enabled  bool
	pending  bool
	isr      Service
}

// Controller dispatches interrupt request lines to their service routines.
//
// A lower priority value wins, as on Cortex-M cores. Lines that are pended
// while disabled stay pending and are serviced once the line is enabled
// again.
type Controller struct {
	*sim.ComponentBase

	engine sim.Engine
	lines  map[Line]*lineState

	dispatchScheduled bool
}

// NewController creates an interrupt controller.
func NewController(name string, engine sim.Engine) *Controller {
	c := new(Controller)
	c.ComponentBase = sim.NewComponentBase(name)
	c.engine = engine
	c.lines = make(map[Line]*lineState)
	return c
}

// Register installs the service routine for a line, creating the line if it
// does not exist yet. Lines start disabled with the lowest priority.
func (c *Controller) Register(line Line, isr Service) {
	s := c.line(line)
	s.isr = isr
}

func (c *Controller) line(line Line) *lineState {
	s, ok := c.lines[line]
	if !ok {
		s = &lineState{priority: 255}
		c.lines[line] = s
	}
	return s
}

// SetPriority sets the priority of a line. Lower values are serviced first.
func (c *Controller) SetPriority(line Line, priority int) {
	c.line(line).priority = priority
}

// Enable allows a line to be serviced. A line that is already pending is
// dispatched.
func (c *Controller) Enable(line Line) {
	s := c.line(line)
	s.enabled = true
	if s.pending {
		c.scheduleDispatch()
	}
}

// Disable prevents a line from being serviced. Pending state is retained.
func (c *Controller) Disable(line Line) {
	c.line(line).enabled = false
}

// Pend marks a line as pending and schedules a dispatch at the current
// virtual time. Hardware service requests call Pend.
func (c *Controller) Pend(line Line) {
	s := c.line(line)
	s.pending = true
	if s.enabled {
		c.scheduleDispatch()
	}
}

func (c *Controller) scheduleDispatch() {
	if c.dispatchScheduled {
		return
	}
	c.dispatchScheduled = true

	evt := dispatchEvent{sim.NewEventBase(c.engine.CurrentTime(), c)}
	c.engine.Schedule(evt)
}

type dispatchEvent struct {
	*sim.EventBase
}

// Handle services all enabled pending lines in priority order. Service
// routines may pend further lines; those are serviced in the same pass.
func (c *Controller) Handle(e sim.Event) error {
	switch e.(type) {
	case dispatchEvent:
		c.dispatchScheduled = false
		c.dispatchAll()
	default:
		log.Panicf("cannot handle event of type %T", e)
	}
	return nil
}

func (c *Controller) dispatchAll() {
	for {
		line, s := c.nextServiceable()
		if s == nil {
			return
		}

		s.pending = false

		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosDispatch,
			Item:   line,
			Detail: s.priority,
		})

		if s.isr == nil {
			log.Panicf("no service routine registered for IRQ line %d", line)
		}
		s.isr()
	}
}

// nextServiceable picks the enabled pending line with the smallest priority
// value, breaking ties on the line number so dispatch is deterministic.
func (c *Controller) nextServiceable() (Line, *lineState) {
	var bestLine Line
	var best *lineState

	for line, s := range c.lines {
		if !s.enabled || !s.pending {
			continue
		}
		if best == nil ||
			s.priority < best.priority ||
			(s.priority == best.priority && line < bestLine) {
			bestLine = line
			best = s
		}
	}

	return bestLine, best
}

// Status describes the controller state for inspection.
type Status struct {
	Lines []LineStatus `json:"lines"`
}

// LineStatus describes one IRQ line for inspection.
type LineStatus struct {
	Line     Line `json:"line"`
	Priority int  `json:"priority"`
	Enabled  bool `json:"enabled"`
	Pending  bool `json:"pending"`
}

// CurrentStatus returns a snapshot of all registered lines.
func (c *Controller) CurrentStatus() Status {
	st := Status{}
	for line, s := range c.lines {
		st.Lines = append(st.Lines, LineStatus{
			Line:     line,
			Priority: s.priority,
			Enabled:  s.enabled,
			Pending:  s.pending,
		})
	}

	sort.Slice(st.Lines, func(i, j int) bool {
		return st.Lines[i].Line < st.Lines[j].Line
	})

	return st
}
