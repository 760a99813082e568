package firmware

import (
	"github.com/mcusim/uartloop/hw/gpio"
	"github.com/mcusim/uartloop/sim"
)

// Comparator is the main loop of the firmware. It polls the completion
// signal and, when set, compares the transmit and receive buffers byte by
// byte, driving the user LED for every index.
//
// The LED is driven HIGH on a match and LOW on a mismatch for each index in
// turn, so the level left after a pass reflects only the last index
// compared. The original firmware has the same behavior and this port keeps
// it rather than folding the comparison into a single AND.
type Comparator struct {
	*sim.TickingComponent

	session *Session
	led     *gpio.Port
	pin     int
	variant gpio.Variant

	passes int
}

// NewComparator creates the main-loop component. It polls at the channel's
// frame rate.
func NewComparator(
	name string,
	engine sim.Engine,
	baud sim.Baud,
	session *Session,
	led *gpio.Port,
	pin int,
	variant gpio.Variant,
) *Comparator {
	c := new(Comparator)
	c.TickingComponent = sim.NewTickingComponent(name, engine, baud, c)
	c.session = session
	c.led = led
	c.pin = pin
	c.variant = variant

	session.OnComplete(c.TickLater)

	return c
}

// Tick is one trip around the main loop: check the completion signal and,
// if set, run a comparison pass and clear the signal.
func (c *Comparator) Tick() bool {
	s := c.session

	if !s.Completed() {
		return false
	}

	for i := 0; i < s.Len(); i++ {
		if s.txData[i] != s.rxData[i] {
			c.led.SetOutputLevel(c.pin, c.variant.Low())
		} else {
			c.led.SetOutputLevel(c.pin, c.variant.High())
		}
	}

	s.clearCompleted()
	c.passes++

	return true
}

// Passes returns how many comparison passes have run.
func (c *Comparator) Passes() int {
	return c.passes
}

// LEDLit reports whether the user LED is lit.
func (c *Comparator) LEDLit() bool {
	return c.variant.Lit(c.led.OutputHigh(c.pin))
}
